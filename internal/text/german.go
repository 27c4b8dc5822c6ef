package text

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// GermanOptions configures GermanNormalizer.
type GermanOptions struct {
	// Replace maps literal substrings to their substitution after all
	// expansions ran.
	Replace map[string]string
	// AbbreviationSeparator joins the spelled letters of an acronym.
	AbbreviationSeparator string
}

// DefaultGermanOptions returns the options the pretrained model was prepared with.
func DefaultGermanOptions() GermanOptions {
	return GermanOptions{
		Replace:               map[string]string{";": ",", ":": " "},
		AbbreviationSeparator: " -- ",
	}
}

// GermanNormalizer spells out numbers, dates, times, amounts, symbols,
// abbreviations and acronyms in German and folds the result to the model's
// Latin character set.
type GermanNormalizer struct {
	replaceKeys []string
	replace     map[string]string
	sep         string
}

func NewGermanNormalizer(opts GermanOptions) *GermanNormalizer {
	keys := make([]string, 0, len(opts.Replace))
	for k := range opts.Replace {
		if k != "" {
			keys = append(keys, k)
		}
	}
	// Longer keys first so overlapping substitutions are stable.
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	replace := make(map[string]string, len(keys))
	for _, k := range keys {
		replace[k] = opts.Replace[k]
	}

	return &GermanNormalizer{replaceKeys: keys, replace: replace, sep: opts.AbbreviationSeparator}
}

var (
	timePattern      = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\s*Uhr\b`)
	datePattern      = regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})\.(\d{4})\b`)
	euroAfterPattern = regexp.MustCompile(`(\d+)(?:,(\d{1,2}))?\s?(?:€|EUR\b)`)
	euroBeforePatt   = regexp.MustCompile(`€\s?(\d+)(?:,(\d{1,2}))?`)
	thousandsPattern = regexp.MustCompile(`\b\d{1,3}(?:\.\d{3})+\b`)
	decimalPattern   = regexp.MustCompile(`(\d+),(\d+)`)
	digitsPattern    = regexp.MustCompile(`\d+`)
	spaceRun         = regexp.MustCompile(`[\s\p{Zs}]+`)
)

var symbolWords = []struct{ symbol, word string }{
	{"%", " Prozent "},
	{"+", " plus "},
	{"=", " gleich "},
	{"&", " und "},
	{"§", " Paragraf "},
	{"°", " Grad "},
	{"<", " kleiner als "},
	{">", " größer als "},
}

var abbreviations = []struct{ abbr, word string }{
	{"z.B.", "zum Beispiel"},
	{"z. B.", "zum Beispiel"},
	{"d.h.", "das heißt"},
	{"d. h.", "das heißt"},
	{"u.a.", "unter anderem"},
	{"u. a.", "unter anderem"},
	{"bzw.", "beziehungsweise"},
	{"usw.", "und so weiter"},
	{"etc.", "et cetera"},
	{"evtl.", "eventuell"},
	{"ggf.", "gegebenenfalls"},
	{"inkl.", "inklusive"},
	{"vgl.", "vergleiche"},
	{"ca.", "circa"},
	{"Nr.", "Nummer"},
	{"Dr.", "Doktor"},
	{"Prof.", "Professor"},
	{"Hr.", "Herr"},
	{"Fr.", "Frau"},
	{"Str.", "Straße"},
	{"Tel.", "Telefon"},
}

var letterNames = map[rune]string{
	'A': "A", 'B': "Be", 'C': "Ze", 'D': "De", 'E': "E", 'F': "Ef", 'G': "Ge",
	'H': "Ha", 'I': "I", 'J': "Jott", 'K': "Ka", 'L': "El", 'M': "Em", 'N': "En",
	'O': "O", 'P': "Pe", 'Q': "Ku", 'R': "Er", 'S': "Es", 'T': "Te", 'U': "U",
	'V': "Fau", 'W': "We", 'X': "Ix", 'Y': "Ypsilon", 'Z': "Zett",
	'Ä': "Ä", 'Ö': "Ö", 'Ü': "Ü",
}

var scriptFolding = strings.NewReplacer(
	"ä", "ae", "ö", "oe", "ü", "ue",
	"Ä", "Ae", "Ö", "Oe", "Ü", "Ue",
	"ß", "ss", "ẞ", "SS",
	"–", "-", "—", "-", "‐", "-", "‑", "-",
	"’", "'", "‘", "'", "‚", "'", "´", "'", "`", "'",
	"„", "", "“", "", "”", "", "«", "", "»", "", "\"", "",
	"…", ".",
	"\r", " ", "\n", " ", "\t", " ",
)

// Normalize implements Normalizer. Runs of whitespace collapse to a single
// space. A leading or trailing run in s survives as one space so text next to
// a {...} span stays a separate word.
func (g *GermanNormalizer) Normalize(s string) string {
	lead, trail := edgeSpace(s)

	s = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ", "\t", " ").Replace(s)

	s = expandTimes(s)
	s = expandDates(s)
	s = expandMoney(s)
	s = expandSymbols(s)
	s = expandAbbreviations(s)
	s = g.spellAcronyms(s)
	s = expandNumbers(s)

	for _, k := range g.replaceKeys {
		s = strings.ReplaceAll(s, k, g.replace[k])
	}

	s = foldScript(s)

	s = strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
	if s == "" {
		if lead || trail {
			return " "
		}
		return ""
	}
	if lead {
		s = " " + s
	}
	if trail {
		s += " "
	}

	return s
}

func edgeSpace(s string) (lead, trail bool) {
	if s == "" {
		return false, false
	}

	first, _ := utf8.DecodeRuneInString(s)
	last, _ := utf8.DecodeLastRuneInString(s)

	return unicode.IsSpace(first), unicode.IsSpace(last)
}

func expandTimes(s string) string {
	return timePattern.ReplaceAllStringFunc(s, func(m string) string {
		sub := timePattern.FindStringSubmatch(m)
		hour, _ := strconv.ParseInt(sub[1], 10, 64)
		minute, _ := strconv.ParseInt(sub[2], 10, 64)
		if hour > 24 || minute > 59 {
			return m
		}

		out := attributive(NumberToWords(hour)) + " Uhr"
		if minute > 0 {
			out += " " + NumberToWords(minute)
		}

		return out
	})
}

func expandDates(s string) string {
	return datePattern.ReplaceAllStringFunc(s, func(m string) string {
		sub := datePattern.FindStringSubmatch(m)
		day, _ := strconv.ParseInt(sub[1], 10, 64)
		month, _ := strconv.ParseInt(sub[2], 10, 64)
		year, _ := strconv.ParseInt(sub[3], 10, 64)
		if day < 1 || day > 31 || month < 1 || month > 12 {
			return m
		}

		return OrdinalToWords(day) + " " + monthNames[month] + " " + YearToWords(year)
	})
}

func expandMoney(s string) string {
	s = euroAfterPattern.ReplaceAllStringFunc(s, func(m string) string {
		sub := euroAfterPattern.FindStringSubmatch(m)
		return euroWords(sub[1], sub[2])
	})

	return euroBeforePatt.ReplaceAllStringFunc(s, func(m string) string {
		sub := euroBeforePatt.FindStringSubmatch(m)
		return euroWords(sub[1], sub[2])
	})
}

func euroWords(euros, cents string) string {
	out := attributive(digitsToWords(euros)) + " Euro"
	if cents == "" {
		return out
	}
	if len(cents) == 1 {
		cents += "0"
	}
	if c, _ := strconv.ParseInt(cents, 10, 64); c > 0 {
		out += " " + NumberToWords(c)
	}

	return out
}

func expandSymbols(s string) string {
	for _, sw := range symbolWords {
		s = strings.ReplaceAll(s, sw.symbol, sw.word)
	}

	return s
}

// expandAbbreviations replaces dictionary abbreviations that start a word.
func expandAbbreviations(s string) string {
	for _, a := range abbreviations {
		var b strings.Builder
		rest := s
		for {
			i := strings.Index(rest, a.abbr)
			if i < 0 {
				b.WriteString(rest)
				break
			}
			b.WriteString(rest[:i])
			if startsWord(b.String()) {
				b.WriteString(a.word)
			} else {
				b.WriteString(a.abbr)
			}
			rest = rest[i+len(a.abbr):]
		}
		s = b.String()
	}

	return s
}

// startsWord reports whether text written so far ends at a word boundary.
func startsWord(before string) bool {
	if before == "" {
		return true
	}
	r := []rune(before)
	last := r[len(r)-1]

	return !unicode.IsLetter(last) && !unicode.IsDigit(last)
}

// spellAcronyms spells all-uppercase words of two to five letters with
// German letter names joined by the abbreviation separator.
func (g *GermanNormalizer) spellAcronyms(s string) string {
	var b strings.Builder
	var word []rune

	flush := func() {
		if isAcronym(word) {
			names := make([]string, len(word))
			for i, r := range word {
				names[i] = letterNames[r]
			}
			b.WriteString(strings.Join(names, g.sep))
		} else {
			b.WriteString(string(word))
		}
		word = word[:0]
	}

	for _, r := range s {
		if unicode.IsLetter(r) {
			word = append(word, r)
			continue
		}
		flush()
		b.WriteRune(r)
	}
	flush()

	return b.String()
}

func isAcronym(word []rune) bool {
	if len(word) < 2 || len(word) > 5 {
		return false
	}
	for _, r := range word {
		if _, ok := letterNames[r]; !ok {
			return false
		}
	}

	return true
}

func expandNumbers(s string) string {
	s = thousandsPattern.ReplaceAllStringFunc(s, func(m string) string {
		return strings.ReplaceAll(m, ".", "")
	})
	s = decimalPattern.ReplaceAllStringFunc(s, func(m string) string {
		sub := decimalPattern.FindStringSubmatch(m)
		return digitsToWords(sub[1]) + " Komma " + DigitsToWords(sub[2])
	})

	return digitsPattern.ReplaceAllStringFunc(s, digitsToWords)
}

func foldScript(s string) string {
	s = scriptFolding.Replace(s)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}

	return folded
}
