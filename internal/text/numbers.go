package text

import (
	"strconv"
	"strings"
)

var smallNumbers = [...]string{
	"null", "eins", "zwei", "drei", "vier", "fünf", "sechs", "sieben", "acht", "neun",
	"zehn", "elf", "zwölf", "dreizehn", "vierzehn", "fünfzehn", "sechzehn", "siebzehn", "achtzehn", "neunzehn",
}

var tensWords = [...]string{
	"", "", "zwanzig", "dreißig", "vierzig", "fünfzig", "sechzig", "siebzig", "achtzig", "neunzig",
}

var monthNames = [...]string{
	"", "Januar", "Februar", "März", "April", "Mai", "Juni",
	"Juli", "August", "September", "Oktober", "November", "Dezember",
}

// maxSpelledNumber bounds NumberToWords; longer digit runs are read digit by digit.
const maxSpelledNumber = 999_999_999_999

// NumberToWords spells n as a German cardinal, e.g. 21 -> "einundzwanzig".
// Millions and above are separate words ("zwei Millionen dreihundert").
// Magnitudes above maxSpelledNumber are read digit by digit.
func NumberToWords(n int64) string {
	if n > maxSpelledNumber || n < -maxSpelledNumber {
		digits := DigitsToWords(strconv.FormatInt(n, 10))
		if n < 0 {
			return "minus " + digits
		}
		return digits
	}
	if n < 0 {
		return "minus " + NumberToWords(-n)
	}
	if n == 0 {
		return smallNumbers[0]
	}

	var parts []string
	if billions := n / 1_000_000_000; billions > 0 {
		parts = append(parts, scaleWord(billions, "Milliarde", "Milliarden"))
		n %= 1_000_000_000
	}
	if millions := n / 1_000_000; millions > 0 {
		parts = append(parts, scaleWord(millions, "Million", "Millionen"))
		n %= 1_000_000
	}
	if n > 0 {
		parts = append(parts, belowMillion(n))
	}

	return strings.Join(parts, " ")
}

func scaleWord(count int64, singular, plural string) string {
	if count == 1 {
		return "eine " + singular
	}

	return belowThousand(count) + " " + plural
}

func belowMillion(n int64) string {
	thousands, rest := n/1000, n%1000
	if thousands == 0 {
		return belowThousand(rest)
	}

	var b strings.Builder
	b.WriteString(attributive(belowThousand(thousands)))
	b.WriteString("tausend")
	if rest > 0 {
		b.WriteString(belowThousand(rest))
	}

	return b.String()
}

func belowThousand(n int64) string {
	hundreds, rest := n/100, n%100
	if hundreds == 0 {
		return belowHundred(rest)
	}

	var b strings.Builder
	b.WriteString(attributive(smallNumbers[hundreds]))
	b.WriteString("hundert")
	if rest > 0 {
		b.WriteString(belowHundred(rest))
	}

	return b.String()
}

func belowHundred(n int64) string {
	if n < 20 {
		return smallNumbers[n]
	}

	tens, unit := n/10, n%10
	if unit == 0 {
		return tensWords[tens]
	}

	return attributive(smallNumbers[unit]) + "und" + tensWords[tens]
}

// attributive turns a trailing "eins" into "ein" as used before a multiplier.
func attributive(word string) string {
	if strings.HasSuffix(word, "eins") {
		return strings.TrimSuffix(word, "s")
	}

	return word
}

// OrdinalToWords spells n as a German ordinal in the masculine nominative,
// e.g. 3 -> "dritter", 21 -> "einundzwanzigster".
func OrdinalToWords(n int64) string {
	switch n {
	case 1:
		return "erster"
	case 3:
		return "dritter"
	case 7:
		return "siebter"
	case 8:
		return "achter"
	}

	word := NumberToWords(n)
	if n < 20 {
		return word + "ter"
	}

	return word + "ster"
}

// YearToWords reads years from 1100 to 1999 in hundreds ("neunzehnhundertneunundneunzig")
// and every other year as a cardinal.
func YearToWords(year int64) string {
	if year < 1100 || year > 1999 {
		return NumberToWords(year)
	}

	century, rest := year/100, year%100
	word := belowHundred(century) + "hundert"
	if rest > 0 {
		word += belowHundred(rest)
	}

	return word
}

// DigitsToWords reads every digit of s separately, e.g. "14" -> "eins vier".
func DigitsToWords(s string) string {
	words := make([]string, 0, len(s))
	for _, r := range s {
		if r < '0' || r > '9' {
			continue
		}
		words = append(words, smallNumbers[r-'0'])
	}

	return strings.Join(words, " ")
}

// digitsToWords spells a run of ASCII digits, falling back to digit-by-digit
// reading when the value is too large or has a leading zero.
func digitsToWords(digits string) string {
	if len(digits) > 1 && digits[0] == '0' {
		return DigitsToWords(digits)
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || n > maxSpelledNumber {
		return DigitsToWords(digits)
	}

	return NumberToWords(n)
}
