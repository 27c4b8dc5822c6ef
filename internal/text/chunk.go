package text

import "strings"

// ChunkBySentence splits text into chunks at sentence boundaries (., !, ?),
// grouping consecutive sentences together while staying within maxChars per chunk.
// If maxChars is 0, no splitting is performed.
// Sentences that individually exceed maxChars are kept intact as a single chunk.
func ChunkBySentence(text string, maxChars int) []string {
	if maxChars <= 0 {
		return []string{text}
	}

	sentences := splitSentences(text)
	if len(sentences) <= 1 {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder

	for _, s := range sentences {
		if current.Len() == 0 {
			current.WriteString(s)
			continue
		}
		if current.Len()+1+len(s) > maxChars {
			chunks = append(chunks, current.String())
			current.Reset()
			current.WriteString(s)
		} else {
			current.WriteByte(' ')
			current.WriteString(s)
		}
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}

// splitSentences splits text after sentence-ending punctuation that is
// followed by whitespace or the end of input. Dotted abbreviations such as
// "z.B." and numbers such as "1.000" stay whole. Terminators inside a {...} phoneme span never split.
// Empty segments are dropped.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	inSpan := false

	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case c == '{':
			inSpan = true
		case c == '}':
			inSpan = false
		case inSpan:
		case c == '.' || c == '!' || c == '?':
			if i+1 < len(text) && !isSpaceByte(text[i+1]) {
				continue
			}
			if c == '.' && isAbbreviation(text[start:i]) {
				continue
			}
			s := strings.TrimSpace(text[start : i+1])
			if s != "" {
				sentences = append(sentences, s)
			}
			start = i + 1
		}
	}

	if start < len(text) {
		s := strings.TrimSpace(text[start:])
		if s != "" {
			sentences = append(sentences, s)
		}
	}

	return sentences
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// isAbbreviation reports whether the last word of s already contains a dot.
// Trailing dots belong to an ellipsis and do not count.
func isAbbreviation(s string) bool {
	word := s[strings.LastIndexAny(s, " \t\n\r")+1:]
	return strings.Contains(strings.TrimRight(word, "."), ".")
}
