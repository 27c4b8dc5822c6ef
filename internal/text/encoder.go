package text

import "strings"

// phonemeMarker prefixes tokens from a {...} span before vocabulary lookup so
// they do not collide with plain characters of the same spelling.
const phonemeMarker = "@"

// Normalizer expands raw text into the characters the model was trained on.
type Normalizer interface {
	Normalize(text string) string
}

// NormalizerFunc adapts a plain function to the Normalizer interface.
type NormalizerFunc func(string) string

func (f NormalizerFunc) Normalize(s string) string { return f(s) }

// Encoder turns German text into a symbol id sequence terminated by the
// end-of-sequence id. Text inside curly braces is read as whitespace
// separated phoneme tokens and bypasses normalization.
type Encoder struct {
	table      *SymbolTable
	normalizer Normalizer
}

func NewEncoder(table *SymbolTable, normalizer Normalizer) *Encoder {
	if normalizer == nil {
		normalizer = NormalizerFunc(func(s string) string { return s })
	}

	return &Encoder{table: table, normalizer: normalizer}
}

// Encode returns the id sequence for text. Characters and phoneme tokens that
// are not in the vocabulary are dropped without error.
func (e *Encoder) Encode(text string) []int {
	sequence := make([]int, 0, len(text)+1)

	rest := text
	for rest != "" {
		prefix, body, suffix, ok := splitEscape(rest)
		if !ok {
			sequence = e.appendText(sequence, rest)
			break
		}

		sequence = e.appendText(sequence, prefix)
		sequence = e.appendPhonemes(sequence, body)
		rest = suffix
	}

	return append(sequence, e.table.EOSID())
}

// EncodeInt32 is Encode with ids converted for the acoustic model input tensor.
func (e *Encoder) EncodeInt32(text string) []int32 {
	ids := e.Encode(text)

	out := make([]int32, len(ids))
	for i, id := range ids {
		out[i] = int32(id)
	}

	return out
}

func (e *Encoder) appendText(sequence []int, raw string) []int {
	if raw == "" {
		return sequence
	}

	for _, r := range e.normalizer.Normalize(raw) {
		sequence = e.appendSymbol(sequence, string(r))
	}

	return sequence
}

func (e *Encoder) appendPhonemes(sequence []int, body string) []int {
	for _, tok := range strings.Fields(body) {
		sequence = e.appendSymbol(sequence, phonemeMarker+tok)
	}

	return sequence
}

func (e *Encoder) appendSymbol(sequence []int, symbol string) []int {
	// "_" and "~" are reserved masking characters and never model input.
	if symbol == "_" || symbol == "~" {
		return sequence
	}

	id, ok := e.table.ids[symbol]
	if !ok {
		return sequence
	}

	return append(sequence, id)
}

// splitEscape locates the first "{" and the first "}" after it. The body is
// everything between them; there is no nesting.
func splitEscape(s string) (prefix, body, suffix string, ok bool) {
	open := strings.IndexByte(s, '{')
	if open < 0 {
		return "", "", "", false
	}

	closing := strings.IndexByte(s[open+1:], '}')
	if closing < 0 {
		return "", "", "", false
	}
	closing += open + 1

	return s[:open], s[open+1 : closing], s[closing+1:], true
}
