package text

import (
	"errors"
	"fmt"
)

const (
	padSymbol   = "pad"
	eosSymbol   = "eos"
	punctuation = "!'(),.? "
	special     = "-"
	letters     = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

// ErrUnknownSymbol is returned by SymbolTable.ID for symbols outside the vocabulary.
var ErrUnknownSymbol = errors.New("unknown symbol")

// Symbols returns the vocabulary of the pretrained German Tacotron2 model.
// The order defines the ids and must not change.
func Symbols() []string {
	out := make([]string, 0, 2+len(special)+len(punctuation)+len(letters))
	out = append(out, padSymbol)
	for _, group := range []string{special, punctuation, letters} {
		for _, r := range group {
			out = append(out, string(r))
		}
	}
	out = append(out, eosSymbol)

	return out
}

// SymbolTable maps vocabulary symbols to model input ids.
// It is immutable after construction.
type SymbolTable struct {
	symbols []string
	ids     map[string]int
	padID   int
	eosID   int
}

// NewSymbolTable builds a table where each symbol's id is its position in
// symbols. The vocabulary must contain the "pad" and "eos" markers.
func NewSymbolTable(symbols []string) (*SymbolTable, error) {
	ids := make(map[string]int, len(symbols))
	for i, s := range symbols {
		if _, dup := ids[s]; dup {
			return nil, fmt.Errorf("duplicate symbol %q at index %d", s, i)
		}
		ids[s] = i
	}

	padID, ok := ids[padSymbol]
	if !ok {
		return nil, fmt.Errorf("vocabulary has no %q symbol", padSymbol)
	}
	eosID, ok := ids[eosSymbol]
	if !ok {
		return nil, fmt.Errorf("vocabulary has no %q symbol", eosSymbol)
	}

	return &SymbolTable{
		symbols: append([]string(nil), symbols...),
		ids:     ids,
		padID:   padID,
		eosID:   eosID,
	}, nil
}

// DefaultSymbolTable returns the table for Symbols().
func DefaultSymbolTable() *SymbolTable {
	t, err := NewSymbolTable(Symbols())
	if err != nil {
		panic(err)
	}

	return t
}

// ID returns the id of symbol, or ErrUnknownSymbol.
func (t *SymbolTable) ID(symbol string) (int, error) {
	id, ok := t.ids[symbol]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSymbol, symbol)
	}

	return id, nil
}

func (t *SymbolTable) Contains(symbol string) bool {
	_, ok := t.ids[symbol]
	return ok
}

func (t *SymbolTable) EOSID() int { return t.eosID }

func (t *SymbolTable) PadID() int { return t.padID }

func (t *SymbolTable) Len() int { return len(t.symbols) }

// Symbols returns a copy of the vocabulary in id order.
func (t *SymbolTable) Symbols() []string {
	return append([]string(nil), t.symbols...)
}
