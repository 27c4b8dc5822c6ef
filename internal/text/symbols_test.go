package text

import (
	"errors"
	"testing"
)

func TestSymbols_FrozenOrder(t *testing.T) {
	syms := Symbols()
	if len(syms) != 63 {
		t.Fatalf("len(Symbols()) = %d, want 63", len(syms))
	}

	checks := map[int]string{
		0:  "pad",
		1:  "-",
		2:  "!",
		3:  "'",
		4:  "(",
		5:  ")",
		6:  ",",
		7:  ".",
		8:  "?",
		9:  " ",
		10: "A",
		35: "Z",
		36: "a",
		61: "z",
		62: "eos",
	}
	for id, want := range checks {
		if syms[id] != want {
			t.Errorf("Symbols()[%d] = %q, want %q", id, syms[id], want)
		}
	}
}

func TestDefaultSymbolTable_IDs(t *testing.T) {
	table := DefaultSymbolTable()

	if table.PadID() != 0 {
		t.Errorf("PadID() = %d, want 0", table.PadID())
	}
	if table.EOSID() != table.Len()-1 {
		t.Errorf("EOSID() = %d, want %d", table.EOSID(), table.Len()-1)
	}

	for i, s := range table.Symbols() {
		id, err := table.ID(s)
		if err != nil {
			t.Fatalf("ID(%q): %v", s, err)
		}
		if id != i {
			t.Errorf("ID(%q) = %d, want %d", s, id, i)
		}
	}
}

func TestSymbolTable_UnknownSymbol(t *testing.T) {
	table := DefaultSymbolTable()

	for _, s := range []string{"ä", "@AH0", "_", "~", "", "ab"} {
		if table.Contains(s) {
			t.Errorf("Contains(%q) = true, want false", s)
		}
		_, err := table.ID(s)
		if !errors.Is(err, ErrUnknownSymbol) {
			t.Errorf("ID(%q) error = %v, want ErrUnknownSymbol", s, err)
		}
	}
}

func TestSymbolTable_SymbolsReturnsCopy(t *testing.T) {
	table := DefaultSymbolTable()

	syms := table.Symbols()
	syms[0] = "mutated"

	if table.Symbols()[0] != "pad" {
		t.Fatal("Symbols() exposed internal slice")
	}
	if !table.Contains("pad") {
		t.Fatal("table lost pad symbol after caller mutation")
	}
}

func TestNewSymbolTable_Validation(t *testing.T) {
	tests := []struct {
		name    string
		symbols []string
	}{
		{"missing pad", []string{"a", "eos"}},
		{"missing eos", []string{"pad", "a"}},
		{"duplicate", []string{"pad", "a", "a", "eos"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSymbolTable(tt.symbols); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNewSymbolTable_CustomVocabulary(t *testing.T) {
	table, err := NewSymbolTable([]string{"pad", "a", "@AH0", "eos"})
	if err != nil {
		t.Fatalf("NewSymbolTable: %v", err)
	}

	if id, _ := table.ID("@AH0"); id != 2 {
		t.Errorf("ID(@AH0) = %d, want 2", id)
	}
	if table.EOSID() != 3 {
		t.Errorf("EOSID() = %d, want 3", table.EOSID())
	}
}
