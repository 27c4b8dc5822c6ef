package main

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestEncodeCmd_PlainOutput(t *testing.T) {
	out, err := runRoot(t, "", "--cache-dir", t.TempDir(), "encode", "--text", "Hallo, Welt!")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	want := "17 36 47 47 50 6 9 32 40 47 55 2 62\n"
	if out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
}

func TestEncodeCmd_JSONFromStdin(t *testing.T) {
	out, err := runRoot(t, "Ja\n", "--cache-dir", t.TempDir(), "encode", "--json")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var ids []int
	if err := json.Unmarshal([]byte(out), &ids); err != nil {
		t.Fatalf("unmarshal %q: %v", out, err)
	}
	if !reflect.DeepEqual(ids, []int{19, 36, 62}) {
		t.Fatalf("ids = %v", ids)
	}
}

func TestEncodeCmd_ShowNormalized(t *testing.T) {
	out, err := runRoot(t, "", "--cache-dir", t.TempDir(), "encode", "--show-normalized", "--text", "Es ist 3 Uhr.")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("output lines = %q", lines)
	}
	if lines[0] != "Es ist drei Uhr." {
		t.Fatalf("normalized = %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], " 62") {
		t.Fatalf("ids line does not end with eos: %q", lines[1])
	}
}

func TestEncodeCmd_EmptyInput(t *testing.T) {
	if _, err := runRoot(t, "   ", "--cache-dir", t.TempDir(), "encode"); err == nil {
		t.Fatal("expected error for empty input")
	}
}
