package anchor

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestAllIsCumulative(t *testing.T) {
	lines := []string{"a", "b", "c"}
	h1 := All(lines)
	lines2 := []string{"a", "B", "c"}
	h2 := All(lines2)
	if h1[0] != h2[0] {
		t.Fatalf("line 1 hash should be unaffected by a later edit: %v vs %v", h1, h2)
	}
	if h1[1] == h2[1] {
		t.Fatalf("line 2 hash should change when line 2 changes")
	}
	if h1[2] == h2[2] {
		t.Fatalf("line 3 hash should change when an earlier line changes (cumulative chain)")
	}
}

func TestAllNeverProducesReservedHash(t *testing.T) {
	for _, s := range [][]string{{""}, {"x", "y", "z"}, {"\x00\x01"}} {
		for _, h := range All(s) {
			if h == Deleted {
				t.Fatalf("produced reserved deleted-hash from real content: %q", s)
			}
			if len(h) != 2 {
				t.Fatalf("expected 2-char hash, got %q", h)
			}
			for _, r := range h {
				if !strings.ContainsRune(Alphabet, r) {
					t.Fatalf("hash char %q outside alphabet", r)
				}
			}
		}
	}
}

func TestParseValid(t *testing.T) {
	a, err := Parse("8#RT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Line != 8 || a.Hash != "RT" {
		t.Fatalf("unexpected anchor: %+v", a)
	}
	if a.String() != "8#RT" {
		t.Fatalf("round trip mismatch: %s", a.String())
	}
}

func TestParseRejectsBadSyntax(t *testing.T) {
	cases := []string{"", "8RT", "8#R", "8#RTX", "0#RT", "-1#RT", "8#r!", "8# T"}
	for _, c := range cases {
		if _, err := Parse(c); err == nil {
			t.Fatalf("expected error parsing %q", c)
		}
	}
}

func TestParseRejectsReservedHash(t *testing.T) {
	if _, err := Parse("8#  "); err == nil {
		t.Fatalf("expected reserved hash to be rejected")
	}
}

func TestUnmarshalJSONStringForm(t *testing.T) {
	var a Anchor
	if err := json.Unmarshal([]byte(`"8#RT"`), &a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Line != 8 || a.Hash != "RT" {
		t.Fatalf("unexpected anchor: %+v", a)
	}
}

func TestUnmarshalJSONLegacyObjectForm(t *testing.T) {
	var a Anchor
	if err := json.Unmarshal([]byte(`{"line":8,"hash":"RT"}`), &a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Line != 8 || a.Hash != "RT" {
		t.Fatalf("unexpected anchor: %+v", a)
	}
}

func TestMarshalJSONUsesStringForm(t *testing.T) {
	b, err := json.Marshal(Anchor{Line: 8, Hash: "RT"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != `"8#RT"` {
		t.Fatalf("unexpected marshal output: %s", b)
	}
}
