package editapply

import (
	"bytes"
	"testing"

	"hashline-tools/internal/anchor"
	"hashline-tools/internal/editplan"
	"hashline-tools/internal/lineio"
)

func buildPlan(t *testing.T, raw string, batch []editplan.RawEdit) (*editplan.Plan, []lineio.Line) {
	t.Helper()
	lines := lineio.Split([]byte(raw))
	contents := make([]string, len(lines))
	for i, l := range lines {
		contents[i] = l.Content
	}
	plan, err := editplan.Build(batch, contents)
	if err != nil {
		t.Fatalf("unexpected error building plan: %v", err)
	}
	return plan, lines
}

func TestApplySingleReplace(t *testing.T) {
	contents := []string{"a", "b", "c"}
	h := anchor.All(contents)
	plan, lines := buildPlan(t, "a\nb\nc\n", []editplan.RawEdit{
		{Op: editplan.OpReplace, Pos: &anchor.Anchor{Line: 2, Hash: h[1]}, Lines: []string{"B"}},
	})
	newLines, changes := Apply(lines, plan)
	got := lineio.Join(newLines)
	if !bytes.Equal(got, []byte("a\nB\nc\n")) {
		t.Fatalf("unexpected output: %q", got)
	}
	if len(changes) != 1 || changes[0].PostRange != (editplan.Interval{Start: 2, End: 3}) {
		t.Fatalf("unexpected changes: %+v", changes)
	}
}

func TestApplyRangeDelete(t *testing.T) {
	contents := []string{"a", "b", "c", "d", "e"}
	h := anchor.All(contents)
	plan, lines := buildPlan(t, "a\nb\nc\nd\ne\n", []editplan.RawEdit{
		{Op: editplan.OpDelete, Pos: &anchor.Anchor{Line: 2, Hash: h[1]}, End: &anchor.Anchor{Line: 4, Hash: h[3]}},
	})
	newLines, changes := Apply(lines, plan)
	got := lineio.Join(newLines)
	if !bytes.Equal(got, []byte("a\ne\n")) {
		t.Fatalf("unexpected output: %q", got)
	}
	if changes[0].PostRange.Start != changes[0].PostRange.End {
		t.Fatalf("expected empty post-range for a pure deletion, got %+v", changes[0].PostRange)
	}
}

func TestApplyAppendAtEOF(t *testing.T) {
	contents := []string{"x"}
	plan, lines := buildPlan(t, "x\n", []editplan.RawEdit{
		{Op: editplan.OpAppend, Lines: []string{"y", "z"}},
	})
	_ = contents
	newLines, _ := Apply(lines, plan)
	got := lineio.Join(newLines)
	if !bytes.Equal(got, []byte("x\ny\nz\n")) {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestApplyBoundaryInsertsOrder(t *testing.T) {
	contents := []string{"a", "b", "c", "d"}
	h := anchor.All(contents)
	plan, lines := buildPlan(t, "a\nb\nc\nd\n", []editplan.RawEdit{
		{Op: editplan.OpAppend, Pos: &anchor.Anchor{Line: 3, Hash: h[2]}, Lines: []string{"A"}},
		{Op: editplan.OpPrepend, Pos: &anchor.Anchor{Line: 4, Hash: h[3]}, Lines: []string{"P"}},
	})
	newLines, _ := Apply(lines, plan)
	got := lineio.Join(newLines)
	if !bytes.Equal(got, []byte("a\nb\nc\nA\nP\nd\n")) {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestApplyPreservesCRLF(t *testing.T) {
	contents := []string{"a", "b", "c"}
	h := anchor.All(contents)
	plan, lines := buildPlan(t, "a\r\nb\r\nc\r\n", []editplan.RawEdit{
		{Op: editplan.OpReplace, Pos: &anchor.Anchor{Line: 2, Hash: h[1]}, Lines: []string{"B"}},
	})
	newLines, _ := Apply(lines, plan)
	got := lineio.Join(newLines)
	if !bytes.Equal(got, []byte("a\r\nB\r\nc\r\n")) {
		t.Fatalf("expected CRLF preserved, got %q", got)
	}
}

func TestApplyNoTrailingNewlineStaysLastLineOnly(t *testing.T) {
	contents := []string{"a", "b"}
	h := anchor.All(contents)
	plan, lines := buildPlan(t, "a\nb", []editplan.RawEdit{
		{Op: editplan.OpAppend, Pos: &anchor.Anchor{Line: 1, Hash: h[0]}, Lines: []string{"X"}},
	})
	newLines, _ := Apply(lines, plan)
	got := lineio.Join(newLines)
	if !bytes.Equal(got, []byte("a\nX\nb")) {
		t.Fatalf("unexpected output: %q", got)
	}
	for i, l := range newLines {
		if i < len(newLines)-1 && l.Terminator == lineio.None {
			t.Fatalf("non-final line %d has None terminator", i)
		}
	}
	if newLines[len(newLines)-1].Terminator != lineio.None {
		t.Fatalf("expected final line to keep None terminator")
	}
}
