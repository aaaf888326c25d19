package editplan

import (
	"sort"

	"hashline-tools/internal/anchor"
	"hashline-tools/internal/hlerr"
)

// Kind classifies a resolved edit for the applier and the diff emitter.
type Kind int

const (
	KindReplace Kind = iota
	KindDelete
	KindInsert
)

// Interval is a half-open, 1-indexed [Start, End) range against the
// original buffer. Start == End marks an insertion point rather than a
// replaced/deleted range.
type Interval struct {
	Start, End int
}

// Empty reports whether iv is an insertion point.
func (iv Interval) Empty() bool { return iv.Start == iv.End }

// ResolvedEdit is one edit operation after anchor resolution, with its
// target interval against the pre-edit buffer and replacement content.
type ResolvedEdit struct {
	Index    int // position in the original request, for stable tie-breaks
	Op       Op
	Kind     Kind
	Interval Interval
	Lines    []string
	Priority int // append(0) < prepend(1) < replace/delete(2)
}

// Plan is the normalized, ordered, conflict-free edit batch, ready for the
// applier.
type Plan struct {
	Edits []ResolvedEdit
	Total int // line count of the pre-edit buffer
}

// Build resolves a validated batch against contents (the current buffer's
// line contents, in order) per spec §4.5.
func Build(batch []RawEdit, contents []string) (*Plan, error) {
	total := len(contents)
	hashes := anchor.All(contents)

	resolved := make([]ResolvedEdit, 0, len(batch))
	for i, e := range batch {
		re, err := resolveOne(i, e, contents, hashes, total)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, re)
	}

	sort.SliceStable(resolved, func(i, j int) bool {
		a, b := resolved[i], resolved[j]
		if a.Interval.Start != b.Interval.Start {
			return a.Interval.Start < b.Interval.Start
		}
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return a.Index < b.Index
	})

	if err := detectOverlaps(resolved); err != nil {
		return nil, err
	}

	return &Plan{Edits: resolved, Total: total}, nil
}

// priorityOf breaks ties between edits that resolve to the same Start: an
// append-after-k and a prepend-before-(k+1) land at the same offset, and
// spec.md §8 scenario S6 requires the append's inserted lines to precede
// the prepend's at that shared boundary, so append sorts first. A
// prepend-before-k sorts ahead of a replace/delete of line k so its lines
// land before the replacement.
func priorityOf(op Op) int {
	switch op {
	case OpAppend:
		return 0
	case OpPrepend:
		return 1
	default:
		return 2
	}
}

func resolveOne(i int, e RawEdit, contents, hashes []string, total int) (ResolvedEdit, error) {
	switch e.Op {
	case OpReplace, OpDelete:
		if err := checkAnchor(*e.Pos, contents, hashes, total); err != nil {
			return ResolvedEdit{}, err
		}
		start := e.Pos.Line
		end := start + 1
		if e.End != nil {
			if err := checkAnchor(*e.End, contents, hashes, total); err != nil {
				return ResolvedEdit{}, err
			}
			end = e.End.Line + 1
		}
		lines := e.Lines
		kind := KindReplace
		if e.Op == OpDelete {
			kind = KindDelete
			lines = nil
		}
		return ResolvedEdit{
			Index: i, Op: e.Op, Kind: kind,
			Interval: Interval{Start: start, End: end},
			Lines:    lines, Priority: priorityOf(e.Op),
		}, nil

	case OpAppend:
		offset := total + 1
		if e.Pos != nil {
			if err := checkAnchor(*e.Pos, contents, hashes, total); err != nil {
				return ResolvedEdit{}, err
			}
			offset = e.Pos.Line + 1
		}
		return ResolvedEdit{
			Index: i, Op: e.Op, Kind: KindInsert,
			Interval: Interval{Start: offset, End: offset},
			Lines:    e.Lines, Priority: priorityOf(e.Op),
		}, nil

	case OpPrepend:
		offset := 1
		if e.Pos != nil {
			if err := checkAnchor(*e.Pos, contents, hashes, total); err != nil {
				return ResolvedEdit{}, err
			}
			offset = e.Pos.Line
		}
		return ResolvedEdit{
			Index: i, Op: e.Op, Kind: KindInsert,
			Interval: Interval{Start: offset, End: offset},
			Lines:    e.Lines, Priority: priorityOf(e.Op),
		}, nil
	}
	// Unreachable: DecodeBatch rejects unknown ops before Build is called.
	return ResolvedEdit{}, &hlerr.InvalidEditShape{Issues: []string{"unknown op " + string(e.Op)}}
}

func checkAnchor(a anchor.Anchor, contents, hashes []string, total int) error {
	if a.Line < 1 || a.Line > total {
		return &hlerr.AnchorOutOfRange{Line: a.Line, Total: total}
	}
	cur := hashes[a.Line-1]
	if cur != a.Hash {
		return &hlerr.HashMismatch{
			Line: a.Line, Cited: a.Hash, Current: cur,
			Neighbors: buildNeighbors(a.Line, contents, hashes, total),
		}
	}
	return nil
}

func buildNeighbors(line int, contents, hashes []string, total int) []hlerr.Neighbor {
	var out []hlerr.Neighbor
	for l := line - 2; l <= line+2; l++ {
		if l < 1 || l > total {
			continue
		}
		out = append(out, hlerr.Neighbor{Line: l, Hash: hashes[l-1], Content: contents[l-1]})
	}
	return out
}

func detectOverlaps(edits []ResolvedEdit) error {
	for i := 0; i < len(edits); i++ {
		for j := i + 1; j < len(edits); j++ {
			if conflicts(edits[i], edits[j]) {
				return &hlerr.OverlappingEdits{
					FirstIndex: edits[i].Index, SecondIndex: edits[j].Index,
					FirstRange:  [2]int{edits[i].Interval.Start, edits[i].Interval.End},
					SecondRange: [2]int{edits[j].Interval.Start, edits[j].Interval.End},
				}
			}
		}
	}
	return nil
}

func conflicts(a, b ResolvedEdit) bool {
	aIns, bIns := a.Interval.Empty(), b.Interval.Empty()
	switch {
	case aIns && bIns:
		return false // two insertions at a shared point concatenate, in request order
	case !aIns && !bIns:
		return a.Interval.Start < b.Interval.End && b.Interval.Start < a.Interval.End
	default:
		ins, rng := a, b
		if bIns {
			ins, rng = b, a
		}
		o := ins.Interval.Start
		return rng.Interval.Start < o && o < rng.Interval.End
	}
}
