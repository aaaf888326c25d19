// Package editapply executes a resolved edit plan against an in-memory
// line buffer, producing the new buffer and a change map the diff emitter
// uses to find what to show (spec §3 "Change map", §4.6).
package editapply

import (
	"hashline-tools/internal/editplan"
	"hashline-tools/internal/lineio"
)

// Change records where one resolved edit ended up in the new buffer.
type Change struct {
	Index     int // matches editplan.ResolvedEdit.Index
	Kind      editplan.Kind
	PreRange  editplan.Interval // target interval in the original buffer
	PostRange editplan.Interval // interval the edit now occupies in the new buffer
}

// Apply walks the original buffer and the plan in lockstep, emitting the
// new buffer and a Change per plan entry in plan order (ascending Start).
func Apply(original []lineio.Line, plan *editplan.Plan) ([]lineio.Line, []Change) {
	newLines := make([]lineio.Line, 0, len(original)+8)
	changes := make([]Change, 0, len(plan.Edits))

	pos := 1 // next original (1-indexed) line not yet copied
	for _, e := range plan.Edits {
		for ln := pos; ln < e.Interval.Start; ln++ {
			newLines = append(newLines, original[ln-1])
		}
		postBefore := len(newLines)

		switch e.Kind {
		case editplan.KindInsert:
			term := insertTerminator(e.Interval.Start, original)
			for _, s := range e.Lines {
				newLines = append(newLines, lineio.Line{Content: s, Terminator: term})
			}
		case editplan.KindReplace, editplan.KindDelete:
			origRange := original[e.Interval.Start-1 : e.Interval.End-1]
			for k, s := range e.Lines {
				term := lineio.LF
				if k < len(origRange) {
					term = origRange[k].Terminator
				}
				newLines = append(newLines, lineio.Line{Content: s, Terminator: term})
			}
		}
		pos = e.Interval.End

		changes = append(changes, Change{
			Index: e.Index, Kind: e.Kind,
			PreRange:  e.Interval,
			PostRange: editplan.Interval{Start: postBefore + 1, End: len(newLines) + 1},
		})
	}
	for ln := pos; ln <= len(original); ln++ {
		newLines = append(newLines, original[ln-1])
	}

	fixupTerminators(newLines)
	return newLines, changes
}

// insertTerminator picks the style for newly inserted lines: the
// terminator of the line immediately before the insertion point, or (at
// beginning of file) the line immediately after, falling back to LF. A
// None terminator isn't a real style to propagate, so it's treated as LF.
func insertTerminator(start int, original []lineio.Line) lineio.Terminator {
	if start-1 >= 1 && start-1 <= len(original) {
		return styleOf(original[start-2].Terminator)
	}
	if start >= 1 && start <= len(original) {
		return styleOf(original[start-1].Terminator)
	}
	return lineio.LF
}

func styleOf(t lineio.Terminator) lineio.Terminator {
	if t == lineio.None {
		return lineio.LF
	}
	return t
}

// fixupTerminators enforces the buffer invariant that only the final line
// may have terminator None.
func fixupTerminators(lines []lineio.Line) {
	for i := 0; i < len(lines)-1; i++ {
		if lines[i].Terminator == lineio.None {
			lines[i].Terminator = lineio.LF
		}
	}
}
