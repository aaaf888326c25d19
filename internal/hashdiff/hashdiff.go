// Package hashdiff renders the hash-anchored unified-style diff described
// in spec §4.7: ±5 lines of context around each change region, freshly
// hashed against the post-edit buffer, deleted lines carrying the
// reserved two-space hash, nearby regions merged, far ones separated by a
// "..." gap marker.
package hashdiff

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"hashline-tools/internal/anchor"
	"hashline-tools/internal/editapply"
	"hashline-tools/internal/editplan"
	"hashline-tools/internal/lineio"
	"hashline-tools/internal/listing"
)

const (
	contextLines   = 5
	mergeThreshold = 10
)

// Note is the mandatory trailing line inside the diff envelope (spec §4.7).
const Note = "Note: Lines after edited regions have stale hashes. Use hashread to refresh."

// Result carries the rendered <diff> envelope plus the first affected
// post-edit line, which the caller reports outside the envelope.
type Result struct {
	Envelope        string
	FirstChangeLine int
	Changed         bool
}

// Emit builds the diff for one edit's effect on path.
func Emit(path string, pre, post []lineio.Line, changes []editapply.Change) Result {
	preContents := contentsOf(pre)
	postContents := contentsOf(post)
	postHashes := anchor.All(postContents)

	real := filterNoOps(changes, preContents, postContents)
	if len(real) == 0 {
		return Result{Envelope: envelope(path, ""), FirstChangeLine: firstLine(changes), Changed: false}
	}

	clusters := cluster(real)
	hunks := make([]string, 0, len(clusters))
	for _, cl := range clusters {
		hunks = append(hunks, renderCluster(cl, real, preContents, postContents, postHashes, len(postContents)))
	}

	return Result{
		Envelope:        envelope(path, strings.Join(hunks, "...\n")),
		FirstChangeLine: real[0].PostRange.Start,
		Changed:         true,
	}
}

func envelope(path, body string) string {
	var b strings.Builder
	b.WriteString("<diff>\n--- ")
	b.WriteString(path)
	b.WriteString("\n+++ ")
	b.WriteString(path)
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString(Note)
	b.WriteString("\n</diff>\n")
	return b.String()
}

func firstLine(changes []editapply.Change) int {
	if len(changes) == 0 {
		return 1
	}
	return changes[0].PostRange.Start
}

// filterNoOps drops replace changes whose requested content is identical
// to what was there before (spec §8 property 3: idempotent no-op), using
// difflib to decide "identical" precisely rather than by approximation.
func filterNoOps(changes []editapply.Change, pre, post []string) []editapply.Change {
	out := make([]editapply.Change, 0, len(changes))
	for _, c := range changes {
		if c.Kind == editplan.KindReplace && isNoOp(c, pre, post) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func isNoOp(c editapply.Change, pre, post []string) bool {
	a := pre[c.PreRange.Start-1 : c.PreRange.End-1]
	b := post[c.PostRange.Start-1 : c.PostRange.End-1]
	if len(a) != len(b) {
		return false
	}
	return difflib.NewMatcher(a, b).Ratio() == 1.0
}

// clusterRange groups nearby changes into one rendered hunk.
type clusterRange struct {
	idxs               []int
	coreStart, coreEnd int
}

// cluster merges changes whose post-edit regions are within
// mergeThreshold lines of each other, per spec §4.7.
func cluster(real []editapply.Change) []clusterRange {
	var out []clusterRange
	for i, c := range real {
		cs, ce := c.PostRange.Start, c.PostRange.End
		if n := len(out); n > 0 {
			last := &out[n-1]
			if cs-last.coreEnd <= mergeThreshold {
				if ce > last.coreEnd {
					last.coreEnd = ce
				}
				last.idxs = append(last.idxs, i)
				continue
			}
		}
		out = append(out, clusterRange{idxs: []int{i}, coreStart: cs, coreEnd: ce})
	}
	return out
}

func renderCluster(cl clusterRange, real []editapply.Change, preContents, postContents, postHashes []string, totalPost int) string {
	winStart := cl.coreStart - contextLines
	if winStart < 1 {
		winStart = 1
	}
	winEnd := (cl.coreEnd - 1) + contextLines
	if winEnd > totalPost {
		winEnd = totalPost
	}

	var b strings.Builder
	cursor := winStart
	for _, idx := range cl.idxs {
		c := real[idx]
		for ln := cursor; ln < c.PostRange.Start && ln <= winEnd; ln++ {
			writeRow(&b, ' ', ln, postHashes[ln-1], postContents[ln-1])
		}
		if c.PostRange.Start > cursor {
			cursor = c.PostRange.Start
		}
		if c.Kind == editplan.KindDelete || c.Kind == editplan.KindReplace {
			for ln := c.PreRange.Start; ln < c.PreRange.End; ln++ {
				writeRow(&b, '-', ln, anchor.Deleted, preContents[ln-1])
			}
		}
		if c.Kind == editplan.KindInsert || c.Kind == editplan.KindReplace {
			for ln := c.PostRange.Start; ln < c.PostRange.End; ln++ {
				writeRow(&b, '+', ln, postHashes[ln-1], postContents[ln-1])
			}
			cursor = c.PostRange.End
		}
	}
	for ln := cursor; ln <= winEnd; ln++ {
		writeRow(&b, ' ', ln, postHashes[ln-1], postContents[ln-1])
	}
	return b.String()
}

func writeRow(b *strings.Builder, prefix byte, line int, hash, content string) {
	b.WriteByte(prefix)
	b.WriteString(listing.FormatRow(line, hash, content))
	b.WriteByte('\n')
}

func contentsOf(lines []lineio.Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Content
	}
	return out
}
