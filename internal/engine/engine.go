// Package engine composes L1–L7 over the filesystem for the two verbs the
// command surface exposes: read and edit (spec §2 data flow, §4.8). Apart
// from iowrite's own file handling, it is the only package that touches
// os.ReadFile/iowrite.Write outside of tests; the line, anchor, listing,
// plan, apply and diff packages work purely in memory.
package engine

import (
	"fmt"
	"os"

	"hashline-tools/internal/editapply"
	"hashline-tools/internal/editplan"
	"hashline-tools/internal/hashdiff"
	"hashline-tools/internal/hlerr"
	"hashline-tools/internal/iowrite"
	"hashline-tools/internal/lineio"
	"hashline-tools/internal/listing"
	"hashline-tools/internal/textutil"
)

// ReadFile renders path as a hash-anchored listing windowed by
// offset/limit (0-indexed offset, spec §4.3).
func ReadFile(path string, offset, limit int) (string, error) {
	data, err := readValid(path)
	if err != nil {
		return "", err
	}
	return listing.Render(lineio.Split(data), offset, limit), nil
}

// Options tunes how Edit behaves beyond the base spec (SPEC_FULL.md
// "edit --dry-run"). The zero value is the spec's default behavior.
type Options struct {
	DryRun bool
}

// Result is what the command surface reports to the caller: the one-line
// status outside the <diff> envelope, and the envelope itself (empty for
// the internal write variant, which reports a summary instead).
type Result struct {
	Message string
	Diff    string
	Wrote   bool
}

// Edit decodes editJSON, resolves it against path's current contents, and
// — unless opts.DryRun is set — writes the result back atomically. A
// single "write" op is treated as the internal full-file rewrite variant
// (spec §4.8) and short-circuits L4/L5/L6/L7; unlike every other op it
// never requires path to already exist (spec §4.7: "1 for a file created
// by write"), so the batch is decoded before the file is read.
func Edit(path string, editJSON []byte, opts Options) (*Result, error) {
	batch, err := editplan.DecodeBatch(editJSON)
	if err != nil {
		return nil, err
	}
	if len(batch) == 1 && batch[0].Op == editplan.OpWrite {
		return applyWrite(path, *batch[0].Content, opts)
	}

	data, err := readValid(path)
	if err != nil {
		return nil, err
	}
	pre := lineio.Split(data)
	plan, err := editplan.Build(batch, contentsOf(pre))
	if err != nil {
		return nil, err
	}
	post, changes := editapply.Apply(pre, plan)
	diff := hashdiff.Emit(path, pre, post, changes)

	if !opts.DryRun {
		if err := iowrite.Write(path, lineio.Join(post)); err != nil {
			return nil, err
		}
	}

	return &Result{
		Message: statusLine(opts.DryRun, diff.FirstChangeLine),
		Diff:    diff.Envelope,
		Wrote:   !opts.DryRun,
	}, nil
}

// applyWrite handles the internal "write" op: an unconditional full-file
// rewrite that reports a summary rather than a diff (spec §4.8).
func applyWrite(path, content string, opts Options) (*Result, error) {
	if !opts.DryRun {
		if err := iowrite.Write(path, []byte(content)); err != nil {
			return nil, err
		}
	}
	return &Result{Message: statusLine(opts.DryRun, 1), Wrote: !opts.DryRun}, nil
}

func statusLine(dryRun bool, firstChangeLine int) string {
	if dryRun {
		return fmt.Sprintf("Dry run: edit would apply successfully (first change at line %d).", firstChangeLine)
	}
	return fmt.Sprintf("Edit applied successfully (first change at line %d).", firstChangeLine)
}

func readValid(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &hlerr.IoError{Op: "read", Path: path, Err: err}
	}
	if !textutil.Valid(data) {
		return nil, &hlerr.EncodingError{Path: path}
	}
	return data, nil
}

func contentsOf(lines []lineio.Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Content
	}
	return out
}
