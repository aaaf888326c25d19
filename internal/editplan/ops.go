// Package editplan validates a batch of edit operations against a line
// buffer and resolves them into an ordered, conflict-free plan (spec §3
// "Edit plan", §4.5). It also owns the JSON decoding of the edit batch
// (spec §6 "Edit batch JSON").
package editplan

import (
	"encoding/json"
	"errors"

	"hashline-tools/internal/anchor"
	"hashline-tools/internal/hlerr"
)

// Op is the edit operation discriminator from the "op" field.
type Op string

const (
	OpReplace Op = "replace"
	OpAppend  Op = "append"
	OpPrepend Op = "prepend"
	OpDelete  Op = "delete"
	OpWrite   Op = "write"
)

// RawEdit is one element of the edit batch, before anchors are resolved
// against a particular buffer.
type RawEdit struct {
	Op      Op             `json:"op"`
	Pos     *anchor.Anchor `json:"pos,omitempty"`
	End     *anchor.Anchor `json:"end,omitempty"`
	Lines   []string       `json:"lines,omitempty"`
	Content *string        `json:"content,omitempty"`
}

// DecodeBatch parses a JSON edit batch and validates the shape of every
// element. It does not touch a file buffer — anchor hash/range resolution
// happens in Build.
func DecodeBatch(data []byte) ([]RawEdit, error) {
	var raw []RawEdit
	if err := json.Unmarshal(data, &raw); err != nil {
		var syntaxErr *hlerr.InvalidAnchorSyntax
		if errors.As(err, &syntaxErr) {
			return nil, syntaxErr
		}
		return nil, &hlerr.InvalidEditShape{Issues: []string{err.Error()}}
	}
	if len(raw) == 0 {
		return nil, &hlerr.EmptyEditBatch{}
	}

	var issues hlerr.InvalidEditShape
	writeCount := 0
	for i, e := range raw {
		validateShape(i, e, &issues)
		if e.Op == OpWrite {
			writeCount++
		}
	}
	if writeCount > 0 && len(raw) > 1 {
		issues.Add("op \"write\" must be the sole operation in a batch")
	}
	if err := issues.Err(); err != nil {
		return nil, err
	}
	return raw, nil
}

func validateShape(i int, e RawEdit, issues *hlerr.InvalidEditShape) {
	switch e.Op {
	case OpReplace:
		if e.Pos == nil {
			issues.Add("op[%d] replace: missing required \"pos\"", i)
		}
		if e.Lines == nil {
			issues.Add("op[%d] replace: missing required \"lines\"", i)
		}
		if e.Pos != nil && e.End != nil && e.End.Line < e.Pos.Line {
			issues.Add("op[%d] replace: \"end\" (%s) precedes \"pos\" (%s)", i, e.End, e.Pos)
		}
	case OpAppend:
		if e.Lines == nil {
			issues.Add("op[%d] append: missing required \"lines\"", i)
		}
	case OpPrepend:
		if e.Lines == nil {
			issues.Add("op[%d] prepend: missing required \"lines\"", i)
		}
	case OpDelete:
		if e.Pos == nil {
			issues.Add("op[%d] delete: missing required \"pos\"", i)
		}
		if e.Pos != nil && e.End != nil && e.End.Line < e.Pos.Line {
			issues.Add("op[%d] delete: \"end\" (%s) precedes \"pos\" (%s)", i, e.End, e.Pos)
		}
	case OpWrite:
		if e.Content == nil {
			issues.Add("op[%d] write: missing required \"content\"", i)
		}
	default:
		issues.Add("op[%d]: unknown op %q", i, e.Op)
	}
}
