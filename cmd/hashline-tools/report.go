package main

import (
	"encoding/json"
	"fmt"
	"io"

	"hashline-tools/internal/engine"
	"hashline-tools/internal/hlerr"
)

// reportError prints a diagnostic to stderr with a per-kind, greppable
// prefix (SPEC_FULL.md "exit-code-accurate error printing") so a driving
// agent's wrapper can branch on the failure kind without parsing JSON.
func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "ERROR(%s): %v\n", errKind(err), err)
}

func errKind(err error) string {
	switch err.(type) {
	case *hlerr.InvalidAnchorSyntax:
		return "invalid-anchor"
	case *hlerr.AnchorOutOfRange:
		return "anchor-out-of-range"
	case *hlerr.HashMismatch:
		return "hash-mismatch"
	case *hlerr.OverlappingEdits:
		return "overlap"
	case *hlerr.InvalidEditShape:
		return "invalid-edit-shape"
	case *hlerr.EmptyEditBatch:
		return "empty-batch"
	case *hlerr.IoError:
		return "io"
	case *hlerr.EncodingError:
		return "encoding"
	default:
		return "unexpected"
	}
}

type jsonError struct {
	OK   bool   `json:"ok"`
	Kind string `json:"kind"`
	Err  string `json:"error"`
}

func printJSONError(w io.Writer, err error) {
	enc := json.NewEncoder(w)
	_ = enc.Encode(jsonError{OK: false, Kind: errKind(err), Err: err.Error()})
}

type jsonResult struct {
	OK    bool   `json:"ok"`
	Msg   string `json:"message"`
	Diff  string `json:"diff,omitempty"`
	Wrote bool   `json:"wrote"`
}

func printJSONSuccess(w io.Writer, res *engine.Result) {
	enc := json.NewEncoder(w)
	_ = enc.Encode(jsonResult{OK: true, Msg: res.Message, Diff: res.Diff, Wrote: res.Wrote})
}
