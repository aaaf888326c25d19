// Package hlerr defines the error kinds the hashline engine can surface and
// maps each to the CLI exit code from spec §6/§7. Kinds are distinct Go
// types, not a shared error-code constant, so callers can errors.As them.
package hlerr

import (
	"fmt"
	"strings"
)

// ExitArgs, ExitConflict, ExitIO and ExitUnexpected are the process exit
// codes defined by the command surface. Success is 0, not represented here.
const (
	ExitArgs       = 2
	ExitConflict   = 3
	ExitIO         = 4
	ExitUnexpected = 1
)

// InvalidAnchorSyntax reports an anchor string that does not match
// "<pos-int>#<2-char>".
type InvalidAnchorSyntax struct {
	Raw    string
	Reason string
}

func (e *InvalidAnchorSyntax) Error() string {
	return fmt.Sprintf("invalid anchor syntax %q: %s", e.Raw, e.Reason)
}

// AnchorOutOfRange reports a line number that doesn't exist in the buffer.
type AnchorOutOfRange struct {
	Line  int
	Total int
}

func (e *AnchorOutOfRange) Error() string {
	return fmt.Sprintf("line %d is out of range (file has %d lines)", e.Line, e.Total)
}

// Neighbor is one line of the diagnostic snippet attached to HashMismatch.
type Neighbor struct {
	Line    int
	Hash    string
	Content string
}

// HashMismatch reports an anchor whose line exists but whose hash is stale.
type HashMismatch struct {
	Line      int
	Cited     string
	Current   string
	Neighbors []Neighbor
}

func (e *HashMismatch) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "stale anchor %d#%s: current hash is %d#%s", e.Line, e.Cited, e.Line, e.Current)
	if len(e.Neighbors) > 0 {
		b.WriteString("\ncurrent view around the anchor:\n")
		for _, n := range e.Neighbors {
			fmt.Fprintf(&b, "  %d#%s:%s\n", n.Line, n.Hash, n.Content)
		}
	}
	return b.String()
}

// OverlappingEdits reports two edits whose target intervals conflict.
type OverlappingEdits struct {
	FirstIndex, SecondIndex int
	FirstRange, SecondRange [2]int
}

func (e *OverlappingEdits) Error() string {
	return fmt.Sprintf("edit %d [%d,%d) overlaps edit %d [%d,%d)",
		e.FirstIndex, e.FirstRange[0], e.FirstRange[1],
		e.SecondIndex, e.SecondRange[0], e.SecondRange[1])
}

// InvalidEditShape aggregates one or more structural problems found while
// decoding an edit batch (missing/mistyped fields). Modeled on the
// multi-issue aggregation idiom the teacher repo uses for manifest
// validation, generalized to a distinct error type.
type InvalidEditShape struct {
	Issues []string
}

func (e *InvalidEditShape) Error() string {
	return "invalid edit batch:\n  " + strings.Join(e.Issues, "\n  ")
}

// Add appends an issue, formatting like fmt.Sprintf.
func (e *InvalidEditShape) Add(format string, args ...any) {
	e.Issues = append(e.Issues, fmt.Sprintf(format, args...))
}

// Err returns nil if no issues were recorded, else e.
func (e *InvalidEditShape) Err() error {
	if e == nil || len(e.Issues) == 0 {
		return nil
	}
	return e
}

// EmptyEditBatch reports a batch with zero operations.
type EmptyEditBatch struct{}

func (e *EmptyEditBatch) Error() string { return "edit batch contains no operations" }

// IoError wraps an underlying filesystem failure.
type IoError struct {
	Op   string
	Path string
	Err  error
}

func (e *IoError) Error() string { return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err) }
func (e *IoError) Unwrap() error { return e.Err }

// EncodingError reports input bytes that are not valid UTF-8.
type EncodingError struct {
	Path string
}

func (e *EncodingError) Error() string { return fmt.Sprintf("%s: not valid UTF-8", e.Path) }

// ExitCode maps an error produced by this package to a process exit code.
// A nil error maps to 0; an error not recognized by this package maps to
// ExitUnexpected.
func ExitCode(err error) int {
	switch err.(type) {
	case nil:
		return 0
	case *InvalidAnchorSyntax, *InvalidEditShape, *EmptyEditBatch:
		return ExitArgs
	case *AnchorOutOfRange, *HashMismatch, *OverlappingEdits:
		return ExitConflict
	case *IoError, *EncodingError:
		return ExitIO
	default:
		return ExitUnexpected
	}
}
