// Package textutil holds the one text-encoding check the engine needs: a
// rejection test for non-UTF-8 input (spec §4.1, §7 EncodingError). The
// teacher's version of this package also normalized line endings and
// padded trailing newlines; neither survives here, since hashline-tools'
// whole contract is to preserve a file's terminators exactly rather than
// normalize them (spec §9 "Terminator preservation").
package textutil

import "unicode/utf8"

// Valid reports whether b is well-formed UTF-8.
func Valid(b []byte) bool {
	return utf8.Valid(b)
}
