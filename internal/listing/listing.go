// Package listing renders a file buffer as the hash-anchored text format
// ("<N>#<HH>:<content>\n") used by the read command and as the basis for
// the diff emitter's context lines. See spec §4.3.
package listing

import (
	"strconv"
	"strings"

	"hashline-tools/internal/anchor"
	"hashline-tools/internal/lineio"
)

// DefaultLimit is the maximum number of lines emitted when the caller does
// not specify one.
const DefaultLimit = 2000

// Render emits one "<N>#<HH>:<content>\n" row per line in [offset, offset+limit),
// 0-indexed on input, 1-indexed in the output. Hashes are always computed
// from the full cumulative chain; offset/limit only windows what's printed.
func Render(lines []lineio.Line, offset, limit int) string {
	contents := contentsOf(lines)
	hashes := anchor.All(contents)

	if offset < 0 {
		offset = 0
	}
	if offset > len(lines) {
		offset = len(lines)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	end := offset + limit
	if end > len(lines) || end < offset {
		end = len(lines)
	}

	var b strings.Builder
	for i := offset; i < end; i++ {
		b.WriteString(FormatRow(i+1, hashes[i], contents[i]))
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatRow renders one "<N>#<HH>:<content>" row without a trailing
// newline. Shared with the diff emitter, which prefixes the row with
// ' ', '+' or '-' instead of emitting it bare.
func FormatRow(line int, hash, content string) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(line))
	b.WriteByte('#')
	b.WriteString(hash)
	b.WriteByte(':')
	b.WriteString(content)
	return b.String()
}

func contentsOf(lines []lineio.Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Content
	}
	return out
}
