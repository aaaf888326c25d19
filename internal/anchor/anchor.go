// Package anchor implements the hash discipline and anchor syntax defined
// by spec §3/§4.2/§4.4: a 2-character, content-derived tag per line, and
// the "<line>#<hash>" string an agent cites back to the engine.
package anchor

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"hashline-tools/internal/hlerr"
)

// Alphabet is the normative 36-symbol anchor alphabet. It deliberately
// excludes the space character so the reserved deleted-line hash ("  ")
// can never be produced from real content.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Deleted is the reserved hash used by the diff emitter to mark a deleted
// line. It must never be returned by All/One for real content.
const Deleted = "  "

var anchorRe = regexp.MustCompile(`^([0-9]+)#([0-9A-Z]{2})$`)

// Anchor is the (line-number, hash) pair an agent cites against the buffer.
type Anchor struct {
	Line int
	Hash string
}

// String renders the external "<line>#<hash>" form.
func (a Anchor) String() string {
	return fmt.Sprintf("%d#%s", a.Line, a.Hash)
}

// Parse validates and decodes the "<line>#<hash>" string form.
func Parse(raw string) (Anchor, error) {
	m := anchorRe.FindStringSubmatch(raw)
	if m == nil {
		return Anchor{}, anchorSyntaxError(raw)
	}
	line, err := strconv.Atoi(m[1])
	if err != nil || line <= 0 {
		return Anchor{}, anchorSyntaxError(raw)
	}
	return Anchor{Line: line, Hash: m[2]}, nil
}

// legacyAnchor is the deprecated {line,hash} object schema, accepted for
// one release's worth of backward compatibility per spec §4.4/§9.
type legacyAnchor struct {
	Line int    `json:"line"`
	Hash string `json:"hash"`
}

// UnmarshalJSON accepts either the "<line>#<hash>" string form or the
// legacy {"line":N,"hash":"HH"} object form, normalizing both to Anchor.
func (a *Anchor) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, perr := Parse(s)
		if perr != nil {
			return perr
		}
		*a = parsed
		return nil
	}
	var legacy legacyAnchor
	if err := json.Unmarshal(data, &legacy); err != nil {
		return fmt.Errorf("anchor: not a \"line#hash\" string or {line,hash} object: %w", err)
	}
	if legacy.Line <= 0 || len(legacy.Hash) != 2 {
		return anchorSyntaxError(fmt.Sprintf("%d#%s", legacy.Line, legacy.Hash))
	}
	for _, r := range legacy.Hash {
		if !isAlphabetRune(r) {
			return anchorSyntaxError(legacy.Hash)
		}
	}
	*a = Anchor{Line: legacy.Line, Hash: legacy.Hash}
	return nil
}

// MarshalJSON always emits the current "<line>#<hash>" schema.
func (a Anchor) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func isAlphabetRune(r rune) bool {
	for _, c := range Alphabet {
		if c == r {
			return true
		}
	}
	return false
}

// All computes the cumulative hash for every line of contents, in order.
// Hash i depends only on contents[0..i], per the chain discipline in
// spec §3: any change to an earlier line changes every hash from that
// point on. The chain is walked once with an incremental sha256 writer
// rather than rehashed from scratch per line.
func All(contents []string) []string {
	if len(contents) == 0 {
		return nil
	}
	out := make([]string, len(contents))
	h := sha256.New()
	for i, c := range contents {
		if i > 0 {
			h.Write([]byte{'\n'})
		}
		h.Write([]byte(c))
		out[i] = project(h.Sum(nil))
	}
	return out
}

// project maps a digest's leading two bytes into the 36x36 anchor space.
func project(digest []byte) string {
	a := Alphabet[digest[0]%36]
	b := Alphabet[digest[1]%36]
	return string([]byte{a, b})
}

func anchorSyntaxError(raw string) *hlerr.InvalidAnchorSyntax {
	reason := "expected \"<positive-int>#<2-char-hash>\""
	m := anchorRe.FindStringSubmatch(raw)
	if m == nil && len(raw) > 0 {
		reason = "missing or malformed \"#\" separator, non-numeric line, or hash outside 0-9A-Z"
	}
	return &hlerr.InvalidAnchorSyntax{Raw: raw, Reason: reason}
}
