// Copyright (c) 2026 camp-sub001 contributors.

/*
Package chikuwa collects the small string and filesystem primitives shared by
nadeshiko's feed scanner and the ledger's atomic commit protocol: ASCII-only
case folding, tag-delimited substring ranges, natural ordering for display,
filesystem-safe filename sanitization, and ephemeral temp-path generation.

None of these depend on chiaki or nadeshiko; they are pure leaf utilities.
*/
package chikuwa

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Concat joins pieces with no separator, matching the original's
// chikuwa::concat helper used to build ledger tags and composite keys.
func Concat(pieces ...string) string {
	var b strings.Builder
	for _, p := range pieces {
		b.WriteString(p)
	}
	return b.String()
}

// InsensitiveContains reports whether haystack contains needle, folding case
// within the ASCII range only. Non-ASCII bytes are compared byte-for-byte,
// matching the spec's explicit "ASCII-only" scope (see SPEC_FULL.md §9).
func InsensitiveContains(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	h := toLowerASCII(haystack)
	n := toLowerASCII(needle)
	return strings.Contains(h, n)
}

// InsensitiveEqual reports whether a and b are equal under ASCII-only
// case-folding.
func InsensitiveEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return toLowerASCII(a) == toLowerASCII(b)
}

func toLowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// NaturalCompare orders two strings the way a human reads sequences of
// digits: runs of ASCII digits compare by numeric value rather than
// lexicographically, so "episode 9" sorts before "episode 10". Ties within a
// digit run, and any non-digit span, fall back to byte comparison.
//
// Returns -1, 0, or 1, matching sort.Slice's less-than convention when used
// as `NaturalCompare(a, b) < 0`.
func NaturalCompare(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if isDigit(ca) && isDigit(cb) {
			ia, na := scanDigits(a, i)
			ib, nb := scanDigits(b, j)
			va := trimLeadingZeros(a[i:ia])
			vb := trimLeadingZeros(b[j:ib])
			if len(va) != len(vb) {
				if len(va) < len(vb) {
					return -1
				}
				return 1
			}
			if va != vb {
				if va < vb {
					return -1
				}
				return 1
			}
			i, j = ia, ib
			_ = na
			_ = nb
			continue
		}
		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
		i++
		j++
	}
	switch {
	case len(a)-i < len(b)-j:
		return -1
	case len(a)-i > len(b)-j:
		return 1
	default:
		return 0
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func scanDigits(s string, from int) (end int, count int) {
	i := from
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i, i - from
}

func trimLeadingZeros(s string) string {
	i := 0
	for i < len(s)-1 && s[i] == '0' {
		i++
	}
	return s[i:]
}

// TagRange reports the byte range [start, end) of the first occurrence of
// <tag>...</tag> within s starting at or after from, including the
// delimiters. ok is false if the opening or closing tag is not found, or the
// closing tag precedes the opening tag (malformed/unbalanced input).
func TagRange(s, tag string, from int) (start, end int, ok bool) {
	open := "<" + tag + ">"
	close := "</" + tag + ">"

	openIdx := strings.Index(s[from:], open)
	if openIdx < 0 {
		return 0, 0, false
	}
	openIdx += from

	closeIdx := strings.Index(s[openIdx+len(open):], close)
	if closeIdx < 0 {
		return 0, 0, false
	}
	closeIdx += openIdx + len(open)

	return openIdx, closeIdx + len(close), true
}

// SubsliceRange returns the inner text between the first <tag> and </tag>
// pair found at or after from, trimmed of leading/trailing whitespace. ok is
// false on the same conditions as TagRange.
func SubsliceRange(s, tag string, from int) (inner string, end int, ok bool) {
	start, rangeEnd, ok := TagRange(s, tag, from)
	if !ok {
		return "", 0, false
	}
	open := "<" + tag + ">"
	close := "</" + tag + ">"
	innerStart := start + len(open)
	innerEnd := rangeEnd - len(close)
	return strings.TrimSpace(s[innerStart:innerEnd]), rangeEnd, true
}

// sanitizeReplacer maps filesystem-hostile characters to '_'.
var sanitizeReplacer = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	"\"", "_", "<", "_", ">", "_", "|", "_",
)

// SanitizeFilename turns an arbitrary release title into a filesystem-safe
// name: accents are decomposed and stripped (NFD + mark removal), characters
// illegal on common filesystems are replaced with '_', and the result is
// trimmed of leading/trailing dots and spaces (both forbidden as a trailing
// character on Windows).
func SanitizeFilename(title string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isNonSpacingMark))
	decomposed, _, err := transform.String(t, title)
	if err != nil {
		decomposed = title
	}

	cleaned := sanitizeReplacer.Replace(decomposed)
	cleaned = strings.Trim(cleaned, " .")
	if cleaned == "" {
		cleaned = "untitled"
	}
	return cleaned
}

func isNonSpacingMark(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

// EphemeralPath builds a temp-file path inside dir, named after a
// process-identifying prefix plus two random hex tokens and the given
// suffix, matching the original's chikuwa::ephemeral_path used by the
// ledger's atomic commit protocol to avoid colliding with any live file.
func EphemeralPath(dir, prefix, suffix string) (string, error) {
	var tokens [2][8]byte
	for i := range tokens {
		if _, err := rand.Read(tokens[i][:]); err != nil {
			return "", err
		}
	}
	name := prefix + "-" + hex.EncodeToString(tokens[0][:]) + hex.EncodeToString(tokens[1][:]) + suffix
	return filepath.Join(dir, name), nil
}

// RemoveIfExists removes path, ignoring a not-exist error; any other error
// is returned. Used as the best-effort cleanup for an ephemeral path that a
// process aborts before renaming over the live file.
func RemoveIfExists(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
