// Copyright (c) 2026 camp-sub001 contributors.

package nadeshiko

import "math"

// ExtractEpisode returns the first non-negative integer encountered in
// value, skipping any byte ranges covered by the first occurrence of each
// string in pieces.
//
// Digits are accumulated as a decimal int64 from the first ASCII digit
// found; the run stops at the first non-digit byte. If that byte is '.'
// followed by another digit, the whole match is treated as a decimal
// quantity rather than an episode number and ExtractEpisode reports ok=false
// (see SPEC_FULL.md §4.1). Signs are not parsed: "-17" yields 17. Overflow
// during accumulation also reports ok=false.
func ExtractEpisode(value string, pieces ...string) (episode int64, ok bool) {
	skip := skipRanges(value, pieces)

	i := 0
	for i < len(value) {
		if inAnyRange(i, skip) {
			i++
			continue
		}
		if isASCIIDigit(value[i]) {
			break
		}
		i++
	}
	if i >= len(value) {
		return 0, false
	}

	var n int64
	start := i
	for i < len(value) && !inAnyRange(i, skip) && isASCIIDigit(value[i]) {
		digit := int64(value[i] - '0')
		if n > (math.MaxInt64-digit)/10 {
			return 0, false
		}
		n = n*10 + digit
		i++
	}
	if i == start {
		return 0, false
	}

	if i < len(value) && value[i] == '.' && i+1 < len(value) && isASCIIDigit(value[i+1]) {
		return 0, false
	}

	return n, true
}

func isASCIIDigit(b byte) bool { return b >= '0' && b <= '9' }

// byteRange is a half-open [Start, End) byte index range.
type byteRange struct {
	Start, End int
}

// skipRanges locates the first occurrence of each piece in value and
// returns the byte ranges they cover.
func skipRanges(value string, pieces []string) []byteRange {
	var ranges []byteRange
	for _, piece := range pieces {
		if piece == "" {
			continue
		}
		idx := indexOf(value, piece)
		if idx < 0 {
			continue
		}
		ranges = append(ranges, byteRange{Start: idx, End: idx + len(piece)})
	}
	return ranges
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}

func inAnyRange(i int, ranges []byteRange) bool {
	for _, r := range ranges {
		if i >= r.Start && i < r.End {
			return true
		}
	}
	return false
}
