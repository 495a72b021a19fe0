package matching

import (
	"strings"
	"unicode/utf8"
)

const (
	// MaxLengthGap is the largest length difference still compared by overlap.
	MaxLengthGap = 2
	// OverlapThreshold is the minimum share of the shorter string's characters
	// that must occur in the longer one.
	OverlapThreshold = 0.7
)

// Similar reports whether a and b are approximately the same word.
//
// Either string containing the other is a match. Otherwise strings whose
// lengths differ by at most MaxLengthGap match when at least
// OverlapThreshold of the shorter string's characters appear anywhere in
// the longer one. The test ignores character order, so short anagram-like
// strings can match.
func Similar(a, b string) bool {
	a, b = Normalize(a), Normalize(b)
	if a == "" || b == "" {
		return false
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}

	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	gap := la - lb
	if gap < 0 {
		gap = -gap
	}
	if gap > MaxLengthGap {
		return false
	}

	switch {
	case la < lb:
		return overlap(a, b) >= OverlapThreshold
	case lb < la:
		return overlap(b, a) >= OverlapThreshold
	}
	// Equal lengths have no shorter side; either direction may qualify.
	return max(overlap(a, b), overlap(b, a)) >= OverlapThreshold
}

func overlap(shorter, longer string) float64 {
	var hits, total int
	for _, r := range shorter {
		total++
		if strings.ContainsRune(longer, r) {
			hits++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
