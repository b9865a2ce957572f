package core

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Similarity thresholds for first-name matching. A pair of names matches
// when editDistance / maxLen <= threshold, so a higher value is looser.
const (
	// GroupingThreshold is used when folding charge records into groups.
	GroupingThreshold = 0.66

	// LookupThreshold is the slightly looser ratio used when resolving a
	// free-text name back to an existing group (employee detail lookups).
	LookupThreshold = 0.69
)

// Similar reports whether two names are within the given edit-distance
// ratio of each other. Comparison is case-insensitive. Two empty strings
// are considered similar: a pair of records that both lack a first name
// should still land in the same group when their last names agree.
func Similar(a, b string, threshold float64) bool {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return true
	}

	dist := levenshtein.ComputeDistance(a, b)
	ratio := float64(dist) / float64(maxLen)
	return ratio <= threshold
}
