package core

import "strings"

// IsTerminated reports whether a group's automatic status is terminated:
// true iff any of its records carries a status code containing "TRM",
// case-insensitive.
func IsTerminated(g *EmployeeGroup) bool {
	for _, rec := range g.Records {
		if strings.Contains(strings.ToUpper(rec.Status), "TRM") {
			return true
		}
	}
	return false
}

// EffectiveActive computes a group's effective active flag. A manual
// override for the group ID wins outright; otherwise the group is active
// iff it is not terminated.
func EffectiveActive(id int, overrides map[int]bool, terminated bool) bool {
	if v, ok := overrides[id]; ok {
		return v
	}
	return !terminated
}
