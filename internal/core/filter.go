package core

import "strings"

// Matches reports whether a single group passes the free-text query and
// the multi-select plan-category and coverage-type filters. All three
// predicates are ANDed; within a filter set the selected values are ORed.
// An empty query or empty set places no constraint.
func Matches(g *EmployeeGroup, query string, planFilters, typeFilters []string) bool {
	if query != "" {
		q := strings.ToLower(query)
		if !strings.Contains(strings.ToLower(g.EmployeeName), q) &&
			!strings.Contains(strings.ToLower(g.PlanCategory), q) &&
			!strings.Contains(strings.ToLower(g.CoverageType), q) {
			return false
		}
	}
	if len(planFilters) > 0 && !containsString(planFilters, g.PlanCategory) {
		return false
	}
	if len(typeFilters) > 0 && !containsString(typeFilters, g.CoverageType) {
		return false
	}
	return true
}

// FilterGroups applies Matches over a slice of groups, preserving order.
// No constraints returns the input unchanged.
func FilterGroups(groups []*EmployeeGroup, query string, planFilters, typeFilters []string) []*EmployeeGroup {
	if query == "" && len(planFilters) == 0 && len(typeFilters) == 0 {
		return groups
	}

	out := make([]*EmployeeGroup, 0, len(groups))
	for _, g := range groups {
		if Matches(g, query, planFilters, typeFilters) {
			out = append(out, g)
		}
	}
	return out
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
