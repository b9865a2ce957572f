// Package core implements the employee identity resolution and fiscal
// aggregation engine: parsing variant subscriber names, fuzzy-grouping
// charge records into per-person identities, and computing category,
// grand, and latest-period totals over each group.
package core

import "strings"

// ParseName splits a raw subscriber name into an upper-cased
// (firstName, lastName) pair. It handles the formats seen across
// invoice files:
//
//	"12345 - John Doe"  -> leading ID stripped, then parsed as below
//	"Doe, John"         -> last name before the comma
//	"John Doe"          -> first token is the first name
//	"Doe"               -> single token is the last name
//
// Parsing never fails; malformed input degrades to the fallback rules.
func ParseName(raw string) (firstName, lastName string) {
	namePart := raw

	// Strip a leading numeric ID ("12345 - John Doe").
	if idx := strings.Index(namePart, " - "); idx >= 0 {
		namePart = namePart[idx+len(" - "):]
	}

	// "Last, First" format.
	if before, after, found := strings.Cut(namePart, ","); found {
		return upperTrim(after), upperTrim(before)
	}

	// "First Last ..." format.
	tokens := strings.Fields(namePart)
	if len(tokens) >= 2 {
		return upperTrim(tokens[0]), upperTrim(strings.Join(tokens[1:], " "))
	}
	if len(tokens) == 1 {
		return "", upperTrim(tokens[0])
	}
	return "", ""
}

func upperTrim(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
