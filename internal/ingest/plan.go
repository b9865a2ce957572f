// Package ingest parses uploaded invoice exports into charge records.
// File-level metadata (carrier, month, year) comes from the plan-name
// convention; row-level plan types for UHG files are inferred from the
// row text since those exports carry all coverage lines in one file.
package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"benefits/internal/core"
)

// FileInfo is the metadata encoded in an upload's plan name.
//
//	"UHG-OCT-2024"      -> base plan UHG
//	"UHC-3000-OCT-2024" -> base plan UHC-3000
type FileInfo struct {
	BasePlan string
	Month    string
	Year     int
}

// ParsePlanName decodes the plan-name convention used for uploads.
func ParsePlanName(planName string) (FileInfo, error) {
	parts := strings.Split(strings.ToUpper(strings.TrimSpace(planName)), "-")

	var info FileInfo
	switch {
	case len(parts) == 3 && parts[0] == "UHG":
		info = FileInfo{BasePlan: parts[0], Month: parts[1]}
		year, err := strconv.Atoi(parts[2])
		if err != nil {
			return FileInfo{}, fmt.Errorf("parse plan name %q: bad year: %w", planName, err)
		}
		info.Year = year
	case len(parts) == 4:
		info = FileInfo{BasePlan: parts[0] + "-" + parts[1], Month: parts[2]}
		year, err := strconv.Atoi(parts[3])
		if err != nil {
			return FileInfo{}, fmt.Errorf("parse plan name %q: bad year: %w", planName, err)
		}
		info.Year = year
	default:
		return FileInfo{}, fmt.Errorf("parse plan name %q: want CARRIER-MONTH-YEAR or CARRIER-PLAN-MONTH-YEAR", planName)
	}

	if !core.ValidMonth(info.Month) {
		return FileInfo{}, fmt.Errorf("parse plan name %q: unknown month %q", planName, info.Month)
	}
	return info, nil
}

// UHGPlanType infers the per-row plan type for a UHG invoice line from
// the plan and policy columns, falling back to the coverage-type column.
// Rows that match nothing classify as UHG-OTHER.
func UHGPlanType(plan, policy, coverageType string) string {
	checkText := strings.ToUpper(plan + " " + policy)

	switch {
	case containsAny(checkText, "LIFE", "TERM LIFE", "GTL"):
		return "UHG-LIFE"
	case containsAny(checkText, "VISION", "VSP"):
		return "UHG-VISION"
	case containsAny(checkText, "DENTAL", "DHMO"):
		return "UHG-DENTAL"
	}

	ct := strings.ToUpper(coverageType)
	switch {
	case strings.Contains(ct, "LIFE"):
		return "UHG-LIFE"
	case strings.Contains(ct, "VISION"):
		return "UHG-VISION"
	case strings.Contains(ct, "DENTAL"):
		return "UHG-DENTAL"
	}

	return "UHG-OTHER"
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
