package core

import "strings"

// Category is one of the five coverage categories a plan string can
// classify into.
type Category int

const (
	CategoryLife Category = iota
	CategoryADD
	CategoryDental
	CategoryVision
	CategoryMedical
)

// ClassifyPlan maps a free-text plan string to a coverage category.
// Matching is against the upper-cased plan, first match wins, in this
// fixed priority order. Unknown plans fall into the medical bucket rather
// than being rejected.
func ClassifyPlan(plan string) Category {
	p := strings.ToUpper(plan)
	switch {
	case strings.Contains(p, "LIFE"):
		return CategoryLife
	case strings.Contains(p, "ADD"):
		return CategoryADD
	case strings.Contains(p, "DENTAL"):
		return CategoryDental
	case strings.Contains(p, "VISION"):
		return CategoryVision
	default:
		// "2000", "3000", "UHC", and everything else.
		return CategoryMedical
	}
}

// Aggregate fills in the derived views on each group: per-category and
// grand totals, the group-level plan category, the displayed coverage
// type, and the latest-period breakdown. Groups are modified in place and
// returned for chaining.
func Aggregate(groups []*EmployeeGroup) []*EmployeeGroup {
	for _, g := range groups {
		g.PlanCategory = planCategory(g.Records)

		var totals CategoryTotals
		for _, rec := range g.Records {
			switch ClassifyPlan(rec.Plan) {
			case CategoryLife:
				totals.Life = totals.Life.Add(rec.ChargeAmount)
			case CategoryADD:
				totals.ADD = totals.ADD.Add(rec.ChargeAmount)
			case CategoryDental:
				totals.Dental = totals.Dental.Add(rec.ChargeAmount)
			case CategoryVision:
				totals.Vision = totals.Vision.Add(rec.ChargeAmount)
			case CategoryMedical:
				totals.Medical = totals.Medical.Add(rec.ChargeAmount)
			}
		}
		g.Totals = totals
		g.GrandTotal = totals.Sum()

		if len(g.Records) > 0 {
			g.CoverageType = g.Records[0].CoverageType
		}
		if g.CoverageType == "" {
			g.CoverageType = "EMPLOYEE"
		}

		g.LatestMonth, _ = LatestPeriod(g.Records)
	}
	return groups
}

// planCategory derives the group-level plan bucket by exact plan equality,
// evaluated in fixed priority order over the full record set.
func planCategory(records []ChargeRecord) string {
	has := func(plan string) bool {
		for _, r := range records {
			if strings.ToUpper(r.Plan) == plan {
				return true
			}
		}
		return false
	}
	switch {
	case has("UHC-2000"):
		return "2000"
	case has("UHC-3000"):
		return "3000"
	default:
		return "General"
	}
}
