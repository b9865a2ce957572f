package core

// fiscalMonthOrder maps the three-letter month abbreviation to its
// 1-based position in FiscalMonths. Unknown months map to 0 and
// therefore sort before every real month.
var fiscalMonthOrder = func() map[string]int {
	order := make(map[string]int, len(FiscalMonths))
	for i, month := range FiscalMonths {
		order[month] = i + 1
	}
	return order
}()

// FiscalMonthOrder returns the fiscal ordering of a month abbreviation,
// or 0 for an unrecognized month.
func FiscalMonthOrder(month string) int {
	return fiscalMonthOrder[upperTrim(month)]
}

// ValidMonth reports whether month is one of the FiscalMonths
// abbreviations, ignoring case and surrounding whitespace.
func ValidMonth(month string) bool {
	return FiscalMonthOrder(month) != 0
}

// FiscalYear returns the fiscal year a (month, calendar year) pair falls
// in. October through December belong to the fiscal year labeled by the
// following calendar year.
func FiscalYear(month string, year int) int {
	switch upperTrim(month) {
	case "OCT", "NOV", "DEC":
		return year + 1
	default:
		return year
	}
}

// LatestPeriod finds the single most recent (month, year) pair among the
// records, ordered by calendar year then fiscal month position, and
// recomputes the category totals scoped to just that period. The second
// return value is false when the record set is empty.
//
// The latest-period view is independent of the all-time totals: changing
// records outside the winning period never alters which period wins.
func LatestPeriod(records []ChargeRecord) (PeriodTotals, bool) {
	type periodKey struct {
		month string
		year  int
	}
	index := make(map[periodKey]*PeriodTotals)
	var periods []*PeriodTotals // first-seen order, for deterministic ties

	for _, rec := range records {
		key := periodKey{month: rec.Month, year: rec.Year}
		p, ok := index[key]
		if !ok {
			p = &PeriodTotals{Month: rec.Month, Year: rec.Year}
			index[key] = p
			periods = append(periods, p)
		}
		switch ClassifyPlan(rec.Plan) {
		case CategoryLife:
			p.Totals.Life = p.Totals.Life.Add(rec.ChargeAmount)
		case CategoryADD:
			p.Totals.ADD = p.Totals.ADD.Add(rec.ChargeAmount)
		case CategoryDental:
			p.Totals.Dental = p.Totals.Dental.Add(rec.ChargeAmount)
		case CategoryVision:
			p.Totals.Vision = p.Totals.Vision.Add(rec.ChargeAmount)
		case CategoryMedical:
			p.Totals.Medical = p.Totals.Medical.Add(rec.ChargeAmount)
		}
	}

	var latest *PeriodTotals
	for _, p := range periods {
		if latest == nil || periodAfter(p, latest) {
			latest = p
		}
	}
	if latest == nil {
		return PeriodTotals{}, false
	}

	latest.MonthTotal = latest.Totals.Sum()
	return *latest, true
}

// periodAfter reports whether a is strictly more recent than b:
// greater calendar year wins, ties broken by fiscal month position.
func periodAfter(a, b *PeriodTotals) bool {
	if a.Year != b.Year {
		return a.Year > b.Year
	}
	return FiscalMonthOrder(a.Month) > FiscalMonthOrder(b.Month)
}
