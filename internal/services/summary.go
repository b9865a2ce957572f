package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"benefits/internal/core"

	"github.com/shopspring/decimal"
)

// InvoiceSource provides the per-file views the summary reports need.
type InvoiceSource interface {
	ListInvoiceFiles(ctx context.Context) ([]core.InvoiceFile, error)
	ListChargeRecordsByFile(ctx context.Context, fileID int64) ([]core.ChargeRecord, error)
}

// InvoiceSummaryRow is one (invoice file, plan type) line: the month's own
// charges versus carried adjustments for earlier months.
type InvoiceSummaryRow struct {
	PlanType            string
	Month               string
	Year                int
	CurrentMonthTotal   decimal.Decimal
	PreviousMonthsTotal decimal.Decimal
	GrandTotal          decimal.Decimal
}

// MonthlyBucket groups summary rows for one (month, year), split by
// carrier family for side-by-side display.
type MonthlyBucket struct {
	Month    string
	Year     int
	UHCPlans []InvoiceSummaryRow
	UHGPlans []InvoiceSummaryRow
}

// SummaryService computes the invoice-level reports: per-plan summaries,
// fiscal-year totals, and the month-by-month analysis.
type SummaryService struct {
	invoices InvoiceSource
}

func NewSummaryService(invoices InvoiceSource) *SummaryService {
	return &SummaryService{invoices: invoices}
}

var calendarMonth = map[string]int{
	"JAN": 1, "FEB": 2, "MAR": 3, "APR": 4, "MAY": 5, "JUN": 6,
	"JUL": 7, "AUG": 8, "SEP": 9, "OCT": 10, "NOV": 11, "DEC": 12,
}

// InvoiceSummary builds one row per (file, plan type). A record counts as
// current-month when its coverage dates contain the first of the file's
// invoice month; otherwise it lands in previous months, except that a
// no-adjustment duplicate of a current-month line for the same subscriber
// and plan is suppressed. Zero rows and the UHG-OTHER catchall (when
// specific UHG plans exist in the same file) are dropped.
func (s *SummaryService) InvoiceSummary(ctx context.Context) ([]InvoiceSummaryRow, error) {
	files, err := s.invoices.ListInvoiceFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list invoice files: %w", err)
	}

	var rows []InvoiceSummaryRow
	for _, file := range files {
		records, err := s.invoices.ListChargeRecordsByFile(ctx, file.ID)
		if err != nil {
			return nil, fmt.Errorf("list records for file %d: %w", file.ID, err)
		}
		rows = append(rows, summarizeFile(file, records)...)
	}
	return rows, nil
}

type planTotals struct {
	current  decimal.Decimal
	previous decimal.Decimal
}

func summarizeFile(file core.InvoiceFile, records []core.ChargeRecord) []InvoiceSummaryRow {
	currentMonthDate := fmt.Sprintf("%02d/01/%d", calendarMonth[strings.ToUpper(file.Month)], file.Year)

	totals := make(map[string]*planTotals)
	var planOrder []string // first-seen order keeps output deterministic

	for _, rec := range records {
		pt, ok := totals[rec.Plan]
		if !ok {
			pt = &planTotals{}
			totals[rec.Plan] = pt
			planOrder = append(planOrder, rec.Plan)
		}

		if strings.Contains(rec.CoverageDates, currentMonthDate) {
			pt.current = pt.current.Add(rec.ChargeAmount)
			continue
		}
		if isSuppressedDuplicate(rec, records, currentMonthDate) {
			continue
		}
		pt.previous = pt.previous.Add(rec.ChargeAmount)
	}

	hasSpecificUHG := false
	for plan := range totals {
		if strings.HasPrefix(plan, "UHG-") && plan != "UHG-OTHER" {
			hasSpecificUHG = true
			break
		}
	}

	var rows []InvoiceSummaryRow
	for _, plan := range planOrder {
		pt := totals[plan]
		if pt.current.IsZero() && pt.previous.IsZero() {
			continue
		}
		if plan == "UHG-OTHER" && hasSpecificUHG {
			continue
		}
		rows = append(rows, InvoiceSummaryRow{
			PlanType:            plan,
			Month:               file.Month,
			Year:                file.Year,
			CurrentMonthTotal:   pt.current,
			PreviousMonthsTotal: pt.previous,
			GrandTotal:          pt.current.Add(pt.previous),
		})
	}
	return rows
}

// isSuppressedDuplicate reports whether a no-adjustment record duplicates
// another no-adjustment, current-month record for the same subscriber and
// plan, in which case it must not count toward previous months.
func isSuppressedDuplicate(rec core.ChargeRecord, records []core.ChargeRecord, currentMonthDate string) bool {
	if rec.Status != "NO ADJUSTMENTS" {
		return false
	}
	for _, other := range records {
		if other.ID == rec.ID {
			continue
		}
		if other.SubscriberName == rec.SubscriberName &&
			other.Plan == rec.Plan &&
			other.Status == "NO ADJUSTMENTS" &&
			strings.Contains(other.CoverageDates, currentMonthDate) {
			return true
		}
	}
	return false
}

// FiscalYearTotals buckets every charge record by fiscal year and sums
// the amounts. The fiscal year comes from the coverage-date start when it
// is parseable and its year matches the invoice year; otherwise the
// record's own invoice (month, year) decides via the standard
// October-boundary rule.
func (s *SummaryService) FiscalYearTotals(ctx context.Context) (map[int]decimal.Decimal, error) {
	files, err := s.invoices.ListInvoiceFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list invoice files: %w", err)
	}

	totals := make(map[int]decimal.Decimal)
	for _, file := range files {
		records, err := s.invoices.ListChargeRecordsByFile(ctx, file.ID)
		if err != nil {
			return nil, fmt.Errorf("list records for file %d: %w", file.ID, err)
		}
		for _, rec := range records {
			fy := recordFiscalYear(rec)
			totals[fy] = totals[fy].Add(rec.ChargeAmount)
		}
	}
	return totals, nil
}

// recordFiscalYear prefers the coverage-date start month over the invoice
// month when both agree on the calendar year.
func recordFiscalYear(rec core.ChargeRecord) int {
	if month, year, ok := coverageStart(rec.CoverageDates); ok && year == rec.Year {
		if month >= 10 {
			return rec.Year + 1
		}
		return rec.Year
	}
	return core.FiscalYear(rec.Month, rec.Year)
}

// coverageStart parses the "MM/DD/YYYY - MM/DD/YYYY" coverage-dates
// format and returns the start month and year.
func coverageStart(coverageDates string) (month, year int, ok bool) {
	start := coverageDates
	if before, _, found := strings.Cut(coverageDates, "-"); found {
		start = before
	}
	parts := strings.Split(strings.TrimSpace(start), "/")
	if len(parts) != 3 {
		return 0, 0, false
	}
	m, err1 := strconv.Atoi(parts[0])
	y, err2 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || m < 1 || m > 12 {
		return 0, 0, false
	}
	return m, y, true
}

// MonthlyAnalysis groups summary rows by invoice month, newest first,
// split into UHC and UHG plan families.
func (s *SummaryService) MonthlyAnalysis(ctx context.Context) ([]MonthlyBucket, error) {
	rows, err := s.InvoiceSummary(ctx)
	if err != nil {
		return nil, err
	}

	type key struct {
		month string
		year  int
	}
	index := make(map[key]*MonthlyBucket)
	var buckets []*MonthlyBucket

	for _, row := range rows {
		k := key{month: row.Month, year: row.Year}
		b, ok := index[k]
		if !ok {
			b = &MonthlyBucket{Month: row.Month, Year: row.Year}
			index[k] = b
			buckets = append(buckets, b)
		}
		switch {
		case strings.HasPrefix(row.PlanType, "UHC"):
			b.UHCPlans = append(b.UHCPlans, row)
		case strings.HasPrefix(row.PlanType, "UHG"):
			b.UHGPlans = append(b.UHGPlans, row)
		}
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		if buckets[i].Year != buckets[j].Year {
			return buckets[i].Year > buckets[j].Year
		}
		return calendarMonth[buckets[i].Month] > calendarMonth[buckets[j].Month]
	})

	out := make([]MonthlyBucket, len(buckets))
	for i, b := range buckets {
		out[i] = *b
	}
	return out, nil
}
