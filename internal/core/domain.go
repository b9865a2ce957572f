package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fiscal month abbreviations in fiscal order. The fiscal year starts in
// October and is labeled by the calendar year in which it ends.
var FiscalMonths = []string{
	"OCT", "NOV", "DEC", "JAN", "FEB", "MAR",
	"APR", "MAY", "JUN", "JUL", "AUG", "SEP",
}

type (
	// ChargeRecord is one plan line item for one subscriber in one invoice
	// month. Records are immutable once loaded; all derived views are
	// recomputed from scratch.
	ChargeRecord struct {
		ID             int64
		SubscriberID   string
		SubscriberName string // raw, unnormalized; format varies across files
		Plan           string
		CoverageType   string
		Status         string
		CoverageDates  string
		ChargeAmount   decimal.Decimal // may be negative (adjustment/credit)
		Month          string          // one of FiscalMonths
		Year           int             // calendar year
		InvoiceFileID  int64
	}

	// CategoryTotals holds per-coverage-category charge sums.
	CategoryTotals struct {
		Life    decimal.Decimal
		ADD     decimal.Decimal
		Dental  decimal.Decimal
		Vision  decimal.Decimal
		Medical decimal.Decimal
	}

	// PeriodTotals is the category breakdown for a single (month, year).
	PeriodTotals struct {
		Month      string
		Year       int
		Totals     CategoryTotals
		MonthTotal decimal.Decimal
	}

	// EmployeeGroup is the resolved identity for one person: all charge
	// records whose subscriber names reconciled to the same (last name,
	// fuzzy first name) pair, plus the aggregate views over them.
	//
	// The ID is the group's index in the final grouping output. It is only
	// assigned after the full grouping pass completes and is the key used
	// for manual status overrides.
	EmployeeGroup struct {
		ID           int
		EmployeeName string // "FIRST LAST", from the representative names
		FirstName    string // representative; fixed at group creation
		LastName     string
		CoverageType string // from the first record in insertion order
		PlanCategory string // "2000", "3000", or "General"
		Totals       CategoryTotals
		GrandTotal   decimal.Decimal
		LatestMonth  PeriodTotals
		Records      []ChargeRecord // insertion order = input order
	}

	// InvoiceFile describes one uploaded invoice export. Its plan name
	// encodes the carrier, month, and year (e.g. "UHC-3000-OCT-2024").
	// Deleting a file removes all charge records ingested from it.
	InvoiceFile struct {
		ID         int64
		PlanName   string
		FileName   string
		Month      string
		Year       int
		UploadDate time.Time
	}
)

// Sum returns the total across all five categories.
func (t CategoryTotals) Sum() decimal.Decimal {
	return t.Life.Add(t.ADD).Add(t.Dental).Add(t.Vision).Add(t.Medical)
}
