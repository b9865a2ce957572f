package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"benefits/internal/core"
	"benefits/internal/services"

	"github.com/shopspring/decimal"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

type totalsView struct {
	Life    decimal.Decimal `json:"life"`
	ADD     decimal.Decimal `json:"add"`
	Dental  decimal.Decimal `json:"dental"`
	Vision  decimal.Decimal `json:"vision"`
	Medical decimal.Decimal `json:"medical"`
}

type periodView struct {
	Month      string          `json:"month"`
	Year       int             `json:"year"`
	Totals     totalsView      `json:"totals"`
	MonthTotal decimal.Decimal `json:"month_total"`
}

type employeeView struct {
	ID           int             `json:"id"`
	EmployeeName string          `json:"employee_name"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	CoverageType string          `json:"coverage_type"`
	PlanCategory string          `json:"plan_category"`
	Totals       totalsView      `json:"totals"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
	LatestMonth  periodView      `json:"latest_month"`
	RecordCount  int             `json:"record_count"`
	Terminated   bool            `json:"terminated"`
	Active       bool            `json:"active"`
}

type recordView struct {
	ID             int64           `json:"id"`
	SubscriberID   string          `json:"subscriber_id,omitempty"`
	SubscriberName string          `json:"subscriber_name"`
	Plan           string          `json:"plan"`
	CoverageType   string          `json:"coverage_type"`
	Status         string          `json:"status"`
	CoverageDates  string          `json:"coverage_dates"`
	ChargeAmount   decimal.Decimal `json:"charge_amount"`
	Month          string          `json:"month"`
	Year           int             `json:"year"`
}

type employeeDetailView struct {
	employeeView
	Records []recordView `json:"records"`
}

type summaryRowView struct {
	PlanType            string          `json:"plan_type"`
	Month               string          `json:"month"`
	Year                int             `json:"year"`
	CurrentMonthTotal   decimal.Decimal `json:"current_month_total"`
	PreviousMonthsTotal decimal.Decimal `json:"previous_months_total"`
	GrandTotal          decimal.Decimal `json:"grand_total"`
}

type monthlyBucketView struct {
	Month    string           `json:"month"`
	Year     int              `json:"year"`
	UHCPlans []summaryRowView `json:"uhc_plans"`
	UHGPlans []summaryRowView `json:"uhg_plans"`
}

type fiscalYearView struct {
	FiscalYear int             `json:"fiscal_year"`
	Total      decimal.Decimal `json:"total"`
}

type invoiceFileView struct {
	ID         int64     `json:"id"`
	PlanName   string    `json:"plan_name"`
	FileName   string    `json:"file_name"`
	Month      string    `json:"month"`
	Year       int       `json:"year"`
	UploadDate time.Time `json:"upload_date"`
}

func toTotalsView(t core.CategoryTotals) totalsView {
	return totalsView{
		Life:    t.Life,
		ADD:     t.ADD,
		Dental:  t.Dental,
		Vision:  t.Vision,
		Medical: t.Medical,
	}
}

func toPeriodView(p core.PeriodTotals) periodView {
	return periodView{
		Month:      p.Month,
		Year:       p.Year,
		Totals:     toTotalsView(p.Totals),
		MonthTotal: p.MonthTotal,
	}
}

func toEmployeeView(g services.ResolvedGroup) employeeView {
	return employeeView{
		ID:           g.ID,
		EmployeeName: g.EmployeeName,
		FirstName:    g.FirstName,
		LastName:     g.LastName,
		CoverageType: g.CoverageType,
		PlanCategory: g.PlanCategory,
		Totals:       toTotalsView(g.Totals),
		GrandTotal:   g.GrandTotal,
		LatestMonth:  toPeriodView(g.LatestMonth),
		RecordCount:  len(g.Records),
		Terminated:   g.Terminated,
		Active:       g.Active,
	}
}

func toEmployeeViews(groups []services.ResolvedGroup) []employeeView {
	out := make([]employeeView, len(groups))
	for i, g := range groups {
		out[i] = toEmployeeView(g)
	}
	return out
}

func toRecordViews(records []core.ChargeRecord) []recordView {
	out := make([]recordView, len(records))
	for i, rec := range records {
		out[i] = recordView{
			ID:             rec.ID,
			SubscriberID:   rec.SubscriberID,
			SubscriberName: rec.SubscriberName,
			Plan:           rec.Plan,
			CoverageType:   rec.CoverageType,
			Status:         rec.Status,
			CoverageDates:  rec.CoverageDates,
			ChargeAmount:   rec.ChargeAmount,
			Month:          rec.Month,
			Year:           rec.Year,
		}
	}
	return out
}

func toSummaryRowViews(rows []services.InvoiceSummaryRow) []summaryRowView {
	out := make([]summaryRowView, len(rows))
	for i, row := range rows {
		out[i] = summaryRowView{
			PlanType:            row.PlanType,
			Month:               row.Month,
			Year:                row.Year,
			CurrentMonthTotal:   row.CurrentMonthTotal,
			PreviousMonthsTotal: row.PreviousMonthsTotal,
			GrandTotal:          row.GrandTotal,
		}
	}
	return out
}

func toInvoiceFileViews(files []core.InvoiceFile) []invoiceFileView {
	out := make([]invoiceFileView, len(files))
	for i, f := range files {
		out[i] = invoiceFileView{
			ID:         f.ID,
			PlanName:   f.PlanName,
			FileName:   f.FileName,
			Month:      f.Month,
			Year:       f.Year,
			UploadDate: f.UploadDate,
		}
	}
	return out
}
