package http

import (
	"log/slog"
	"net/http"
	"sort"
)

// handleInvoiceSummary serves the per-file, per-plan breakdown of
// current-month versus carried charges.
func (s *Server) handleInvoiceSummary(w http.ResponseWriter, r *http.Request) {
	rows, err := s.reports.InvoiceSummary(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Invoice summary failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build invoice summary")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": toSummaryRowViews(rows)})
}

// handleFiscalTotals serves charge totals bucketed by fiscal year,
// newest first.
func (s *Server) handleFiscalTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := s.reports.FiscalYearTotals(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Fiscal totals failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute fiscal totals")
		return
	}

	years := make([]fiscalYearView, 0, len(totals))
	for fy, total := range totals {
		years = append(years, fiscalYearView{FiscalYear: fy, Total: total})
	}
	sort.Slice(years, func(i, j int) bool {
		return years[i].FiscalYear > years[j].FiscalYear
	})

	writeJSON(w, http.StatusOK, map[string]any{"fiscal_years": years})
}

// handleMonthlyAnalysis serves the month-by-month carrier comparison.
func (s *Server) handleMonthlyAnalysis(w http.ResponseWriter, r *http.Request) {
	buckets, err := s.reports.MonthlyAnalysis(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Monthly analysis failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build monthly analysis")
		return
	}

	views := make([]monthlyBucketView, len(buckets))
	for i, b := range buckets {
		views[i] = monthlyBucketView{
			Month:    b.Month,
			Year:     b.Year,
			UHCPlans: toSummaryRowViews(b.UHCPlans),
			UHGPlans: toSummaryRowViews(b.UHGPlans),
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"months": views})
}
