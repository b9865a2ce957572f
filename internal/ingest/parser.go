package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"benefits/internal/core"

	"github.com/shopspring/decimal"
)

// Column-name candidates, checked in order. Invoice exports disagree on
// header naming across carriers and months.
var (
	amountColumns = []string{"charge amount", "premium amount", "premium", "amount"}
	nameColumns   = []string{"id", "subscriber id", "subscriber name", "name"}
)

const (
	defaultStatus       = "NO ADJUSTMENTS"
	defaultCoverageType = "Standard"
)

// ParseCSV reads an invoice CSV export and produces the charge records it
// contains. Header matching is case-insensitive. A row with a missing or
// unparseable amount is skipped with a warning; only a structurally
// unreadable file or a missing amount column is an error.
func ParseCSV(ctx context.Context, r io.Reader, info FileInfo) ([]core.ChargeRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows happen in real exports

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}

	amountCol := -1
	for _, c := range amountColumns {
		if i, ok := cols[c]; ok {
			amountCol = i
			break
		}
	}
	if amountCol == -1 {
		return nil, fmt.Errorf("no amount column found, have: %v", header)
	}

	nameCol := -1
	for _, c := range nameColumns {
		if i, ok := cols[c]; ok {
			nameCol = i
			break
		}
	}
	if nameCol == -1 {
		return nil, fmt.Errorf("no subscriber column found, have: %v", header)
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []core.ChargeRecord
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			slog.WarnContext(ctx, "Skipping unreadable csv row", "line", line, "error", err)
			continue
		}

		rawAmount := ""
		if amountCol < len(row) {
			rawAmount = strings.TrimSpace(row[amountCol])
		}
		amount, err := parseAmount(rawAmount)
		if err != nil {
			slog.WarnContext(ctx, "Skipping row with bad amount",
				"line", line, "amount", rawAmount, "error", err)
			continue
		}

		name := ""
		if nameCol < len(row) {
			name = strings.TrimSpace(row[nameCol])
		}
		if name == "" {
			slog.WarnContext(ctx, "Skipping row without subscriber", "line", line)
			continue
		}

		plan := info.BasePlan
		if info.BasePlan == "UHG" {
			plan = UHGPlanType(field(row, "plan"), field(row, "policy"), field(row, "coverage type"))
		}

		status := field(row, "adj code")
		if status == "" {
			status = field(row, "status")
		}
		if status == "" {
			status = defaultStatus
		}

		coverageType := field(row, "coverage type")
		if coverageType == "" {
			coverageType = defaultCoverageType
		}

		records = append(records, core.ChargeRecord{
			SubscriberID:   field(row, "subscriber id"),
			SubscriberName: name,
			Plan:           plan,
			CoverageType:   coverageType,
			Status:         strings.ToUpper(status),
			CoverageDates:  field(row, "coverage dates"),
			ChargeAmount:   amount,
			Month:          info.Month,
			Year:           info.Year,
		})
	}

	slog.InfoContext(ctx, "Invoice file parsed",
		"base_plan", info.BasePlan,
		"month", info.Month,
		"year", info.Year,
		"records", len(records))

	return records, nil
}

// parseAmount handles the currency formats seen in exports: "$1,234.56",
// "(45.00)" for credits, and plain decimals. Negative amounts are valid
// adjustments.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("empty amount")
	}
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + strings.Trim(s, "()")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse amount: %w", err)
	}
	return d, nil
}
