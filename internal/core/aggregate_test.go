package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestClassifyPlan(t *testing.T) {
	tests := []struct {
		plan string
		want Category
	}{
		{"UHG-LIFE", CategoryLife},
		{"UHG-ADD", CategoryADD},
		{"UHG-DENTAL", CategoryDental},
		{"UHG-VISION", CategoryVision},
		{"UHC-2000", CategoryMedical},
		{"UHC-3000", CategoryMedical},
		{"UHC", CategoryMedical},
		{"uhg-dental", CategoryDental},
		{"SOMETHING-ELSE", CategoryMedical}, // unknown plans default to medical
	}

	for _, tt := range tests {
		t.Run(tt.plan, func(t *testing.T) {
			if got := ClassifyPlan(tt.plan); got != tt.want {
				t.Errorf("ClassifyPlan(%q) = %v, want %v", tt.plan, got, tt.want)
			}
		})
	}
}

func TestClassifyPlan_PriorityOrder(t *testing.T) {
	// A plan mentioning both LIFE and DENTAL classifies as life: the
	// priority order is fixed, first match wins.
	if got := ClassifyPlan("DENTAL-LIFE-COMBO"); got != CategoryLife {
		t.Errorf("ClassifyPlan priority = %v, want %v", got, CategoryLife)
	}
	// ADD outranks DENTAL.
	if got := ClassifyPlan("DENTAL-ADD"); got != CategoryADD {
		t.Errorf("ClassifyPlan priority = %v, want %v", got, CategoryADD)
	}
}

func TestAggregate_CategoryTotals(t *testing.T) {
	records := []ChargeRecord{
		record("Doe, John", "UHG-DENTAL", "OCT", 2023, 50),
		record("Doe, John", "UHG-LIFE", "OCT", 2023, 30),
	}

	groups := Aggregate(GroupRecords(records))
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	g := groups[0]

	assertDecimal(t, "dental", g.Totals.Dental, 50)
	assertDecimal(t, "life", g.Totals.Life, 30)
	assertDecimal(t, "add", g.Totals.ADD, 0)
	assertDecimal(t, "vision", g.Totals.Vision, 0)
	assertDecimal(t, "medical", g.Totals.Medical, 0)
	assertDecimal(t, "grand total", g.GrandTotal, 80)
}

func TestAggregate_GrandTotalEqualsCategorySum(t *testing.T) {
	records := []ChargeRecord{
		record("Doe, John", "UHG-LIFE", "OCT", 2023, 10),
		record("Doe, John", "UHG-ADD", "NOV", 2023, 20),
		record("Doe, John", "UHG-DENTAL", "DEC", 2023, 30),
		record("Doe, John", "UHG-VISION", "JAN", 2024, 40),
		record("Doe, John", "UHC-2000", "FEB", 2024, 50),
		record("Doe, John", "MYSTERY-PLAN", "MAR", 2024, 60),
	}

	g := Aggregate(GroupRecords(records))[0]
	if !g.GrandTotal.Equal(g.Totals.Sum()) {
		t.Errorf("grand total %s != category sum %s", g.GrandTotal, g.Totals.Sum())
	}
	assertDecimal(t, "grand total", g.GrandTotal, 210)
	// Unknown plan leaked into medical, not dropped.
	assertDecimal(t, "medical", g.Totals.Medical, 110)
}

func TestAggregate_NegativeAdjustments(t *testing.T) {
	records := []ChargeRecord{
		record("Doe, John", "UHC-2000", "OCT", 2023, 100),
		record("Doe, John", "UHC-2000", "NOV", 2023, -40),
	}

	g := Aggregate(GroupRecords(records))[0]
	assertDecimal(t, "medical after credit", g.Totals.Medical, 60)
	assertDecimal(t, "grand total after credit", g.GrandTotal, 60)
}

func TestAggregate_PlanCategory(t *testing.T) {
	tests := []struct {
		name  string
		plans []string
		want  string
	}{
		{name: "uhc 2000 present", plans: []string{"UHG-LIFE", "UHC-2000"}, want: "2000"},
		{name: "uhc 3000 present", plans: []string{"UHC-3000"}, want: "3000"},
		{name: "2000 outranks 3000", plans: []string{"UHC-3000", "UHC-2000"}, want: "2000"},
		{name: "substring is not an exact match", plans: []string{"UHC-2000-PLUS"}, want: "General"},
		{name: "no uhc plan", plans: []string{"UHG-DENTAL"}, want: "General"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var records []ChargeRecord
			for _, p := range tt.plans {
				records = append(records, record("Doe, John", p, "OCT", 2023, 1))
			}
			g := Aggregate(GroupRecords(records))[0]
			if g.PlanCategory != tt.want {
				t.Errorf("plan category = %q, want %q", g.PlanCategory, tt.want)
			}
		})
	}
}

func TestAggregate_CoverageTypeFromFirstRecord(t *testing.T) {
	first := record("Doe, John", "UHC-2000", "OCT", 2023, 1)
	first.CoverageType = "FAMILY"
	second := record("Doe, John", "UHC-2000", "NOV", 2023, 1)
	second.CoverageType = "EMPLOYEE"

	g := Aggregate(GroupRecords([]ChargeRecord{first, second}))[0]
	if g.CoverageType != "FAMILY" {
		t.Errorf("coverage type = %q, want FAMILY (first record wins)", g.CoverageType)
	}
}

func assertDecimal(t *testing.T, label string, got decimal.Decimal, want int64) {
	t.Helper()
	if !got.Equal(decimal.NewFromInt(want)) {
		t.Errorf("%s = %s, want %d", label, got, want)
	}
}
