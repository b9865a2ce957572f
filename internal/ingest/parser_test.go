package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParsePlanName(t *testing.T) {
	tests := []struct {
		name     string
		planName string
		want     FileInfo
		wantErr  bool
	}{
		{
			name:     "uhg file",
			planName: "UHG-OCT-2024",
			want:     FileInfo{BasePlan: "UHG", Month: "OCT", Year: 2024},
		},
		{
			name:     "uhc plan file",
			planName: "UHC-3000-OCT-2024",
			want:     FileInfo{BasePlan: "UHC-3000", Month: "OCT", Year: 2024},
		},
		{
			name:     "lowercase input",
			planName: "uhc-2000-jan-2025",
			want:     FileInfo{BasePlan: "UHC-2000", Month: "JAN", Year: 2025},
		},
		{
			name:     "bad month",
			planName: "UHC-2000-XXX-2024",
			wantErr:  true,
		},
		{
			name:     "bad year",
			planName: "UHG-OCT-NOPE",
			wantErr:  true,
		},
		{
			name:     "too few parts",
			planName: "UHG-2024",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePlanName(tt.planName)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePlanName(%q) succeeded, want error", tt.planName)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePlanName(%q): %v", tt.planName, err)
			}
			if got != tt.want {
				t.Errorf("ParsePlanName(%q) = %+v, want %+v", tt.planName, got, tt.want)
			}
		})
	}
}

func TestUHGPlanType(t *testing.T) {
	tests := []struct {
		name               string
		plan, policy, ctyp string
		want               string
	}{
		{name: "life in plan", plan: "TERM LIFE", want: "UHG-LIFE"},
		{name: "gtl in policy", policy: "GTL-100", want: "UHG-LIFE"},
		{name: "vision", plan: "VSP STANDARD", want: "UHG-VISION"},
		{name: "dental dhmo", policy: "DHMO-5", want: "UHG-DENTAL"},
		{name: "coverage type fallback", ctyp: "DENTAL FAMILY", want: "UHG-DENTAL"},
		{name: "nothing matches", plan: "MYSTERY", want: "UHG-OTHER"},
		{name: "plan outranks coverage type", plan: "LIFE", ctyp: "DENTAL", want: "UHG-LIFE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UHGPlanType(tt.plan, tt.policy, tt.ctyp); got != tt.want {
				t.Errorf("UHGPlanType(%q, %q, %q) = %q, want %q",
					tt.plan, tt.policy, tt.ctyp, got, tt.want)
			}
		})
	}
}

func TestParseCSV(t *testing.T) {
	csvData := `ID,Coverage Type,Adj Code,Coverage Dates,Charge Amount
12345 - Doe    John,EMPLOYEE,,10/01/2024 - 10/31/2024,"$1,234.56"
67890 - Roe Jane,FAMILY,TRM 10/15,10/01/2024 - 10/14/2024,(45.00)
99999 - Poe Edgar,EMPLOYEE,,,not-a-number
`

	info := FileInfo{BasePlan: "UHC-2000", Month: "OCT", Year: 2024}
	records, err := ParseCSV(context.Background(), strings.NewReader(csvData), info)
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("parsed %d records, want 2 (bad-amount row skipped)", len(records))
	}

	first := records[0]
	if first.SubscriberName != "12345 - Doe    John" {
		t.Errorf("subscriber name = %q", first.SubscriberName)
	}
	if !first.ChargeAmount.Equal(decimal.RequireFromString("1234.56")) {
		t.Errorf("amount = %s, want 1234.56", first.ChargeAmount)
	}
	if first.Plan != "UHC-2000" {
		t.Errorf("plan = %q, want UHC-2000", first.Plan)
	}
	if first.Status != "NO ADJUSTMENTS" {
		t.Errorf("status = %q, want NO ADJUSTMENTS default", first.Status)
	}
	if first.Month != "OCT" || first.Year != 2024 {
		t.Errorf("period = %s-%d, want OCT-2024", first.Month, first.Year)
	}

	second := records[1]
	if !second.ChargeAmount.Equal(decimal.RequireFromString("-45")) {
		t.Errorf("credit amount = %s, want -45", second.ChargeAmount)
	}
	if second.Status != "TRM 10/15" {
		t.Errorf("status = %q, want TRM 10/15", second.Status)
	}
}

func TestParseCSV_UHGPlanTypesPerRow(t *testing.T) {
	csvData := `ID,Plan,Policy,Coverage Type,Amount
1 - Doe John,TERM LIFE,,EMPLOYEE,10.00
2 - Doe John,,VSP-STD,EMPLOYEE,20.00
3 - Doe John,,,DENTAL,30.00
4 - Doe John,,,,40.00
`

	info := FileInfo{BasePlan: "UHG", Month: "NOV", Year: 2024}
	records, err := ParseCSV(context.Background(), strings.NewReader(csvData), info)
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("parsed %d records, want 4", len(records))
	}

	wantPlans := []string{"UHG-LIFE", "UHG-VISION", "UHG-DENTAL", "UHG-OTHER"}
	for i, want := range wantPlans {
		if records[i].Plan != want {
			t.Errorf("record %d plan = %q, want %q", i, records[i].Plan, want)
		}
	}
}

func TestParseCSV_NoAmountColumn(t *testing.T) {
	csvData := "ID,Coverage Type\n1 - Doe John,EMPLOYEE\n"
	info := FileInfo{BasePlan: "UHC-2000", Month: "OCT", Year: 2024}

	if _, err := ParseCSV(context.Background(), strings.NewReader(csvData), info); err == nil {
		t.Error("expected an error when no amount column exists")
	}
}
