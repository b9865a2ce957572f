package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func record(name, plan, month string, year int, amount int64) ChargeRecord {
	return ChargeRecord{
		SubscriberName: name,
		Plan:           plan,
		CoverageType:   "EMPLOYEE",
		Status:         "NO ADJUSTMENTS",
		Month:          month,
		Year:           year,
		ChargeAmount:   decimal.NewFromInt(amount),
	}
}

func TestGroupRecords_VariantNameFormats(t *testing.T) {
	records := []ChargeRecord{
		record("Doe, John", "UHC-2000", "OCT", 2023, 100),
		record("John Doe", "UHC-2000", "NOV", 2023, 100),
	}

	groups := Aggregate(GroupRecords(records))

	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	g := groups[0]
	if g.LastName != "DOE" || g.FirstName != "JOHN" {
		t.Errorf("group identity = (%q, %q), want (DOE, JOHN)", g.LastName, g.FirstName)
	}
	if want := decimal.NewFromInt(200); !g.GrandTotal.Equal(want) {
		t.Errorf("grand total = %s, want %s", g.GrandTotal, want)
	}
	if want := decimal.NewFromInt(200); !g.Totals.Medical.Equal(want) {
		t.Errorf("medical total = %s, want %s", g.Totals.Medical, want)
	}
	if g.PlanCategory != "2000" {
		t.Errorf("plan category = %q, want 2000", g.PlanCategory)
	}
}

func TestGroupRecords_FuzzyFirstNameJoinsExistingGroup(t *testing.T) {
	records := []ChargeRecord{
		record("Smith, Jonathan", "UHG-DENTAL", "OCT", 2023, 10),
		record("Smith, Jonathon", "UHG-DENTAL", "NOV", 2023, 10),
	}

	groups := GroupRecords(records)

	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	// Representative name is fixed at creation; the later variant spelling
	// must not overwrite it.
	if groups[0].FirstName != "JONATHAN" {
		t.Errorf("representative first name = %q, want JONATHAN", groups[0].FirstName)
	}
	if len(groups[0].Records) != 2 {
		t.Errorf("record count = %d, want 2", len(groups[0].Records))
	}
}

func TestGroupRecords_DifferentLastNamesNeverMerge(t *testing.T) {
	records := []ChargeRecord{
		record("Doe, John", "UHC-2000", "OCT", 2023, 100),
		record("Roe, John", "UHC-2000", "OCT", 2023, 100),
	}

	groups := GroupRecords(records)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
}

func TestGroupRecords_FirstMatchWinsInBucketOrder(t *testing.T) {
	// "AL" and "ALICIA" are just over the threshold from each other, so
	// they form two groups. "ALI" is within threshold of both; it must
	// land in the group created first.
	records := []ChargeRecord{
		record("Doe, Al", "UHC-2000", "OCT", 2023, 1),
		record("Doe, Alicia", "UHC-2000", "OCT", 2023, 1),
		record("Doe, Ali", "UHC-2000", "NOV", 2023, 1),
	}

	groups := GroupRecords(records)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if got := len(groups[0].Records); got != 2 {
		t.Errorf("first group record count = %d, want 2 (first match wins)", got)
	}
	if got := len(groups[1].Records); got != 1 {
		t.Errorf("second group record count = %d, want 1", got)
	}
}

func TestGroupRecords_IDsAssignedByOutputIndex(t *testing.T) {
	records := []ChargeRecord{
		record("Doe, John", "UHC-2000", "OCT", 2023, 1),
		record("Roe, Jane", "UHC-3000", "OCT", 2023, 1),
		record("Poe, Edgar", "UHG-LIFE", "OCT", 2023, 1),
	}

	groups := GroupRecords(records)
	for i, g := range groups {
		if g.ID != i {
			t.Errorf("group %d has ID %d", i, g.ID)
		}
	}
}

func TestGroupRecords_EmptyInput(t *testing.T) {
	if groups := GroupRecords(nil); len(groups) != 0 {
		t.Errorf("expected no groups for empty input, got %d", len(groups))
	}
}

func TestFindGroupByName(t *testing.T) {
	groups := GroupRecords([]ChargeRecord{
		record("Doe, Katherine", "UHC-2000", "OCT", 2023, 1),
		record("Roe, Jane", "UHC-3000", "OCT", 2023, 1),
	})

	tests := []struct {
		name   string
		query  string
		wantID int
		found  bool
	}{
		{name: "exact name", query: "Katherine Doe", wantID: 0, found: true},
		{name: "fuzzy first name", query: "Katy Doe", wantID: 0, found: true},
		{name: "wrong last name", query: "Katherine Smith", found: false},
		{name: "unknown person", query: "Bob Zimmer", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := FindGroupByName(groups, tt.query)
			if tt.found {
				if g == nil {
					t.Fatalf("FindGroupByName(%q) = nil, want group %d", tt.query, tt.wantID)
				}
				if g.ID != tt.wantID {
					t.Errorf("FindGroupByName(%q) = group %d, want %d", tt.query, g.ID, tt.wantID)
				}
			} else if g != nil {
				t.Errorf("FindGroupByName(%q) = group %d, want nil", tt.query, g.ID)
			}
		})
	}
}
