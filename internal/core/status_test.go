package core

import "testing"

func TestIsTerminated(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
		want     bool
	}{
		{name: "no termination codes", statuses: []string{"NO ADJUSTMENTS", "ACTIVE"}, want: false},
		{name: "trm substring present", statuses: []string{"NO ADJUSTMENTS", "TRM 01/15"}, want: true},
		{name: "lowercase trm", statuses: []string{"trm"}, want: true},
		{name: "trm embedded in longer code", statuses: []string{"ADJ-TRM-2024"}, want: true},
		{name: "empty group", statuses: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &EmployeeGroup{}
			for _, s := range tt.statuses {
				g.Records = append(g.Records, ChargeRecord{Status: s})
			}
			if got := IsTerminated(g); got != tt.want {
				t.Errorf("IsTerminated = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEffectiveActive(t *testing.T) {
	tests := []struct {
		name       string
		id         int
		overrides  map[int]bool
		terminated bool
		want       bool
	}{
		{name: "no override, not terminated", id: 1, overrides: nil, terminated: false, want: true},
		{name: "no override, terminated", id: 1, overrides: nil, terminated: true, want: false},
		{name: "override forces active despite termination", id: 2, overrides: map[int]bool{2: true}, terminated: true, want: true},
		{name: "override forces inactive despite clean records", id: 3, overrides: map[int]bool{3: false}, terminated: false, want: false},
		{name: "override for other group ignored", id: 4, overrides: map[int]bool{9: false}, terminated: false, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectiveActive(tt.id, tt.overrides, tt.terminated); got != tt.want {
				t.Errorf("EffectiveActive = %v, want %v", got, tt.want)
			}
		})
	}
}
