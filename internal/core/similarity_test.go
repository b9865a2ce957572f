package core

import "testing"

func TestSimilar(t *testing.T) {
	tests := []struct {
		name      string
		a, b      string
		threshold float64
		want      bool
	}{
		{
			name:      "identical names",
			a:         "JOHN",
			b:         "JOHN",
			threshold: GroupingThreshold,
			want:      true,
		},
		{
			name:      "case insensitive",
			a:         "John",
			b:         "JOHN",
			threshold: GroupingThreshold,
			want:      true,
		},
		{
			name:      "one character typo",
			a:         "JOHN",
			b:         "JON",
			threshold: GroupingThreshold,
			want:      true,
		},
		{
			name:      "completely different names",
			a:         "JOHN",
			b:         "ALEXANDRA",
			threshold: GroupingThreshold,
			want:      false,
		},
		{
			name:      "both empty strings match",
			a:         "",
			b:         "",
			threshold: GroupingThreshold,
			want:      true,
		},
		{
			name:      "empty against short name",
			a:         "",
			b:         "JO",
			threshold: GroupingThreshold,
			want:      false,
		},
		{
			name:      "ratio exactly at threshold matches",
			a:         "ABC",
			b:         "AXY",
			threshold: 2.0 / 3.0,
			want:      true,
		},
		{
			name:      "looser lookup threshold accepts more",
			a:         "KATHERINE",
			b:         "KATY",
			threshold: LookupThreshold,
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Similar(tt.a, tt.b, tt.threshold); got != tt.want {
				t.Errorf("Similar(%q, %q, %v) = %v, want %v",
					tt.a, tt.b, tt.threshold, got, tt.want)
			}
		})
	}
}
