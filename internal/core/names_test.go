package core

import "testing"

func TestParseName(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantFirst string
		wantLast  string
	}{
		{
			name:      "last comma first",
			raw:       "Doe, John",
			wantFirst: "JOHN",
			wantLast:  "DOE",
		},
		{
			name:      "first last",
			raw:       "John Doe",
			wantFirst: "JOHN",
			wantLast:  "DOE",
		},
		{
			name:      "leading numeric id",
			raw:       "12345 - John Doe",
			wantFirst: "JOHN",
			wantLast:  "DOE",
		},
		{
			name:      "leading id with comma format",
			raw:       "98765 - Doe, John",
			wantFirst: "JOHN",
			wantLast:  "DOE",
		},
		{
			name:      "multi token last name",
			raw:       "Maria De La Cruz",
			wantFirst: "MARIA",
			wantLast:  "DE LA CRUZ",
		},
		{
			name:      "single token becomes last name",
			raw:       "Doe",
			wantFirst: "",
			wantLast:  "DOE",
		},
		{
			name:      "extra whitespace trimmed",
			raw:       "  Doe ,  John  ",
			wantFirst: "JOHN",
			wantLast:  "DOE",
		},
		{
			name:      "lowercase input upper cased",
			raw:       "doe, john",
			wantFirst: "JOHN",
			wantLast:  "DOE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := ParseName(tt.raw)
			if first != tt.wantFirst || last != tt.wantLast {
				t.Errorf("ParseName(%q) = (%q, %q), want (%q, %q)",
					tt.raw, first, last, tt.wantFirst, tt.wantLast)
			}
		})
	}
}
