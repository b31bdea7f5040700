package utils

import "testing"

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{
			name:   "returns empty when limit non-positive",
			input:  "Bewerbung Elektriker",
			limit:  0,
			expect: "",
		},
		{
			name:   "shorter than limit",
			input:  "Maurer",
			limit:  10,
			expect: "Maurer",
		},
		{
			name:   "truncates and adds ellipsis",
			input:  "Zimmermann EFZ",
			limit:  5,
			expect: "Zimme...",
		},
		{
			name:   "trims surrounding whitespace",
			input:  "  Schreiner  ",
			limit:  6,
			expect: "Schrei...",
		},
		{
			name:   "counts runes not bytes",
			input:  "Gärtnerin",
			limit:  3,
			expect: "Gär...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	if got := Truncate("Zürich", 2); got != "Zü" {
		t.Fatalf("expected rune-safe prefix, got %q", got)
	}
	if got := Truncate("Bern", 10); got != "Bern" {
		t.Fatalf("expected input unchanged, got %q", got)
	}
	if got := Truncate("Bern", -1); got != "" {
		t.Fatalf("expected empty for negative limit, got %q", got)
	}
}
