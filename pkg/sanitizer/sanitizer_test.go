package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"only whitespace", "   \t\n  ", ""},
		{"collapses internal whitespace", "North   Campus \t Loop", "North Campus Loop"},
		{"trims edges", "  Dana Levi  ", "Dana Levi"},
		{"already clean", "Depot Express", "Depot Express"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			if got != tt.expected {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	got := NormalizeEmail("  Dana.Levi@Example.COM ")
	if got != "dana.levi@example.com" {
		t.Errorf("NormalizeEmail() = %q, want %q", got, "dana.levi@example.com")
	}
}

func TestNormalizeRegistration(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{" ab 123 cd ", "AB123CD"},
		{"xy-987", "XY-987"},
		{"", ""},
	}

	for _, tt := range tests {
		got := NormalizeRegistration(tt.input)
		if got != tt.expected {
			t.Errorf("NormalizeRegistration(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
