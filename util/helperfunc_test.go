package util

import "testing"

func TestContains(t *testing.T) {
	list := []string{"a", "b", "c"}
	if !Contains("b", list) {
		t.Fatalf("expected Contains to return true for existing item")
	}
	if Contains("x", list) {
		t.Fatalf("expected Contains to return false for missing item")
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "trim leading whitespace",
			input:    "  John Doe",
			expected: "John Doe",
		},
		{
			name:     "trim trailing whitespace",
			input:    "John Doe  ",
			expected: "John Doe",
		},
		{
			name:     "trim leading and trailing whitespace",
			input:    "  John Doe  ",
			expected: "John Doe",
		},
		{
			name:     "collapse multiple internal spaces",
			input:    "John  Doe",
			expected: "John Doe",
		},
		{
			name:     "collapse many internal spaces",
			input:    "John     Doe",
			expected: "John Doe",
		},
		{
			name:     "trim and collapse combined",
			input:    "  John    Doe  ",
			expected: "John Doe",
		},
		{
			name:     "already normalized",
			input:    "John Doe",
			expected: "John Doe",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "only whitespace",
			input:    "   ",
			expected: "",
		},
		{
			name:     "tabs and newlines",
			input:    "John\t\nDoe",
			expected: "John Doe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeName(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestParseIntDefault(t *testing.T) {
	cases := []struct {
		in   string
		def  int
		want int
	}{
		{"42", 45, 42},
		{" 7 ", 3, 7},
		{"", 45, 45},
		{"forty", 45, 45},
		{"4.5", 3, 3},
		{"-1", 3, -1},
	}
	for _, tc := range cases {
		if got := ParseIntDefault(tc.in, tc.def); got != tc.want {
			t.Errorf("ParseIntDefault(%q, %d) = %d, want %d", tc.in, tc.def, got, tc.want)
		}
	}
}

func TestParseFloatDefault(t *testing.T) {
	if got := ParseFloatDefault("63.5", 0); got != 63.5 {
		t.Errorf("ParseFloatDefault = %v, want 63.5", got)
	}
	if got := ParseFloatDefault("n/a", 1.5); got != 1.5 {
		t.Errorf("ParseFloatDefault = %v, want 1.5", got)
	}
}
