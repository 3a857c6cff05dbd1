package timecode

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"0:00.00", 0},
		{"1:03.90", 63.90},
		{"3:51.10", 231.10},
		{"0:02.50", 2.5},
		{" 1:03.90 ", 63.90},
		{"12:00.00", 720},
	}

	for _, tc := range tests {
		if got := Parse(tc.in); got != tc.want {
			t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParse_Malformed(t *testing.T) {
	inputs := []string{"", "abc", "1:2:3", "1.03.90", "1:03", "63.90", "-1:00.00", "1:03.90x"}
	for _, in := range inputs {
		if got := Parse(in); got != 0 {
			t.Errorf("Parse(%q) = %v, want 0", in, got)
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0:00.00"},
		{63.9, "1:03.90"},
		{231.1, "3:51.10"},
		{59.999, "1:00.00"},
		{120, "2:00.00"},
	}

	for _, tc := range tests {
		if got := Format(tc.in); got != tc.want {
			t.Errorf("Format(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	canonical := []string{"0:00.00", "0:01.50", "1:03.90", "3:51.10", "10:59.99"}
	for _, s := range canonical {
		if got := Format(Parse(s)); got != s {
			t.Errorf("Format(Parse(%q)) = %q, want round-trip", s, got)
		}
	}
}
