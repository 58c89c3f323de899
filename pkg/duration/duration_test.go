package duration

import (
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		ms       int64
		minimal  bool
		expected string
	}{
		{"zero non-minimal", 0, false, "N/A"},
		{"zero minimal", 0, true, "00:00"},
		{"one second", 1000, false, "1 second"},
		{"one second minimal", 1000, true, "00:01"},
		{"seconds only", 45000, false, "45 seconds"},
		{"minute and second", 61000, true, "01:01"},
		{"hour and a half", 5400000, false, "1 hour and 30 minutes"},
		{"hour and a half minimal", 5400000, true, "01:30:00"},
		{"day hour minute second", 90061000, false, "1 day, 1 hour, 1 minute and 1 second"},
		{"day hour minute second minimal", 90061000, true, "01:01:01:01"},
		{"week folds into days", 604800000, false, "7 days"},
		{"week folds into days minimal", 604800000, true, "07:00:00:00"},
		{"month", 2628000000, false, "1 month"},
		{"year and month", 34185600000, false, "1 year and 1 month"},
		{"sub-second rounds", 1499, false, "1 second"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Format(tt.ms, tt.minimal)
			if err != nil {
				t.Fatalf("Format(%d, %v) error = %v", tt.ms, tt.minimal, err)
			}
			if result != tt.expected {
				t.Errorf("Format(%d, %v) = %q, want %q", tt.ms, tt.minimal, result, tt.expected)
			}
		})
	}
}

func TestFormat_Negative(t *testing.T) {
	if _, err := Format(-1, false); err == nil {
		t.Error("Format(-1) should return an error")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
		ok       bool
	}{
		{"compact hours minutes", "1h30m", 5400000, true},
		{"bare integer is seconds", "90", 90000, true},
		{"zero is unparseable", "0", 0, false},
		{"empty string", "", 0, false},
		{"whitespace only", "   \t ", 0, false},
		{"colon clock", "01:30:00", 5400000, true},
		{"short colon clock", "2:05", 125000, true},
		{"colon clock with days", "1:01:01:01", 90061000, true},
		{"word units", "1 hour and 30 minutes", 5400000, true},
		{"plural words", "2 minutes 5 seconds", 125000, true},
		{"month word form", "3 months", 7884000000, true},
		{"weeks abbreviation", "2w", 1209600000, true},
		{"decimal value", "1.5h", 5400000, true},
		{"unknown units ignored", "10 bananas", 0, false},
		{"mixed known and unknown", "10 bananas 5s", 5000, true},
		{"no numbers", "soon", 0, false},
		{"zero clock", "00:00", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := Parse(tt.input)
			if ok != tt.ok {
				t.Fatalf("Parse(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && result != tt.expected {
				t.Errorf("Parse(%q) = %d, want %d", tt.input, result, tt.expected)
			}
		})
	}
}

// Durations made only of whole seconds, minutes, hours and days survive a
// Format/Parse round trip.
func TestFormatParseRoundTrip(t *testing.T) {
	values := []int64{1000, 45000, 60000, 125000, 3600000, 5400000, 86400000, 90061000}

	for _, ms := range values {
		text, err := Format(ms, false)
		if err != nil {
			t.Fatalf("Format(%d) error = %v", ms, err)
		}
		parsed, ok := Parse(text)
		if !ok {
			t.Fatalf("Parse(%q) failed for %d", text, ms)
		}
		if parsed != ms {
			t.Errorf("round trip %d -> %q -> %d", ms, text, parsed)
		}
	}
}
