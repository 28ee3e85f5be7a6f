package date

import (
	"encoding/json"
	"testing"
	"time"
)

func TestAddMonths_Clamping(t *testing.T) {
	tests := []struct {
		name   string
		start  Date
		months int
		want   Date
	}{
		{"forward simple", New(2025, time.March, 15), 1, New(2025, time.April, 15)},
		{"forward clamp", New(2025, time.January, 31), 1, New(2025, time.February, 28)},
		{"forward clamp leap", New(2024, time.January, 31), 1, New(2024, time.February, 29)},
		{"backward simple", New(2025, time.June, 30), -6, New(2024, time.December, 30)},
		{"backward clamp", New(2025, time.May, 31), -3, New(2025, time.February, 28)},
		{"backward eom", New(2030, time.July, 31), -1, New(2030, time.June, 30)},
		{"year wrap", New(2025, time.January, 15), -3, New(2024, time.October, 15)},
		{"zero months", New(2025, time.January, 15), 0, New(2025, time.January, 15)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.start.AddMonths(tt.months); got != tt.want {
				t.Errorf("%s.AddMonths(%d) = %s, want %s", tt.start, tt.months, got, tt.want)
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	a := New(2025, time.January, 1)
	if got := DaysBetween(a, New(2025, time.January, 1)); got != 0 {
		t.Errorf("DaysBetween same day = %d, want 0", got)
	}
	if got := DaysBetween(a, New(2026, time.January, 1)); got != 365 {
		t.Errorf("DaysBetween over a year = %d, want 365", got)
	}
	if got := DaysBetween(New(2024, time.January, 1), New(2025, time.January, 1)); got != 366 {
		t.Errorf("DaysBetween over a leap year = %d, want 366", got)
	}
	if got := DaysBetween(a, New(2024, time.December, 31)); got != -1 {
		t.Errorf("DaysBetween backwards = %d, want -1", got)
	}
}

func TestParseAndString(t *testing.T) {
	d, err := Parse("2025-7-1")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if d.String() != "2025-07-01" {
		t.Errorf("String() = %q, want %q", d.String(), "2025-07-01")
	}
	if _, err := Parse("not-a-date"); err == nil {
		t.Error("Parse() expected an error for garbage input")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	d := New(2025, time.August, 30)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(b) != `"2025-08-30"` {
		t.Errorf("Marshal() = %s", b)
	}
	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if back != d {
		t.Errorf("round trip = %s, want %s", back, d)
	}
}

func TestRangeContains(t *testing.T) {
	r := NewRange(New(2025, time.January, 1), New(2025, time.December, 31))
	if !r.Contains(New(2025, time.January, 1)) || !r.Contains(New(2025, time.December, 31)) {
		t.Error("Contains() should include boundaries")
	}
	if r.Contains(New(2024, time.December, 31)) {
		t.Error("Contains() should exclude dates before From")
	}
}
