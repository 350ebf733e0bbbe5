package models

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-12-10")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if d != (Date{Year: 2024, Month: time.December, Day: 10}) {
		t.Errorf("ParseDate = %+v", d)
	}
	if d.String() != "2024-12-10" {
		t.Errorf("String() = %q, want 2024-12-10", d.String())
	}

	for _, bad := range []string{"", "2024-13-01", "12/10/2024", "2024-12-10T00:00:00Z"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) expected error", bad)
		}
	}
}

func TestDateArithmetic(t *testing.T) {
	tests := []struct {
		name  string
		d     string
		other string
		want  int64
	}{
		{"same day", "2024-12-10", "2024-12-10", 0},
		{"two days late", "2024-12-12", "2024-12-10", 2},
		{"one day early", "2024-12-09", "2024-12-10", -1},
		{"across month", "2025-03-01", "2025-02-27", 2},
		{"leap year", "2024-03-01", "2024-02-28", 2},
		{"across year", "2025-01-02", "2024-12-30", 3},
		{"centuries apart", "2024-12-10", "1700-01-10", 118673},
		{"centuries before", "1700-01-10", "2024-12-10", -118673},
		{"millennia apart", "9999-12-31", "0001-01-01", 3652058},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MustParseDate(tt.d).DaysSince(MustParseDate(tt.other))
			if got != tt.want {
				t.Errorf("DaysSince = %d, want %d", got, tt.want)
			}
		})
	}

	// Lexical comparison of non-padded dates would get this wrong.
	if !NewDate(2024, time.December, 10).After(NewDate(2024, time.December, 9)) {
		t.Error("expected 2024-12-10 after 2024-12-09")
	}
	if got := MustParseDate("2024-12-31").AddDays(1); got.String() != "2025-01-01" {
		t.Errorf("AddDays rolled to %s", got)
	}
}

func TestDateScanValue(t *testing.T) {
	var d Date
	if err := d.Scan("2024-12-01"); err != nil {
		t.Fatalf("Scan string failed: %v", err)
	}
	if d.String() != "2024-12-01" {
		t.Errorf("scanned %s", d)
	}
	if err := d.Scan([]byte("2024-12-02")); err != nil {
		t.Fatalf("Scan bytes failed: %v", err)
	}
	if err := d.Scan(time.Date(2024, 12, 3, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Scan time failed: %v", err)
	}
	if d.String() != "2024-12-03" {
		t.Errorf("scanned %s", d)
	}
	if err := d.Scan(42); err == nil {
		t.Error("expected error scanning int")
	}

	v, err := d.Value()
	if err != nil || v != "2024-12-03" {
		t.Errorf("Value() = %v, %v", v, err)
	}
	if v, _ := (Date{}).Value(); v != nil {
		t.Errorf("zero Value() = %v, want nil", v)
	}
}

func TestReturnOutcomeMessage(t *testing.T) {
	if got := (ReturnOutcome{FineAmount: 2}).Message(); got != "Book returned late. 2 fine applied." {
		t.Errorf("late message = %q", got)
	}
	if got := (ReturnOutcome{OnTime: true}).Message(); got != "Book returned successfully, no fine." {
		t.Errorf("on-time message = %q", got)
	}
	if got := (UserSummary{Name: "Alice", Email: "alice@email.com"}).Message(); got != "User: Alice (Email: alice@email.com)" {
		t.Errorf("user message = %q", got)
	}
}
