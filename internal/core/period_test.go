package core

import (
	"testing"
	"time"
)

func TestMonthRange(t *testing.T) {
	tests := []struct {
		name        string
		year, month int
		wantStart   time.Time
		wantEnd     time.Time
	}{
		{
			name: "mid year",
			year: 2024, month: 5,
			wantStart: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "december rolls into january",
			year: 2023, month: 12,
			wantStart: time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "february leap year",
			year: 2024, month: 2,
			wantStart: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := MonthRange(tt.year, tt.month)
			if !start.Equal(tt.wantStart) {
				t.Errorf("MonthRange() start = %v, want %v", start, tt.wantStart)
			}
			if !end.Equal(tt.wantEnd) {
				t.Errorf("MonthRange() end = %v, want %v", end, tt.wantEnd)
			}
		})
	}
}

// The end of any month equals the start of the next month.
func TestMonthRangeAdjacency(t *testing.T) {
	for year := 2023; year <= 2026; year++ {
		for month := 1; month <= 12; month++ {
			_, end := MonthRange(year, month)
			ny, nm := ShiftMonth(year, month, 1)
			nextStart, _ := MonthRange(ny, nm)
			if !end.Equal(nextStart) {
				t.Errorf("MonthRange(%d,%d) end = %v, next start = %v", year, month, end, nextStart)
			}
		}
	}
}

func TestShiftMonth(t *testing.T) {
	tests := []struct {
		name                 string
		year, month, delta   int
		wantYear, wantMonth  int
	}{
		{"forward within year", 2024, 3, 2, 2024, 5},
		{"backward within year", 2024, 6, -1, 2024, 5},
		{"forward across year", 2024, 11, 3, 2025, 2},
		{"backward across year", 2024, 1, -1, 2023, 12},
		{"backward two years", 2024, 2, -14, 2022, 12},
		{"zero delta", 2024, 7, 0, 2024, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotYear, gotMonth := ShiftMonth(tt.year, tt.month, tt.delta)
			if gotYear != tt.wantYear || gotMonth != tt.wantMonth {
				t.Errorf("ShiftMonth(%d,%d,%d) = (%d,%d), want (%d,%d)",
					tt.year, tt.month, tt.delta, gotYear, gotMonth, tt.wantYear, tt.wantMonth)
			}
		})
	}
}

func TestLastDayOfMonth(t *testing.T) {
	tests := []struct {
		name        string
		year, month int
		want        int
	}{
		{"january", 2024, 1, 31},
		{"february leap", 2024, 2, 29},
		{"february non-leap", 2023, 2, 28},
		{"february century non-leap", 1900, 2, 28},
		{"february 400-year leap", 2000, 2, 29},
		{"april", 2024, 4, 30},
		{"december", 2024, 12, 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LastDayOfMonth(tt.year, tt.month); got != tt.want {
				t.Errorf("LastDayOfMonth(%d,%d) = %d, want %d", tt.year, tt.month, got, tt.want)
			}
		})
	}
}

func TestClampDayToMonth(t *testing.T) {
	tests := []struct {
		name             string
		day, year, month int
		want             int
	}{
		{"day 31 in february leap", 31, 2024, 2, 29},
		{"day 31 in february non-leap", 31, 2023, 2, 28},
		{"day 31 in april", 31, 2024, 4, 30},
		{"day within month", 15, 2024, 2, 15},
		{"day below one", 0, 2024, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampDayToMonth(tt.day, tt.year, tt.month); got != tt.want {
				t.Errorf("ClampDayToMonth(%d,%d,%d) = %d, want %d", tt.day, tt.year, tt.month, got, tt.want)
			}
		})
	}
}

func TestPeriodKey(t *testing.T) {
	if got := PeriodKey(2024, 2); got != "2024-02" {
		t.Errorf("PeriodKey(2024,2) = %q, want %q", got, "2024-02")
	}
	if got := PeriodKey(2024, 11); got != "2024-11" {
		t.Errorf("PeriodKey(2024,11) = %q, want %q", got, "2024-11")
	}
}
