package core

import "time"

// MonthRange returns the half-open interval covering a calendar month:
// start is the first day of the month, end is the first day of the following
// month, so date comparisons are start <= d < end.
func MonthRange(year, month int) (start, end time.Time) {
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0)
	return start, end
}

// ShiftMonth adds delta months (positive or negative) with year rollover.
func ShiftMonth(year, month, delta int) (int, int) {
	t := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, delta, 0)
	return t.Year(), int(t.Month())
}

// LastDayOfMonth returns 28-31 via calendar arithmetic; day zero of the next
// month is the last day of this one.
func LastDayOfMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDayToMonth bounds a recurrence day-of-month to the days the target
// month actually has.
func ClampDayToMonth(day, year, month int) int {
	if day < 1 {
		return 1
	}
	if last := LastDayOfMonth(year, month); day > last {
		return last
	}
	return day
}

// PeriodKey formats (year, month) as the YYYY-MM tag stored on materialized
// entries.
func PeriodKey(year, month int) string {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}
