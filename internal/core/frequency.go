package core

import "time"

const (
	FrequencyDay   Frequency = "day"
	FrequencyWeek  Frequency = "week"
	FrequencyMonth Frequency = "month"
	FrequencyYear  Frequency = "year"
)

// Frequency is a budget's own recurrence window, distinct from the
// dashboard's reporting period. Each budget evaluates its frequency against
// "now" at call time, independent of any period the user selected.
type Frequency string

// Valid reports whether f is one of the four known frequencies. Unknown
// values are still accepted by Window; they simply match everything.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDay, FrequencyWeek, FrequencyMonth, FrequencyYear:
		return true
	}
	return false
}

// Window resolves the budget's active window anchored at now. The boolean is
// false for unrecognized frequencies, meaning every transaction counts; this
// fallback is deliberate, not an error.
func (f Frequency) Window(now time.Time) (DateRange, bool) {
	today := DayOf(now)
	switch f {
	case FrequencyDay:
		return DateRange{From: today, To: today}, true
	case FrequencyWeek:
		// Calendar week starting Sunday.
		start := today.AddDate(0, 0, -int(today.Weekday()))
		return DateRange{From: start, To: start.AddDate(0, 0, 6)}, true
	case FrequencyMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return DateRange{From: first, To: first.AddDate(0, 1, -1)}, true
	case FrequencyYear:
		first := time.Date(today.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		return DateRange{From: first, To: first.AddDate(1, 0, -1)}, true
	default:
		return DateRange{}, false
	}
}
