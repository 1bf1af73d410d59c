package core

import (
	"strings"
	"time"
)

const (
	PeriodDay    PeriodKind = "day"
	PeriodWeek   PeriodKind = "week"
	PeriodMonth  PeriodKind = "month"
	PeriodYear   PeriodKind = "year"
	PeriodCustom PeriodKind = "period"
	PeriodAll    PeriodKind = "all"
)

type (
	// PeriodKind is the dashboard's reporting window selector.
	PeriodKind string

	// Period is a resolved reporting window: a named bucket, an explicit
	// custom range, or all time. It exists only for the duration of one
	// aggregation request and is never persisted.
	Period struct {
		Kind PeriodKind
		From Date // set only for PeriodCustom
		To   Date // set only for PeriodCustom
	}

	// DateRange is an inclusive calendar-date filter handed to the store.
	// A zero From or To leaves that side unbounded; the zero DateRange
	// matches everything.
	DateRange struct {
		From time.Time
		To   time.Time
	}
)

// ResolvePeriod translates request parameters into a Period. Unknown period
// names and a custom period missing either bound degrade to all time; no
// input ever raises an error. This permissiveness matches the UI contract.
func ResolvePeriod(name, from, to string) Period {
	switch PeriodKind(strings.TrimSpace(name)) {
	case PeriodDay:
		return Period{Kind: PeriodDay}
	case PeriodWeek:
		return Period{Kind: PeriodWeek}
	case PeriodMonth:
		return Period{Kind: PeriodMonth}
	case PeriodYear:
		return Period{Kind: PeriodYear}
	case PeriodCustom:
		f, errFrom := ParseDate(from)
		t, errTo := ParseDate(to)
		if errFrom != nil || errTo != nil {
			return Period{Kind: PeriodAll}
		}
		return Period{Kind: PeriodCustom, From: f, To: t}
	default:
		return Period{Kind: PeriodAll}
	}
}

// Range resolves the period against a reference time into a concrete date
// filter. The boolean is false when the period places no restriction on dates.
func (p Period) Range(now time.Time) (DateRange, bool) {
	today := DayOf(now)
	switch p.Kind {
	case PeriodDay:
		return DateRange{From: today, To: today}, true
	case PeriodWeek:
		// Trailing window: the last 7 days ending today.
		return DateRange{From: today.AddDate(0, 0, -7), To: today}, true
	case PeriodMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return DateRange{From: first, To: first.AddDate(0, 1, -1)}, true
	case PeriodYear:
		first := time.Date(today.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		return DateRange{From: first, To: first.AddDate(1, 0, -1)}, true
	case PeriodCustom:
		return DateRange{From: DayOf(p.From.Time), To: DayOf(p.To.Time)}, true
	default:
		// PeriodAll and anything unforeseen: no filter.
		return DateRange{}, false
	}
}

// String returns the request-facing name of the period.
func (p Period) String() string {
	return string(p.Kind)
}

// DayOf truncates a time to its calendar date in UTC.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsZero reports whether the range places no restriction at all.
func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// Contains reports whether the calendar date of t falls inside the range,
// bounds inclusive.
func (r DateRange) Contains(t time.Time) bool {
	d := DayOf(t)
	if !r.From.IsZero() && d.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && d.After(r.To) {
		return false
	}
	return true
}
