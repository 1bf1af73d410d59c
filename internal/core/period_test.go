package core

import (
	"testing"
	"time"
)

func TestResolvePeriod(t *testing.T) {
	tests := []struct {
		name       string
		periodName string
		from       string
		to         string
		wantKind   PeriodKind
	}{
		{"day", "day", "", "", PeriodDay},
		{"week", "week", "", "", PeriodWeek},
		{"month", "month", "", "", PeriodMonth},
		{"year", "year", "", "", PeriodYear},
		{"custom with both bounds", "period", "2024-01-01", "2024-01-31", PeriodCustom},
		{"custom missing from", "period", "", "2024-01-31", PeriodAll},
		{"custom missing to", "period", "2024-01-01", "", PeriodAll},
		{"custom with garbage bounds", "period", "not-a-date", "2024-01-31", PeriodAll},
		{"unknown name degrades to all time", "bogus", "", "", PeriodAll},
		{"empty name degrades to all time", "", "", "", PeriodAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolvePeriod(tt.periodName, tt.from, tt.to)
			if got.Kind != tt.wantKind {
				t.Errorf("ResolvePeriod(%q) kind = %v, want %v", tt.periodName, got.Kind, tt.wantKind)
			}
		})
	}
}

func TestPeriodRange(t *testing.T) {
	// Wednesday, mid-month.
	now := time.Date(2024, 3, 13, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name       string
		period     Period
		wantBound  bool
		wantFrom   time.Time
		wantTo     time.Time
	}{
		{
			name:      "day is today only",
			period:    Period{Kind: PeriodDay},
			wantBound: true,
			wantFrom:  time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC),
			wantTo:    time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "week is trailing 7 days ending today",
			period:    Period{Kind: PeriodWeek},
			wantBound: true,
			wantFrom:  time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC),
			wantTo:    time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "month is current calendar month",
			period:    Period{Kind: PeriodMonth},
			wantBound: true,
			wantFrom:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			wantTo:    time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "year is current calendar year",
			period:    Period{Kind: PeriodYear},
			wantBound: true,
			wantFrom:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			wantTo:    time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "custom range keeps exact inclusive bounds",
			period:    Period{Kind: PeriodCustom, From: NewDate(2024, 1, 1), To: NewDate(2024, 1, 31)},
			wantBound: true,
			wantFrom:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			wantTo:    time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "all time has no bounds",
			period:    Period{Kind: PeriodAll},
			wantBound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, bounded := tt.period.Range(now)
			if bounded != tt.wantBound {
				t.Fatalf("Range() bounded = %v, want %v", bounded, tt.wantBound)
			}
			if !bounded {
				if !r.IsZero() {
					t.Errorf("unbounded range should be zero, got %+v", r)
				}
				return
			}
			if !r.From.Equal(tt.wantFrom) {
				t.Errorf("Range() from = %v, want %v", r.From, tt.wantFrom)
			}
			if !r.To.Equal(tt.wantTo) {
				t.Errorf("Range() to = %v, want %v", r.To, tt.wantTo)
			}
		})
	}
}

func TestDateRangeContains(t *testing.T) {
	r := DateRange{
		From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"lower bound inclusive", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"upper bound inclusive", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), true},
		{"upper bound inclusive regardless of time of day", time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC), true},
		{"inside", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"before", time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), false},
		{"after", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.date); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}

	t.Run("zero range matches everything", func(t *testing.T) {
		var all DateRange
		if !all.Contains(time.Date(1970, 6, 1, 0, 0, 0, 0, time.UTC)) {
			t.Error("zero range should contain any date")
		}
	})
}
