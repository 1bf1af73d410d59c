package core

import (
	"testing"
	"time"
)

func TestFrequencyWindow(t *testing.T) {
	// Wednesday 2024-03-13; the Sunday-start week is Mar 10 through Mar 16.
	now := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		frequency  Frequency
		wantBound  bool
		wantFrom   time.Time
		wantTo     time.Time
	}{
		{
			name:      "day window is today",
			frequency: FrequencyDay,
			wantBound: true,
			wantFrom:  time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC),
			wantTo:    time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "week window starts Sunday",
			frequency: FrequencyWeek,
			wantBound: true,
			wantFrom:  time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			wantTo:    time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "month window is current calendar month",
			frequency: FrequencyMonth,
			wantBound: true,
			wantFrom:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			wantTo:    time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "year window is current calendar year",
			frequency: FrequencyYear,
			wantBound: true,
			wantFrom:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			wantTo:    time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "unknown frequency matches everything",
			frequency: Frequency("fortnight"),
			wantBound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, bounded := tt.frequency.Window(now)
			if bounded != tt.wantBound {
				t.Fatalf("Window() bounded = %v, want %v", bounded, tt.wantBound)
			}
			if !bounded {
				return
			}
			if !r.From.Equal(tt.wantFrom) {
				t.Errorf("Window() from = %v, want %v", r.From, tt.wantFrom)
			}
			if !r.To.Equal(tt.wantTo) {
				t.Errorf("Window() to = %v, want %v", r.To, tt.wantTo)
			}
		})
	}
}

func TestFrequencyWindowOnSunday(t *testing.T) {
	// When today is Sunday the week window starts today.
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	r, bounded := FrequencyWeek.Window(now)
	if !bounded {
		t.Fatal("week window should be bounded")
	}
	if !r.From.Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("week starting on Sunday: from = %v", r.From)
	}
	if !r.To.Equal(time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("week starting on Sunday: to = %v", r.To)
	}
}

func TestFrequencyValid(t *testing.T) {
	tests := []struct {
		frequency Frequency
		want      bool
	}{
		{FrequencyDay, true},
		{FrequencyWeek, true},
		{FrequencyMonth, true},
		{FrequencyYear, true},
		{Frequency("fortnight"), false},
		{Frequency(""), false},
	}

	for _, tt := range tests {
		if got := tt.frequency.Valid(); got != tt.want {
			t.Errorf("Frequency(%q).Valid() = %v, want %v", tt.frequency, got, tt.want)
		}
	}
}
