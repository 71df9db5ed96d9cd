package interval_test

import (
	"testing"
	"time"

	"github.com/julianstephens/fruitful/internal/interval"
	"github.com/julianstephens/fruitful/internal/models"
)

func TestStartOf(t *testing.T) {
	// 2026-02-27 is a Friday
	ref := time.Date(2026, 2, 27, 15, 42, 10, 0, time.UTC)

	tests := []struct {
		iv   models.HabitInterval
		want time.Time
	}{
		{models.IntervalDay, time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)},
		{models.IntervalWeek, time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)}, // Monday
		{models.IntervalMonth, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
		{models.IntervalYear, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got := interval.StartOf(tt.iv, ref)
		if !got.Equal(tt.want) {
			t.Errorf("StartOf(%s, %v) = %v, want %v", tt.iv, ref, got, tt.want)
		}
	}
}

func TestStartOf_SundayBelongsToPrecedingWeek(t *testing.T) {
	// 2026-03-01 is a Sunday; its ISO week starts Monday 2026-02-23
	sun := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	got := interval.StartOf(models.IntervalWeek, sun)
	want := time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("StartOf(week, sunday) = %v, want %v", got, want)
	}
}

func TestEndOf_CalendarAwareAddition(t *testing.T) {
	tests := []struct {
		name  string
		iv    models.HabitInterval
		start time.Time
		want  time.Time
	}{
		{
			"day",
			models.IntervalDay,
			time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			"week",
			models.IntervalWeek,
			time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			"28-day february",
			models.IntervalMonth,
			time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"31-day month",
			models.IntervalMonth,
			time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"leap year",
			models.IntervalYear,
			time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2029, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		got := interval.EndOf(tt.iv, tt.start)
		if !got.Equal(tt.want) {
			t.Errorf("%s: EndOf(%s, %v) = %v, want %v", tt.name, tt.iv, tt.start, got, tt.want)
		}
	}
}

func TestWindow_EnclosesReference(t *testing.T) {
	// start <= t < end must hold for every unit and a spread of references,
	// including boundary instants.
	refs := []time.Time{
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),   // year/month/day boundary
		time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC),
		time.Date(2028, 2, 29, 12, 0, 0, 0, time.UTC), // leap day
		time.Date(2026, 12, 31, 23, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 15, 4, 30, 0, 0, time.Local),
	}
	units := []models.HabitInterval{
		models.IntervalDay, models.IntervalWeek, models.IntervalMonth, models.IntervalYear,
	}

	for _, iv := range units {
		for _, ref := range refs {
			start, end := interval.Window(iv, ref)
			if start.After(ref) {
				t.Errorf("Window(%s, %v): start %v after reference", iv, ref, start)
			}
			if !end.After(ref) {
				t.Errorf("Window(%s, %v): end %v not after reference", iv, ref, end)
			}
		}
	}
}

func TestWidth(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	if got := interval.Width(models.IntervalMonth, start); got != 28*24*time.Hour {
		t.Errorf("Width(month, feb 2026) = %v, want 672h", got)
	}
	if got := interval.Width(models.IntervalWeek, start); got != 7*24*time.Hour {
		t.Errorf("Width(week) = %v, want 168h", got)
	}
}

func TestContains_HalfOpen(t *testing.T) {
	start, end := interval.Window(models.IntervalDay, time.Date(2026, 2, 27, 12, 0, 0, 0, time.UTC))

	if !interval.Contains(start, end, start) {
		t.Error("start boundary must be inside the window")
	}
	if interval.Contains(start, end, end) {
		t.Error("end boundary must be outside the window")
	}
	if interval.Contains(start, end, start.Add(-time.Nanosecond)) {
		t.Error("instant before start must be outside the window")
	}
}
