package interval

import (
	"time"

	"github.com/julianstephens/fruitful/internal/models"
)

// StartOf returns the start boundary of the interval of unit iv that encloses t.
// Day starts at local midnight, weeks start on ISO Monday, months and years on
// their first instant, all in t's location.
func StartOf(iv models.HabitInterval, t time.Time) time.Time {
	switch iv {
	case models.IntervalWeek:
		// Go's weekday: Sunday=0; treat Sunday as 7 (ISO)
		wd := int(t.Weekday())
		if wd == 0 {
			wd = 7
		}
		monday := t.AddDate(0, 0, -(wd - 1))
		return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
	case models.IntervalMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	case models.IntervalYear:
		return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, t.Location())
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
}

// EndOf returns start advanced by exactly one unit. AddDate is calendar-aware,
// so month lengths and leap years are handled; the pair forms the half-open
// window [start, end).
func EndOf(iv models.HabitInterval, start time.Time) time.Time {
	switch iv {
	case models.IntervalWeek:
		return start.AddDate(0, 0, 7)
	case models.IntervalMonth:
		return start.AddDate(0, 1, 0)
	case models.IntervalYear:
		return start.AddDate(1, 0, 0)
	default:
		return start.AddDate(0, 0, 1)
	}
}

// Window returns the start and end boundaries of the interval enclosing t.
func Window(iv models.HabitInterval, t time.Time) (time.Time, time.Time) {
	start := StartOf(iv, t)
	return start, EndOf(iv, start)
}

// Width returns the length of the interval beginning at start.
func Width(iv models.HabitInterval, start time.Time) time.Duration {
	return EndOf(iv, start).Sub(start)
}

// Contains reports whether t falls inside the half-open window [start, end).
func Contains(start, end, t time.Time) bool {
	return !t.Before(start) && t.Before(end)
}
