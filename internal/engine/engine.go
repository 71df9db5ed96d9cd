package engine

import (
	"time"

	"github.com/julianstephens/fruitful/internal/interval"
	"github.com/julianstephens/fruitful/internal/models"
)

// ActiveCount sums the counts of entries attributed to the habit's current
// interval window. Entries belonging to a different habit are ignored, so a
// caller may pass an over-broad snapshot.
func ActiveCount(h models.Habit, entries []models.HabitEntry) int {
	total := 0
	for _, e := range entries {
		if e.HabitID != h.ID {
			continue
		}
		if e.Timestamp.Before(h.IntervalStartAt) {
			continue
		}
		total += e.Count
	}
	return total
}

// IsCompleted reports whether the habit's goal is met for its current interval.
func IsCompleted(h models.Habit) bool {
	return !h.CompletedUntil.Before(h.IntervalEndAt)
}

// Recompute re-derives the habit's completion state from the given entries.
// It must be called with the full active-entries snapshot after every entry
// mutation, never with a delta. Returns whether the habit changed.
//
// The transition is symmetric: crossing the goal marks the interval complete
// and bumps the counters; a retroactive edit that drops the active count back
// below the goal un-marks it and walks the counters back. Calling Recompute
// again with unchanged entries is a no-op.
func Recompute(h *models.Habit, entries []models.HabitEntry, now time.Time) bool {
	active := ActiveCount(*h, entries)

	switch {
	case !IsCompleted(*h) && active >= h.GoalCount:
		h.CompletedUntil = h.IntervalEndAt
		completedAt := now
		h.CompletedAt = &completedAt
		h.CompletedCount++
		h.CompletedStreak++
		return true

	case IsCompleted(*h) && active < h.GoalCount:
		h.CompletedUntil = time.Time{}
		h.CompletedAt = nil
		// Counters never go negative, even if the same interval toggles
		// complete/incomplete repeatedly.
		if h.CompletedCount > 0 {
			h.CompletedCount--
		}
		if h.CompletedStreak > 0 {
			h.CompletedStreak--
		}
		return true
	}

	return false
}

// CompletedIntervals replays the habit's full entry history and counts the
// intervals, from creation up to now, whose summed entry counts meet the
// current goal. The stored CompletedCount remains authoritative for display;
// this is a diagnostic for detecting drift after heavy retroactive editing.
func CompletedIntervals(h models.Habit, entries []models.HabitEntry, now time.Time) int {
	if h.GoalCount < 1 {
		return 0
	}

	completed := 0
	start := interval.StartOf(h.Interval, h.CreatedAt)
	for !start.After(now) {
		end := interval.EndOf(h.Interval, start)
		sum := 0
		for _, e := range entries {
			if e.HabitID != h.ID {
				continue
			}
			if !interval.Contains(start, end, e.Timestamp) {
				continue
			}
			sum += e.Count
		}
		if sum >= h.GoalCount {
			completed++
		}
		start = end
	}
	return completed
}
