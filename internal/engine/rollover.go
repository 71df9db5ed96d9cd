package engine

import (
	"time"

	"github.com/julianstephens/fruitful/internal/interval"
	"github.com/julianstephens/fruitful/internal/models"
)

// Rollover advances the habit's interval window if it has elapsed, resetting
// the streak when the goal was missed. Returns whether the habit changed.
//
// No recompute is needed afterwards: a missed interval is exactly the
// streak-reset condition, and a met goal leaves CompletedUntil covering the
// old window, which correctly reads as "not yet completed" against the new
// IntervalEndAt until a fresh entry triggers Recompute.
//
// Idempotent: a second call with the same now fails the elapsed guard.
func Rollover(h *models.Habit, now time.Time) bool {
	if now.Before(h.IntervalEndAt) {
		return false
	}

	missed := h.CompletedUntil.Before(h.IntervalEndAt)

	start := interval.StartOf(h.Interval, now)
	// A gap between the old window and the new one means whole intervals
	// passed without any chance of completion.
	if start.After(h.IntervalEndAt) {
		missed = true
	}

	if missed {
		h.CompletedStreak = 0
	}
	h.IntervalStartAt = start
	h.IntervalEndAt = interval.EndOf(h.Interval, start)
	return true
}
