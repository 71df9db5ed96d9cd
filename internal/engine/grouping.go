package engine

import (
	"time"

	"github.com/julianstephens/fruitful/internal/interval"
	"github.com/julianstephens/fruitful/internal/models"
)

const (
	GroupUpNow     = "Up Now"
	GroupUpcoming  = "Upcoming"
	GroupCompleted = "Completed"
)

// Group is a labeled bucket of habits for display.
type Group struct {
	Label  string
	Habits []models.Habit
}

// GroupHabits buckets non-archived habits into Up Now / Upcoming / Completed.
// Empty groups are omitted; group order is fixed. Input order is preserved
// within each group.
func GroupHabits(habits []models.Habit, now time.Time) []Group {
	buckets := make(map[string][]models.Habit)
	for _, h := range habits {
		if h.Archived() {
			continue
		}
		label := groupFor(h, now)
		buckets[label] = append(buckets[label], h)
	}

	var groups []Group
	for _, label := range []string{GroupUpNow, GroupUpcoming, GroupCompleted} {
		if members := buckets[label]; len(members) > 0 {
			groups = append(groups, Group{Label: label, Habits: members})
		}
	}
	return groups
}

func groupFor(h models.Habit, now time.Time) string {
	if IsCompleted(h) {
		return GroupCompleted
	}
	if h.Priority != models.PriorityLow {
		// A habit surfaces as "Up Now" when the time left in its interval
		// drops below a goal-scaled share of the window, floored at a day.
		threshold := interval.Width(h.Interval, h.IntervalStartAt) * time.Duration(h.GoalCount) / 7
		if threshold < 24*time.Hour {
			threshold = 24 * time.Hour
		}
		if h.IntervalEndAt.Sub(now) < threshold {
			return GroupUpNow
		}
	}
	return GroupUpcoming
}
