package engine

import (
	"testing"
	"time"

	"github.com/julianstephens/fruitful/internal/models"
)

func TestGroupHabits_CompletedWinsRegardlessOfPriorityOrTimeLeft(t *testing.T) {
	now := time.Date(2026, 2, 27, 23, 0, 0, 0, time.UTC)
	h := newTestHabit(models.IntervalDay, 1, now)
	h.Priority = models.PriorityHigh
	h.CompletedUntil = h.IntervalEndAt // one hour left, but done

	groups := GroupHabits([]models.Habit{h}, now)

	if len(groups) != 1 || groups[0].Label != GroupCompleted {
		t.Fatalf("groups = %+v, want single Completed group", groups)
	}
}

func TestGroupHabits_DailyHabitIsAlwaysUpNow(t *testing.T) {
	// A day is never longer than the 24h floor, so an incomplete daily habit
	// of normal priority always surfaces.
	now := time.Date(2026, 2, 27, 0, 30, 0, 0, time.UTC)
	h := newTestHabit(models.IntervalDay, 1, now)

	groups := GroupHabits([]models.Habit{h}, now)

	if len(groups) != 1 || groups[0].Label != GroupUpNow {
		t.Fatalf("groups = %+v, want single Up Now group", groups)
	}
}

func TestGroupHabits_LowPriorityNeverUpNow(t *testing.T) {
	now := time.Date(2026, 2, 27, 23, 30, 0, 0, time.UTC)
	h := newTestHabit(models.IntervalDay, 1, now)
	h.Priority = models.PriorityLow

	groups := GroupHabits([]models.Habit{h}, now)

	if len(groups) != 1 || groups[0].Label != GroupUpcoming {
		t.Fatalf("groups = %+v, want single Upcoming group", groups)
	}
}

func TestGroupHabits_GoalScaledThreshold(t *testing.T) {
	// Weekly habit with goal 7: threshold is the full week, so it is Up Now
	// from the first day. With goal 1 the threshold collapses to the 24h
	// floor and the habit stays Upcoming mid-week.
	monday := time.Date(2026, 2, 23, 10, 0, 0, 0, time.UTC)

	everyDay := newTestHabit(models.IntervalWeek, 7, monday)
	everyDay.ID = "every-day"
	onceAWeek := newTestHabit(models.IntervalWeek, 1, monday)
	onceAWeek.ID = "once-a-week"

	groups := GroupHabits([]models.Habit{everyDay, onceAWeek}, monday)

	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2: %+v", len(groups), groups)
	}
	if groups[0].Label != GroupUpNow || len(groups[0].Habits) != 1 || groups[0].Habits[0].ID != "every-day" {
		t.Errorf("Up Now group = %+v, want every-day habit", groups[0])
	}
	if groups[1].Label != GroupUpcoming || groups[1].Habits[0].ID != "once-a-week" {
		t.Errorf("Upcoming group = %+v, want once-a-week habit", groups[1])
	}
}

func TestGroupHabits_SkipsArchivedAndOmitsEmptyGroups(t *testing.T) {
	now := time.Date(2026, 2, 27, 12, 0, 0, 0, time.UTC)
	h := newTestHabit(models.IntervalDay, 1, now)
	archivedAt := now
	h.ArchivedAt = &archivedAt

	if groups := GroupHabits([]models.Habit{h}, now); groups != nil {
		t.Errorf("groups = %+v, want nil for archived-only input", groups)
	}
}

func TestGroupHabits_FixedGroupOrder(t *testing.T) {
	now := time.Date(2026, 2, 27, 12, 0, 0, 0, time.UTC)

	done := newTestHabit(models.IntervalDay, 1, now)
	done.ID = "done"
	done.CompletedUntil = done.IntervalEndAt

	soon := newTestHabit(models.IntervalDay, 1, now)
	soon.ID = "soon"

	later := newTestHabit(models.IntervalYear, 1, now)
	later.ID = "later"

	groups := GroupHabits([]models.Habit{done, later, soon}, now)

	var labels []string
	for _, g := range groups {
		labels = append(labels, g.Label)
	}
	want := []string{GroupUpNow, GroupUpcoming, GroupCompleted}
	if len(labels) != 3 {
		t.Fatalf("labels = %v, want %v", labels, want)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("labels = %v, want %v", labels, want)
			break
		}
	}
}
