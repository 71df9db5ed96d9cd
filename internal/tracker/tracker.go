package tracker

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/fruitful/internal/engine"
	"github.com/julianstephens/fruitful/internal/interval"
	"github.com/julianstephens/fruitful/internal/models"
	"github.com/julianstephens/fruitful/internal/storage"
	"github.com/julianstephens/fruitful/internal/validation"
)

// Tracker is the mutation surface over the habit graph. Every entry mutation
// runs as a single logical transaction: mutate, recompute the habit's
// completion state from a fresh active-entries snapshot, persist. If the
// habit write fails, the entry mutation is rolled back so memory and store
// never diverge.
type Tracker struct {
	store storage.Provider
	now   func() time.Time
}

func New(store storage.Provider) *Tracker {
	return &Tracker{
		store: store,
		now:   time.Now,
	}
}

// NewWithClock injects a clock, for tests that steer time across interval
// boundaries.
func NewWithClock(store storage.Provider, clock func() time.Time) *Tracker {
	return &Tracker{
		store: store,
		now:   clock,
	}
}

// HabitParams are the user-editable fields of a new habit. Zero values get
// defaults: daily interval, goal 1, normal priority.
type HabitParams struct {
	Title     string
	Icon      string
	Interval  models.HabitInterval
	GoalCount int
	GoalLabel string
	Color     uint32
	Priority  models.Priority
}

func (t *Tracker) CreateHabit(params HabitParams) (models.Habit, error) {
	iv := params.Interval
	if iv == "" {
		iv = models.IntervalDay
	}
	if !iv.Valid() {
		return models.Habit{}, fmt.Errorf("invalid interval: %s", iv)
	}
	priority := params.Priority
	if priority == "" {
		priority = models.PriorityNormal
	}

	now := t.now()
	start, end := interval.Window(iv, now)

	habit := models.Habit{
		ID:              uuid.New().String(),
		Title:           params.Title,
		CreatedAt:       now,
		Icon:            params.Icon,
		Color:           params.Color,
		Priority:        priority,
		Interval:        iv,
		IntervalStartAt: start,
		IntervalEndAt:   end,
		GoalCount:       validation.ClampGoalCount(params.GoalCount),
		GoalLabel:       params.GoalLabel,
	}

	if err := t.store.AddHabit(habit); err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

// UpdateHabit persists edited habit configuration. The goal count is clamped
// and the interval window re-derived so the engine never observes an invalid
// configuration. Completion state is then recomputed, since a goal or
// interval change can retroactively satisfy or unsatisfy the current window.
func (t *Tracker) UpdateHabit(habit models.Habit) error {
	if !habit.Interval.Valid() {
		return fmt.Errorf("invalid interval: %s", habit.Interval)
	}
	if habit.NotifyAt != "" && !validation.ValidNotifyTime(habit.NotifyAt) {
		return fmt.Errorf("invalid notify time: %s", habit.NotifyAt)
	}
	habit.GoalCount = validation.ClampGoalCount(habit.GoalCount)
	habit.IntervalStartAt, habit.IntervalEndAt = interval.Window(habit.Interval, t.now())

	return t.recompute(&habit)
}

// LogCompletion records one occurrence of the habit now and recomputes its
// completion state. On habit-write failure the freshly inserted entry is
// removed again.
func (t *Tracker) LogCompletion(habitID string) (models.HabitEntry, error) {
	habit, err := t.store.GetHabit(habitID)
	if err != nil {
		return models.HabitEntry{}, err
	}

	now := t.now()
	entry := models.HabitEntry{
		ID:        uuid.New().String(),
		HabitID:   habit.ID,
		Count:     1,
		Timestamp: now,
		CreatedAt: now,
	}

	if err := t.store.AddEntry(entry); err != nil {
		return models.HabitEntry{}, err
	}
	if err := t.recompute(&habit); err != nil {
		if delErr := t.store.DeleteEntry(entry.ID); delErr != nil {
			return models.HabitEntry{}, fmt.Errorf("recompute failed: %w (rollback also failed: %v)", err, delErr)
		}
		return models.HabitEntry{}, err
	}
	return entry, nil
}

// EditEntry changes an entry's count and/or timestamp. A nil argument leaves
// the field untouched. A timestamp edit can move the entry in or out of the
// active window, so completion is recomputed either way.
func (t *Tracker) EditEntry(entryID string, newCount *int, newTimestamp *time.Time) error {
	entry, err := t.store.GetEntry(entryID)
	if err != nil {
		return err
	}
	previous := entry

	if newCount != nil {
		if *newCount < 0 {
			return fmt.Errorf("entry count must not be negative, got %d", *newCount)
		}
		entry.Count = *newCount
	}
	if newTimestamp != nil {
		entry.Timestamp = *newTimestamp
	}

	habit, err := t.store.GetHabit(entry.HabitID)
	if err != nil {
		return fmt.Errorf("owning habit for entry %s: %w", entryID, err)
	}

	if err := t.store.UpdateEntry(entry); err != nil {
		return err
	}
	if err := t.recompute(&habit); err != nil {
		if rbErr := t.store.UpdateEntry(previous); rbErr != nil {
			return fmt.Errorf("recompute failed: %w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}
	return nil
}

// DeleteEntry removes an entry and recomputes the owning habit. An orphaned
// entry (habit already gone) is deleted without recompute; it contributes to
// no habit's state.
func (t *Tracker) DeleteEntry(entryID string) error {
	entry, err := t.store.GetEntry(entryID)
	if err != nil {
		return err
	}

	habit, habitErr := t.store.GetHabit(entry.HabitID)

	if err := t.store.DeleteEntry(entryID); err != nil {
		return err
	}
	if habitErr != nil {
		return nil
	}

	if err := t.recompute(&habit); err != nil {
		if rbErr := t.store.AddEntry(entry); rbErr != nil {
			return fmt.Errorf("recompute failed: %w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}
	return nil
}

// Snooze marks the habit's current interval as covered without logging an
// entry or touching counters and streak.
func (t *Tracker) Snooze(habitID string) error {
	habit, err := t.store.GetHabit(habitID)
	if err != nil {
		return err
	}
	if engine.IsCompleted(habit) {
		return nil
	}
	habit.CompletedUntil = habit.IntervalEndAt
	return t.store.UpdateHabit(habit)
}

func (t *Tracker) ArchiveHabit(habitID string) error {
	return t.store.ArchiveHabit(habitID)
}

func (t *Tracker) RestoreHabit(habitID string) error {
	return t.store.RestoreHabit(habitID)
}

// DeleteHabit permanently removes the habit and, by cascade, its entries.
func (t *Tracker) DeleteHabit(habitID string) error {
	return t.store.DeleteHabit(habitID)
}

// Refresh is the app-foreground hook: it advances every non-archived habit
// whose interval has elapsed, resetting streaks for missed goals. Commands
// call it once after loading the store, before reading or mutating.
func (t *Tracker) Refresh() error {
	habits, err := t.store.GetAllHabits(false)
	if err != nil {
		return err
	}

	now := t.now()
	for _, habit := range habits {
		if engine.Rollover(&habit, now) {
			if err := t.store.UpdateHabit(habit); err != nil {
				return fmt.Errorf("rollover for habit %s: %w", habit.ID, err)
			}
		}
	}
	return nil
}

func (t *Tracker) Habit(habitID string) (models.Habit, error) {
	return t.store.GetHabit(habitID)
}

func (t *Tracker) Habits(includeArchived bool) ([]models.Habit, error) {
	return t.store.GetAllHabits(includeArchived)
}

func (t *Tracker) Entries(habitID string) ([]models.HabitEntry, error) {
	return t.store.GetEntries(habitID)
}

// ActiveCount returns the habit's progress in its current interval.
func (t *Tracker) ActiveCount(habitID string) (int, error) {
	habit, err := t.store.GetHabit(habitID)
	if err != nil {
		return 0, err
	}
	entries, err := t.store.GetEntriesSince(habit.ID, habit.IntervalStartAt)
	if err != nil {
		return 0, err
	}
	return engine.ActiveCount(habit, entries), nil
}

// IsCompleted reports whether the habit's goal is met for the current interval.
func (t *Tracker) IsCompleted(habitID string) (bool, error) {
	habit, err := t.store.GetHabit(habitID)
	if err != nil {
		return false, err
	}
	return engine.IsCompleted(habit), nil
}

// Grouped buckets the non-archived habits for display.
func (t *Tracker) Grouped() ([]engine.Group, error) {
	habits, err := t.store.GetAllHabits(false)
	if err != nil {
		return nil, err
	}
	return engine.GroupHabits(habits, t.now()), nil
}

// recompute refreshes the habit's completion state from the store's current
// active-entries snapshot and persists the habit.
func (t *Tracker) recompute(habit *models.Habit) error {
	entries, err := t.store.GetEntriesSince(habit.ID, habit.IntervalStartAt)
	if err != nil {
		return err
	}
	engine.Recompute(habit, entries, t.now())
	return t.store.UpdateHabit(*habit)
}
