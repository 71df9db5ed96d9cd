package models

import "time"

// HabitInterval is the recurrence unit of a habit.
type HabitInterval string

const (
	IntervalDay   HabitInterval = "day"
	IntervalWeek  HabitInterval = "week"
	IntervalMonth HabitInterval = "month"
	IntervalYear  HabitInterval = "year"
)

// Description returns the display name of the interval ("Daily", "Weekly", ...).
func (i HabitInterval) Description() string {
	switch i {
	case IntervalDay:
		return "Daily"
	case IntervalWeek:
		return "Weekly"
	case IntervalMonth:
		return "Monthly"
	case IntervalYear:
		return "Yearly"
	default:
		return "Unknown"
	}
}

// Valid reports whether i is one of the known interval units.
func (i HabitInterval) Valid() bool {
	switch i {
	case IntervalDay, IntervalWeek, IntervalMonth, IntervalYear:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Habit represents a recurring practice with a per-interval goal
type Habit struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`

	Icon     string   `json:"icon,omitempty"`
	Color    uint32   `json:"color,omitempty"` // packed 0xRRGGBB
	Priority Priority `json:"priority"`

	Interval        HabitInterval `json:"interval"`
	IntervalStartAt time.Time     `json:"interval_start_at"`
	IntervalEndAt   time.Time     `json:"interval_end_at"`

	GoalCount int    `json:"goal_count"`
	GoalLabel string `json:"goal_label,omitempty"`

	// CompletedUntil marks how far into the future the habit is covered.
	// The zero time is the "never completed" sentinel; the habit counts as
	// done for its current interval iff CompletedUntil >= IntervalEndAt.
	CompletedUntil  time.Time  `json:"completed_until"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CompletedCount  int        `json:"completed_count"`
	CompletedStreak int        `json:"completed_streak"`

	NotifyEnabled bool   `json:"notify_enabled"`
	NotifyAt      string `json:"notify_at,omitempty"` // HH:MM

	ArchivedAt *time.Time `json:"archived_at,omitempty"`
}

// Archived reports whether the habit has been archived (soft delete).
func (h Habit) Archived() bool {
	return h.ArchivedAt != nil
}

// DisplayTitle returns the title, or a placeholder for unlabeled habits.
func (h Habit) DisplayTitle() string {
	if h.Title == "" {
		return "Unlabeled"
	}
	return h.Title
}

// DisplayIcon returns the icon name, defaulting to "diamond" when unset.
func (h Habit) DisplayIcon() string {
	if h.Icon == "" {
		return "diamond"
	}
	return h.Icon
}

// HabitEntry is a single logged occurrence counting toward a habit's goal.
// Entries are owned by their habit and deleted with it; HabitID is a
// back-reference for lookup, not an ownership edge.
type HabitEntry struct {
	ID        string    `json:"id"`
	HabitID   string    `json:"habit_id"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
