package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/fruitful/internal/interval"
	"github.com/julianstephens/fruitful/internal/models"
)

type ConflictType string

const (
	ConflictInvalidGoalCount  ConflictType = "invalid_goal_count"
	ConflictInvalidInterval   ConflictType = "invalid_interval"
	ConflictInvalidPriority   ConflictType = "invalid_priority"
	ConflictInvalidNotifyTime ConflictType = "invalid_notify_time"
	ConflictInvalidColor      ConflictType = "invalid_color"
	ConflictWindowMismatch    ConflictType = "window_mismatch"
)

type Conflict struct {
	Type    ConflictType
	HabitID string
	Message string
}

type Result struct {
	Conflicts []Conflict
}

func (r Result) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// FormatReport renders the conflicts as an indented, line-per-conflict report.
func (r Result) FormatReport() string {
	if !r.HasConflicts() {
		return "No conflicts found."
	}

	var b strings.Builder
	for _, c := range r.Conflicts {
		fmt.Fprintf(&b, "   [%s] habit %s: %s\n", c.Type, c.HabitID, c.Message)
	}
	return strings.TrimRight(b.String(), "\n")
}

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidateHabit checks a habit's configuration. Goal counts below 1 are a
// conflict here; interactive edit paths clamp instead via ClampGoalCount so
// the engine never sees an invalid goal.
func (v *Validator) ValidateHabit(h models.Habit) Result {
	var result Result
	add := func(t ConflictType, format string, args ...interface{}) {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:    t,
			HabitID: h.ID,
			Message: fmt.Sprintf(format, args...),
		})
	}

	if h.GoalCount < 1 {
		add(ConflictInvalidGoalCount, "goal count must be at least 1, got %d", h.GoalCount)
	}
	if !h.Interval.Valid() {
		add(ConflictInvalidInterval, "unknown interval %q", h.Interval)
	}
	switch h.Priority {
	case models.PriorityLow, models.PriorityNormal, models.PriorityHigh, "":
	default:
		add(ConflictInvalidPriority, "unknown priority %q", h.Priority)
	}
	if h.NotifyAt != "" && !ValidNotifyTime(h.NotifyAt) {
		add(ConflictInvalidNotifyTime, "notify time %q is not HH:MM", h.NotifyAt)
	}
	if h.Color > 0xFFFFFF {
		add(ConflictInvalidColor, "color %#x exceeds 24-bit RGB", h.Color)
	}
	if h.Interval.Valid() && !h.IntervalEndAt.Equal(interval.EndOf(h.Interval, h.IntervalStartAt)) {
		add(ConflictWindowMismatch,
			"interval end %v is not the %s boundary after %v",
			h.IntervalEndAt, h.Interval, h.IntervalStartAt)
	}

	return result
}

func (v *Validator) ValidateHabits(habits []models.Habit) Result {
	var result Result
	for _, h := range habits {
		result.Conflicts = append(result.Conflicts, v.ValidateHabit(h).Conflicts...)
	}
	return result
}

// ClampGoalCount forces a goal count into the valid range.
func ClampGoalCount(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// ValidNotifyTime reports whether s is a valid HH:MM wall-clock time.
func ValidNotifyTime(s string) bool {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return false
	}
	return true
}

// ParseColor parses a hex color like "#33cc66" or "33cc66" into packed RGB.
func ParseColor(s string) (uint32, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 0, fmt.Errorf("color must be 6 hex digits, got %q", s)
	}
	value, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return uint32(value), nil
}
