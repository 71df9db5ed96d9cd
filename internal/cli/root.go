package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/fruitful/internal/backup"
	"github.com/julianstephens/fruitful/internal/logger"
	"github.com/julianstephens/fruitful/internal/models"
	"github.com/julianstephens/fruitful/internal/storage"
	"github.com/julianstephens/fruitful/internal/tracker"
)

type Context struct {
	Store   storage.Provider
	Tracker *tracker.Tracker
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// FindHabit resolves a habit reference: an exact ID first, then a
// case-insensitive title match over all habits including archived ones.
func FindHabit(ctx *Context, ref string) (models.Habit, error) {
	habit, err := ctx.Store.GetHabit(ref)
	if err == nil {
		return habit, nil
	}

	habits, err := ctx.Store.GetAllHabits(true)
	if err != nil {
		return models.Habit{}, err
	}

	var matches []models.Habit
	for _, h := range habits {
		if strings.EqualFold(h.Title, ref) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return models.Habit{}, fmt.Errorf("habit %q not found", ref)
	case 1:
		return matches[0], nil
	default:
		return models.Habit{}, fmt.Errorf("habit title %q is ambiguous, use an ID", ref)
	}
}

// ParseInterval parses a user-supplied interval name.
func ParseInterval(s string) (models.HabitInterval, error) {
	iv := models.HabitInterval(strings.ToLower(strings.TrimSpace(s)))
	if !iv.Valid() {
		return "", fmt.Errorf("invalid interval %q (expected day|week|month|year)", s)
	}
	return iv, nil
}

// ParsePriority parses a user-supplied priority name.
func ParsePriority(s string) (models.Priority, error) {
	p := models.Priority(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case models.PriorityLow, models.PriorityNormal, models.PriorityHigh:
		return p, nil
	}
	return "", fmt.Errorf("invalid priority %q (expected low|normal|high)", s)
}

// FormatProgress renders "2/3 pages this week" style progress for a habit.
func FormatProgress(habit models.Habit, activeCount int) string {
	progress := fmt.Sprintf("%d/%d", activeCount, habit.GoalCount)
	if habit.GoalLabel != "" {
		progress += " " + habit.GoalLabel
	}
	return fmt.Sprintf("%s %s", progress, intervalPhrase(habit.Interval))
}

func intervalPhrase(iv models.HabitInterval) string {
	switch iv {
	case models.IntervalDay:
		return "today"
	case models.IntervalWeek:
		return "this week"
	case models.IntervalMonth:
		return "this month"
	case models.IntervalYear:
		return "this year"
	default:
		return string(iv)
	}
}

// FormatTimeLeft renders the time remaining in the habit's interval.
func FormatTimeLeft(habit models.Habit, now time.Time) string {
	left := habit.IntervalEndAt.Sub(now)
	if left <= 0 {
		return "ended"
	}
	switch {
	case left >= 48*time.Hour:
		return fmt.Sprintf("%dd left", int(left.Hours()/24))
	case left >= time.Hour:
		return fmt.Sprintf("%dh left", int(left.Hours()))
	default:
		return fmt.Sprintf("%dm left", int(left.Minutes()))
	}
}
