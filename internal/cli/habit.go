package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/fruitful/internal/engine"
	"github.com/julianstephens/fruitful/internal/logger"
	"github.com/julianstephens/fruitful/internal/tracker"
	"github.com/julianstephens/fruitful/internal/validation"
)

type HabitAddCmd struct {
	Title     string `arg:"" optional:"" help:"Habit title. Omit to fill in interactively."`
	Interval  string `short:"i" help:"Goal interval (day|week|month|year)." default:"day"`
	Goal      int    `short:"g" help:"Completions required per interval." default:"1"`
	GoalLabel string `short:"l" help:"Unit label for the goal (e.g. pages, km)."`
	Icon      string `help:"Icon name for the habit."`
	Color     string `help:"Hex color like #33cc66."`
	Priority  string `short:"p" help:"Priority (low|normal|high)." default:"normal"`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	if c.Title == "" {
		if err := c.prompt(); err != nil {
			return err
		}
	}

	iv, err := ParseInterval(c.Interval)
	if err != nil {
		return err
	}
	priority, err := ParsePriority(c.Priority)
	if err != nil {
		return err
	}

	var color uint32
	if c.Color != "" {
		color, err = validation.ParseColor(c.Color)
		if err != nil {
			return err
		}
	}

	habit, err := ctx.Tracker.CreateHabit(tracker.HabitParams{
		Title:     c.Title,
		Icon:      c.Icon,
		Interval:  iv,
		GoalCount: c.Goal,
		GoalLabel: c.GoalLabel,
		Color:     color,
		Priority:  priority,
	})
	if err != nil {
		return err
	}

	logger.Info("Habit created", "id", habit.ID, "title", habit.DisplayTitle())
	fmt.Printf("Added habit: %s (ID: %s)\n", habit.DisplayTitle(), habit.ID)
	return nil
}

// prompt collects habit fields through an interactive form.
func (c *HabitAddCmd) prompt() error {
	return promptHabitFields(&c.Title, &c.Interval, &c.Goal, &c.GoalLabel, &c.Priority)
}

func promptHabitFields(title, intervalName *string, goalCount *int, goalLabel, priority *string) error {
	goal := fmt.Sprintf("%d", *goalCount)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(title),
			huh.NewSelect[string]().
				Title("Interval").
				Options(
					huh.NewOption("Daily", "day"),
					huh.NewOption("Weekly", "week"),
					huh.NewOption("Monthly", "month"),
					huh.NewOption("Yearly", "year"),
				).
				Value(intervalName),
			huh.NewInput().
				Title("Goal count").
				Value(&goal).
				Validate(func(s string) error {
					var n int
					if _, err := fmt.Sscanf(s, "%d", &n); err != nil || n < 1 {
						return fmt.Errorf("must be a positive number")
					}
					return nil
				}),
			huh.NewInput().
				Title("Goal label (optional)").
				Value(goalLabel),
			huh.NewSelect[string]().
				Title("Priority").
				Options(
					huh.NewOption("Low", "low"),
					huh.NewOption("Normal", "normal"),
					huh.NewOption("High", "high"),
				).
				Value(priority),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	fmt.Sscanf(goal, "%d", goalCount)
	return nil
}

type HabitListCmd struct {
	Archived bool `help:"Include archived habits."`
}

func (c *HabitListCmd) Run(ctx *Context) error {
	habits, err := ctx.Tracker.Habits(c.Archived)
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	for _, habit := range habits {
		count, err := ctx.Tracker.ActiveCount(habit.ID)
		if err != nil {
			return err
		}

		status := " "
		if habit.Archived() {
			status = "A"
		} else if engine.IsCompleted(habit) {
			status = "x"
		}
		fmt.Printf("[%s] %-24s %s (streak %d, ID: %s)\n",
			status, habit.DisplayTitle(), FormatProgress(habit, count), habit.CompletedStreak, habit.ID)
	}

	return nil
}

type HabitShowCmd struct {
	Habit string `arg:"" help:"Habit ID or title."`
}

func (c *HabitShowCmd) Run(ctx *Context) error {
	habit, err := FindHabit(ctx, c.Habit)
	if err != nil {
		return err
	}

	count, err := ctx.Tracker.ActiveCount(habit.ID)
	if err != nil {
		return err
	}
	done, err := ctx.Tracker.IsCompleted(habit.ID)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", habit.DisplayTitle())
	fmt.Printf("  ID:        %s\n", habit.ID)
	fmt.Printf("  Interval:  %s\n", habit.Interval.Description())
	fmt.Printf("  Window:    %s - %s\n",
		habit.IntervalStartAt.Format("2006-01-02 15:04"),
		habit.IntervalEndAt.Format("2006-01-02 15:04"))
	fmt.Printf("  Progress:  %s\n", FormatProgress(habit, count))
	fmt.Printf("  Completed: %v\n", done)
	fmt.Printf("  Streak:    %d\n", habit.CompletedStreak)
	fmt.Printf("  Total:     %d intervals completed\n", habit.CompletedCount)
	fmt.Printf("  Priority:  %s\n", habit.Priority)
	fmt.Printf("  Icon:      %s\n", habit.DisplayIcon())
	if habit.Color != 0 {
		fmt.Printf("  Color:     #%06x\n", habit.Color)
	}
	if habit.NotifyEnabled {
		fmt.Printf("  Notify:    %s\n", habit.NotifyAt)
	}
	if habit.Archived() {
		fmt.Printf("  Archived:  %s\n", habit.ArchivedAt.Format("2006-01-02"))
	}

	return nil
}

type HabitEditCmd struct {
	Habit     string `arg:"" help:"Habit ID or title."`
	Title     string `help:"New title."`
	Interval  string `short:"i" help:"New interval (day|week|month|year)."`
	Goal      int    `short:"g" help:"New goal count."`
	GoalLabel string `short:"l" help:"New goal label."`
	Icon      string `help:"New icon name."`
	Color     string `help:"New hex color."`
	Priority  string `short:"p" help:"New priority (low|normal|high)."`
	NotifyAt  string `help:"Reminder time (HH:MM), empty string disables."`
}

func (c *HabitEditCmd) Run(ctx *Context) error {
	habit, err := FindHabit(ctx, c.Habit)
	if err != nil {
		return err
	}

	// With no flags, fall back to an interactive form prefilled from the habit
	if c.Title == "" && c.Interval == "" && c.Goal == 0 && c.GoalLabel == "" &&
		c.Icon == "" && c.Color == "" && c.Priority == "" && c.NotifyAt == "" {
		c.Title = habit.Title
		c.Interval = string(habit.Interval)
		c.Goal = habit.GoalCount
		c.GoalLabel = habit.GoalLabel
		c.Priority = string(habit.Priority)
		if err := promptHabitFields(&c.Title, &c.Interval, &c.Goal, &c.GoalLabel, &c.Priority); err != nil {
			return err
		}
	}

	if c.Title != "" {
		habit.Title = c.Title
	}
	if c.Interval != "" {
		iv, err := ParseInterval(c.Interval)
		if err != nil {
			return err
		}
		habit.Interval = iv
	}
	if c.Goal != 0 {
		habit.GoalCount = c.Goal
	}
	if c.GoalLabel != "" {
		habit.GoalLabel = c.GoalLabel
	}
	if c.Icon != "" {
		habit.Icon = c.Icon
	}
	if c.Color != "" {
		color, err := validation.ParseColor(c.Color)
		if err != nil {
			return err
		}
		habit.Color = color
	}
	if c.Priority != "" {
		priority, err := ParsePriority(c.Priority)
		if err != nil {
			return err
		}
		habit.Priority = priority
	}
	if c.NotifyAt != "" {
		habit.NotifyEnabled = true
		habit.NotifyAt = strings.TrimSpace(c.NotifyAt)
	}

	if err := ctx.Tracker.UpdateHabit(habit); err != nil {
		return err
	}

	fmt.Printf("Updated habit: %s\n", habit.DisplayTitle())
	return nil
}

type HabitArchiveCmd struct {
	Habit string `arg:"" help:"Habit ID or title."`
}

func (c *HabitArchiveCmd) Run(ctx *Context) error {
	habit, err := FindHabit(ctx, c.Habit)
	if err != nil {
		return err
	}

	if err := ctx.Tracker.ArchiveHabit(habit.ID); err != nil {
		return err
	}
	fmt.Printf("Archived habit: %s\n", habit.DisplayTitle())
	fmt.Println("(Entries are kept. Use 'fruitful habit restore' to undo)")
	return nil
}

type HabitRestoreCmd struct {
	Habit string `arg:"" help:"Habit ID or title."`
}

func (c *HabitRestoreCmd) Run(ctx *Context) error {
	habit, err := FindHabit(ctx, c.Habit)
	if err != nil {
		return err
	}

	if err := ctx.Tracker.RestoreHabit(habit.ID); err != nil {
		return err
	}
	fmt.Printf("Restored habit: %s\n", habit.DisplayTitle())
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit ID or title."`
	Yes   bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	habit, err := FindHabit(ctx, c.Habit)
	if err != nil {
		return err
	}

	if !c.Yes {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Permanently delete %q and all its entries?", habit.DisplayTitle())).
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := ctx.Tracker.DeleteHabit(habit.ID); err != nil {
		return err
	}
	logger.Info("Habit deleted", "id", habit.ID, "title", habit.DisplayTitle())
	fmt.Printf("Deleted habit: %s\n", habit.DisplayTitle())
	return nil
}
