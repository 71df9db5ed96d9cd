package cli

import (
	"fmt"

	"github.com/julianstephens/fruitful/internal/logger"
)

type LogCmd struct {
	Habit string `arg:"" help:"Habit ID or title."`
	Note  string `short:"n" help:"Optional note for this entry."`
}

func (c *LogCmd) Run(ctx *Context) error {
	habit, err := FindHabit(ctx, c.Habit)
	if err != nil {
		return err
	}
	if habit.Archived() {
		return fmt.Errorf("habit %q is archived, restore it before logging", habit.DisplayTitle())
	}

	entry, err := ctx.Tracker.LogCompletion(habit.ID)
	if err != nil {
		return err
	}
	if c.Note != "" {
		entry.Note = c.Note
		if err := ctx.Store.UpdateEntry(entry); err != nil {
			return err
		}
	}

	count, err := ctx.Tracker.ActiveCount(habit.ID)
	if err != nil {
		return err
	}
	done, err := ctx.Tracker.IsCompleted(habit.ID)
	if err != nil {
		return err
	}

	logger.Debug("Completion logged", "habit", habit.ID, "entry", entry.ID)
	updated, err := ctx.Tracker.Habit(habit.ID)
	if err != nil {
		return err
	}

	if done {
		fmt.Printf("Logged %s: %s - goal met! (streak %d)\n",
			habit.DisplayTitle(), FormatProgress(updated, count), updated.CompletedStreak)
	} else {
		fmt.Printf("Logged %s: %s\n", habit.DisplayTitle(), FormatProgress(updated, count))
	}
	return nil
}

type SnoozeCmd struct {
	Habit string `arg:"" help:"Habit ID or title."`
}

func (c *SnoozeCmd) Run(ctx *Context) error {
	habit, err := FindHabit(ctx, c.Habit)
	if err != nil {
		return err
	}

	if err := ctx.Tracker.Snooze(habit.ID); err != nil {
		return err
	}
	fmt.Printf("Snoozed %s until %s\n",
		habit.DisplayTitle(), habit.IntervalEndAt.Format("2006-01-02 15:04"))
	return nil
}
