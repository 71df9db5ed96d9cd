package cli

import (
	"fmt"
	"time"
)

type EntryListCmd struct {
	Habit string `arg:"" help:"Habit ID or title."`
}

func (c *EntryListCmd) Run(ctx *Context) error {
	habit, err := FindHabit(ctx, c.Habit)
	if err != nil {
		return err
	}

	entries, err := ctx.Tracker.Entries(habit.ID)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Printf("No entries for %s.\n", habit.DisplayTitle())
		return nil
	}

	fmt.Printf("Entries for %s:\n", habit.DisplayTitle())
	for _, entry := range entries {
		line := fmt.Sprintf("  %s  count %d  (ID: %s)",
			entry.Timestamp.Format("2006-01-02 15:04"), entry.Count, entry.ID)
		if entry.Note != "" {
			line += "  - " + entry.Note
		}
		fmt.Println(line)
	}

	return nil
}

type EntryEditCmd struct {
	ID    string `arg:"" help:"Entry ID."`
	Count int    `short:"c" help:"New count." default:"-1"`
	At    string `short:"t" help:"New timestamp (RFC3339 or '2006-01-02 15:04')."`
}

func (c *EntryEditCmd) Run(ctx *Context) error {
	var count *int
	if c.Count >= 0 {
		count = &c.Count
	}

	var timestamp *time.Time
	if c.At != "" {
		ts, err := parseTimestamp(c.At)
		if err != nil {
			return err
		}
		timestamp = &ts
	}

	if count == nil && timestamp == nil {
		return fmt.Errorf("nothing to change, pass --count and/or --at")
	}

	if err := ctx.Tracker.EditEntry(c.ID, count, timestamp); err != nil {
		return err
	}
	fmt.Printf("Updated entry: %s\n", c.ID)
	return nil
}

type EntryDeleteCmd struct {
	ID string `arg:"" help:"Entry ID."`
}

func (c *EntryDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Tracker.DeleteEntry(c.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted entry: %s\n", c.ID)
	return nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"} {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
