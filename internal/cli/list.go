package cli

import (
	"fmt"
	"time"
)

// ListCmd shows the grouped dashboard: Up Now, Upcoming, Completed.
type ListCmd struct{}

func (c *ListCmd) Run(ctx *Context) error {
	groups, err := ctx.Tracker.Grouped()
	if err != nil {
		return err
	}

	if len(groups) == 0 {
		fmt.Println("No habits found. Add one with 'fruitful habit add'.")
		return nil
	}

	now := time.Now()
	for i, group := range groups {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("%s:\n", group.Label)
		for _, habit := range group.Habits {
			count, err := ctx.Tracker.ActiveCount(habit.ID)
			if err != nil {
				return err
			}
			fmt.Printf("  %-24s %s (%s)\n",
				habit.DisplayTitle(), FormatProgress(habit, count), FormatTimeLeft(habit, now))
		}
	}

	return nil
}
