package cli

import (
	"fmt"
	"os"
)

type InitCmd struct {
	Force bool `help:"Reinitialize even if storage already exists."`
}

func (c *InitCmd) Run(ctx *Context) error {
	path := ctx.Store.GetConfigPath()
	if _, err := os.Stat(path); err == nil {
		if !c.Force {
			return fmt.Errorf("storage already exists at %s (use --force to reinitialize)", path)
		}
		// Start from a clean file so both backends recreate their schema
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove existing storage: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized fruitful storage at: %s\n", path)
	return nil
}
