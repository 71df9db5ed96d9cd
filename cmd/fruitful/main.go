package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/fruitful/internal/cli"
	"github.com/julianstephens/fruitful/internal/logger"
	"github.com/julianstephens/fruitful/internal/storage"
	"github.com/julianstephens/fruitful/internal/tracker"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Storage file path. A .json extension selects the JSON backend, anything else SQLite." type:"path" default:"~/.config/fruitful/fruitful.db"`
	Debug    bool   `help:"Enable debug logging to stderr."`
	LogLevel string `help:"Override the file log level (debug|info|warn|error)."`

	Init   cli.InitCmd   `cmd:"" help:"Initialize fruitful storage."`
	Tui    cli.TuiCmd    `cmd:"" help:"Launch the interactive TUI." default:"1"`
	List   cli.ListCmd   `cmd:"" help:"Show habits grouped by urgency."`
	Log    cli.LogCmd    `cmd:"" help:"Log a completion for a habit."`
	Snooze cli.SnoozeCmd `cmd:"" help:"Mark a habit's current interval as covered."`
	Doctor cli.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Habit  struct {
		Add     cli.HabitAddCmd     `cmd:"" help:"Add a new habit."`
		List    cli.HabitListCmd    `cmd:"" help:"List all habits."`
		Show    cli.HabitShowCmd    `cmd:"" help:"Show habit details."`
		Edit    cli.HabitEditCmd    `cmd:"" help:"Edit an existing habit."`
		Archive cli.HabitArchiveCmd `cmd:"" help:"Archive a habit, keeping its entries."`
		Restore cli.HabitRestoreCmd `cmd:"" help:"Restore an archived habit."`
		Delete  cli.HabitDeleteCmd  `cmd:"" help:"Delete a habit and its entries."`
	} `cmd:"" help:"Manage habits."`
	Backup struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage storage backups."`
	Entry struct {
		List   cli.EntryListCmd   `cmd:"" help:"List a habit's entries."`
		Edit   cli.EntryEditCmd   `cmd:"" help:"Edit an entry's count or timestamp."`
		Delete cli.EntryDeleteCmd `cmd:"" help:"Delete an entry."`
	} `cmd:"" help:"Manage habit entries."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("fruitful"),
		kong.Description("Personal habit tracker with interval goals and streaks"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": "v0.1.0"},
	)

	if err := logger.Init(logger.Config{
		Dir:   filepath.Dir(CLI.Config),
		Debug: CLI.Debug,
		Level: CLI.LogLevel,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	// Storage backend follows the file extension
	var store storage.Provider
	if strings.HasSuffix(CLI.Config, ".json") {
		store = storage.NewJSONStore(CLI.Config)
	} else {
		store = storage.NewSQLiteStore(CLI.Config)
	}

	appCtx := &cli.Context{
		Store:   store,
		Tracker: tracker.New(store),
	}

	// Load before running the command (init handles its own setup), then roll
	// elapsed intervals forward so every command sees current windows.
	if ctx.Selected() != nil && ctx.Selected().Name != "init" {
		if err := store.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		if err := appCtx.Tracker.Refresh(); err != nil {
			logger.Error("Interval refresh failed", "error", err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
