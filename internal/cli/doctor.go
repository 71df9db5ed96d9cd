package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/fruitful/internal/backup"
	"github.com/julianstephens/fruitful/internal/engine"
	"github.com/julianstephens/fruitful/internal/storage"
	"github.com/julianstephens/fruitful/internal/validation"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	// Check 1: DB reachable
	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	// Check 2: Habit validation (only if DB is reachable)
	if dbReachable {
		if err := checkValidation(ctx); err != nil {
			fmt.Printf("❌ Habit validation: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Habit validation: OK\n")
		}
	} else {
		fmt.Printf("⊘ Habit validation: SKIPPED (database not reachable)\n")
	}

	// Check 3: Orphaned entries (only if DB is reachable)
	if dbReachable {
		if err := checkOrphanedEntries(ctx); err != nil {
			fmt.Printf("❌ Entry integrity: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Entry integrity: OK\n")
		}
	} else {
		fmt.Printf("⊘ Entry integrity: SKIPPED (database not reachable)\n")
	}

	// Check 4: Completion counter drift (warning only)
	if dbReachable {
		if err := checkCounterDrift(ctx); err != nil {
			fmt.Printf("⚠ Completion counters: WARNING\n")
			fmt.Printf("   %v\n", err)
		} else {
			fmt.Printf("✓ Completion counters: OK\n")
		}
	} else {
		fmt.Printf("⊘ Completion counters: SKIPPED (database not reachable)\n")
	}

	// Check 5: Backups present (warning only)
	if err := checkBackupsPresent(ctx); err != nil {
		fmt.Printf("⚠ Backups present: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Backups present: OK\n")
	}

	// Check 6: Clock/timezone sanity
	if err := checkClockTimezone(); err != nil {
		fmt.Printf("❌ Clock/timezone: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock/timezone: OK\n")
	}

	// Check 7: Concurrent processes (warning only)
	if err := checkConcurrentProcesses(); err != nil {
		fmt.Printf("⚠ Concurrent processes: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Concurrent processes: OK\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	// For SQLite, also try a simple query
	if sqliteStore, ok := ctx.Store.(*storage.SQLiteStore); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}

	return nil
}

func checkValidation(ctx *Context) error {
	habits, err := ctx.Store.GetAllHabits(true)
	if err != nil {
		return fmt.Errorf("failed to get habits: %w", err)
	}

	seen := make(map[string]bool)
	for _, habit := range habits {
		if seen[habit.ID] {
			return fmt.Errorf("duplicate habit ID found: %s", habit.ID)
		}
		seen[habit.ID] = true
	}

	validator := validation.New()
	result := validator.ValidateHabits(habits)
	if result.HasConflicts() {
		return fmt.Errorf("%d configuration conflict(s):\n%s", len(result.Conflicts), result.FormatReport())
	}

	return nil
}

func checkOrphanedEntries(ctx *Context) error {
	orphaned := 0
	switch store := ctx.Store.(type) {
	case *storage.SQLiteStore:
		db := store.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		err := db.QueryRow(`
			SELECT COUNT(*)
			FROM entries e
			LEFT JOIN habits h ON e.habit_id = h.id
			WHERE h.id IS NULL
		`).Scan(&orphaned)
		if err != nil {
			return fmt.Errorf("failed to check orphaned entries: %w", err)
		}
	case *storage.JSONStore:
		// Catches hand-edited documents; the store cascades deletes itself.
		orphans, err := store.OrphanedEntries()
		if err != nil {
			return fmt.Errorf("failed to check orphaned entries: %w", err)
		}
		orphaned = len(orphans)
	}

	if orphaned > 0 {
		return fmt.Errorf("found %d orphaned entries (referencing non-existent habits)", orphaned)
	}
	return nil
}

func checkCounterDrift(ctx *Context) error {
	habits, err := ctx.Store.GetAllHabits(true)
	if err != nil {
		return fmt.Errorf("failed to get habits: %w", err)
	}

	now := time.Now()
	var drifted []string
	for _, habit := range habits {
		entries, err := ctx.Store.GetEntries(habit.ID)
		if err != nil {
			return fmt.Errorf("failed to get entries for habit %s: %w", habit.ID, err)
		}
		replayed := engine.CompletedIntervals(habit, entries, now)
		if replayed != habit.CompletedCount {
			drifted = append(drifted,
				fmt.Sprintf("%s (stored %d, replay %d)", habit.DisplayTitle(), habit.CompletedCount, replayed))
		}
	}

	if len(drifted) > 0 {
		return fmt.Errorf("completion counts drifted from entry history for: %s", strings.Join(drifted, ", "))
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'fruitful backup create'")
	}

	return nil
}

func checkClockTimezone() error {
	now := time.Now()

	// Check if time is in a reasonable range (after 2020 and before 2100)
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	return nil
}

func checkConcurrentProcesses() error {
	processes, err := ps.Processes()
	if err != nil {
		return fmt.Errorf("failed to list processes: %w", err)
	}

	self := os.Getpid()
	count := 0
	for _, p := range processes {
		if p.Pid() == self {
			continue
		}
		name := strings.TrimSuffix(p.Executable(), ".exe")
		if name == "fruitful" {
			count++
		}
	}

	if count > 0 {
		return fmt.Errorf("%d other fruitful process(es) running, concurrent writes may conflict", count)
	}
	return nil
}
