package storage

import (
	"errors"
	"time"

	"github.com/julianstephens/fruitful/internal/models"
)

// ErrNotFound is returned when a habit or entry does not exist in the store.
var ErrNotFound = errors.New("not found")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Habits
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetAllHabits(includeArchived bool) ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	ArchiveHabit(id string) error
	RestoreHabit(id string) error
	// DeleteHabit permanently removes the habit and all of its entries.
	DeleteHabit(id string) error

	// Entries
	AddEntry(models.HabitEntry) error
	GetEntry(id string) (models.HabitEntry, error)
	GetEntries(habitID string) ([]models.HabitEntry, error)
	// GetEntriesSince returns the habit's entries with timestamp >= since,
	// ordered by timestamp.
	GetEntriesSince(habitID string, since time.Time) ([]models.HabitEntry, error)
	UpdateEntry(models.HabitEntry) error
	DeleteEntry(id string) error

	// Utils
	GetConfigPath() string
}
