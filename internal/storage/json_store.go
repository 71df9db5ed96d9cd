package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/julianstephens/fruitful/internal/models"
)

type jsonDocument struct {
	Version int                          `json:"version"`
	Habits  map[string]models.Habit      `json:"habits"`
	Entries map[string]models.HabitEntry `json:"entries"`
}

// JSONStore keeps the whole habit graph in a single JSON document, written
// back on every mutation. Useful for inspectable storage and tests.
type JSONStore struct {
	path  string
	store *jsonDocument
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{
		path: path,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.store = &jsonDocument{
		Version: 1,
		Habits:  make(map[string]models.Habit),
		Entries: make(map[string]models.HabitEntry),
	}

	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'fruitful init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.store = &jsonDocument{}
	if err := json.Unmarshal(data, s.store); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	// Ensure maps are initialized
	if s.store.Habits == nil {
		s.store.Habits = make(map[string]models.Habit)
	}
	if s.store.Entries == nil {
		s.store.Entries = make(map[string]models.HabitEntry)
	}

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) loaded() error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	return nil
}

func (s *JSONStore) AddHabit(habit models.Habit) error {
	return s.UpdateHabit(habit)
}

func (s *JSONStore) GetHabit(id string) (models.Habit, error) {
	if err := s.loaded(); err != nil {
		return models.Habit{}, err
	}
	habit, ok := s.store.Habits[id]
	if !ok {
		return models.Habit{}, fmt.Errorf("habit %s: %w", id, ErrNotFound)
	}
	return habit, nil
}

func (s *JSONStore) GetAllHabits(includeArchived bool) ([]models.Habit, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}

	habits := make([]models.Habit, 0, len(s.store.Habits))
	for _, habit := range s.store.Habits {
		if !includeArchived && habit.Archived() {
			continue
		}
		habits = append(habits, habit)
	}
	sort.Slice(habits, func(i, j int) bool {
		return habits[i].CreatedAt.Before(habits[j].CreatedAt)
	})
	return habits, nil
}

func (s *JSONStore) UpdateHabit(habit models.Habit) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.store.Habits[habit.ID] = habit
	return s.save()
}

func (s *JSONStore) ArchiveHabit(id string) error {
	habit, err := s.GetHabit(id)
	if err != nil {
		return err
	}
	if habit.Archived() {
		return fmt.Errorf("habit %s is already archived", id)
	}
	now := time.Now().UTC()
	habit.ArchivedAt = &now
	return s.UpdateHabit(habit)
}

func (s *JSONStore) RestoreHabit(id string) error {
	habit, err := s.GetHabit(id)
	if err != nil {
		return err
	}
	if !habit.Archived() {
		return fmt.Errorf("cannot restore a habit that is not archived: %s", id)
	}
	habit.ArchivedAt = nil
	return s.UpdateHabit(habit)
}

func (s *JSONStore) DeleteHabit(id string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.store.Habits[id]; !ok {
		return fmt.Errorf("habit %s: %w", id, ErrNotFound)
	}

	delete(s.store.Habits, id)
	// Cascade: an entry never outlives its habit
	for entryID, entry := range s.store.Entries {
		if entry.HabitID == id {
			delete(s.store.Entries, entryID)
		}
	}
	return s.save()
}

func (s *JSONStore) AddEntry(entry models.HabitEntry) error {
	return s.UpdateEntry(entry)
}

func (s *JSONStore) GetEntry(id string) (models.HabitEntry, error) {
	if err := s.loaded(); err != nil {
		return models.HabitEntry{}, err
	}
	entry, ok := s.store.Entries[id]
	if !ok {
		return models.HabitEntry{}, fmt.Errorf("entry %s: %w", id, ErrNotFound)
	}
	return entry, nil
}

func (s *JSONStore) GetEntries(habitID string) ([]models.HabitEntry, error) {
	return s.GetEntriesSince(habitID, time.Time{})
}

func (s *JSONStore) GetEntriesSince(habitID string, since time.Time) ([]models.HabitEntry, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}

	var entries []models.HabitEntry
	for _, entry := range s.store.Entries {
		if entry.HabitID != habitID || entry.Timestamp.Before(since) {
			continue
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	return entries, nil
}

func (s *JSONStore) UpdateEntry(entry models.HabitEntry) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.store.Entries[entry.ID] = entry
	return s.save()
}

func (s *JSONStore) DeleteEntry(id string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.store.Entries[id]; !ok {
		return fmt.Errorf("entry %s: %w", id, ErrNotFound)
	}
	delete(s.store.Entries, id)
	return s.save()
}

// OrphanedEntries returns entries whose habit no longer exists. The store
// cascades deletes itself, so orphans only appear in hand-edited documents.
func (s *JSONStore) OrphanedEntries() ([]models.HabitEntry, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}

	var orphans []models.HabitEntry
	for _, entry := range s.store.Entries {
		if _, ok := s.store.Habits[entry.HabitID]; !ok {
			orphans = append(orphans, entry)
		}
	}
	return orphans, nil
}

// GetConfigPath returns the path to the underlying storage file.
//
// Concurrency note: the store is not safe for concurrent use by multiple
// goroutines or processes sharing the same path.
func (s *JSONStore) GetConfigPath() string {
	return s.path
}
