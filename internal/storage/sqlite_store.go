package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/julianstephens/fruitful/internal/models"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS habits (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	icon TEXT NOT NULL DEFAULT '',
	color INTEGER NOT NULL DEFAULT 0,
	priority TEXT NOT NULL DEFAULT 'normal',
	interval TEXT NOT NULL,
	interval_start_at TEXT NOT NULL,
	interval_end_at TEXT NOT NULL,
	goal_count INTEGER NOT NULL DEFAULT 1,
	goal_label TEXT NOT NULL DEFAULT '',
	completed_until TEXT,
	completed_at TEXT,
	completed_count INTEGER NOT NULL DEFAULT 0,
	completed_streak INTEGER NOT NULL DEFAULT 0,
	notify_enabled INTEGER NOT NULL DEFAULT 0,
	notify_at TEXT NOT NULL DEFAULT '',
	archived_at TEXT
);

CREATE TABLE IF NOT EXISTS entries (
	id TEXT PRIMARY KEY,
	habit_id TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
	count INTEGER NOT NULL DEFAULT 1,
	timestamp TEXT NOT NULL,
	note TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entries_habit_timestamp ON entries(habit_id, timestamp);
`

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

func (s *SQLiteStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := s.open()
	if err != nil {
		return err
	}
	s.db = db

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'fruitful init' first")
	}

	db, err := s.open()
	if err != nil {
		return err
	}
	s.db = db

	// Schema is additive-only; applying it on load picks up tables added in
	// newer releases without a separate migration step.
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to verify schema: %w", err)
	}

	return nil
}

func (s *SQLiteStore) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return db, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) AddHabit(habit models.Habit) error {
	return s.UpdateHabit(habit)
}

const habitColumns = `id, title, created_at, icon, color, priority, interval,
	interval_start_at, interval_end_at, goal_count, goal_label,
	completed_until, completed_at, completed_count, completed_streak,
	notify_enabled, notify_at, archived_at`

func (s *SQLiteStore) GetHabit(id string) (models.Habit, error) {
	row := s.db.QueryRow(
		"SELECT "+habitColumns+" FROM habits WHERE id = ?", id)
	h, err := scanHabit(row)
	if err == sql.ErrNoRows {
		return models.Habit{}, fmt.Errorf("habit %s: %w", id, ErrNotFound)
	}
	return h, err
}

func (s *SQLiteStore) GetAllHabits(includeArchived bool) ([]models.Habit, error) {
	query := "SELECT " + habitColumns + " FROM habits"
	if !includeArchived {
		query += " WHERE archived_at IS NULL"
	}
	query += " ORDER BY created_at"

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *SQLiteStore) UpdateHabit(habit models.Habit) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		habit.ID, habit.Title, habit.CreatedAt.Format(time.RFC3339),
		habit.Icon, habit.Color, string(habit.Priority), string(habit.Interval),
		habit.IntervalStartAt.Format(time.RFC3339), habit.IntervalEndAt.Format(time.RFC3339),
		habit.GoalCount, habit.GoalLabel,
		nullTime(habit.CompletedUntil), nullTimePtr(habit.CompletedAt),
		habit.CompletedCount, habit.CompletedStreak,
		habit.NotifyEnabled, habit.NotifyAt, nullTimePtr(habit.ArchivedAt),
	)
	return err
}

func (s *SQLiteStore) ArchiveHabit(id string) error {
	h, err := s.GetHabit(id)
	if err != nil {
		return err
	}
	if h.Archived() {
		return fmt.Errorf("habit %s is already archived", id)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec("UPDATE habits SET archived_at = ? WHERE id = ?", now, id)
	return err
}

func (s *SQLiteStore) RestoreHabit(id string) error {
	h, err := s.GetHabit(id)
	if err != nil {
		return err
	}
	if !h.Archived() {
		return fmt.Errorf("cannot restore a habit that is not archived: %s", id)
	}
	_, err = s.db.Exec("UPDATE habits SET archived_at = NULL WHERE id = ?", id)
	return err
}

func (s *SQLiteStore) DeleteHabit(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM habits WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("habit %s: %w", id, ErrNotFound)
	}

	// The FK cascade covers this, but the explicit delete keeps databases
	// created before foreign_keys was enabled consistent.
	if _, err := tx.Exec("DELETE FROM entries WHERE habit_id = ?", id); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) AddEntry(entry models.HabitEntry) error {
	return s.UpdateEntry(entry)
}

func (s *SQLiteStore) GetEntry(id string) (models.HabitEntry, error) {
	row := s.db.QueryRow(`
		SELECT id, habit_id, count, timestamp, note, created_at
		FROM entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return models.HabitEntry{}, fmt.Errorf("entry %s: %w", id, ErrNotFound)
	}
	return e, err
}

func (s *SQLiteStore) GetEntries(habitID string) ([]models.HabitEntry, error) {
	return s.queryEntries(
		"SELECT id, habit_id, count, timestamp, note, created_at FROM entries WHERE habit_id = ? ORDER BY timestamp",
		habitID)
}

func (s *SQLiteStore) GetEntriesSince(habitID string, since time.Time) ([]models.HabitEntry, error) {
	return s.queryEntries(
		"SELECT id, habit_id, count, timestamp, note, created_at FROM entries WHERE habit_id = ? AND timestamp >= ? ORDER BY timestamp",
		habitID, since.UTC().Format(time.RFC3339))
}

func (s *SQLiteStore) queryEntries(query string, args ...any) ([]models.HabitEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.HabitEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Timestamps are stored RFC3339 with mixed offsets; string ORDER BY is
	// not reliable across locations, so re-sort after parsing.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	return entries, nil
}

func (s *SQLiteStore) UpdateEntry(entry models.HabitEntry) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO entries (id, habit_id, count, timestamp, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.HabitID, entry.Count,
		entry.Timestamp.UTC().Format(time.RFC3339), entry.Note,
		entry.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

func (s *SQLiteStore) DeleteEntry(id string) error {
	res, err := s.db.Exec("DELETE FROM entries WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("entry %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

func (s *SQLiteStore) GetDB() *sql.DB {
	return s.db
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var createdAt, startAt, endAt, priority, intervalUnit string
	var completedUntil, completedAt, archivedAt sql.NullString

	err := row.Scan(
		&h.ID, &h.Title, &createdAt, &h.Icon, &h.Color, &priority, &intervalUnit,
		&startAt, &endAt, &h.GoalCount, &h.GoalLabel,
		&completedUntil, &completedAt, &h.CompletedCount, &h.CompletedStreak,
		&h.NotifyEnabled, &h.NotifyAt, &archivedAt,
	)
	if err != nil {
		return models.Habit{}, err
	}

	h.Priority = models.Priority(priority)
	h.Interval = models.HabitInterval(intervalUnit)

	if h.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Habit{}, err
	}
	if h.IntervalStartAt, err = parseTime("interval_start_at", startAt); err != nil {
		return models.Habit{}, err
	}
	if h.IntervalEndAt, err = parseTime("interval_end_at", endAt); err != nil {
		return models.Habit{}, err
	}
	if completedUntil.Valid {
		if h.CompletedUntil, err = parseTime("completed_until", completedUntil.String); err != nil {
			return models.Habit{}, err
		}
	}
	if completedAt.Valid {
		t, err := parseTime("completed_at", completedAt.String)
		if err != nil {
			return models.Habit{}, err
		}
		h.CompletedAt = &t
	}
	if archivedAt.Valid {
		t, err := parseTime("archived_at", archivedAt.String)
		if err != nil {
			return models.Habit{}, err
		}
		h.ArchivedAt = &t
	}

	return h, nil
}

func scanEntry(row scanner) (models.HabitEntry, error) {
	var e models.HabitEntry
	var timestamp, createdAt string

	if err := row.Scan(&e.ID, &e.HabitID, &e.Count, &timestamp, &e.Note, &createdAt); err != nil {
		return models.HabitEntry{}, err
	}

	var err error
	if e.Timestamp, err = parseTime("timestamp", timestamp); err != nil {
		return models.HabitEntry{}, err
	}
	if e.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.HabitEntry{}, err
	}
	return e, nil
}

func parseTime(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", field, err)
	}
	return t, nil
}

func nullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}

func nullTimePtr(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return nullTime(*t)
}
