package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/fruitful/internal/models"
)

func testStores(t *testing.T) map[string]Provider {
	t.Helper()
	dir := t.TempDir()

	sqlite := NewSQLiteStore(filepath.Join(dir, "fruitful.db"))
	jsonStore := NewJSONStore(filepath.Join(dir, "fruitful.json"))

	stores := map[string]Provider{
		"sqlite": sqlite,
		"json":   jsonStore,
	}
	for name, store := range stores {
		if err := store.Init(); err != nil {
			t.Fatalf("%s: Init failed: %v", name, err)
		}
		t.Cleanup(func() { store.Close() })
	}
	return stores
}

func testHabit(id string) models.Habit {
	created := time.Date(2026, 2, 27, 8, 0, 0, 0, time.UTC)
	return models.Habit{
		ID:              id,
		Title:           "Stretch",
		CreatedAt:       created,
		Icon:            "figure.walk",
		Color:           0x33cc66,
		Priority:        models.PriorityNormal,
		Interval:        models.IntervalDay,
		IntervalStartAt: time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC),
		IntervalEndAt:   time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		GoalCount:       3,
		GoalLabel:       "times",
	}
}

func TestHabitRoundTrip(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			want := testHabit("h1")
			completedAt := time.Date(2026, 2, 27, 9, 30, 0, 0, time.UTC)
			want.CompletedAt = &completedAt
			want.CompletedUntil = want.IntervalEndAt
			want.CompletedCount = 5
			want.CompletedStreak = 2
			want.NotifyEnabled = true
			want.NotifyAt = "08:30"

			if err := store.AddHabit(want); err != nil {
				t.Fatalf("AddHabit failed: %v", err)
			}

			got, err := store.GetHabit("h1")
			if err != nil {
				t.Fatalf("GetHabit failed: %v", err)
			}

			if got.ID != want.ID || got.Title != want.Title || got.Icon != want.Icon ||
				got.Color != want.Color || got.Priority != want.Priority ||
				got.Interval != want.Interval || got.GoalCount != want.GoalCount ||
				got.GoalLabel != want.GoalLabel || got.CompletedCount != want.CompletedCount ||
				got.CompletedStreak != want.CompletedStreak ||
				got.NotifyEnabled != want.NotifyEnabled || got.NotifyAt != want.NotifyAt {
				t.Errorf("habit mismatch: got %+v, want %+v", got, want)
			}
			if !got.IntervalStartAt.Equal(want.IntervalStartAt) || !got.IntervalEndAt.Equal(want.IntervalEndAt) {
				t.Errorf("window mismatch: [%v, %v)", got.IntervalStartAt, got.IntervalEndAt)
			}
			if !got.CompletedUntil.Equal(want.CompletedUntil) {
				t.Errorf("CompletedUntil = %v, want %v", got.CompletedUntil, want.CompletedUntil)
			}
			if got.CompletedAt == nil || !got.CompletedAt.Equal(completedAt) {
				t.Errorf("CompletedAt = %v, want %v", got.CompletedAt, completedAt)
			}
		})
	}
}

func TestCompletedUntilZeroSentinelSurvivesRoundTrip(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.AddHabit(testHabit("h1")); err != nil {
				t.Fatalf("AddHabit failed: %v", err)
			}
			got, err := store.GetHabit("h1")
			if err != nil {
				t.Fatalf("GetHabit failed: %v", err)
			}
			if !got.CompletedUntil.IsZero() {
				t.Errorf("CompletedUntil = %v, want zero", got.CompletedUntil)
			}
			if got.CompletedAt != nil || got.ArchivedAt != nil {
				t.Errorf("pointers not nil: completedAt=%v archivedAt=%v", got.CompletedAt, got.ArchivedAt)
			}
		})
	}
}

func TestGetHabit_NotFound(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.GetHabit("missing")
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("GetHabit(missing) error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestArchiveExcludesFromDefaultQuery(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.AddHabit(testHabit("h1")); err != nil {
				t.Fatalf("AddHabit failed: %v", err)
			}
			if err := store.ArchiveHabit("h1"); err != nil {
				t.Fatalf("ArchiveHabit failed: %v", err)
			}

			active, err := store.GetAllHabits(false)
			if err != nil {
				t.Fatalf("GetAllHabits failed: %v", err)
			}
			if len(active) != 0 {
				t.Errorf("got %d active habits, want 0", len(active))
			}

			all, err := store.GetAllHabits(true)
			if err != nil {
				t.Fatalf("GetAllHabits(true) failed: %v", err)
			}
			if len(all) != 1 || !all[0].Archived() {
				t.Errorf("all habits = %+v, want one archived", all)
			}

			if err := store.ArchiveHabit("h1"); err == nil {
				t.Error("expected error archiving an already-archived habit")
			}
			if err := store.RestoreHabit("h1"); err != nil {
				t.Fatalf("RestoreHabit failed: %v", err)
			}
			if err := store.RestoreHabit("h1"); err == nil {
				t.Error("expected error restoring a non-archived habit")
			}
		})
	}
}

func TestArchivedHabitRetainsEntries(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			h := testHabit("h1")
			if err := store.AddHabit(h); err != nil {
				t.Fatalf("AddHabit failed: %v", err)
			}
			if err := store.AddEntry(testEntry("e1", "h1", h.IntervalStartAt.Add(time.Hour))); err != nil {
				t.Fatalf("AddEntry failed: %v", err)
			}
			if err := store.ArchiveHabit("h1"); err != nil {
				t.Fatalf("ArchiveHabit failed: %v", err)
			}

			entries, err := store.GetEntries("h1")
			if err != nil {
				t.Fatalf("GetEntries failed: %v", err)
			}
			if len(entries) != 1 {
				t.Errorf("got %d entries after archive, want 1 retained", len(entries))
			}
		})
	}
}

func testEntry(id, habitID string, ts time.Time) models.HabitEntry {
	return models.HabitEntry{
		ID:        id,
		HabitID:   habitID,
		Count:     1,
		Timestamp: ts,
		CreatedAt: ts,
	}
}

func TestDeleteHabitCascadesToEntries(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			h := testHabit("h1")
			other := testHabit("h2")
			if err := store.AddHabit(h); err != nil {
				t.Fatalf("AddHabit failed: %v", err)
			}
			if err := store.AddHabit(other); err != nil {
				t.Fatalf("AddHabit failed: %v", err)
			}

			ts := h.IntervalStartAt.Add(time.Hour)
			for _, e := range []models.HabitEntry{
				testEntry("e1", "h1", ts),
				testEntry("e2", "h1", ts.Add(time.Hour)),
				testEntry("e3", "h2", ts),
			} {
				if err := store.AddEntry(e); err != nil {
					t.Fatalf("AddEntry failed: %v", err)
				}
			}

			if err := store.DeleteHabit("h1"); err != nil {
				t.Fatalf("DeleteHabit failed: %v", err)
			}

			if _, err := store.GetHabit("h1"); !errors.Is(err, ErrNotFound) {
				t.Errorf("deleted habit still readable: %v", err)
			}
			if _, err := store.GetEntry("e1"); !errors.Is(err, ErrNotFound) {
				t.Errorf("cascade missed e1: %v", err)
			}
			if _, err := store.GetEntry("e2"); !errors.Is(err, ErrNotFound) {
				t.Errorf("cascade missed e2: %v", err)
			}

			// Entries of other habits are untouched
			if _, err := store.GetEntry("e3"); err != nil {
				t.Errorf("cascade overreached to e3: %v", err)
			}
		})
	}
}

func TestGetEntriesSince_FiltersAndOrders(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			h := testHabit("h1")
			if err := store.AddHabit(h); err != nil {
				t.Fatalf("AddHabit failed: %v", err)
			}

			cutoff := h.IntervalStartAt
			for _, e := range []models.HabitEntry{
				testEntry("old", "h1", cutoff.Add(-time.Hour)),
				testEntry("later", "h1", cutoff.Add(3*time.Hour)),
				testEntry("boundary", "h1", cutoff), // timestamp == since is included
				testEntry("early", "h1", cutoff.Add(time.Hour)),
			} {
				if err := store.AddEntry(e); err != nil {
					t.Fatalf("AddEntry failed: %v", err)
				}
			}

			entries, err := store.GetEntriesSince("h1", cutoff)
			if err != nil {
				t.Fatalf("GetEntriesSince failed: %v", err)
			}

			var ids []string
			for _, e := range entries {
				ids = append(ids, e.ID)
			}
			want := []string{"boundary", "early", "later"}
			if len(ids) != len(want) {
				t.Fatalf("entry ids = %v, want %v", ids, want)
			}
			for i := range want {
				if ids[i] != want[i] {
					t.Fatalf("entry ids = %v, want %v", ids, want)
				}
			}
		})
	}
}

func TestEntryUpdateAndDelete(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			h := testHabit("h1")
			if err := store.AddHabit(h); err != nil {
				t.Fatalf("AddHabit failed: %v", err)
			}
			e := testEntry("e1", "h1", h.IntervalStartAt.Add(time.Hour))
			if err := store.AddEntry(e); err != nil {
				t.Fatalf("AddEntry failed: %v", err)
			}

			e.Count = 4
			e.Note = "double session"
			if err := store.UpdateEntry(e); err != nil {
				t.Fatalf("UpdateEntry failed: %v", err)
			}

			got, err := store.GetEntry("e1")
			if err != nil {
				t.Fatalf("GetEntry failed: %v", err)
			}
			if got.Count != 4 || got.Note != "double session" {
				t.Errorf("entry = %+v after update", got)
			}

			if err := store.DeleteEntry("e1"); err != nil {
				t.Fatalf("DeleteEntry failed: %v", err)
			}
			if err := store.DeleteEntry("e1"); !errors.Is(err, ErrNotFound) {
				t.Errorf("second delete error = %v, want ErrNotFound", err)
			}
		})
	}
}
