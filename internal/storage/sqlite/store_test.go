package sqlite

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/stopsmokin/internal/models"
	"github.com/julianstephens/stopsmokin/internal/storage"
)

var t0 = time.Date(2024, 3, 10, 12, 0, 0, 123456789, time.UTC)

func setupStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "stopsmokin.db"))
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleState(n int) models.State {
	s := models.NewState()
	for i := 0; i < n; i++ {
		s.Events = append(s.Events, t0.Add(time.Duration(i)*time.Hour))
	}
	s.TotalCount = n
	s.LongestStreakHours = 30
	s.CurrentLevel = 2
	if n > 0 {
		last := s.Events[n-1]
		s.LastEventTime = &last
	}
	s.Achievements["first_track"] = models.AchievementRecord{Unlocked: true, UnlockedAt: t0}
	return s
}

func TestProviderInterface(t *testing.T) {
	var _ storage.Provider = (*Store)(nil)
}

func TestFreshDatabaseHasNoState(t *testing.T) {
	s := setupStore(t)
	state, ok, err := s.LoadState()
	if err != nil {
		t.Fatalf("LoadState() error = %v", err)
	}
	if ok {
		t.Error("fresh database reported stored state")
	}
	if state.CurrentLevel != 1 {
		t.Errorf("CurrentLevel = %d, want 1", state.CurrentLevel)
	}
	if v, err := s.SchemaVersion(); err != nil || v < 1 {
		t.Errorf("SchemaVersion() = %d, %v", v, err)
	}
}

func TestSaveAndLoadState(t *testing.T) {
	s := setupStore(t)
	want := sampleState(3)
	want.Achievements["half_way"] = models.AchievementRecord{Unlocked: false}

	if err := s.SaveState(want); err != nil {
		t.Fatalf("SaveState() error = %v", err)
	}
	got, ok, err := s.LoadState()
	if err != nil || !ok {
		t.Fatalf("LoadState() = %v, %v", ok, err)
	}
	if !got.Equal(want) {
		t.Errorf("LoadState() = %+v, want %+v", got, want)
	}
}

func TestAppendKeepsExistingRows(t *testing.T) {
	s := setupStore(t)
	if err := s.SaveState(sampleState(2)); err != nil {
		t.Fatal(err)
	}

	var firstID string
	if err := s.GetDB().QueryRow("SELECT id FROM events WHERE seq = 0").Scan(&firstID); err != nil {
		t.Fatal(err)
	}

	if err := s.SaveState(sampleState(3)); err != nil {
		t.Fatal(err)
	}
	var afterID string
	if err := s.GetDB().QueryRow("SELECT id FROM events WHERE seq = 0").Scan(&afterID); err != nil {
		t.Fatal(err)
	}
	if afterID != firstID {
		t.Error("appending an event rewrote existing rows")
	}

	var count int
	if err := s.GetDB().QueryRow("SELECT COUNT(*) FROM events").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("event rows = %d, want 3", count)
	}
}

func TestResetRewritesEvents(t *testing.T) {
	s := setupStore(t)
	if err := s.SaveState(sampleState(4)); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveState(models.NewState()); err != nil {
		t.Fatal(err)
	}

	got, ok, err := s.LoadState()
	if err != nil || !ok {
		t.Fatalf("LoadState() = %v, %v", ok, err)
	}
	if !got.Equal(models.NewState()) {
		t.Errorf("state after reset = %+v", got)
	}
}

func TestReplaceWithDifferentHistory(t *testing.T) {
	withEvents := func(events ...time.Time) models.State {
		s := sampleState(0)
		s.Events = events
		s.TotalCount = len(events)
		last := events[len(events)-1]
		s.LastEventTime = &last
		return s
	}
	h := func(n int) time.Time { return t0.Add(time.Duration(n) * time.Hour) }

	tests := []struct {
		name   string
		before models.State
		after  models.State
	}{
		{"same last slot, longer", withEvents(h(0), h(2)), withEvents(h(1), h(2), h(3))},
		{"same length", withEvents(h(0), h(1), h(2)), withEvents(h(0).Add(30*time.Minute), h(1), h(2))},
		{"shorter", withEvents(h(0), h(1), h(2)), withEvents(h(0), h(1))},
		{"append", withEvents(h(0), h(1)), withEvents(h(0), h(1), h(2))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupStore(t)
			if err := s.SaveState(tt.before); err != nil {
				t.Fatal(err)
			}
			if err := s.SaveState(tt.after); err != nil {
				t.Fatal(err)
			}

			got, _, err := s.LoadState()
			if err != nil {
				t.Fatal(err)
			}
			if len(got.Events) != len(tt.after.Events) {
				t.Fatalf("events = %v, want %v", got.Events, tt.after.Events)
			}
			for i := range got.Events {
				if !got.Events[i].Equal(tt.after.Events[i]) {
					t.Errorf("events[%d] = %v, want %v", i, got.Events[i], tt.after.Events[i])
				}
			}
		})
	}
}

func TestReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stopsmokin.db")
	s := NewStore(path)
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	want := sampleState(2)
	if err := s.SaveState(want); err != nil {
		t.Fatal(err)
	}
	s.Close()

	reopened := NewStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer reopened.Close()

	got, ok, err := reopened.LoadState()
	if err != nil || !ok || !got.Equal(want) {
		t.Errorf("reopened LoadState() = %+v, %v, %v", got, ok, err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := s.Load(); !errors.Is(err, storage.ErrNotInitialized) {
		t.Errorf("Load() error = %v, want ErrNotInitialized", err)
	}
	if _, _, err := s.LoadState(); !errors.Is(err, storage.ErrNotLoaded) {
		t.Errorf("LoadState() before Load error = %v, want ErrNotLoaded", err)
	}
}
