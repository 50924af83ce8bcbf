package storage

import (
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/stopsmokin/internal/models"
)

// Dialect captures the handful of differences between SQL backends.
type Dialect struct {
	Name string
	// Placeholder returns the bind marker for the n-th (1-based) argument.
	Placeholder func(n int) string
}

var (
	SQLiteDialect = Dialect{
		Name:        "sqlite",
		Placeholder: func(int) string { return "?" },
	}
	PostgresDialect = Dialect{
		Name:        "postgres",
		Placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	}
)

const (
	keyTotalCount    = "total_count"
	keyLongestStreak = "longest_streak_hours"
	keyCurrentLevel  = "current_level"
	keyLastEventTime = "last_event_time"
)

func (d Dialect) ph(n int) string { return d.Placeholder(n) }

func formatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseInstant(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// LoadSQLState reads the state written by SaveSQLState. ok is false for a
// database that has never been saved to.
func LoadSQLState(db *sql.DB, d Dialect) (models.State, bool, error) {
	if db == nil {
		return models.State{}, false, ErrNotLoaded
	}

	kv := map[string]string{}
	rows, err := db.Query("SELECT key, value FROM tracker_state")
	if err != nil {
		return models.State{}, false, fmt.Errorf("failed to read tracker state: %w", err)
	}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			rows.Close()
			return models.State{}, false, fmt.Errorf("failed to scan tracker state: %w", err)
		}
		kv[k] = v
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return models.State{}, false, err
	}
	if len(kv) == 0 {
		return models.NewState(), false, nil
	}

	state := models.NewState()
	for key, dst := range map[string]*int{
		keyTotalCount:    &state.TotalCount,
		keyLongestStreak: &state.LongestStreakHours,
		keyCurrentLevel:  &state.CurrentLevel,
	} {
		if raw, ok := kv[key]; ok {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return models.State{}, false, fmt.Errorf("invalid %s %q: %w", key, raw, err)
			}
			*dst = n
		}
	}
	if raw := kv[keyLastEventTime]; raw != "" {
		t, err := parseInstant(raw)
		if err != nil {
			return models.State{}, false, fmt.Errorf("invalid %s %q: %w", keyLastEventTime, raw, err)
		}
		state.LastEventTime = &t
	}

	if state.Events, err = loadEvents(db); err != nil {
		return models.State{}, false, err
	}
	if state.Achievements, err = loadAchievements(db); err != nil {
		return models.State{}, false, err
	}

	state.Normalize()
	return state, true, nil
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

func loadEvents(q queryer) ([]time.Time, error) {
	rows, err := q.Query("SELECT occurred_at FROM events ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	defer rows.Close()

	events := []time.Time{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		t, err := parseInstant(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid event timestamp %q: %w", raw, err)
		}
		events = append(events, t)
	}
	return events, rows.Err()
}

func loadAchievements(db *sql.DB) (map[string]models.AchievementRecord, error) {
	rows, err := db.Query("SELECT id, unlocked, unlocked_at FROM achievements")
	if err != nil {
		return nil, fmt.Errorf("failed to read achievements: %w", err)
	}
	defer rows.Close()

	out := map[string]models.AchievementRecord{}
	for rows.Next() {
		var id, raw string
		var unlocked bool
		if err := rows.Scan(&id, &unlocked, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		t, err := parseInstant(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid unlock time for %s: %w", id, err)
		}
		out[id] = models.AchievementRecord{Unlocked: unlocked, UnlockedAt: t}
	}
	return out, rows.Err()
}

// SaveSQLState writes state in one transaction. When the stored events are a
// prefix of state.Events only the new tail is inserted; otherwise (reset,
// import) the event table is rewritten.
func SaveSQLState(db *sql.DB, d Dialect, state models.State) error {
	if db == nil {
		return ErrNotLoaded
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := saveSQLState(tx, d, state); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit state: %w", err)
	}
	return nil
}

func saveSQLState(tx *sql.Tx, d Dialect, state models.State) error {
	if err := saveEvents(tx, d, state.Events); err != nil {
		return err
	}
	if err := saveAchievements(tx, d, state.Achievements); err != nil {
		return err
	}

	last := ""
	if state.LastEventTime != nil {
		last = formatInstant(*state.LastEventTime)
	}
	upsert := fmt.Sprintf(
		"INSERT INTO tracker_state (key, value) VALUES (%s, %s) ON CONFLICT (key) DO UPDATE SET value = excluded.value",
		d.ph(1), d.ph(2))
	for _, kv := range [][2]string{
		{keyTotalCount, strconv.Itoa(state.TotalCount)},
		{keyLongestStreak, strconv.Itoa(state.LongestStreakHours)},
		{keyCurrentLevel, strconv.Itoa(state.CurrentLevel)},
		{keyLastEventTime, last},
	} {
		if _, err := tx.Exec(upsert, kv[0], kv[1]); err != nil {
			return fmt.Errorf("failed to save %s: %w", kv[0], err)
		}
	}
	return nil
}

func saveEvents(tx *sql.Tx, d Dialect, events []time.Time) error {
	stored, err := loadEvents(tx)
	if err != nil {
		return err
	}

	// Appends only touch the tail; anything else rewrites the table.
	start := 0
	if len(stored) > 0 && isPrefix(stored, events, precision(d)) {
		start = len(stored)
	} else if len(stored) > 0 {
		if _, err := tx.Exec("DELETE FROM events"); err != nil {
			return fmt.Errorf("failed to clear events: %w", err)
		}
	}

	insert := fmt.Sprintf("INSERT INTO events (id, seq, occurred_at) VALUES (%s, %s, %s)", d.ph(1), d.ph(2), d.ph(3))
	for i := start; i < len(events); i++ {
		if _, err := tx.Exec(insert, uuid.NewString(), i, formatInstant(events[i])); err != nil {
			return fmt.Errorf("failed to insert event: %w", err)
		}
	}
	return nil
}

// isPrefix reports whether stored equals the first len(stored) events at
// the backend's precision.
func isPrefix(stored, events []time.Time, p time.Duration) bool {
	if len(stored) > len(events) {
		return false
	}
	for i, t := range stored {
		if !t.Equal(events[i].Truncate(p)) {
			return false
		}
	}
	return true
}

// precision is the timestamp resolution the backend keeps.
func precision(d Dialect) time.Duration {
	if d.Name == PostgresDialect.Name {
		return time.Microsecond
	}
	return time.Nanosecond
}

func saveAchievements(tx *sql.Tx, d Dialect, records map[string]models.AchievementRecord) error {
	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if _, err := tx.Exec("DELETE FROM achievements"); err != nil {
		return fmt.Errorf("failed to clear achievements: %w", err)
	}
	insert := fmt.Sprintf(
		"INSERT INTO achievements (id, row_id, unlocked, unlocked_at) VALUES (%s, %s, %s, %s)",
		d.ph(1), d.ph(2), d.ph(3), d.ph(4))
	for _, id := range ids {
		rec := records[id]
		if _, err := tx.Exec(insert, id, uuid.NewString(), rec.Unlocked, formatInstant(rec.UnlockedAt)); err != nil {
			return fmt.Errorf("failed to save achievement %s: %w", id, err)
		}
	}
	return nil
}
