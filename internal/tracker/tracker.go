// Package tracker owns one user's state and runs every recomputation. It is
// the explicit context object callers hold instead of a process-wide singleton.
package tracker

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/stopsmokin/internal/achievement"
	"github.com/julianstephens/stopsmokin/internal/constants"
	"github.com/julianstephens/stopsmokin/internal/eventlog"
	"github.com/julianstephens/stopsmokin/internal/logger"
	"github.com/julianstephens/stopsmokin/internal/models"
	"github.com/julianstephens/stopsmokin/internal/motivation"
	"github.com/julianstephens/stopsmokin/internal/progression"
	"github.com/julianstephens/stopsmokin/internal/stats"
	"github.com/julianstephens/stopsmokin/internal/utils"
)

// ErrNotConfirmed is returned by destructive operations called without confirmation.
var ErrNotConfirmed = errors.New("operation requires confirmation")

// StatePort is the storage the tracker reads from and writes to.
type StatePort interface {
	// LoadState returns the stored state, or ok=false when nothing is stored yet.
	LoadState() (state models.State, ok bool, err error)
	SaveState(models.State) error
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithLocation sets the zone used for the "today" boundary.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) {
		if loc != nil {
			t.loc = loc
		}
	}
}

// WithWeekWindow sets how many trailing weeks are bucketed.
func WithWeekWindow(weeks int) Option {
	return func(t *Tracker) {
		if weeks > 0 {
			t.window = weeks
		}
	}
}

// Tracker is not safe for concurrent use; a single logical actor drives it.
type Tracker struct {
	store  StatePort
	state  models.State
	log    *eventlog.Log
	now    func() time.Time
	loc    *time.Location
	window int
}

// Update is what a recomputation changed, for notifications.
type Update struct {
	LevelUp        bool
	NewLevel       int
	Unlocked       []achievement.Achievement
	LongestUpdated bool
}

// Changed reports whether anything needs persisting or announcing.
func (u Update) Changed() bool {
	return u.LevelUp || u.LongestUpdated || len(u.Unlocked) > 0
}

func (u *Update) merge(o progression.Outcome) {
	if o.LevelUp {
		u.LevelUp = true
		u.NewLevel = o.NewLevel
	}
	u.LongestUpdated = u.LongestUpdated || o.LongestUpdated
}

func (u *Update) absorb(o Update) {
	u.merge(progression.Outcome{LevelUp: o.LevelUp, NewLevel: o.NewLevel, LongestUpdated: o.LongestUpdated})
	u.Unlocked = append(u.Unlocked, o.Unlocked...)
}

// New loads state from store, or starts empty when none is stored.
func New(store StatePort, opts ...Option) (*Tracker, error) {
	t := &Tracker{
		store:  store,
		now:    time.Now,
		loc:    time.Local,
		window: constants.DefaultWeekWindow,
	}
	for _, opt := range opts {
		opt(t)
	}

	state, ok, err := store.LoadState()
	if err != nil {
		return nil, fmt.Errorf("failed to load tracker state: %w", err)
	}
	if !ok {
		state = models.NewState()
	}
	state.Normalize()
	t.adopt(state)
	return t, nil
}

func (t *Tracker) adopt(state models.State) {
	t.state = state
	t.log = eventlog.New(state.Events)
	t.state.TotalCount = t.log.Total()
	t.state.LastEventTime = nil
	if last, ok := t.log.Last(); ok {
		t.state.LastEventTime = &last
	}
}

// recompute runs statistics, the progression ratchets and achievement
// evaluation at now. It never appends events.
func (t *Tracker) recompute(now time.Time) Update {
	var u Update
	u.merge(progression.Recompute(&t.state, now))

	summary := stats.Compute(t.log, now, t.loc, t.window)
	ctx := achievement.Context{
		TotalCount:       t.log.Total(),
		StreakHours:      progression.StreakHours(t.state.LastEventTime, now),
		Level:            t.state.CurrentLevel,
		ReductionPercent: summary.ReductionPercent,
		WeeklyTrend:      summary.Trends.Weekly,
	}
	u.Unlocked = achievement.Evaluate(t.state.Achievements, ctx, now)

	if u.LevelUp {
		logger.Info("Level up", "level", u.NewLevel)
	}
	for _, a := range u.Unlocked {
		logger.Info("Achievement unlocked", "id", a.ID)
	}
	return u
}

// RecordEvent logs an event at the current time and recomputes. A failed
// save leaves the state as it was.
func (t *Tracker) RecordEvent() (Update, error) {
	now := t.now().UTC()
	previous := t.state.Clone()

	// Commit the streak that is ending before it resets.
	u := t.recompute(now)

	t.log.Record(now)
	t.state.Events = t.log.Events()
	t.state.TotalCount = t.log.Total()
	t.state.LastEventTime = &now

	u.absorb(t.recompute(now))

	if err := t.store.SaveState(t.state); err != nil {
		t.adopt(previous)
		return Update{}, fmt.Errorf("failed to save event: %w", err)
	}
	logger.Debug("Recorded event", "at", now, "total", t.state.TotalCount)
	return u, nil
}

// Tick re-derives progression and achievements. State is saved only when
// something changed, and rolled back if that save fails.
func (t *Tracker) Tick() (Update, error) {
	previous := t.state.Clone()
	u := t.recompute(t.now().UTC())
	if !u.Changed() {
		return u, nil
	}
	if err := t.store.SaveState(t.state); err != nil {
		t.adopt(previous)
		return Update{}, fmt.Errorf("failed to save state: %w", err)
	}
	return u, nil
}

// Import replaces the whole state. It requires confirmed; on any error the
// current state is left untouched.
func (t *Tracker) Import(state models.State, confirmed bool) (Update, error) {
	if !confirmed {
		return Update{}, ErrNotConfirmed
	}
	previous := t.state.Clone()

	incoming := state.Clone()
	incoming.Normalize()
	t.adopt(incoming)
	u := t.recompute(t.now().UTC())

	if err := t.store.SaveState(t.state); err != nil {
		t.adopt(previous)
		return Update{}, fmt.Errorf("failed to save imported state: %w", err)
	}
	logger.Info("Imported state", "events", t.state.TotalCount, "achievements", len(t.state.Achievements))
	return u, nil
}

// Reset wipes all data. It requires confirmed.
func (t *Tracker) Reset(confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	previous := t.state.Clone()
	t.adopt(models.NewState())
	if err := t.store.SaveState(t.state); err != nil {
		t.adopt(previous)
		return fmt.Errorf("failed to save reset state: %w", err)
	}
	logger.Info("Reset all data")
	return nil
}

// Export returns a copy of the current state.
func (t *Tracker) Export() models.State {
	return t.state.Clone()
}

// Snapshot is the read-only view handed to presentation code.
type Snapshot struct {
	Now          time.Time
	Stats        stats.Summary
	Progress     progression.Status
	Achievements []achievement.Status
	Message      string
	LastEvent    *time.Time
	Timer        string
}

// Snapshot derives everything a view needs without mutating state.
func (t *Tracker) Snapshot() Snapshot {
	now := t.now().UTC()
	summary := stats.Compute(t.log, now, t.loc, t.window)

	var elapsed time.Duration
	var last *time.Time
	if t.state.LastEventTime != nil {
		l := *t.state.LastEventTime
		last = &l
		elapsed = now.Sub(l)
	}

	return Snapshot{
		Now:          now,
		Stats:        summary,
		Progress:     progression.StatusOf(t.state, now),
		Achievements: achievement.RenderState(t.state.Achievements),
		Message: motivation.Select(motivation.Input{
			SmokeFree:        elapsed,
			ReductionPercent: summary.ReductionPercent,
			WeeklyTrend:      summary.Trends.Weekly,
		}),
		LastEvent: last,
		Timer:     utils.FormatTimer(elapsed),
	}
}

// Timer is the smoke-free time as HH:MM:SS.
func (t *Tracker) Timer() string {
	if t.state.LastEventTime == nil {
		return utils.FormatTimer(0)
	}
	return utils.FormatTimer(t.now().Sub(*t.state.LastEventTime))
}

// Location is the zone used for day boundaries.
func (t *Tracker) Location() *time.Location {
	return t.loc
}
