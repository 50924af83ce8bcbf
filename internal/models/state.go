package models

import "time"

// State is the persisted snapshot of a single user's tracker data.
// The JSON field names match the export payload so a JSON store file can be
// imported on another device as-is.
type State struct {
	Events             []time.Time                  `json:"smokingEvents"`
	TotalCount         int                          `json:"totalCigarettes"`
	LongestStreakHours int                          `json:"longestStreak"` // whole hours
	CurrentLevel       int                          `json:"currentLevel"`
	Achievements       map[string]AchievementRecord `json:"achievements"`
	LastEventTime      *time.Time                   `json:"lastSmokeTime"`
}

// AchievementRecord marks the first time an achievement was unlocked.
type AchievementRecord struct {
	Unlocked   bool      `json:"unlocked"`
	UnlockedAt time.Time `json:"unlockedAt"`
}

// NewState returns the empty state used on first run and after a reset.
func NewState() State {
	return State{
		Events:       []time.Time{},
		CurrentLevel: 1,
		Achievements: make(map[string]AchievementRecord),
	}
}

// Normalize converts timestamps to UTC and fills nil collections so callers
// never have to nil-check.
func (s *State) Normalize() {
	if s.Events == nil {
		s.Events = []time.Time{}
	}
	for i, e := range s.Events {
		s.Events[i] = e.UTC()
	}
	if s.Achievements == nil {
		s.Achievements = make(map[string]AchievementRecord)
	}
	for id, rec := range s.Achievements {
		rec.UnlockedAt = rec.UnlockedAt.UTC()
		s.Achievements[id] = rec
	}
	if s.LastEventTime != nil {
		t := s.LastEventTime.UTC()
		s.LastEventTime = &t
	}
	if s.CurrentLevel < 1 {
		s.CurrentLevel = 1
	}
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := s
	out.Events = make([]time.Time, len(s.Events))
	copy(out.Events, s.Events)
	out.Achievements = make(map[string]AchievementRecord, len(s.Achievements))
	for id, rec := range s.Achievements {
		out.Achievements[id] = rec
	}
	if s.LastEventTime != nil {
		t := *s.LastEventTime
		out.LastEventTime = &t
	}
	return out
}

// Equal reports whether two states describe the same instants and counters.
func (s State) Equal(o State) bool {
	if s.TotalCount != o.TotalCount ||
		s.LongestStreakHours != o.LongestStreakHours ||
		s.CurrentLevel != o.CurrentLevel ||
		len(s.Events) != len(o.Events) ||
		len(s.Achievements) != len(o.Achievements) {
		return false
	}
	for i := range s.Events {
		if !s.Events[i].Equal(o.Events[i]) {
			return false
		}
	}
	for id, rec := range s.Achievements {
		other, ok := o.Achievements[id]
		if !ok || other.Unlocked != rec.Unlocked || !other.UnlockedAt.Equal(rec.UnlockedAt) {
			return false
		}
	}
	switch {
	case s.LastEventTime == nil && o.LastEventTime == nil:
		return true
	case s.LastEventTime == nil || o.LastEventTime == nil:
		return false
	default:
		return s.LastEventTime.Equal(*o.LastEventTime)
	}
}
