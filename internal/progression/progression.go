// Package progression turns smoke-free time into levels. Level and longest
// streak are ratchets: they are compared and committed, never recomputed down.
package progression

import (
	"time"

	"github.com/julianstephens/stopsmokin/internal/constants"
	"github.com/julianstephens/stopsmokin/internal/models"
)

// StreakHours is whole hours elapsed since last, or 0 when nothing has been
// recorded. Events in the future count as 0.
func StreakHours(last *time.Time, now time.Time) int {
	if last == nil {
		return 0
	}
	d := now.Sub(*last)
	if d < 0 {
		return 0
	}
	return int(d / time.Hour)
}

// StreakDays converts a streak in hours into whole days.
func StreakDays(hours int) int {
	return hours / 24
}

// CandidateLevel is the level a streak of the given length earns on its own.
func CandidateLevel(hours int) int {
	return max(1, StreakDays(hours)/constants.DaysPerLevel+1)
}

// ProgressToNextLevel is the fraction in [0, 1) of the current level bracket
// that has elapsed.
func ProgressToNextLevel(hours int) float64 {
	return float64(StreakDays(hours)%constants.DaysPerLevel) / constants.DaysPerLevel
}

// Outcome reports what a recomputation committed.
type Outcome struct {
	LevelUp        bool
	NewLevel       int
	LongestUpdated bool
}

// Recompute ratchets longest streak and level on state for the streak at now.
func Recompute(state *models.State, now time.Time) Outcome {
	hours := StreakHours(state.LastEventTime, now)
	var out Outcome

	if hours > state.LongestStreakHours {
		state.LongestStreakHours = hours
		out.LongestUpdated = true
	}

	if state.CurrentLevel < 1 {
		state.CurrentLevel = 1
	}
	if candidate := CandidateLevel(hours); candidate > state.CurrentLevel {
		state.CurrentLevel = candidate
		out.LevelUp = true
		out.NewLevel = candidate
	}
	return out
}

// Status is the read-only view of progression at one instant.
type Status struct {
	StreakHours        int     `json:"streakHours"`
	StreakDays         int     `json:"streakDays"`
	LongestStreakHours int     `json:"longestStreakHours"`
	Level              int     `json:"level"`
	Progress           float64 `json:"progressToNextLevel"`
}

// StatusOf projects state at now without mutating it.
func StatusOf(state models.State, now time.Time) Status {
	hours := StreakHours(state.LastEventTime, now)
	return Status{
		StreakHours:        hours,
		StreakDays:         StreakDays(hours),
		LongestStreakHours: state.LongestStreakHours,
		Level:              max(1, state.CurrentLevel),
		Progress:           ProgressToNextLevel(hours),
	}
}
