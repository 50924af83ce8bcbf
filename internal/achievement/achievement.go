// Package achievement evaluates the fixed catalog of health milestones.
package achievement

import (
	"time"

	"github.com/julianstephens/stopsmokin/internal/models"
	"github.com/julianstephens/stopsmokin/internal/stats"
)

// Context is the snapshot every condition is evaluated against.
type Context struct {
	TotalCount       int
	StreakHours      int
	Level            int
	ReductionPercent int
	WeeklyTrend      stats.Trend
}

// Achievement describes a single unlockable milestone.
type Achievement struct {
	ID          string
	Title       string
	Description string
	Icon        string
	// Condition reports whether the achievement should be awarded.
	Condition func(Context) bool
}

var catalog = []Achievement{
	{ID: "first_track", Title: "Awareness", Description: "Heart rate normalizing", Icon: "💓",
		Condition: func(c Context) bool { return c.TotalCount >= 1 }},
	{ID: "one_hour", Title: "Blood Healing", Description: "CO levels dropping", Icon: "🩸",
		Condition: func(c Context) bool { return c.StreakHours >= 1 }},
	{ID: "one_day", Title: "Heart Protected", Description: "Heart attack risk reduced", Icon: "🫀",
		Condition: func(c Context) bool { return c.StreakHours >= 24 }},
	{ID: "three_days", Title: "Nicotine Free", Description: "Body completely detoxed", Icon: "🧬",
		Condition: func(c Context) bool { return c.StreakHours >= 72 }},
	{ID: "one_week", Title: "Circulation Boost", Description: "Walking gets easier", Icon: "🚶‍♂️",
		Condition: func(c Context) bool { return c.StreakHours >= 168 }},
	{ID: "awareness", Title: "Pattern Master", Description: "Tracking builds awareness", Icon: "🧠",
		Condition: func(c Context) bool { return c.TotalCount >= 10 }},
	{ID: "level_up", Title: "Health Champion", Description: "Major lung improvements", Icon: "🫁",
		Condition: func(c Context) bool { return c.Level >= 3 }},
	{ID: "reducer", Title: "Reducer", Description: "25% less smoking", Icon: "📉",
		Condition: func(c Context) bool { return c.ReductionPercent >= 25 }},
	{ID: "half_way", Title: "Half Way Hero", Description: "50% reduction achieved", Icon: "🎯",
		Condition: func(c Context) bool { return c.ReductionPercent >= 50 }},
	{ID: "trend_master", Title: "Trend Master", Description: "Consistent weekly reduction", Icon: "📊",
		Condition: func(c Context) bool { return c.WeeklyTrend == stats.TrendDown }},
}

// Catalog returns a copy of the catalog in evaluation order.
func Catalog() []Achievement {
	out := make([]Achievement, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds a catalog entry by id.
func Lookup(id string) (Achievement, bool) {
	for _, a := range catalog {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// IsUnlocked reports whether records holds an unlocked entry for id. A record
// stored with unlocked=false counts as locked.
func IsUnlocked(records map[string]models.AchievementRecord, id string) bool {
	rec, ok := records[id]
	return ok && rec.Unlocked
}

// Evaluate unlocks, in catalog order, every locked achievement whose condition
// holds, writing {unlocked, now} into records. Already-unlocked ids are never
// re-evaluated. The newly unlocked entries are returned.
func Evaluate(records map[string]models.AchievementRecord, ctx Context, now time.Time) []Achievement {
	var unlocked []Achievement
	for _, a := range catalog {
		if IsUnlocked(records, a.ID) {
			continue
		}
		if a.Condition(ctx) {
			records[a.ID] = models.AchievementRecord{Unlocked: true, UnlockedAt: now.UTC()}
			unlocked = append(unlocked, a)
		}
	}
	return unlocked
}

// Status is one catalog entry with its lock state.
type Status struct {
	Achievement
	Unlocked   bool
	UnlockedAt time.Time
}

// RenderState projects every catalog entry onto records. It has no side effects.
func RenderState(records map[string]models.AchievementRecord) []Status {
	out := make([]Status, 0, len(catalog))
	for _, a := range catalog {
		st := Status{Achievement: a}
		if IsUnlocked(records, a.ID) {
			st.Unlocked = true
			st.UnlockedAt = records[a.ID].UnlockedAt
		}
		out = append(out, st)
	}
	return out
}

// UnlockedCount counts catalog entries unlocked in records.
func UnlockedCount(records map[string]models.AchievementRecord) int {
	n := 0
	for _, a := range catalog {
		if IsUnlocked(records, a.ID) {
			n++
		}
	}
	return n
}
