package achievement

import (
	"testing"
	"time"

	"github.com/julianstephens/stopsmokin/internal/models"
	"github.com/julianstephens/stopsmokin/internal/stats"
)

var now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func ids(as []Achievement) []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = a.ID
	}
	return out
}

func TestCatalogOrderAndUniqueness(t *testing.T) {
	want := []string{
		"first_track", "one_hour", "one_day", "three_days", "one_week",
		"awareness", "level_up", "reducer", "half_way", "trend_master",
	}
	got := ids(Catalog())
	if len(got) != len(want) {
		t.Fatalf("catalog has %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("catalog[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEvaluateTwentyFiveHourStreak(t *testing.T) {
	records := map[string]models.AchievementRecord{}
	ctx := Context{TotalCount: 1, StreakHours: 25, Level: 1, WeeklyTrend: stats.TrendStable}

	got := ids(Evaluate(records, ctx, now))
	want := []string{"first_track", "one_hour", "one_day"}
	if len(got) != len(want) {
		t.Fatalf("Evaluate() unlocked %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("unlocked[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if !IsUnlocked(records, "one_day") || !records["one_day"].UnlockedAt.Equal(now) {
		t.Errorf("one_day record = %+v", records["one_day"])
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	records := map[string]models.AchievementRecord{}
	ctx := Context{TotalCount: 12, StreakHours: 200, Level: 3, ReductionPercent: 60, WeeklyTrend: stats.TrendDown}

	first := Evaluate(records, ctx, now)
	if len(first) != len(Catalog()) {
		t.Fatalf("first Evaluate unlocked %d, want all %d", len(first), len(Catalog()))
	}

	second := Evaluate(records, ctx, now.Add(time.Hour))
	if len(second) != 0 {
		t.Errorf("second Evaluate unlocked %v, want nothing", ids(second))
	}
	for id, rec := range records {
		if !rec.UnlockedAt.Equal(now) {
			t.Errorf("%s unlockedAt changed to %v", id, rec.UnlockedAt)
		}
	}
}

func TestEvaluateNeverRevokes(t *testing.T) {
	records := map[string]models.AchievementRecord{
		"one_week": {Unlocked: true, UnlockedAt: now.Add(-48 * time.Hour)},
	}
	Evaluate(records, Context{StreakHours: 0}, now)
	if !IsUnlocked(records, "one_week") {
		t.Error("unlocked achievement was revoked when its condition became false")
	}
}

func TestEvaluateUnlockedFalseIsLocked(t *testing.T) {
	records := map[string]models.AchievementRecord{
		"first_track": {Unlocked: false},
	}
	got := Evaluate(records, Context{TotalCount: 1}, now)
	if len(got) != 1 || got[0].ID != "first_track" {
		t.Errorf("Evaluate() = %v, want first_track unlocked", ids(got))
	}
}

func TestRenderState(t *testing.T) {
	records := map[string]models.AchievementRecord{
		"reducer":  {Unlocked: true, UnlockedAt: now},
		"half_way": {Unlocked: false},
		"unknown":  {Unlocked: true, UnlockedAt: now},
	}
	states := RenderState(records)
	if len(states) != len(Catalog()) {
		t.Fatalf("RenderState() returned %d entries", len(states))
	}
	for _, st := range states {
		want := st.ID == "reducer"
		if st.Unlocked != want {
			t.Errorf("%s unlocked = %v, want %v", st.ID, st.Unlocked, want)
		}
	}
	if got := UnlockedCount(records); got != 1 {
		t.Errorf("UnlockedCount() = %d, want 1 (unknown ids ignored)", got)
	}
	if len(records) != 3 {
		t.Error("RenderState mutated records")
	}
}

func TestLookup(t *testing.T) {
	a, ok := Lookup("trend_master")
	if !ok || a.Title != "Trend Master" {
		t.Errorf("Lookup(trend_master) = %+v, %v", a, ok)
	}
	if _, ok := Lookup("nope"); ok {
		t.Error("Lookup(nope) reported ok")
	}
}
