package progression

import (
	"testing"
	"time"

	"github.com/julianstephens/stopsmokin/internal/models"
)

var now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func ago(d time.Duration) *time.Time {
	t := now.Add(-d)
	return &t
}

func TestStreakHours(t *testing.T) {
	tests := []struct {
		name string
		last *time.Time
		want int
	}{
		{name: "no events", last: nil, want: 0},
		{name: "recent", last: ago(59 * time.Minute), want: 0},
		{name: "25 hours", last: ago(25*time.Hour + 30*time.Minute), want: 25},
		{name: "future event", last: ago(-time.Hour), want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StreakHours(tt.last, now); got != tt.want {
				t.Errorf("StreakHours() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCandidateLevelAndProgress(t *testing.T) {
	tests := []struct {
		hours     int
		wantLevel int
		wantProg  float64
	}{
		{hours: 0, wantLevel: 1, wantProg: 0},
		{hours: 25, wantLevel: 1, wantProg: 1.0 / 3},
		{hours: 48, wantLevel: 1, wantProg: 2.0 / 3},
		{hours: 72, wantLevel: 2, wantProg: 0},
		{hours: 6 * 24, wantLevel: 3, wantProg: 0},
		{hours: 7 * 24, wantLevel: 3, wantProg: 1.0 / 3},
	}
	for _, tt := range tests {
		if got := CandidateLevel(tt.hours); got != tt.wantLevel {
			t.Errorf("CandidateLevel(%d) = %d, want %d", tt.hours, got, tt.wantLevel)
		}
		got := ProgressToNextLevel(tt.hours)
		if got != tt.wantProg {
			t.Errorf("ProgressToNextLevel(%d) = %v, want %v", tt.hours, got, tt.wantProg)
		}
		if got < 0 || got >= 1 {
			t.Errorf("ProgressToNextLevel(%d) = %v out of [0,1)", tt.hours, got)
		}
	}
}

func TestRecomputeRatchets(t *testing.T) {
	s := models.NewState()
	s.LastEventTime = ago(7 * 24 * time.Hour)

	out := Recompute(&s, now)
	if !out.LevelUp || out.NewLevel != 3 || s.CurrentLevel != 3 {
		t.Fatalf("first recompute = %+v, level %d; want level up to 3", out, s.CurrentLevel)
	}
	if !out.LongestUpdated || s.LongestStreakHours != 168 {
		t.Errorf("LongestStreakHours = %d, want 168", s.LongestStreakHours)
	}

	// A new event resets the live streak; neither ratchet moves back.
	s.LastEventTime = ago(0)
	out = Recompute(&s, now)
	if out.LevelUp || out.LongestUpdated {
		t.Errorf("recompute after reset reported changes: %+v", out)
	}
	if s.CurrentLevel != 3 {
		t.Errorf("CurrentLevel = %d after streak reset, want 3", s.CurrentLevel)
	}
	if s.LongestStreakHours != 168 {
		t.Errorf("LongestStreakHours = %d after streak reset, want 168", s.LongestStreakHours)
	}
}

func TestRecomputeNoEvents(t *testing.T) {
	s := models.NewState()
	out := Recompute(&s, now)
	if out != (Outcome{}) {
		t.Errorf("Recompute() on empty state = %+v, want zero outcome", out)
	}
	if s.CurrentLevel != 1 {
		t.Errorf("CurrentLevel = %d, want 1", s.CurrentLevel)
	}
}

func TestStatusOfDoesNotMutate(t *testing.T) {
	s := models.NewState()
	s.LastEventTime = ago(80 * time.Hour)

	st := StatusOf(s, now)
	if st.StreakHours != 80 || st.StreakDays != 3 {
		t.Errorf("StatusOf() streak = %dh/%dd, want 80h/3d", st.StreakHours, st.StreakDays)
	}
	if st.Level != 1 {
		t.Errorf("StatusOf() level = %d, want stored level 1", st.Level)
	}
	if s.LongestStreakHours != 0 || s.CurrentLevel != 1 {
		t.Error("StatusOf mutated state")
	}
}
