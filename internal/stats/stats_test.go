package stats

import (
	"testing"
	"time"

	"github.com/julianstephens/stopsmokin/internal/eventlog"
)

var now = time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)

func TestTrendOf(t *testing.T) {
	tests := []struct {
		name    string
		buckets []int
		want    Trend
	}{
		{name: "sharp decrease", buckets: []int{10, 10, 10, 10, 10, 2, 2, 2}, want: TrendDown},
		{name: "sharp increase", buckets: []int{0, 0, 2, 2, 2, 10, 10, 10}, want: TrendUp},
		{name: "within threshold", buckets: []int{0, 0, 10, 10, 10, 9, 9, 9}, want: TrendStable},
		{name: "previous mean zero", buckets: []int{5, 5, 0, 0, 0, 4, 4, 4}, want: TrendStable},
		{name: "empty", buckets: nil, want: TrendStable},
		{name: "too few buckets", buckets: []int{9, 1}, want: TrendStable},
		{name: "exactly three buckets", buckets: []int{9, 1, 1}, want: TrendStable},
		{name: "short previous window", buckets: []int{10, 2, 2, 2}, want: TrendDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrendOf(tt.buckets); got != tt.want {
				t.Errorf("TrendOf(%v) = %q, want %q", tt.buckets, got, tt.want)
			}
		})
	}
}

func TestReductionPercent(t *testing.T) {
	tests := []struct {
		name    string
		buckets []int
		current int
		want    int
	}{
		{name: "all zero buckets", buckets: []int{0, 0, 0}, current: 0, want: 100},
		{name: "half of peak", buckets: []int{20, 10}, current: 10, want: 50},
		{name: "increase clamps to zero", buckets: []int{4, 4}, current: 9, want: 0},
		{name: "rounding", buckets: []int{3}, current: 2, want: 33},
		{name: "peak floored at one", buckets: []int{0}, current: 1, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReductionPercent(tt.buckets, tt.current)
			if got != tt.want {
				t.Errorf("ReductionPercent(%v, %d) = %d, want %d", tt.buckets, tt.current, got, tt.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("ReductionPercent out of range: %d", got)
			}
		})
	}
}

func TestAveragePerDay(t *testing.T) {
	if got := AveragePerDay(eventlog.New(nil), now); got != 0 {
		t.Errorf("empty log average = %v, want 0", got)
	}

	// First event 10 days back, 20 events in total.
	var events []time.Time
	for i := 0; i < 20; i++ {
		events = append(events, now.Add(-10*24*time.Hour).Add(time.Duration(i)*time.Hour))
	}
	if got := AveragePerDay(eventlog.New(events), now); got != 2 {
		t.Errorf("AveragePerDay() = %v, want 2", got)
	}

	// Under a day of history divides by one.
	recent := eventlog.New([]time.Time{now.Add(-time.Hour), now.Add(-time.Minute)})
	if got := AveragePerDay(recent, now); got != 2 {
		t.Errorf("AveragePerDay() with <1 day history = %v, want 2", got)
	}
}

func TestComputeEmptyLog(t *testing.T) {
	s := Compute(eventlog.New(nil), now, time.UTC, 12)

	if s.TotalCount != 0 || s.TodayCount != 0 || s.WeekCount != 0 {
		t.Errorf("counts = %d/%d/%d, want zeros", s.TotalCount, s.TodayCount, s.WeekCount)
	}
	if s.AvgPerDay != 0 || s.AvgPerWeek != 0 || s.AvgPerMonth != 0 {
		t.Errorf("averages not zero: %+v", s)
	}
	if s.Trends.Weekly != TrendStable {
		t.Errorf("trend = %q, want stable", s.Trends.Weekly)
	}
	if s.ReductionPercent != 0 {
		t.Errorf("ReductionPercent = %d, want 0 for an empty log", s.ReductionPercent)
	}
	if len(s.WeeklyBuckets) != 8 {
		t.Errorf("len(WeeklyBuckets) = %d, want 8", len(s.WeeklyBuckets))
	}
}

func TestComputeCountsAndProjections(t *testing.T) {
	loc := time.UTC
	events := []time.Time{
		now.Add(-20 * 24 * time.Hour),
		now.Add(-3 * 24 * time.Hour),
		time.Date(2024, 3, 10, 0, 0, 0, 0, loc), // midnight counts as today
		now.Add(-time.Hour),
	}
	s := Compute(eventlog.New(events), now, loc, 12)

	if s.TotalCount != 4 {
		t.Errorf("TotalCount = %d, want 4", s.TotalCount)
	}
	if s.TodayCount != 2 {
		t.Errorf("TodayCount = %d, want 2", s.TodayCount)
	}
	if s.WeekCount != 3 {
		t.Errorf("WeekCount = %d, want 3", s.WeekCount)
	}
	if s.AvgPerDay != 0.2 {
		t.Errorf("AvgPerDay = %v, want 0.2", s.AvgPerDay)
	}
	if s.AvgPerWeek != 7*s.AvgPerDay {
		t.Errorf("AvgPerWeek = %v, want exactly 7*AvgPerDay", s.AvgPerWeek)
	}
	if s.AvgPerMonth != 30*s.AvgPerDay {
		t.Errorf("AvgPerMonth = %v, want exactly 30*AvgPerDay", s.AvgPerMonth)
	}
	if s.Trends.Daily != s.Trends.Weekly || s.Trends.Monthly != s.Trends.Weekly {
		t.Errorf("granular trends differ: %+v", s.Trends)
	}
}

func TestComputeTodayUsesLocation(t *testing.T) {
	// 23:30 in UTC-5 on the 9th is 04:30 UTC on the 10th.
	loc := time.FixedZone("UTC-5", -5*60*60)
	at := time.Date(2024, 3, 10, 4, 30, 0, 0, time.UTC)
	log := eventlog.New([]time.Time{at.Add(-5 * time.Hour)}) // 18:30 local, 23:30 UTC on the 9th

	if got := Compute(log, at, loc, 12).TodayCount; got != 1 {
		t.Errorf("TodayCount in UTC-5 = %d, want 1", got)
	}
	if got := Compute(log, at, time.UTC, 12).TodayCount; got != 0 {
		t.Errorf("TodayCount in UTC = %d, want 0", got)
	}
}

func TestTrendArrow(t *testing.T) {
	if TrendDown.Arrow() != "↓" || TrendUp.Arrow() != "↑" || TrendStable.Arrow() != "→" {
		t.Error("unexpected arrow glyphs")
	}
}
