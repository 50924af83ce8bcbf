// Package stats derives counts, averages, reduction and trend from an event log.
// Every function is defined for an empty log.
package stats

import (
	"math"
	"time"

	"github.com/julianstephens/stopsmokin/internal/constants"
	"github.com/julianstephens/stopsmokin/internal/eventlog"
	"github.com/julianstephens/stopsmokin/internal/utils"
)

// Trend classifies the direction of recent weekly counts.
type Trend string

const (
	TrendDown   Trend = "down"
	TrendUp     Trend = "up"
	TrendStable Trend = "stable"
)

// Arrow renders the trend as a single glyph.
func (t Trend) Arrow() string {
	switch t {
	case TrendDown:
		return "↓"
	case TrendUp:
		return "↑"
	default:
		return "→"
	}
}

// Trends is reported per granularity. All three currently carry the same
// weekly-derived value.
type Trends struct {
	Daily   Trend `json:"daily"`
	Weekly  Trend `json:"weekly"`
	Monthly Trend `json:"monthly"`
}

// Summary is the read-only statistics bundle for one instant.
type Summary struct {
	TotalCount       int     `json:"totalCount"`
	TodayCount       int     `json:"todayCount"`
	WeekCount        int     `json:"weekCount"`
	AvgPerDay        float64 `json:"avgPerDay"`
	AvgPerWeek       float64 `json:"avgPerWeek"`
	AvgPerMonth      float64 `json:"avgPerMonth"`
	ReductionPercent int     `json:"reductionPercent"`
	WeeklyBuckets    []int   `json:"weeklyBuckets"`
	Trends           Trends  `json:"trends"`
}

// Compute derives the full summary at now. loc fixes the "today" midnight
// boundary and window is the number of trailing weeks bucketed.
func Compute(log *eventlog.Log, now time.Time, loc *time.Location, window int) Summary {
	buckets := log.BucketByWeek(now, window)
	weekCount := log.CountSince(now.Add(-constants.Week))
	perDay := AveragePerDay(log, now)
	trend := TrendOf(buckets)

	// An empty log reports no reduction rather than 100% off a floored peak.
	reduction := 0
	if log.Len() > 0 {
		reduction = ReductionPercent(buckets, weekCount)
	}

	return Summary{
		TotalCount:       log.Total(),
		TodayCount:       log.CountSince(utils.StartOfDay(now, loc)),
		WeekCount:        weekCount,
		AvgPerDay:        perDay,
		AvgPerWeek:       perDay * constants.DaysPerWeek,
		AvgPerMonth:      perDay * constants.DaysPerMonth,
		ReductionPercent: reduction,
		WeeklyBuckets:    buckets,
		Trends:           Trends{Daily: trend, Weekly: trend, Monthly: trend},
	}
}

// AveragePerDay is total / max(1, whole days since the first event), or 0
// for an empty log.
func AveragePerDay(log *eventlog.Log, now time.Time) float64 {
	first, ok := log.First()
	if !ok {
		return 0
	}
	days := int(now.Sub(first) / constants.Day)
	if days < 1 {
		days = 1
	}
	return float64(log.Total()) / float64(days)
}

// ReductionPercent compares the current 7-day count against the peak bucket
// (floored at 1). The result is clamped to [0, 100].
func ReductionPercent(buckets []int, current int) int {
	peak := 1
	for _, b := range buckets {
		if b > peak {
			peak = b
		}
	}
	r := int(math.Round((1 - float64(current)/float64(peak)) * 100))
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return r
}

// TrendOf compares the mean of the newest three buckets with the three
// before them. Fewer than three buckets, or a zero previous mean, is stable.
func TrendOf(buckets []int) Trend {
	n := len(buckets)
	if n < 3 {
		return TrendStable
	}
	recent := buckets[n-3:]
	prev := buckets[max(0, n-6) : n-3]
	if len(prev) == 0 {
		return TrendStable
	}

	prevMean := mean(prev)
	if prevMean == 0 {
		return TrendStable
	}
	change := (mean(recent) - prevMean) / prevMean * 100

	switch {
	case change < -constants.TrendThresholdPercent:
		return TrendDown
	case change > constants.TrendThresholdPercent:
		return TrendUp
	default:
		return TrendStable
	}
}

func mean(xs []int) float64 {
	sum := 0
	for _, x := range xs {
		sum += x
	}
	return float64(sum) / float64(len(xs))
}
