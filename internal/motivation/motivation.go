// Package motivation picks the encouragement line shown on the dashboard.
package motivation

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize/english"

	"github.com/julianstephens/stopsmokin/internal/stats"
)

// Input is everything the selector looks at.
type Input struct {
	// SmokeFree is the time since the most recent event, zero when none.
	SmokeFree        time.Duration
	ReductionPercent int
	WeeklyTrend      stats.Trend
}

type rung struct {
	below  int // exclusive upper bound, in hours
	render func(hours int) string
}

// ladder is ordered by threshold; the first rung whose bound exceeds the
// streak wins. The sub-hour case is handled before the ladder.
var ladder = []rung{
	{12, func(h int) string {
		return fmt.Sprintf("⚡ %s smoke-free! Blood oxygen is rising while carbon monoxide falls.", english.Plural(h, "hour", ""))
	}},
	{24, func(h int) string {
		return fmt.Sprintf("💓 %s without smoking! Your heart attack risk has started to drop.", english.Plural(h, "hour", ""))
	}},
	{48, func(h int) string {
		return fmt.Sprintf("👃 %s smoke-free! Nerve endings are regrowing, and smell and taste are coming back.", english.Plural(h/24, "day", ""))
	}},
	{72, func(h int) string {
		return fmt.Sprintf("🌬️ %s smoke-free! Your bronchial tubes are relaxing and breathing is getting easier.", english.Plural(h/24, "day", ""))
	}},
	{168, func(h int) string {
		return fmt.Sprintf("🔥 %s without cigarettes! Nicotine has left your body entirely.", english.Plural(h/24, "day", ""))
	}},
	{336, func(h int) string {
		return fmt.Sprintf("💪 %s strong! Circulation is improving and walking feels lighter.", english.Plural(h/24, "day", ""))
	}},
	{720, func(h int) string {
		return fmt.Sprintf("🫀 %s smoke-free! Your heart disease risk is down by half. Keep going!", english.Plural(h/168, "week", ""))
	}},
	{2160, func(h int) string {
		return fmt.Sprintf("🧠 %s without smoking! Your stroke risk is approaching that of a non-smoker.", english.Plural(h/168, "week", ""))
	}},
	{8760, func(h int) string {
		return fmt.Sprintf("🎉 %s smoke-free! Lung function can improve by up to 30%%. You're a champion!", english.Plural(h/720, "month", ""))
	}},
}

// Select returns the message for in. It is deterministic: equal inputs always
// produce the same string.
func Select(in Input) string {
	switch {
	case in.ReductionPercent > 50:
		return fmt.Sprintf("🏆 Incredible! You've cut smoking by %d%% from your peak week. Your lungs thank you every day!", in.ReductionPercent)
	case in.ReductionPercent > 25:
		return fmt.Sprintf("📉 Great progress! You're %d%% below your peak week. Every cigarette skipped counts.", in.ReductionPercent)
	case in.WeeklyTrend == stats.TrendDown:
		return "📊 Excellent trend! You're smoking less than in previous weeks, and your body is already benefiting."
	}

	smokeFree := in.SmokeFree
	if smokeFree < 0 {
		smokeFree = 0
	}
	hours := int(smokeFree / time.Hour)

	if hours == 0 {
		minutes := int(smokeFree / time.Minute)
		if minutes < 20 {
			return "🚭 Every minute without smoking is a victory! Your body has already started to heal."
		}
		return fmt.Sprintf("🫁 %s smoke-free! Heart rate and blood pressure are heading back to normal.", english.Plural(minutes, "minute", ""))
	}

	for _, r := range ladder {
		if hours < r.below {
			return r.render(hours)
		}
	}
	return fmt.Sprintf("👑 %s smoke-free! Your heart disease risk now matches a non-smoker's. The ultimate victory!", english.Plural(hours/8760, "year", ""))
}
