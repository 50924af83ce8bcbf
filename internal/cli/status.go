package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/stopsmokin/internal/achievement"
	"github.com/julianstephens/stopsmokin/internal/constants"
	"github.com/julianstephens/stopsmokin/internal/lock"
	"github.com/julianstephens/stopsmokin/internal/logger"
	"github.com/julianstephens/stopsmokin/internal/progression"
	"github.com/julianstephens/stopsmokin/internal/stats"
	"github.com/julianstephens/stopsmokin/internal/tracker"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F25D94"))
	labelStyle   = lipgloss.NewStyle().Width(14).Foreground(lipgloss.Color("241"))
	timerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	messageStyle = lipgloss.NewStyle().Italic(true)
)

// refresh runs a tick under the lock so CLI-only use still commits the
// progression ratchets, then returns the tracker. While another process
// (usually the TUI) holds the lock it reads without ticking; the holder
// commits the ratchets itself.
func refresh(ctx *Context) (*tracker.Tracker, error) {
	var t *tracker.Tracker
	err := ctx.WithLock(func() error {
		var err error
		t, err = ctx.Tracker()
		if err != nil {
			return err
		}
		u, err := t.Tick()
		if err != nil {
			return err
		}
		ctx.printUpdate(u)
		return nil
	})
	if errors.Is(err, lock.ErrLocked) {
		logger.Debug("Data file locked, showing stored state", "error", err)
		return ctx.Tracker()
	}
	return t, err
}

type statusJSON struct {
	Timer        string             `json:"smokeFree"`
	LastEvent    *string            `json:"lastSmokeTime"`
	Stats        stats.Summary      `json:"stats"`
	Progress     progression.Status `json:"progress"`
	Unlocked     int                `json:"achievementsUnlocked"`
	Achievements int                `json:"achievementsTotal"`
	Message      string             `json:"message"`
}

type StatusCmd struct {
	JSON bool `help:"Print machine-readable JSON."`
}

func (c *StatusCmd) Run(ctx *Context) error {
	t, err := refresh(ctx)
	if err != nil {
		return err
	}
	snap := t.Snapshot()
	unlocked := achievement.UnlockedCount(t.Export().Achievements)

	if c.JSON {
		out := statusJSON{
			Timer:        snap.Timer,
			Stats:        snap.Stats,
			Progress:     snap.Progress,
			Unlocked:     unlocked,
			Achievements: len(achievement.Catalog()),
			Message:      snap.Message,
		}
		if snap.LastEvent != nil {
			s := snap.LastEvent.UTC().Format("2006-01-02T15:04:05.000Z07:00")
			out.LastEvent = &s
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		ctx.println(string(data))
		return nil
	}

	row := func(label, value string) {
		ctx.println(labelStyle.Render(label) + value)
	}

	ctx.println(headingStyle.Render("stopsmokin"))
	row("Smoke-free", timerStyle.Render(snap.Timer))
	if snap.LastEvent != nil {
		row("Last", fmt.Sprintf("%s (%s)",
			snap.LastEvent.In(ctx.location()).Format(constants.DisplayTimeFormat),
			humanize.RelTime(*snap.LastEvent, snap.Now, "ago", "from now")))
	} else {
		row("Last", "never")
	}
	row("Counts", fmt.Sprintf("today %d · this week %d · total %s",
		snap.Stats.TodayCount, snap.Stats.WeekCount, humanize.Comma(int64(snap.Stats.TotalCount))))
	row("Averages", fmt.Sprintf("%.1f/day · %.1f/week · %.1f/month",
		snap.Stats.AvgPerDay, snap.Stats.AvgPerWeek, snap.Stats.AvgPerMonth))
	row("Reduction", fmt.Sprintf("%d%%", snap.Stats.ReductionPercent))
	row("Trends", fmt.Sprintf("daily %s · weekly %s · monthly %s",
		snap.Stats.Trends.Daily.Arrow(), snap.Stats.Trends.Weekly.Arrow(), snap.Stats.Trends.Monthly.Arrow()))
	row("Level", fmt.Sprintf("%d %s %d%%", snap.Progress.Level, progressBar(snap.Progress.Progress, 10), int(snap.Progress.Progress*100)))
	row("Streak", fmt.Sprintf("%dh (longest %dh)", snap.Progress.StreakHours, snap.Progress.LongestStreakHours))
	row("Achievements", fmt.Sprintf("%d/%d", unlocked, len(achievement.Catalog())))
	ctx.println()
	ctx.println(messageStyle.Render(snap.Message))
	return nil
}

func progressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	filled = max(0, min(width, filled))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

type AchievementsCmd struct {
	Unlocked bool `help:"Only show unlocked achievements."`
}

func (c *AchievementsCmd) Run(ctx *Context) error {
	t, err := refresh(ctx)
	if err != nil {
		return err
	}
	records := t.Export().Achievements
	ctx.printf("Achievements (%d/%d unlocked):\n\n", achievement.UnlockedCount(records), len(achievement.Catalog()))
	for _, st := range achievement.RenderState(records) {
		if c.Unlocked && !st.Unlocked {
			continue
		}
		ctx.println("  " + formatAchievement(st, ctx.location()))
	}
	return nil
}

type MessageCmd struct{}

func (c *MessageCmd) Run(ctx *Context) error {
	t, err := refresh(ctx)
	if err != nil {
		return err
	}
	ctx.println(t.Snapshot().Message)
	return nil
}
