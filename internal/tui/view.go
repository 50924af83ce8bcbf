package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/stopsmokin/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateDashboard:
		content = m.viewDashboard()
	case StateAchievements:
		content = m.viewAchievements()
	case StateConfirmReset:
		content = m.viewConfirmReset()
	case StateImport:
		if m.form != nil {
			content = docStyle.Render(m.form.View())
		}
	}

	parts := []string{m.viewTabs()}
	if len(m.notices) > 0 {
		parts = append(parts, noticeStyle.Render(strings.Join(m.notices, "  ·  ")))
	}
	if m.err != nil {
		parts = append(parts, errorStyle.Render("Error: "+m.err.Error()))
	}
	parts = append(parts, content, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Dashboard", "Achievements"} {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

func (m Model) viewDashboard() string {
	s := m.snapshot
	loc := m.tracker.Location()

	last := "never"
	if s.LastEvent != nil {
		last = fmt.Sprintf("%s (%s)",
			s.LastEvent.In(loc).Format(constants.DisplayTimeFormat),
			humanize.RelTime(*s.LastEvent, s.Now, "ago", "from now"))
	}

	stats := lipgloss.JoinVertical(lipgloss.Left,
		row("Last", last),
		row("Today", fmt.Sprintf("%d", s.Stats.TodayCount)),
		row("This week", fmt.Sprintf("%d", s.Stats.WeekCount)),
		row("Total", humanize.Comma(int64(s.Stats.TotalCount))),
		row("Per day", fmt.Sprintf("%.1f %s", s.Stats.AvgPerDay, s.Stats.Trends.Daily.Arrow())),
		row("Per week", fmt.Sprintf("%.1f %s", s.Stats.AvgPerWeek, s.Stats.Trends.Weekly.Arrow())),
		row("Per month", fmt.Sprintf("%.1f %s", s.Stats.AvgPerMonth, s.Stats.Trends.Monthly.Arrow())),
		row("Reduction", fmt.Sprintf("%d%%", s.Stats.ReductionPercent)),
	)

	level := lipgloss.JoinVertical(lipgloss.Left,
		row("Level", fmt.Sprintf("%d", s.Progress.Level)),
		m.progress.ViewAs(s.Progress.Progress),
		row("Streak", fmt.Sprintf("%dh", s.Progress.StreakHours)),
		row("Longest", fmt.Sprintf("%dh", s.Progress.LongestStreakHours)),
	)

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		timerStyle.Render(s.Timer),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, stats, "    ", level),
		"",
		messageStyle.Render(s.Message),
	))
}

func (m Model) viewAchievements() string {
	var lines []string
	for _, st := range m.snapshot.Achievements {
		if st.Unlocked {
			lines = append(lines, fmt.Sprintf("%s %s  %s", st.Icon, valueStyle.Render(st.Title), st.Description))
			continue
		}
		lines = append(lines, lockedStyle.Render(fmt.Sprintf("🔒 %s  %s", st.Title, st.Description)))
	}
	return docStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) viewConfirmReset() string {
	return lipgloss.Place(m.width, max(m.height-4, 0),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Reset ALL data? This cannot be undone."),
			"A backup is taken first.",
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
