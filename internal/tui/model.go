package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/stopsmokin/internal/constants"
	"github.com/julianstephens/stopsmokin/internal/logger"
	"github.com/julianstephens/stopsmokin/internal/tracker"
)

type SessionState int

const (
	StateDashboard SessionState = iota
	StateAchievements
	StateConfirmReset
	StateImport
)

// noticeDuration is how long a level-up or unlock banner stays up.
const noticeDuration = 6 * time.Second

type ImportFormModel struct {
	Code string
}

type Model struct {
	tracker    *tracker.Tracker
	backup     func() string
	state      SessionState
	keys       KeyMap
	help       help.Model
	progress   progress.Model
	form       *huh.Form
	importForm *ImportFormModel
	snapshot   tracker.Snapshot
	notices    []string
	noticeTill time.Time
	err        error
	quitting   bool
	width      int
	height     int
}

// NewModel builds the dashboard over t. backup, if set, is called before
// reset and import; it returns the backup path or "".
func NewModel(t *tracker.Tracker, backup func() string) Model {
	m := Model{
		tracker:  t,
		backup:   backup,
		state:    StateDashboard,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
	}
	m.refresh()
	return m
}

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(constants.TickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m *Model) refresh() {
	m.snapshot = m.tracker.Snapshot()
	if len(m.notices) > 0 && m.snapshot.Now.After(m.noticeTill) {
		m.notices = nil
	}
}

// announce queues banners for whatever u changed.
func (m *Model) announce(u tracker.Update) {
	var lines []string
	if u.LevelUp {
		lines = append(lines, fmt.Sprintf("🎉 Level up! You reached level %d", u.NewLevel))
	}
	for _, a := range u.Unlocked {
		lines = append(lines, fmt.Sprintf("🏆 %s %s unlocked", a.Icon, a.Title))
	}
	if len(lines) == 0 {
		return
	}
	m.notices = append(m.notices, lines...)
	m.noticeTill = m.tracker.Snapshot().Now.Add(noticeDuration)
}

func (m *Model) notify(text string) {
	m.notices = append(m.notices, text)
	m.noticeTill = m.tracker.Snapshot().Now.Add(noticeDuration)
}

func (m *Model) runBackup() {
	if m.backup == nil {
		return
	}
	if path := m.backup(); path != "" {
		logger.Debug("Backup before destructive action", "path", path)
	}
}

func (m *Model) newImportForm() {
	m.importForm = &ImportFormModel{}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Transfer code").
				Description("Paste the code from 'stopsmokin code export'. This replaces all current data.").
				Value(&m.importForm.Code).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("code is required")
					}
					return nil
				}),
		),
	)
}
