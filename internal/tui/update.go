package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/stopsmokin/internal/transfer"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		u, err := m.tracker.Tick()
		if err != nil {
			m.err = err
		}
		m.announce(u)
		m.refresh()
		return m, tick()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	}

	switch m.state {
	case StateImport:
		return m.updateImport(msg)
	case StateConfirmReset:
		return m.updateConfirmReset(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(keyMsg, m.keys.Record):
		u, err := m.tracker.RecordEvent()
		m.err = err
		if err == nil {
			m.notify(fmt.Sprintf("Recorded. %d today.", m.tracker.Snapshot().Stats.TodayCount))
		}
		m.announce(u)
		m.refresh()
	case key.Matches(keyMsg, m.keys.Achievements):
		if m.state == StateAchievements {
			m.state = StateDashboard
		} else {
			m.state = StateAchievements
		}
	case key.Matches(keyMsg, m.keys.Back):
		m.state = StateDashboard
	case key.Matches(keyMsg, m.keys.Reset):
		m.state = StateConfirmReset
	case key.Matches(keyMsg, m.keys.Import):
		m.newImportForm()
		m.state = StateImport
		return m, m.form.Init()
	}
	return m, nil
}

func (m Model) updateConfirmReset(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Yes):
		m.runBackup()
		if err := m.tracker.Reset(true); err != nil {
			m.err = err
		} else {
			m.err = nil
			m.notify("All data has been reset.")
		}
		m.refresh()
		m.state = StateDashboard
	case key.Matches(keyMsg, m.keys.No):
		m.state = StateDashboard
	}
	return m, nil
}

func (m Model) updateImport(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.form = nil
		m.state = StateDashboard
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.applyCode(m.importForm.Code)
		m.form = nil
		m.state = StateDashboard
		return m, nil
	case huh.StateAborted:
		m.form = nil
		m.state = StateDashboard
		return m, nil
	}
	return m, cmd
}

// applyCode decodes a transfer code and replaces all data with it.
func (m *Model) applyCode(code string) {
	state, err := transfer.DecodeCompact(code)
	if err != nil {
		m.err = err
		return
	}
	m.runBackup()
	u, err := m.tracker.Import(state, true)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.notify(fmt.Sprintf("Imported %d events.", state.TotalCount))
	m.announce(u)
	m.refresh()
}
