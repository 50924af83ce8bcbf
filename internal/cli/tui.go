package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/stopsmokin/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	return ctx.WithLock(func() error {
		t, err := ctx.Tracker()
		if err != nil {
			return err
		}

		// Automatic backup on startup, after a successful load
		ctx.PerformAutomaticBackup()

		p := tea.NewProgram(tui.NewModel(t, ctx.PerformAutomaticBackup), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("tui exited with error: %w", err)
		}
		return nil
	})
}
