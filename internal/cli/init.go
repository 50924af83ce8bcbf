package cli

import (
	"fmt"
	"os"

	"github.com/julianstephens/stopsmokin/internal/config"
)

type InitCmd struct {
	Force bool `help:"Delete the existing data file before initializing (a backup is taken first)."`
}

func (c *InitCmd) Run(ctx *Context) error {
	if ctx.ConfigPath != "" {
		created, err := config.EnsureFile(ctx.ConfigPath)
		if err != nil {
			return err
		}
		if created {
			ctx.printf("Wrote default config to: %s\n", ctx.ConfigPath)
		}
	}

	if c.Force && ctx.FileBacked() {
		dataPath := ctx.Store.GetConfigPath()
		if _, err := os.Stat(dataPath); err == nil {
			if backupPath := ctx.PerformAutomaticBackup(); backupPath != "" {
				ctx.printf("Backed up existing data to: %s\n", backupPath)
			}
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing storage: %w", err)
			}
			if err := os.Remove(dataPath); err != nil {
				return fmt.Errorf("failed to delete existing storage: %w", err)
			}
			ctx.printf("Deleted existing storage at: %s\n", dataPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing storage: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.printf("Initialized stopsmokin storage at: %s\n", ctx.Store.GetConfigPath())
	return nil
}
