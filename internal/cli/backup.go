package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/stopsmokin/internal/backup"
	"github.com/julianstephens/stopsmokin/internal/constants"
	"github.com/julianstephens/stopsmokin/internal/logger"
)

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	if !ctx.FileBacked() {
		return ErrNotFileBacked
	}
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	ctx.printf("✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	if !ctx.FileBacked() {
		return ErrNotFileBacked
	}

	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.println("No backups found.")
		ctx.printf("Backups are stored in: %s\n", mgr.GetBackupDir())
		return nil
	}

	ctx.printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		ctx.printf("  %s  %s  (%s)\n",
			b.Timestamp.Format(constants.DisplayTimeFormat), filepath.Base(b.Path), humanize.Bytes(uint64(b.Size)))
	}
	ctx.printf("\nBackup directory: %s\n", mgr.GetBackupDir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Restore without asking."`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	if !ctx.FileBacked() {
		return ErrNotFileBacked
	}

	mgr := backup.NewManager(ctx.Store.GetConfigPath())

	backupPath := c.BackupFile
	if !filepath.IsAbs(backupPath) {
		possiblePath := filepath.Join(mgr.GetBackupDir(), c.BackupFile)
		if _, err := os.Stat(possiblePath); err == nil {
			backupPath = possiblePath
		}
	}
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup file not found: %s", backupPath)
	}

	ok, err := ctx.confirm(c.Yes,
		"Replace your current data with this backup?",
		fmt.Sprintf("Restore from %s. A backup of the current data is created first.", filepath.Base(backupPath)))
	if err != nil {
		return err
	}
	if !ok {
		ctx.println("Restore cancelled.")
		return nil
	}

	return ctx.WithLock(func() error {
		if err := ctx.Store.Close(); err != nil {
			logger.Warn("Failed to close storage before restore", "error", err)
		}

		safety, err := mgr.RestoreBackup(backupPath)
		if err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}
		if safety != "" {
			ctx.printf("Previous data saved to: %s\n", filepath.Base(safety))
		}
		ctx.println("✓ Data restored successfully!")
		ctx.println("Restart any running stopsmokin processes to use the restored data.")
		return nil
	})
}
