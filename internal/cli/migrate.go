package cli

import (
	"errors"
	"fmt"
)

type migrator interface {
	Migrate(logFn func(string)) (int, error)
}

type MigrateCmd struct{}

func (cmd *MigrateCmd) Run(ctx *Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return errors.New("migrate only applies to SQLite and PostgreSQL storage")
	}
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	return ctx.WithLock(func() error {
		count, err := m.Migrate(func(msg string) { ctx.println(msg) })
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		if count == 0 {
			ctx.println("No migrations to apply. Storage is up to date.")
		} else {
			ctx.printf("\nSuccessfully applied %d migration(s).\n", count)
		}
		return nil
	})
}
