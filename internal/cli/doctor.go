package cli

import (
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/julianstephens/stopsmokin/internal/backup"
	"github.com/julianstephens/stopsmokin/internal/lock"
	"github.com/julianstephens/stopsmokin/internal/migration"
	"github.com/julianstephens/stopsmokin/internal/storage/postgres"
	"github.com/julianstephens/stopsmokin/internal/storage/sqlite"
	"github.com/julianstephens/stopsmokin/internal/transfer"
	"github.com/julianstephens/stopsmokin/internal/utils"
	"github.com/julianstephens/stopsmokin/migrations"
)

type DoctorCmd struct{}

type check struct {
	name    string
	run     func(ctx *Context) error
	warning bool
	needsDB bool
}

var doctorChecks = []check{
	{name: "Storage reachable", run: checkStorageReachable},
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Data consistency", run: checkDataConsistency, needsDB: true},
	{name: "Backups present", run: checkBackupsPresent, warning: true},
	{name: "Lock state", run: checkLockState, warning: true},
	{name: "Clock/timezone", run: checkClockTimezone},
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false
	reachable := false
	for i, c := range doctorChecks {
		if c.needsDB && !reachable {
			ctx.printf("⊘ %s: SKIPPED (storage not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.printf("✓ %s: OK\n", c.name)
			// The first check gates the ones that read data.
			if i == 0 {
				reachable = true
			}
		case c.warning:
			ctx.printf("⚠ %s: WARNING\n", c.name)
			ctx.printf("   %v\n", err)
		default:
			ctx.printf("❌ %s: FAIL\n", c.name)
			ctx.printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.println("All diagnostics passed!")
	return nil
}

func checkStorageReachable(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	if _, _, err := ctx.Store.LoadState(); err != nil {
		return fmt.Errorf("failed to read state: %w", err)
	}
	return nil
}

type versioned interface {
	SchemaVersion() (int, error)
}

// migrationsFor returns the embedded migrations for relational stores.
func migrationsFor(ctx *Context) (versioned, fs.FS, bool) {
	switch s := ctx.Store.(type) {
	case *sqlite.Store:
		return s, migrations.SQLite(), true
	case *postgres.Store:
		return s, migrations.Postgres(), true
	}
	return nil, nil, false
}

func checkSchemaVersion(ctx *Context) error {
	store, migrationFS, ok := migrationsFor(ctx)
	if !ok {
		// JSON store has no schema
		return nil
	}

	current, err := store.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	latest, err := migration.NewRunner(nil, migrationFS).GetLatestVersion()
	if err != nil {
		return fmt.Errorf("failed to get latest schema version: %w", err)
	}

	if current > latest {
		return fmt.Errorf("storage schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

// checkDataConsistency verifies the stored state would survive an export
// and re-import unchanged.
func checkDataConsistency(ctx *Context) error {
	state, _, err := ctx.Store.LoadState()
	if err != nil {
		return err
	}
	if state.TotalCount != len(state.Events) {
		return fmt.Errorf("total count %d does not match %d stored events", state.TotalCount, len(state.Events))
	}
	if !sort.SliceIsSorted(state.Events, func(i, j int) bool { return state.Events[i].Before(state.Events[j]) }) {
		return fmt.Errorf("events are not in chronological order")
	}

	data, err := transfer.Marshal(state, ctx.now())
	if err != nil {
		return err
	}
	if _, err := transfer.Parse(data); err != nil {
		return fmt.Errorf("stored state is not exportable: %w", err)
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	if !ctx.FileBacked() {
		return fmt.Errorf("backups are not managed for PostgreSQL storage")
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'stopsmokin backup create'")
	}
	return nil
}

func checkLockState(ctx *Context) error {
	if !ctx.FileBacked() {
		return nil
	}
	pid, alive, err := lock.Inspect(ctx.Store.GetConfigPath())
	if err != nil {
		return err
	}
	if alive {
		return fmt.Errorf("data file is locked by running process %d", pid)
	}
	if pid != 0 {
		return fmt.Errorf("stale lockfile from process %d will be reclaimed on next write", pid)
	}
	return nil
}

func checkClockTimezone(ctx *Context) error {
	now := ctx.now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if _, err := utils.LoadLocation(ctx.Config.Timezone); err != nil {
		return err
	}
	return nil
}
