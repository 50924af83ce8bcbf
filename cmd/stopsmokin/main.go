package main

import (
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/stopsmokin/internal/cli"
	"github.com/julianstephens/stopsmokin/internal/config"
	"github.com/julianstephens/stopsmokin/internal/constants"
	"github.com/julianstephens/stopsmokin/internal/errors"
	"github.com/julianstephens/stopsmokin/internal/logger"
	"github.com/julianstephens/stopsmokin/internal/utils"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"string" default:"~/.config/stopsmokin/config.yaml"`
	Store   string `help:"Data file path (.db for SQLite, .json for a flat file) or PostgreSQL connection string. Passwords must NOT be embedded; use the keyring, STOPSMOKIN_DB_CONNECTION or .pgpass." type:"string"`
	Debug   bool   `help:"Log debug output to stderr."`

	Init         cli.InitCmd         `cmd:"" help:"Initialize stopsmokin storage and config."`
	Tui          cli.TuiCmd          `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Record       cli.RecordCmd       `cmd:"" help:"Record a cigarette now."`
	Status       cli.StatusCmd       `cmd:"" help:"Show statistics, level and streak."`
	Achievements cli.AchievementsCmd `cmd:"" help:"List achievements."`
	Message      cli.MessageCmd      `cmd:"" help:"Show the current motivational message."`
	Export       cli.ExportCmd       `cmd:"" help:"Export all data to a JSON file."`
	Import       cli.ImportCmd       `cmd:"" help:"Replace all data from an export file."`
	Code         struct {
		Export cli.CodeExportCmd `cmd:"" help:"Print a compact transfer code."`
		Import cli.CodeImportCmd `cmd:"" help:"Replace all data from a transfer code."`
	} `cmd:"" help:"Transfer data between devices with a compact code."`
	Reset  cli.ResetCmd `cmd:"" help:"Erase all data."`
	Backup struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage data file backups."`
	Keyring struct {
		Set    cli.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    cli.KeyringGetCmd    `cmd:"" help:"Show the stored connection string (password masked)."`
		Delete cli.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status cli.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability."`
	} `cmd:"" help:"Manage the connection string in the OS keyring."`
	Migrate  cli.MigrateCmd `cmd:"" help:"Apply pending schema migrations."`
	Doctor   cli.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	DebugCmd cli.DebugCmd   `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Track cigarettes, watch the smoke-free streak grow"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	configPath, err := utils.ExpandPath(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug || cfg.Debug,
		ConfigDir: filepath.Dir(configPath),
	}); err != nil {
		errors.Fatal(err)
	}

	loc, err := utils.LoadLocation(cfg.Timezone)
	if err != nil {
		errors.Fatal(err)
	}

	location, source := cli.ResolveLocation(CLI.Store, cfg.Storage)
	store, err := cli.NewStore(location, source)
	if err != nil {
		errors.Fatal(err)
	}
	logger.BindStore(cli.Backend(store), store.GetConfigPath())
	logger.Debug("Resolved storage", "source", source)

	appCtx := &cli.Context{
		Store:      store,
		Config:     cfg,
		ConfigPath: configPath,
		Location:   loc,
	}

	err = ctx.Run(appCtx)
	if closeErr := store.Close(); closeErr != nil {
		logger.Warn("Failed to close storage", "error", closeErr)
	}
	errors.Fatal(err)
}
