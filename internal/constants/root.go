package constants

import "time"

const (
	AppName            = "stopsmokin"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/stopsmokin"
	DefaultConfigPath  = "~/.config/stopsmokin/config.yaml"
	DefaultStorePath   = "~/.config/stopsmokin/stopsmokin.db"
	ConnectionEnvVar   = "STOPSMOKIN_DB_CONNECTION"
	Version            = "v0.3.0"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "stopsmokin-"

	// Lock constants
	LockfileSuffix = ".lock"

	// Export constants
	ExportVersion    = "1.0"
	ExportFilePrefix = "stop-smokin-data-"
	ExportFileSuffix = ".json"

	// Default Settings Values
	DefaultTimezone   = "Local" // Use system local timezone by default
	DefaultWeekWindow = 12

	// Statistics windows
	Day              = 24 * time.Hour
	Week             = 7 * Day
	WeeklyBucketsMax = 8
	DaysPerWeek      = 7
	DaysPerMonth     = 30

	// TrendThresholdPercent is the change, in percent, beyond which a trend leaves "stable".
	TrendThresholdPercent = 15.0

	// DaysPerLevel is the number of consecutive smoke-free days each level represents.
	DaysPerLevel = 3

	// TickInterval is how often the dashboard re-derives progression.
	TickInterval = time.Second
)
