package constants

const (
	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// DisplayTimeFormat is used when showing event timestamps to the user
	DisplayTimeFormat = "2006-01-02 15:04:05"

	// BackupTimestampFormat names backup files with minute precision
	BackupTimestampFormat = "20060102-1504"

	// BackupTimestampFormatSeconds is used when a minute-precision name is taken
	BackupTimestampFormatSeconds = "20060102-150405"
)
