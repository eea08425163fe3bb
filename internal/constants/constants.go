package constants

import "time"

const (
	AppName            = "mealplan"
	Version            = "v0.3.0"
	DefaultConfigDir   = "~/.config/mealplan"
	DefaultStorePath   = "~/.config/mealplan/mealplan.db"
	DefaultKeyringUser = "database-connection"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Storage keys
	EventsStorageKey    = "mealEvents"
	RemindersStorageKey = "mealNotifications"

	// Timeline geometry: one pixel per minute, 60px hour rows.
	MinutesPerDay = 24 * 60
	HourRowHeight = 60

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "mealplan-"

	// Notify constants
	NotifierLockfileName   = "mealplan-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.mealplan"
	TrayExecutablePrefix   = "mealplan-tray"
	NotifyTimeout          = 5 * time.Second

	// Recurrence expansion cap for a single add
	MaxRecurringOccurrences = 366
)
