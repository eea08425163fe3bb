package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/mealplan/internal/cli"
	"github.com/julianstephens/mealplan/internal/cli/backups"
	"github.com/julianstephens/mealplan/internal/cli/events"
	"github.com/julianstephens/mealplan/internal/cli/reminders"
	"github.com/julianstephens/mealplan/internal/cli/system"
	"github.com/julianstephens/mealplan/internal/config"
	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/errors"
	"github.com/julianstephens/mealplan/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"~/.config/mealplan/config.yaml"`
	Store   string `help:"Store: SQLite path, .json path, :memory:, PostgreSQL URL without password, or 'keyring'. Overrides the config file."`
	Verbose bool   `name:"debug" help:"Log debug output to stderr."`

	Init     system.InitCmd     `cmd:"" help:"Initialize mealplan storage."`
	Tui      system.TuiCmd      `cmd:"" help:"Launch the interactive calendar." default:"withargs"`
	Day      events.DayCmd      `cmd:"" help:"Show meals for a day."`
	Validate system.ValidateCmd `cmd:"" help:"Check meals for overlaps and invalid times."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks on the store and environment."`
	Export   events.ExportCmd   `cmd:"" help:"Export meals as an iCalendar file."`
	Import   events.ImportCmd   `cmd:"" help:"Import meals from an iCalendar file."`
	Event    struct {
		Add    events.EventAddCmd    `cmd:"" help:"Add a meal."`
		Edit   events.EventEditCmd   `cmd:"" help:"Edit a meal."`
		Delete events.EventDeleteCmd `cmd:"" help:"Delete a meal."`
		List   events.EventListCmd   `cmd:"" help:"List meals."`
	} `cmd:"" help:"Manage meals."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage store backups."`
	Reminder struct {
		Set    reminders.ReminderSetCmd    `cmd:"" help:"Set a daily meal reminder."`
		List   reminders.ReminderListCmd   `cmd:"" help:"List meal reminders."`
		Delete reminders.ReminderDeleteCmd `cmd:"" help:"Delete a meal reminder."`
		Run    reminders.ReminderRunCmd    `cmd:"" help:"Send reminders until interrupted."`
	} `cmd:"" help:"Manage meal reminders."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check keyring availability."`
	} `cmd:"" help:"Manage the OS keyring."`
	Debug struct {
		StorePath     system.DebugStorePathCmd     `cmd:"" help:"Print the resolved store location."`
		DumpEvents    system.DebugDumpEventsCmd    `cmd:"" help:"Dump stored meals as JSON."`
		DumpReminders system.DebugDumpRemindersCmd `cmd:"" help:"Dump stored reminders as JSON."`
	} `cmd:"" help:"Inspect stored data." hidden:""`
}

// needsStore reports whether the selected command works on an opened store.
// doctor opens the store itself so it can report failures.
func needsStore(command string) bool {
	for _, prefix := range []string{"init", "keyring", "doctor", "debug store-path"} {
		if strings.HasPrefix(command, prefix) {
			return false
		}
	}
	return true
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Meal-plan calendar"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	if err := config.LoadEnv(".env"); err != nil {
		errors.Fatal(err)
	}

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		errors.Fatal(err)
	}
	if CLI.Store != "" {
		cfg.Store = CLI.Store
	}
	if CLI.Verbose {
		cfg.Debug = true
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: filepath.Dir(CLI.Config)}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		errors.Fatal(err)
	}

	appCtx := cli.NewContext(cfg, loc)
	if needsStore(kctx.Command()) {
		if err := appCtx.OpenStore(); err != nil {
			errors.Fatal(err)
		}
	}

	err = kctx.Run(appCtx)
	if closeErr := appCtx.Close(); closeErr != nil {
		logger.Warn("Failed to close store", "error", closeErr)
	}
	errors.Fatal(err)
	logger.Close()
}
