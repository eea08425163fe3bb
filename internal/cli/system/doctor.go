package system

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/mealplan/internal/cli"
	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/logger"
	"github.com/julianstephens/mealplan/internal/storage"
	"github.com/julianstephens/mealplan/internal/validation"
)

var ErrHealthCheck = errors.New("one or more health checks failed")

type DoctorCmd struct{}

type checkResult int

const (
	checkOK checkResult = iota
	checkWarn
	checkFail
	checkSkipped
)

func (c *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	report := func(name string, res checkResult, detail string) {
		switch res {
		case checkOK:
			ctx.Printf("✓ %s: OK\n", name)
		case checkWarn:
			ctx.Printf("⚠ %s: WARNING\n", name)
		case checkFail:
			ctx.Printf("❌ %s: FAIL\n", name)
			hasError = true
		case checkSkipped:
			ctx.Printf("⊘ %s: SKIPPED\n", name)
		}
		if detail != "" {
			ctx.Printf("   %s\n", detail)
		}
	}

	reachable := true
	if ctx.Store == nil {
		if err := ctx.OpenStore(); err != nil {
			reachable = false
			report("Store reachable", checkFail, "Error: "+err.Error())
		}
	}
	if reachable {
		report("Store reachable", checkOK, ctx.Store.Location())
		res, detail := checkSchema(ctx.Store)
		report("Schema version", res, detail)
		res, detail = checkEvents(ctx)
		report("Meal data", res, detail)
	} else {
		report("Schema version", checkSkipped, "store not reachable")
		report("Meal data", checkSkipped, "store not reachable")
	}

	res, detail := checkBackups(ctx)
	report("Backups present", res, detail)

	res, detail = checkClock(ctx)
	report("Clock/timezone", res, detail)

	if path := logger.Path(); path != "" {
		report("Log file", checkOK, path)
	} else {
		report("Log file", checkSkipped, "logging not initialized")
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return ErrHealthCheck
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkSchema(kv storage.KV) (checkResult, string) {
	versioned, ok := kv.(storage.Versioned)
	if !ok {
		return checkOK, "store has no schema"
	}
	current, latest, err := versioned.SchemaVersion()
	if err != nil {
		return checkFail, "Error: " + err.Error()
	}
	switch {
	case current > latest:
		return checkFail, fmt.Sprintf("database schema version (%d) is newer than supported version (%d)", current, latest)
	case current < latest:
		return checkFail, fmt.Sprintf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return checkOK, fmt.Sprintf("version %d", current)
}

func checkEvents(ctx *cli.Context) (checkResult, string) {
	events, err := ctx.Events().Load(context.Background())
	if err != nil {
		return checkFail, "Error: " + err.Error()
	}

	seen := make(map[string]bool, len(events))
	for _, ev := range events {
		if seen[ev.ID] {
			return checkFail, "duplicate meal ID found: " + ev.ID
		}
		seen[ev.ID] = true
	}

	result := validation.New().ValidateEvents(events)
	if result.HasConflicts() {
		return checkWarn, fmt.Sprintf("%d meals, %d conflicts (run '%s validate' for details)",
			len(events), len(result.Conflicts), constants.AppName)
	}
	return checkOK, fmt.Sprintf("%d meals", len(events))
}

func checkBackups(ctx *cli.Context) (checkResult, string) {
	mgr, err := ctx.BackupManager()
	if err != nil {
		return checkSkipped, err.Error()
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return checkWarn, "failed to list backups: " + err.Error()
	}
	if len(backups) == 0 {
		return checkWarn, fmt.Sprintf("no backups found, consider creating one with '%s backup create'", constants.AppName)
	}
	return checkOK, fmt.Sprintf("%d backups, latest %s", len(backups), backups[0].Timestamp.Format("2006-01-02 15:04"))
}

func checkClock(ctx *cli.Context) (checkResult, string) {
	now := ctx.Today()
	if now.Year() < 2020 || now.Year() > 2100 {
		return checkFail, "system time appears incorrect: " + now.Format(time.RFC3339)
	}
	if _, offset := now.Zone(); offset == 0 {
		return checkOK, fmt.Sprintf("Note: timezone %s is UTC", ctx.Location)
	}
	return checkOK, ctx.Location.String()
}
