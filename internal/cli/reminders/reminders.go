package reminders

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/julianstephens/mealplan/internal/cli"
	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/notifier"
	"github.com/julianstephens/mealplan/internal/reminder"
	"github.com/julianstephens/mealplan/internal/utils"
)

type ReminderSetCmd struct {
	Meal string `arg:"" help:"Meal name, e.g. breakfast."`
	Time string `arg:"" help:"Time of day (HH:MM)."`
}

func (c *ReminderSetCmd) Run(ctx *cli.Context) error {
	t, err := utils.ParseTime(c.Time)
	if err != nil {
		return fmt.Errorf("invalid time format (expected HH:MM): %w", err)
	}
	meal := strings.ToLower(strings.TrimSpace(c.Meal))
	mt := models.MealTime{Hour: t.Hour(), Minute: t.Minute()}

	if err := ctx.Reminders().Set(context.Background(), meal, mt); err != nil {
		return err
	}
	ctx.Printf("✓ %s reminder set for %s\n", reminder.Label(meal), mt)
	return nil
}

type ReminderListCmd struct{}

func (c *ReminderListCmd) Run(ctx *cli.Context) error {
	list, err := ctx.Reminders().List(context.Background())
	if err != nil {
		return err
	}
	if len(list) == 0 {
		ctx.Println("No reminders set.")
		return nil
	}

	sched := reminder.NewScheduler(nil, ctx.Location)
	if err := sched.Reload(list); err != nil {
		ctx.Printf("⚠️  %v\n", err)
	}
	next := sched.Next(ctx.Today())

	slices.SortFunc(list, func(a, b models.MealReminder) int {
		return (a.Time.Hour*60 + a.Time.Minute) - (b.Time.Hour*60 + b.Time.Minute)
	})
	for _, r := range list {
		line := fmt.Sprintf("  %s  %-12s", r.Time, reminder.Label(r.Meal))
		if n, ok := next[r.Meal]; ok {
			line += "  next: " + n.Format("Mon 2006-01-02 15:04")
		}
		ctx.Println(line)
	}
	return nil
}

type ReminderDeleteCmd struct {
	Meal string `arg:"" help:"Meal name of the reminder to delete."`
}

func (c *ReminderDeleteCmd) Run(ctx *cli.Context) error {
	meal := strings.ToLower(strings.TrimSpace(c.Meal))

	before, err := ctx.Reminders().List(context.Background())
	if err != nil {
		return err
	}
	if !slices.ContainsFunc(before, func(r models.MealReminder) bool { return r.Meal == meal }) {
		return fmt.Errorf("no reminder for %s", meal)
	}

	if _, err := ctx.Reminders().Delete(context.Background(), meal); err != nil {
		return err
	}
	ctx.Printf("✓ %s reminder deleted\n", reminder.Label(meal))
	return nil
}

// printNotifier writes reminders to the terminal instead of the tray.
type printNotifier struct {
	ctx *cli.Context
}

func (p printNotifier) Notify(_ context.Context, text string) error {
	p.ctx.Printf("🔔 %s\n", text)
	return nil
}

// ReminderRunCmd keeps running and fires each reminder at its time until
// interrupted.
type ReminderRunCmd struct {
	DryRun bool `help:"Print notifications to stdout instead of sending them."`
}

func (c *ReminderRunCmd) Run(ctx *cli.Context) error {
	list, err := ctx.Reminders().List(context.Background())
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return errors.New("no reminders set, add one with 'reminder set'")
	}

	var n reminder.Notifier = notifier.New(ctx.Config.TrayIdentifier)
	if c.DryRun {
		n = printNotifier{ctx: ctx}
	}

	sched := reminder.NewScheduler(n, ctx.Location)
	if err := sched.Reload(list); err != nil {
		ctx.Printf("⚠️  %v\n", err)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.serve(runCtx, ctx, sched)
}

func (c *ReminderRunCmd) serve(runCtx context.Context, ctx *cli.Context, sched *reminder.Scheduler) error {
	sched.Start()
	ctx.Printf("Sending meal reminders, press Ctrl+C to stop.\n")
	<-runCtx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), constants.NotifyTimeout)
	defer cancel()
	return sched.Stop(stopCtx)
}
