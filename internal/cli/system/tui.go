package system

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/mealplan/internal/cli"
	"github.com/julianstephens/mealplan/internal/logger"
	"github.com/julianstephens/mealplan/internal/prefill"
	"github.com/julianstephens/mealplan/internal/tui"
)

// TuiCmd opens the calendar. The prefill flags carry a recipe handed over
// by another screen or tool; --recipe reads a recipe detail JSON document.
type TuiCmd struct {
	PrefillTitle       string `name:"prefill-title" help:"Title for a new meal."`
	PrefillDescription string `name:"prefill-description" help:"Notes for a new meal."`
	OpenAddModal       string `name:"open-add-modal" help:"Set to 'true' to open the new meal form on start."`
	Recipe             string `help:"Recipe detail JSON file to prefill a new meal from." type:"existingfile"`
}

func (c *TuiCmd) params() (prefill.Params, error) {
	if c.Recipe == "" {
		return prefill.Params{
			PrefillTitle:       c.PrefillTitle,
			PrefillDescription: c.PrefillDescription,
			OpenAddModal:       c.OpenAddModal,
		}, nil
	}

	f, err := os.Open(c.Recipe)
	if err != nil {
		return prefill.Params{}, err
	}
	defer f.Close()

	recipe, err := prefill.ReadRecipe(f)
	if err != nil {
		return prefill.Params{}, err
	}
	return prefill.FromRecipe(recipe), nil
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	params, err := c.params()
	if err != nil {
		return err
	}

	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	ctrl, err := ctx.Controller(context.Background())
	if err != nil {
		return err
	}
	defer func() {
		if err := ctrl.Close(); err != nil {
			logger.Error("Failed to save meals on exit", "error", err)
		}
	}()

	bridge := prefill.NewBridge()
	bridge.Offer(params)

	model := tui.NewModel(ctrl, bridge, tui.Options{RowsPerHour: ctx.Config.RowsPerHour, Now: ctx.Today})
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("alas, there's been an error: %w", err)
	}
	return nil
}
