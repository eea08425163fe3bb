package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/keyring"
	"github.com/julianstephens/mealplan/internal/logger"
	"github.com/julianstephens/mealplan/internal/storage"
)

// hints maps sentinel errors to the command that usually gets the user unstuck.
var hints = []struct {
	err  error
	hint string
}{
	{storage.ErrCorruptData, fmt.Sprintf("list backups with '%[1]s backup list' and restore one with '%[1]s backup restore <file>'", constants.AppName)},
	{storage.ErrEmbeddedCredentials, fmt.Sprintf("store the connection string with '%s keyring set' and use --store keyring", constants.AppName)},
	{keyring.ErrNotFound, fmt.Sprintf("run '%s keyring set' or set MEALPLAN_DB_CONNECTION", constants.AppName)},
	{keyring.ErrKeyringUnavailable, "set MEALPLAN_DB_CONNECTION instead of using the OS keyring"},
}

// Hint returns a suggested next step for err, or "".
func Hint(err error) string {
	for _, h := range hints {
		if stderrors.Is(err, h.err) {
			return h.hint
		}
	}
	return ""
}

// Format renders err for the terminal with an "Error: " prefix and, when
// one is known, a hint line.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" {
		msg += "\nHint: " + hint
	}
	return msg
}

// Fatal logs err and exits with status 1. A nil err returns immediately.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command execution failed", "error", err)
	fmt.Fprintln(os.Stderr, Format(err))
	os.Exit(1)
}
