package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/mealplan/internal/constants"
)

// StoreTarget is the --store value that reads the PostgreSQL connection
// string from the OS keyring.
const StoreTarget = "keyring"

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Credentials addresses one secret in the OS keyring.
type Credentials struct {
	service string
	user    string
}

// New addresses the database connection string of this application.
func New() *Credentials {
	return &Credentials{service: constants.AppName, user: constants.DefaultKeyringUser}
}

// Get retrieves the stored connection string.
func (c *Credentials) Get() (string, error) {
	connStr, err := keyring.Get(c.service, c.user)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return connStr, nil
}

// Set stores a connection string, which may carry a password.
func (c *Credentials) Set(connStr string) error {
	connStr = strings.TrimSpace(connStr)
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(c.service, c.user, connStr); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

// Delete removes the stored connection string.
func (c *Credentials) Delete() error {
	err := keyring.Delete(c.service, c.user)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// Available is a best-effort probe of the OS keyring.
func (c *Credentials) Available() bool {
	_, err := keyring.Get(c.service, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
