package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/logger"
)

// SecretHeader carries the shared secret from the tray lockfile.
const SecretHeader = "X-Mealplan-Secret"

var (
	ErrTrayNotRunning    = errors.New("mealplan-tray is not running")
	ErrMalformedLockfile = errors.New("lockfile is malformed")
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// Notifier posts desktop notifications to the tray helper.
type Notifier struct {
	trayIdentifier string
	client         *http.Client
}

type WebhookPayload struct {
	Title      string `json:"title,omitempty"`
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

// New returns a notifier for the tray app with the given identifier. An
// empty identifier selects the default one.
func New(trayIdentifier string) *Notifier {
	if trayIdentifier == "" {
		trayIdentifier = constants.TrayAppIdentifier
	}
	return &Notifier{
		trayIdentifier: trayIdentifier,
		client:         &http.Client{Timeout: constants.NotifyTimeout},
	}
}

// Notify shows text as a meal reminder.
func (n *Notifier) Notify(ctx context.Context, text string) error {
	dir, err := n.ConfigDir()
	if err != nil {
		return err
	}

	lock, err := readLockfile(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}
	if err := lock.verifyProcess(); err != nil {
		return err
	}

	payload := WebhookPayload{
		Title:      "Meal reminder",
		Text:       text,
		DurationMs: constants.NotificationDurationMs,
	}
	if err := n.send(ctx, lock, payload); err != nil {
		return err
	}
	logger.Debug("Notification delivered", "port", lock.port)
	return nil
}

// ConfigDir returns the tray app's config directory, honouring a custom
// lockfile_dir from its settings.json.
func (n *Notifier) ConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	trayConfigDir := filepath.Join(configDir, n.trayIdentifier)

	data, err := os.ReadFile(filepath.Join(trayConfigDir, "settings.json"))
	if err != nil {
		return trayConfigDir, nil
	}
	var store struct {
		Settings struct {
			LockfileDir *string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &store); err != nil {
		logger.Warn("Ignoring unreadable tray settings", "error", err)
		return trayConfigDir, nil
	}
	if dir := store.Settings.LockfileDir; dir != nil && *dir != "" {
		return *dir, nil
	}
	return trayConfigDir, nil
}

// trayLock is the content of the lockfile: port|pid|secret.
type trayLock struct {
	port   int
	pid    int
	secret string
}

func readLockfile(path string) (trayLock, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return trayLock{}, ErrTrayNotRunning
	}
	return parseLockfile(string(content))
}

func parseLockfile(content string) (trayLock, error) {
	parts := strings.Split(strings.TrimSpace(content), "|")
	if len(parts) != 3 {
		return trayLock{}, ErrMalformedLockfile
	}

	if strings.TrimSpace(parts[0]) == "" {
		return trayLock{}, fmt.Errorf("%w: port is empty", ErrMalformedLockfile)
	}
	port, err := strconv.Atoi(parts[0])
	if err != nil {
		return trayLock{}, fmt.Errorf("%w: invalid port number", ErrMalformedLockfile)
	}
	if port < 1 || port > 65535 {
		return trayLock{}, fmt.Errorf("%w: port number %d is outside valid range (1-65535)", ErrMalformedLockfile, port)
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return trayLock{}, fmt.Errorf("%w: invalid process ID", ErrMalformedLockfile)
	}

	secret := parts[2]
	if strings.TrimSpace(secret) == "" {
		return trayLock{}, fmt.Errorf("%w: secret is empty", ErrMalformedLockfile)
	}

	return trayLock{port: port, pid: pid, secret: secret}, nil
}

// verifyProcess guards against a stale lockfile whose pid was reused.
func (l trayLock) verifyProcess() error {
	process, err := findProcessFunc(l.pid)
	if err != nil || process == nil {
		return ErrTrayNotRunning
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayExecutablePrefix) {
		return fmt.Errorf("process with PID %d is not %s (is %s)", l.pid, constants.TrayExecutablePrefix, process.Executable())
	}
	return nil
}

func (n *Notifier) send(ctx context.Context, lock trayLock, payload WebhookPayload) error {
	url := fmt.Sprintf("http://127.0.0.1:%d", lock.port)

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SecretHeader, lock.secret)

	res, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach %s: %w", constants.TrayExecutablePrefix, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(body))
}
