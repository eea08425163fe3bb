// Package logger is the process-wide structured log. Records go to a
// rotating file under <config dir>/logs and, in debug mode, to stderr too.
// Every helper is a no-op until Init succeeds.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/mealplan/internal/constants"
)

const (
	logDirName = "logs"
	maxSizeMB  = 10
	maxBackups = 3
	maxAgeDays = 28
)

var (
	Logger *log.Logger

	file *lumberjack.Logger
)

type Config struct {
	Debug     bool
	ConfigDir string
}

// Init replaces the global logger. A previously opened log file is closed.
func Init(cfg Config) error {
	dir := filepath.Join(cfg.ConfigDir, logDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	Close()

	file = &lumberjack.Logger{
		Filename:   filepath.Join(dir, constants.AppName+".log"),
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}

	var out io.Writer = file
	level := log.WarnLevel
	if cfg.Debug {
		out = io.MultiWriter(os.Stderr, file)
		level = log.DebugLevel
	}

	Logger = log.NewWithOptions(out, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})
	return nil
}

// Path returns the active log file, or "" before Init.
func Path() string {
	if file == nil {
		return ""
	}
	return file.Filename
}

// Close releases the log file. Later records are dropped until the next Init.
func Close() error {
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	Logger = nil
	return err
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
