// Package debug provides the opt-in debug log for fastreer-gui.
// Nothing is written unless --debug is passed. The log lives next to the
// settings file (~/.fastreer-gui/debug.log unless --config-dir moves it) and
// is truncated on each launch.
package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
)

const (
	// LogFileName is the name of the debug log file.
	LogFileName = "debug.log"
	// LogDirName is the per-user directory used when no directory is given.
	LogDirName = ".fastreer-gui"
)

var (
	mu      sync.RWMutex
	logger  *lgr.Logger
	logFile *os.File
	logPath string
)

// DefaultPath returns ~/.fastreer-gui/debug.log.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determine user home: %w", err)
	}
	return filepath.Join(home, LogDirName, LogFileName), nil
}

// Init enables logging to DefaultPath, or turns logging off when enable is
// false.
func Init(enable bool) error {
	if !enable {
		Close()
		return nil
	}
	path, err := DefaultPath()
	if err != nil {
		return fmt.Errorf("determine log path: %w", err)
	}
	return InitAt(path)
}

// InitAt enables logging to path, creating its directory and truncating any
// previous log. A log already open is closed first.
func InitAt(path string) error {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()

	//nolint:gosec // G301: user config directory needs standard permissions
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	//nolint:gosec // G304: path comes from the user's own config location
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	logFile = f
	logPath = path
	logger = lgr.New(lgr.Out(f), lgr.Err(f), lgr.Debug, lgr.Msec)
	logger.Logf("[INFO] === fastreer-gui debug log started at %s ===", time.Now().Format(time.RFC3339))
	return nil
}

// Close flushes and closes the log. Later calls to Log are dropped.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
}

func closeLocked() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	logger = nil
	logPath = ""
}

// Log writes a debug message in the manner of fmt.Print.
func Log(v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if logger == nil {
		return
	}
	logger.Logf("[DEBUG] %s", fmt.Sprint(v...))
}

// Logf writes a debug message in the manner of fmt.Printf.
func Logf(format string, v ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if logger == nil {
		return
	}
	logger.Logf("[DEBUG] "+format, v...)
}

// Enabled reports whether a log is open.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return logger != nil
}

// Path returns the open log's location, or "" when logging is off.
func Path() string {
	mu.RLock()
	defer mu.RUnlock()
	return logPath
}
