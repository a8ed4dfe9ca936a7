package debug

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func tempLogPath(t *testing.T) string {
	t.Helper()
	t.Cleanup(Close)
	return filepath.Join(t.TempDir(), "nested", LogFileName)
}

func TestInit_Disabled(t *testing.T) {
	t.Cleanup(Close)

	if err := Init(false); err != nil {
		t.Fatalf("Init(false) failed: %v", err)
	}
	if Enabled() {
		t.Error("Enabled() should return false when initialized with false")
	}
	if Path() != "" {
		t.Errorf("Path() = %q, want empty", Path())
	}

	Log("test message")
	Logf("test %s", "formatted")
}

func TestInitAt_WritesToGivenPath(t *testing.T) {
	logPath := tempLogPath(t)

	if err := InitAt(logPath); err != nil {
		t.Fatalf("InitAt failed: %v", err)
	}
	if !Enabled() {
		t.Error("Enabled() should return true after InitAt")
	}
	if Path() != logPath {
		t.Errorf("Path() = %q, want %q", Path(), logPath)
	}

	Log("test message")
	Logf("backend exited with %d", 3)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	contentStr := string(content)
	for _, want := range []string{"debug log started", "test message", "backend exited with 3"} {
		if !strings.Contains(contentStr, want) {
			t.Errorf("log file should contain %q, got:\n%s", want, contentStr)
		}
	}
}

func TestInitAt_TruncatesExistingLog(t *testing.T) {
	logPath := tempLogPath(t)

	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		t.Fatalf("Failed to create log directory: %v", err)
	}
	if err := os.WriteFile(logPath, []byte("old log content that should be truncated\n"), 0o600); err != nil {
		t.Fatalf("Failed to write pre-existing log: %v", err)
	}

	if err := InitAt(logPath); err != nil {
		t.Fatalf("InitAt failed: %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if strings.Contains(string(content), "old log content") {
		t.Error("Log file should have been truncated, but old content still present")
	}
}

func TestInitAt_SwitchesLog(t *testing.T) {
	first := tempLogPath(t)
	second := filepath.Join(t.TempDir(), LogFileName)

	if err := InitAt(first); err != nil {
		t.Fatalf("InitAt(first) failed: %v", err)
	}
	if err := InitAt(second); err != nil {
		t.Fatalf("InitAt(second) failed: %v", err)
	}
	Log("only in second")

	content, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("Failed to read first log: %v", err)
	}
	if strings.Contains(string(content), "only in second") {
		t.Error("first log should not receive messages after switching")
	}
	content, err = os.ReadFile(second)
	if err != nil {
		t.Fatalf("Failed to read second log: %v", err)
	}
	if !strings.Contains(string(content), "only in second") {
		t.Errorf("second log missing message, got:\n%s", content)
	}
}

func TestInitAt_UnusableDirectory(t *testing.T) {
	t.Cleanup(Close)
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatalf("Failed to write blocker: %v", err)
	}

	if err := InitAt(filepath.Join(blocker, LogFileName)); err == nil {
		t.Fatal("expected an error when the log directory is a file")
	}
	if Enabled() {
		t.Error("logging should stay off after a failed InitAt")
	}
}

func TestClose(t *testing.T) {
	if err := InitAt(tempLogPath(t)); err != nil {
		t.Fatalf("InitAt failed: %v", err)
	}

	Close()
	Close()

	if Enabled() {
		t.Error("Enabled() should return false after Close")
	}
	Log("after close")
}

func TestDefaultPath(t *testing.T) {
	path, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath() failed: %v", err)
	}
	if !strings.HasSuffix(path, filepath.Join(LogDirName, LogFileName)) {
		t.Errorf("DefaultPath() = %q, want suffix %q", path, filepath.Join(LogDirName, LogFileName))
	}
}
