package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	appErrors "fastreer-gui/internal/errors"
)

const (
	KeyBackendToolPath    = "backendToolPath"
	KeyApplicationVersion = "applicationVersion"
)

const (
	// DefaultVersion is reported when no version has been recorded yet.
	DefaultVersion = "0.0.0"

	// DirName is the per-user directory holding settings, history and logs.
	DirName      = ".fastreer-gui"
	SettingsFile = "settings.yaml"
)

//go:embed default_settings.yaml
var defaultTemplate []byte

// Settings is the persisted key-value configuration shared by the job runner
// and the update checker.
type Settings struct {
	BackendToolPath    string
	ApplicationVersion string
}

// Defaults returns the in-memory settings used when nothing could be loaded.
func Defaults() Settings {
	return Settings{ApplicationVersion: DefaultVersion}
}

// Store loads and saves Settings at a fixed path. It does no locking;
// callers serialize access.
type Store struct {
	path     string
	template []byte
}

// Option configures a Store. Useful for tests to override paths.
type Option func(*Store)

// WithPath overrides the default settings file location.
func WithPath(path string) Option {
	return func(s *Store) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			s.path = trimmed
		}
	}
}

// WithTemplate overrides the bundled template used to seed a missing file.
func WithTemplate(template []byte) Option {
	return func(s *Store) {
		s.template = template
	}
}

// NewStore builds a Store for ~/.fastreer-gui/settings.yaml unless WithPath
// says otherwise.
func NewStore(opts ...Option) (*Store, error) {
	s := &Store{template: defaultTemplate}
	for _, opt := range opts {
		opt(s)
	}
	if s.path == "" {
		dir, err := UserDir()
		if err != nil {
			return nil, err
		}
		s.path = filepath.Join(dir, SettingsFile)
	}
	return s, nil
}

// UserDir returns ~/.fastreer-gui.
func UserDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determine user home: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// Path returns the settings file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the settings file, seeding it from the bundled template first
// if it does not exist yet. A missing template fails with
// CodeTemplateMissing. Read or parse failures return Defaults together with
// a CodeSettingsRead error which callers may treat as a warning.
func (s *Store) Load() (Settings, error) {
	if err := s.ensureFile(); err != nil {
		return Defaults(), err
	}

	//nolint:gosec // G304: settings path is fixed per user or set by tests
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Defaults(), appErrors.New(appErrors.CodeSettingsRead, "read settings "+s.path, err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	if len(bytes.TrimSpace(data)) > 0 {
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return Defaults(), appErrors.New(appErrors.CodeSettingsRead, "parse settings "+s.path, err)
		}
	}

	settings := Settings{
		BackendToolPath:    strings.TrimSpace(v.GetString(KeyBackendToolPath)),
		ApplicationVersion: strings.TrimSpace(v.GetString(KeyApplicationVersion)),
	}
	if settings.ApplicationVersion == "" {
		settings.ApplicationVersion = DefaultVersion
	}
	return settings, nil
}

// Save persists settings. The file is replaced through a temporary file in
// the same directory so readers never see a partial write. Keys this
// package does not know about are carried over from the existing file.
func (s *Store) Save(settings Settings) error {
	doc := map[string]any{}
	//nolint:gosec // G304: settings path is fixed per user or set by tests
	if existing, err := os.ReadFile(s.path); err == nil {
		// unparseable content is replaced wholesale
		_ = yaml.Unmarshal(existing, &doc)
		if doc == nil {
			doc = map[string]any{}
		}
	}
	doc[KeyBackendToolPath] = settings.BackendToolPath
	doc[KeyApplicationVersion] = settings.ApplicationVersion

	data, err := yaml.Marshal(doc)
	if err != nil {
		return appErrors.New(appErrors.CodeSettingsWrite, "encode settings", err)
	}

	//nolint:gosec // G301: User config directory needs standard permissions
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return appErrors.New(appErrors.CodeSettingsWrite, "create settings directory", err)
	}
	if err := writeFileAtomic(s.path, data, 0644); err != nil {
		return appErrors.New(appErrors.CodeSettingsWrite, "write settings "+s.path, err)
	}
	return nil
}

func (s *Store) ensureFile() error {
	info, err := os.Stat(s.path)
	if err == nil {
		if info.IsDir() {
			return appErrors.New(appErrors.CodeSettingsRead, fmt.Sprintf("settings path %s is a directory", s.path), nil)
		}
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return appErrors.New(appErrors.CodeSettingsRead, "stat "+s.path, err)
	}

	if len(bytes.TrimSpace(s.template)) == 0 {
		return appErrors.New(appErrors.CodeTemplateMissing, "bundled default settings not found", nil)
	}
	//nolint:gosec // G301: User config directory needs standard permissions
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return appErrors.New(appErrors.CodeSettingsWrite, "create settings directory", err)
	}
	if err := writeFileAtomic(s.path, s.template, 0644); err != nil {
		return appErrors.New(appErrors.CodeSettingsWrite, "seed settings "+s.path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyBackendToolPath, "")
	v.SetDefault(KeyApplicationVersion, DefaultVersion)
}

// writeFileAtomic writes data to a temporary sibling of path and renames it
// into place. The temporary file is removed on every failure path.
func writeFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
