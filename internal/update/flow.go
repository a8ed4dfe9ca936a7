package update

import (
	"context"
	"fmt"
	"path/filepath"

	"fastreer-gui/internal/config"
	"fastreer-gui/internal/debug"
	appErrors "fastreer-gui/internal/errors"
)

// Status is the terminal state of a successful Flow run.
type Status int

const (
	// StatusUpToDate means the latest release is not newer than the current version.
	StatusUpToDate Status = iota
	// StatusDeclined means the user chose not to install the new version.
	StatusDeclined
	// StatusInstalled means the new version was downloaded and recorded.
	StatusInstalled
)

// String returns the string representation of a Status.
func (s Status) String() string {
	switch s {
	case StatusUpToDate:
		return "up-to-date"
	case StatusDeclined:
		return "declined"
	case StatusInstalled:
		return "installed"
	default:
		return "unknown"
	}
}

// SettingsStore is the part of config.Store the flow needs.
type SettingsStore interface {
	Load() (config.Settings, error)
	Save(config.Settings) error
}

// Confirmer asks the user whether to install an available update.
type Confirmer interface {
	Confirm(ctx context.Context, info *UpdateInfo) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, info *UpdateInfo) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, info *UpdateInfo) (bool, error) {
	return f(ctx, info)
}

// Result describes how a Flow run ended.
type Result struct {
	Status Status
	Info   *UpdateInfo
	// Path is the downloaded file, set once the download succeeded.
	Path string
}

// Message returns the user-facing summary of the result.
func (r Result) Message() string {
	switch r.Status {
	case StatusUpToDate:
		return fmt.Sprintf("You already have the latest version (%s).", r.Info.CurrentVersion)
	case StatusDeclined:
		return fmt.Sprintf("Update to %s skipped.", r.Info.LatestVersion)
	case StatusInstalled:
		return fmt.Sprintf("Update complete (%s).\nPlease restart the application to use the new version.", r.Info.LatestVersion)
	default:
		return ""
	}
}

// Flow runs the self-update workflow: load version, fetch release, compare,
// locate asset, confirm, download, record the new version. Steps run once
// in order; nothing is retried and completed steps are not rolled back.
type Flow struct {
	store      SettingsStore
	checker    *Checker
	updater    *Updater
	installDir string
	appName    string
	progress   ProgressFunc
}

// FlowOption configures a Flow.
type FlowOption func(*Flow)

// WithInstallDir overrides the download directory (defaults to InstallDir()).
func WithInstallDir(dir string) FlowOption {
	return func(f *Flow) {
		f.installDir = dir
	}
}

// WithProgress receives download progress.
func WithProgress(fn ProgressFunc) FlowOption {
	return func(f *Flow) {
		f.progress = fn
	}
}

// WithFlowAppName changes the local file name prefix.
func WithFlowAppName(name string) FlowOption {
	return func(f *Flow) {
		f.appName = name
	}
}

// NewFlow wires the workflow collaborators.
func NewFlow(store SettingsStore, checker *Checker, updater *Updater, opts ...FlowOption) *Flow {
	f := &Flow{
		store:   store,
		checker: checker,
		updater: updater,
		appName: DefaultAppName,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Run executes the workflow. The returned Result is meaningful when err is
// nil, and also carries Info/Path for failures after the check succeeded.
func (f *Flow) Run(ctx context.Context, confirmer Confirmer) (Result, error) {
	settings, err := f.store.Load()
	if err != nil {
		return Result{}, appErrors.New(appErrors.CodeSettingsRead, "could not load settings to check version", err)
	}
	current := settings.ApplicationVersion
	if current == "" {
		current = config.DefaultVersion
	}

	info, err := f.checker.Check(ctx, current)
	if err != nil {
		return Result{Info: info}, err
	}
	if !info.UpdateAvailable {
		return Result{Status: StatusUpToDate, Info: info}, nil
	}

	ok, err := confirmer.Confirm(ctx, info)
	if err != nil {
		return Result{Info: info}, appErrors.New(appErrors.CodeCanceled, "confirmation failed", err)
	}
	if !ok {
		return Result{Status: StatusDeclined, Info: info}, nil
	}

	dir := f.installDir
	if dir == "" {
		dir, err = InstallDir()
		if err != nil {
			return Result{Info: info}, appErrors.New(appErrors.CodeDownload, "locate installation directory", err)
		}
	}
	dest := filepath.Join(dir, LocalFileName(f.appName))
	if err := f.updater.Download(ctx, info.DownloadURL, dest, f.progress); err != nil {
		return Result{Info: info}, err
	}

	settings.ApplicationVersion = info.LatestVersion.String()
	if err := f.store.Save(settings); err != nil {
		debug.Logf("update downloaded to %s but version not recorded: %v", dest, err)
		return Result{Info: info, Path: dest}, err
	}

	return Result{Status: StatusInstalled, Info: info, Path: dest}, nil
}
