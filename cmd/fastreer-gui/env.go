package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fastreer-gui/internal/app"
	"fastreer-gui/internal/backend"
	"fastreer-gui/internal/config"
	"fastreer-gui/internal/debug"
	"fastreer-gui/internal/history"
	"fastreer-gui/internal/ui"
	"fastreer-gui/internal/update"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	debug      bool
	plain      bool
	configDir  string
	notesStyle string

	// Hidden, for testing against a local release server.
	apiURL     string
	installDir string
}

// environment holds process-wide collaborators so commands can be tested
// with buffers and a temporary config directory.
type environment struct {
	stdin  *os.File
	stdout io.Writer
	stderr io.Writer
	opts   globalOptions

	// isTerminal reports whether stdin is a terminal. Nil means ui.IsTerminal.
	isTerminal func(*os.File) bool

	dispatcher *app.Dispatcher
}

func newEnvironment() *environment {
	return &environment{
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		dispatcher: app.NewDispatcher(),
	}
}

func (e *environment) userDir() (string, error) {
	if dir := strings.TrimSpace(e.opts.configDir); dir != "" {
		return dir, nil
	}
	return config.UserDir()
}

func (e *environment) settingsStore() (*config.Store, error) {
	dir, err := e.userDir()
	if err != nil {
		return nil, err
	}
	return config.NewStore(config.WithPath(filepath.Join(dir, config.SettingsFile)))
}

// openHistory opens the run history. A failure is logged and yields nil so
// workflows still run without recording.
func (e *environment) openHistory(ctx context.Context) *history.Store {
	dir, err := e.userDir()
	if err != nil {
		debug.Logf("history disabled: %v", err)
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		debug.Logf("history disabled: %v", err)
		return nil
	}
	store, err := history.Open(ctx, filepath.Join(dir, history.FileName))
	if err != nil {
		debug.Logf("history disabled: %v", err)
		return nil
	}
	return store
}

func (e *environment) interactive() bool {
	if e.stdin == nil {
		return false
	}
	if e.isTerminal != nil {
		return e.isTerminal(e.stdin)
	}
	return ui.IsTerminal(e.stdin)
}

// accessible reports whether huh forms should use plain line prompts.
func (e *environment) accessible() bool {
	return e.opts.plain || !e.interactive()
}

// startDebugLog opens the debug log beside the settings file.
func (e *environment) startDebugLog() error {
	dir, err := e.userDir()
	if err != nil {
		return err
	}
	return debug.InitAt(filepath.Join(dir, debug.LogFileName))
}

func (e *environment) width() int {
	return ui.DefaultWidth
}

// serviceConfig carries per-command choices into newService.
type serviceConfig struct {
	backendOverride string
	java            string
	progress        update.ProgressFunc
}

// newService wires the store, runner, update flow and history. The returned
// cleanup closes the history database.
func (e *environment) newService(ctx context.Context, cfg serviceConfig) (*app.Service, func(), error) {
	store, err := e.settingsStore()
	if err != nil {
		return nil, nil, err
	}

	checkerOpts := []update.CheckerOption{}
	if e.opts.apiURL != "" {
		checkerOpts = append(checkerOpts, update.WithAPIBaseURL(e.opts.apiURL))
	}
	flowOpts := []update.FlowOption{}
	if e.opts.installDir != "" {
		flowOpts = append(flowOpts, update.WithInstallDir(e.opts.installDir))
	}
	if cfg.progress != nil {
		flowOpts = append(flowOpts, update.WithProgress(cfg.progress))
	}
	flow := update.NewFlow(store,
		update.NewChecker(update.DefaultRepoOwner, update.DefaultRepoName, checkerOpts...),
		update.NewUpdater(),
		flowOpts...,
	)

	var stdin io.Reader
	if e.stdin != nil {
		stdin = e.stdin
	}
	runner := backend.NewRunner(backend.WithStdio(stdin, e.stdout, e.stderr))

	svcOpts := []app.ServiceOption{
		app.WithBackendOverride(cfg.backendOverride),
		app.WithJava(cfg.java),
	}
	cleanup := func() {}
	if hist := e.openHistory(ctx); hist != nil {
		svcOpts = append(svcOpts, app.WithRecorder(hist))
		cleanup = func() { _ = hist.Close() }
	}

	return app.NewService(store, runner, flow, svcOpts...), cleanup, nil
}
