package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fastreer-gui/internal/backend"
	"fastreer-gui/internal/config"
	"fastreer-gui/internal/debug"
	appErrors "fastreer-gui/internal/errors"
	"fastreer-gui/internal/history"
	"fastreer-gui/internal/update"
)

// JobRunner executes a backend argument vector.
type JobRunner interface {
	Run(ctx context.Context, args []string) (int, error)
}

// UpdateFlow runs the self-update workflow.
type UpdateFlow interface {
	Run(ctx context.Context, confirmer update.Confirmer) (update.Result, error)
}

// Recorder stores finished runs.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) (int64, error)
}

// JobResult is what the front-end shows after a backend run.
type JobResult struct {
	Job      backend.Job
	Args     []string
	ExitCode int
	Message  string
}

// Service composes the settings store, backend runner, update flow and
// history into the operations the front-end invokes.
type Service struct {
	store    update.SettingsStore
	runner   JobRunner
	flow     UpdateFlow
	recorder Recorder
	reporter *Reporter
	now      func() time.Time

	backendOverride string
	java            string
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithRecorder stores every run in r.
func WithRecorder(r Recorder) ServiceOption {
	return func(s *Service) {
		s.recorder = r
	}
}

// WithReporter publishes status to r.
func WithReporter(r *Reporter) ServiceOption {
	return func(s *Service) {
		s.reporter = r
	}
}

// WithBackendOverride uses path instead of the configured backend for this
// process only.
func WithBackendOverride(path string) ServiceOption {
	return func(s *Service) {
		s.backendOverride = path
	}
}

// WithJava sets the launcher for .jar backends.
func WithJava(java string) ServiceOption {
	return func(s *Service) {
		s.java = java
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService wires the collaborators.
func NewService(store update.SettingsStore, runner JobRunner, flow UpdateFlow, opts ...ServiceOption) *Service {
	s := &Service{
		store:  store,
		runner: runner,
		flow:   flow,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.reporter == nil {
		s.reporter = NewReporter(nil)
	}
	return s
}

// Reporter returns the status sink used by this service.
func (s *Service) Reporter() *Reporter {
	return s.reporter
}

// RunJob validates job, runs the backend and records the outcome. The
// returned JobResult carries the user message even when err is non-nil.
func (s *Service) RunJob(ctx context.Context, job backend.Job) (JobResult, error) {
	result := JobResult{Job: job, ExitCode: -1}
	if err := job.Validate(); err != nil {
		result.Message = Describe(err)
		return result, err
	}
	job = absoluteJob(job)
	result.Job = job

	tool, err := s.resolveTool()
	if err != nil {
		result.Message = Describe(err)
		return result, err
	}

	args := backend.BuildArgs(job, tool)
	result.Args = args
	started := s.now()
	s.reporter.SetStatus(fmt.Sprintf("Running %s on %d input(s)...", job.Mode, len(job.Inputs)))

	code, runErr := s.runner.Run(ctx, args)
	result.ExitCode = code
	if runErr != nil {
		result.Message = Describe(runErr)
	} else {
		result.Message = "FastreeR finished successfully!"
	}
	s.reporter.SetStatus(result.Message)

	outcome := "ok"
	switch {
	case appErrors.IsCode(runErr, appErrors.CodeCanceled):
		outcome = "canceled"
	case runErr != nil:
		outcome = "failed"
	}
	s.record(ctx, history.Entry{
		Kind:       history.KindJob,
		Mode:       string(job.Mode),
		Inputs:     job.Inputs,
		Output:     job.Output,
		Command:    backend.DisplayString(args),
		ExitCode:   code,
		Outcome:    outcome,
		Message:    result.Message,
		StartedAt:  started,
		FinishedAt: s.now(),
	})
	return result, runErr
}

func (s *Service) resolveTool() (backend.Tool, error) {
	path := s.backendOverride
	if path == "" {
		settings, err := s.store.Load()
		if err != nil {
			debug.Logf("settings unavailable, continuing with defaults: %v", err)
		}
		path = settings.BackendToolPath
	}
	if path == "" {
		return backend.Tool{}, appErrors.New(appErrors.CodeBackendNotFound,
			"no backend tool configured (use `fastreer-gui settings set-backend PATH` or --backend)", nil)
	}
	if _, err := os.Stat(path); err != nil {
		return backend.Tool{}, appErrors.New(appErrors.CodeBackendNotFound, fmt.Sprintf("backend tool %s not found", path), err)
	}
	return backend.Tool{Path: path, Java: s.java}, nil
}

// CheckForUpdate runs the update workflow once and records the outcome.
func (s *Service) CheckForUpdate(ctx context.Context, confirmer update.Confirmer) (update.Result, error) {
	started := s.now()
	s.reporter.SetStatus("Checking for updates...")

	res, err := s.flow.Run(ctx, confirmer)

	var msg, outcome string
	if err != nil {
		msg = Describe(err)
		outcome = "failed"
		if appErrors.IsCode(err, appErrors.CodeCanceled) {
			outcome = "canceled"
		}
	} else {
		msg = res.Message()
		outcome = res.Status.String()
	}
	s.reporter.SetStatus(msg)
	s.record(ctx, history.Entry{
		Kind:       history.KindUpdate,
		Outcome:    outcome,
		Message:    msg,
		StartedAt:  started,
		FinishedAt: s.now(),
	})
	return res, err
}

// SetBackendPath stores path (made absolute) as the backend tool and
// returns the confirmation message.
func (s *Service) SetBackendPath(path string) (string, error) {
	if path == "" {
		return "", appErrors.New(appErrors.CodeInvalidJob, "backend path is empty", nil)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", appErrors.New(appErrors.CodeInvalidJob, "resolve backend path", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", appErrors.New(appErrors.CodeBackendNotFound, fmt.Sprintf("backend tool %s not found", abs), err)
	}
	if info.IsDir() {
		return "", appErrors.New(appErrors.CodeBackendNotFound, fmt.Sprintf("%s is a directory", abs), nil)
	}

	settings, loadErr := s.store.Load()
	if loadErr != nil {
		debug.Logf("settings unavailable, saving over defaults: %v", loadErr)
		settings = config.Defaults()
	}
	settings.BackendToolPath = abs
	if err := s.store.Save(settings); err != nil {
		return "", err
	}
	return "Backend tool set to:\n" + abs, nil
}

func (s *Service) record(ctx context.Context, e history.Entry) {
	if s.recorder == nil {
		return
	}
	// Canceled runs are still recorded.
	if _, err := s.recorder.Record(context.WithoutCancel(ctx), e); err != nil {
		debug.Logf("record history: %v", err)
	}
}

func absoluteJob(job backend.Job) backend.Job {
	inputs := make([]string, len(job.Inputs))
	for i, in := range job.Inputs {
		inputs[i] = absPath(in)
	}
	return backend.NewJob(job.Mode, inputs, absPath(job.Output))
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
