// Package app orchestrates the job and update workflows for the front-end.
package app

import (
	"context"
	"fmt"
	"sync"

	"fastreer-gui/internal/debug"
	appErrors "fastreer-gui/internal/errors"
)

// Task is a workflow running on its own goroutine.
type Task struct {
	Name string

	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Done is closed when the task has finished.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes and returns its error.
func (t *Task) Wait() error {
	<-t.done
	return t.err
}

// Cancel asks the task to stop. Blocking calls inside the task observe the
// cancellation through their context.
func (t *Task) Cancel() {
	t.cancel()
}

// Dispatcher runs at most one workflow at a time so the caller's goroutine
// (usually the one driving the terminal) never blocks on a subprocess or a
// download.
type Dispatcher struct {
	mu     sync.Mutex
	active *Task
}

// NewDispatcher creates an idle dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Submit starts fn in the background. It fails with CodeBusy while another
// task is still running.
func (d *Dispatcher) Submit(ctx context.Context, name string, fn func(ctx context.Context) error) (*Task, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.active != nil {
		return nil, appErrors.New(appErrors.CodeBusy, fmt.Sprintf("%s is still running", d.active.Name), nil)
	}

	taskCtx, cancel := context.WithCancel(ctx)
	task := &Task{Name: name, cancel: cancel, done: make(chan struct{})}
	d.active = task
	debug.Logf("task %s started", name)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				task.err = fmt.Errorf("%s panicked: %v", name, r)
			}
			cancel()
			d.mu.Lock()
			d.active = nil
			d.mu.Unlock()
			debug.Logf("task %s finished: %v", name, task.err)
			close(task.done)
		}()
		task.err = fn(taskCtx)
	}()

	return task, nil
}

// Active returns the running task, or nil.
func (d *Dispatcher) Active() *Task {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// Run submits fn and waits for it, cancelling the task if ctx is done first.
func (d *Dispatcher) Run(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	task, err := d.Submit(ctx, name, fn)
	if err != nil {
		return err
	}
	return task.Wait()
}
