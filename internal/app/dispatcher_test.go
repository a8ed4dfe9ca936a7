package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "fastreer-gui/internal/errors"
)

func TestDispatcherRunsTask(t *testing.T) {
	d := NewDispatcher()
	var ran atomic.Bool

	err := d.Run(context.Background(), "job", func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran.Load())
	assert.Nil(t, d.Active())
}

func TestDispatcherRejectsSecondTask(t *testing.T) {
	d := NewDispatcher()
	release := make(chan struct{})

	first, err := d.Submit(context.Background(), "job", func(ctx context.Context) error {
		<-release
		return nil
	})
	require.NoError(t, err)

	_, err = d.Submit(context.Background(), "update", func(ctx context.Context) error { return nil })
	assert.True(t, appErrors.IsCode(err, appErrors.CodeBusy), "got %v", err)
	assert.Contains(t, err.Error(), "job is still running")

	close(release)
	require.NoError(t, first.Wait())

	second, err := d.Submit(context.Background(), "update", func(ctx context.Context) error { return nil })
	require.NoError(t, err)
	require.NoError(t, second.Wait())
}

func TestDispatcherCancel(t *testing.T) {
	d := NewDispatcher()
	task, err := d.Submit(context.Background(), "download", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	require.NoError(t, err)

	task.Cancel()
	select {
	case <-task.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("task did not stop after Cancel")
	}
	assert.ErrorIs(t, task.Wait(), context.Canceled)
}

func TestDispatcherParentContextCancels(t *testing.T) {
	d := NewDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	task, err := d.Submit(ctx, "job", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	require.NoError(t, err)
	cancel()
	assert.ErrorIs(t, task.Wait(), context.Canceled)
}

func TestDispatcherRecoversPanic(t *testing.T) {
	d := NewDispatcher()
	err := d.Run(context.Background(), "job", func(ctx context.Context) error {
		panic("boom")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Nil(t, d.Active())
}

func TestDispatcherPropagatesError(t *testing.T) {
	want := errors.New("failed")
	err := NewDispatcher().Run(context.Background(), "job", func(ctx context.Context) error { return want })
	assert.ErrorIs(t, err, want)
}

func TestReporter(t *testing.T) {
	var changes atomic.Int32
	r := NewReporter(func() { changes.Add(1) })
	assert.Equal(t, "Ready", r.Status())

	r.SetStatus("Downloading")
	r.SetProgress(1.5, "10 B / 10 B")
	frac, info := r.Progress()
	assert.Equal(t, "Downloading", r.Status())
	assert.Equal(t, 1.0, frac)
	assert.Equal(t, "10 B / 10 B", info)

	r.SetProgress(-1, "")
	frac, _ = r.Progress()
	assert.Zero(t, frac)

	r.Reset()
	assert.Equal(t, "Ready", r.Status())
	assert.Equal(t, int32(4), changes.Load())
}
