package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"fastreer-gui/internal/ui"
	"fastreer-gui/internal/update"
)

func newUpdateCmd(env *environment) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Check GitHub for a newer release and install it",
		Long: `Fetch the latest release, compare it with the recorded version and, after
confirmation, download it next to this executable. The recorded version is
only changed once the download is complete.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd.Context(), env, yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Install without asking")
	return cmd
}

func runUpdate(ctx context.Context, env *environment, yes bool) error {
	progress := &lazyDisplay{
		create: func() ui.Display {
			f, ok := env.stderr.(*os.File)
			if !ok {
				return ui.NewLineSpinner(nil)
			}
			return ui.NewDisplay(f, "Downloading update", env.opts.plain)
		},
	}
	defer progress.Stop()

	svc, cleanup, err := env.newService(ctx, serviceConfig{progress: progress.Progress})
	if err != nil {
		return err
	}
	defer cleanup()

	confirmer := newUpdateConfirmer(env, yes)

	_, _ = fmt.Fprintln(env.stderr, ui.Dim("Checking for updates..."))
	var result update.Result
	err = env.dispatcher.Run(ctx, "update", func(ctx context.Context) error {
		var runErr error
		result, runErr = svc.CheckForUpdate(ctx, confirmer)
		return runErr
	})
	progress.Stop()

	if err != nil {
		if result.Path != "" {
			_, _ = fmt.Fprintf(env.stderr, "Downloaded %s but the new version was not recorded.\n", result.Path)
		}
		return err
	}

	if result.Status == update.StatusInstalled {
		_, _ = fmt.Fprintln(env.stdout, ui.Success(result.Message(), env.width()))
		_, _ = fmt.Fprintln(env.stdout, ui.Dim("Saved to "+result.Path))
		return nil
	}
	_, _ = fmt.Fprintln(env.stdout, ui.Wrap(result.Message(), env.width()))
	return nil
}

func newUpdateConfirmer(env *environment, yes bool) ui.UpdateConfirmer {
	return ui.UpdateConfirmer{
		Out:        env.stdout,
		Width:      env.width(),
		NotesStyle: env.opts.notesStyle,
		Accessible: env.accessible(),
		AssumeYes:  yes,
	}
}

// lazyDisplay starts its display on the first progress report, after any
// confirmation prompt has released the terminal.
type lazyDisplay struct {
	create func() ui.Display

	mu      sync.Mutex
	display ui.Display
	stopped bool
}

func (l *lazyDisplay) Progress(written, total int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return
	}
	if l.display == nil {
		l.display = l.create()
	}
	l.display.Progress(written, total)
}

func (l *lazyDisplay) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopped = true
	if l.display != nil {
		l.display.Stop()
		l.display = nil
	}
}
