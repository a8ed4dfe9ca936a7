package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"fastreer-gui/internal/debug"
	"fastreer-gui/internal/ui"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the command line and returns the process exit status.
// SIGINT and SIGTERM cancel the running workflow.
func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer debug.Close()

	ui.InitColor()

	env := newEnvironment()
	root := newRootCmd(env)
	root.Version = Version
	root.SetArgs(args)
	root.SetOut(env.stdout)
	root.SetErr(env.stderr)

	err := root.ExecuteContext(ctx)
	if err != nil {
		debug.Logf("command failed: %v", err)
		reportError(env, err)
	}
	return exitCodeFor(err)
}
