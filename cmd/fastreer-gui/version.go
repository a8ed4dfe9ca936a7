package main

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version information - injected at build time via ldflags
var (
	Version   = "dev"
	Build     = "unknown"
	BuildTime = ""
)

func newVersionCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printVersion(env.stdout)
			if store, err := env.settingsStore(); err == nil {
				if settings, err := store.Load(); err == nil {
					_, _ = fmt.Fprintf(env.stdout, "Installed release: %s\n", settings.ApplicationVersion)
				}
			}
			return nil
		},
	}
}

// printVersion prints the version information
func printVersion(w io.Writer) {
	_, _ = fmt.Fprintf(w, "fastreer-gui version %s", Version)

	if Build != "unknown" && Build != "" {
		_, _ = fmt.Fprintf(w, " (build: %s)", Build)
	}

	if BuildTime != "" {
		_, _ = fmt.Fprintf(w, " [%s]", BuildTime)
	}

	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintf(w, "Go version: %s\n", runtime.Version())
	_, _ = fmt.Fprintf(w, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)

	// Try to get build info for development builds
	if Version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, setting := range info.Settings {
				if setting.Key == "vcs.revision" && len(setting.Value) > 7 {
					_, _ = fmt.Fprintf(w, "Commit: %s\n", setting.Value[:7])
					break
				}
			}
		}
	}
}
