package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"fastreer-gui/internal/app"
	"fastreer-gui/internal/debug"
	"fastreer-gui/internal/ui"
)

func newRootCmd(env *environment) *cobra.Command {
	root := &cobra.Command{
		Use:   "fastreer-gui",
		Short: "Front-end for the FastreeR phylogenetics tool",
		Long: `fastreer-gui runs the FastreeR backend on a set of input files and keeps
itself up to date from GitHub releases.

Without a subcommand an interactive form asks for the mode, the input files
and the output file.

Examples:
  # Compute a distance matrix from two VCF files
  fastreer-gui run VCF2DIST -i a.vcf -i b.vcf -o dist.tsv

  # Point at the backend bundle once
  fastreer-gui settings set-backend ~/tools/fastreeR.jar

  # Check for a new release
  fastreer-gui update`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !env.opts.debug {
				return nil
			}
			if err := env.startDebugLog(); err != nil {
				_, _ = fmt.Fprintf(env.stderr, "Warning: debug log unavailable: %v\n", err)
				return nil
			}
			_, _ = fmt.Fprintf(env.stderr, "Debug logging enabled: %s\n", debug.Path())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !env.interactive() {
				return cmd.Help()
			}
			return runInteractive(cmd.Context(), env)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	flags := root.PersistentFlags()
	flags.BoolVar(&env.opts.debug, "debug", false, "Write debug.log to the config directory")
	flags.BoolVar(&env.opts.plain, "plain", false, "Use a single-line spinner and line-by-line prompts")
	flags.StringVar(&env.opts.configDir, "config-dir", "", "Directory holding settings, history and the debug log (default ~/.fastreer-gui)")
	flags.StringVar(&env.opts.notesStyle, "notes-style", "dark", "Release notes style (dark, light, notty, plain)")
	flags.StringVar(&env.opts.apiURL, "api-url", "", "GitHub API base URL")
	flags.StringVar(&env.opts.installDir, "install-dir", "", "Directory receiving downloaded updates")
	_ = flags.MarkHidden("api-url")
	_ = flags.MarkHidden("install-dir")

	root.AddCommand(
		newRunCmd(env),
		newUpdateCmd(env),
		newSettingsCmd(env),
		newHistoryCmd(env),
		newVersionCmd(env),
	)
	return root
}

// runInteractive asks for a job through the form and runs it.
func runInteractive(ctx context.Context, env *environment) error {
	job, err := ui.RunJobForm(ctx, ui.JobFormValues{}, env.accessible())
	if err != nil {
		return err
	}
	return executeJob(ctx, env, job, runOptions{})
}

// exitCodeFor maps a command error to the process exit status. A failed
// backend run exits with the backend's own code.
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if code, ok := backendExitCode(err); ok && code > 0 {
		return code
	}
	return 1
}

func reportError(env *environment, err error) {
	_, _ = fmt.Fprintln(env.stderr, ui.Failure(app.Describe(err), env.width()))
}
