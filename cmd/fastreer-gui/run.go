package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"fastreer-gui/internal/backend"
	"fastreer-gui/internal/ui"
)

type runOptions struct {
	inputs      []string
	output      string
	backendPath string
	java        string
	copyCommand bool
}

var copyToClipboard = clipboard.WriteAll

func newRunCmd(env *environment) *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run MODE -i INPUT... -o OUTPUT",
		Short: "Run FastreeR in one of VCF2DIST, FASTA2DIST or DIST2TREE mode",
		Long: `Run the FastreeR backend once. Inputs are passed in the given order, each
as its own argument, so paths containing spaces need no extra quoting.

The backend is the path stored with "settings set-backend" unless --backend
is given. A .jar backend is started with "java -jar".

Examples:
  fastreer-gui run VCF2DIST -i "my samples/a.vcf" -i b.vcf -o dist.tsv
  fastreer-gui run DIST2TREE -i dist.tsv -o tree.nwk --backend ./fastreeR.jar`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: modeNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := backend.ParseMode(args[0])
			if err != nil {
				return err
			}
			return executeJob(cmd.Context(), env, backend.NewJob(mode, opts.inputs, opts.output), opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.inputs, "input", "i", nil, "Input file (repeat for several, order is kept)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file")
	cmd.Flags().StringVar(&opts.backendPath, "backend", "", "Backend executable or .jar for this run only")
	cmd.Flags().StringVar(&opts.java, "java", backend.DefaultJava, "Java launcher for .jar backends")
	cmd.Flags().BoolVar(&opts.copyCommand, "copy-command", false, "Copy the backend command line to the clipboard")
	return cmd
}

func modeNames() []string {
	modes := backend.Modes()
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = string(m)
	}
	return names
}

// executeJob runs job on the dispatcher and prints the outcome.
func executeJob(ctx context.Context, env *environment, job backend.Job, opts runOptions) error {
	svc, cleanup, err := env.newService(ctx, serviceConfig{
		backendOverride: opts.backendPath,
		java:            opts.java,
	})
	if err != nil {
		return err
	}
	defer cleanup()

	if len(job.Inputs) > 0 {
		_, _ = fmt.Fprintln(env.stderr, ui.Title(fmt.Sprintf("FastreeR %s: %d input(s)", job.Mode, len(job.Inputs))))
	}

	var result jobOutcome
	err = env.dispatcher.Run(ctx, "FastreeR "+string(job.Mode), func(ctx context.Context) error {
		res, err := svc.RunJob(ctx, job)
		result = jobOutcome{args: res.Args, message: res.Message}
		return err
	})

	if opts.copyCommand && len(result.args) > 0 {
		if cerr := copyToClipboard(backend.DisplayString(result.args)); cerr != nil {
			_, _ = fmt.Fprintf(env.stderr, "Warning: could not copy command: %v\n", cerr)
		} else {
			_, _ = fmt.Fprintln(env.stderr, ui.Dim("Command copied to clipboard."))
		}
	}

	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(env.stdout, ui.Success(result.message, env.width()))
	return nil
}

type jobOutcome struct {
	args    []string
	message string
}

func backendExitCode(err error) (int, bool) {
	var exitErr backend.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}
