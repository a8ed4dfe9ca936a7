package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fastreer-gui/internal/app"
	"fastreer-gui/internal/config"
	"fastreer-gui/internal/debug"
	"fastreer-gui/internal/ui"
)

func newSettingsCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the stored settings",
		Args:  cobra.NoArgs,
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the stored settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := env.settingsStore()
			if err != nil {
				return err
			}
			settings, err := store.Load()
			if err != nil {
				debug.Logf("settings load: %v", err)
				_, _ = fmt.Fprintln(env.stderr, ui.Failure(app.Describe(err), env.width()))
			}
			backendPath := settings.BackendToolPath
			if backendPath == "" {
				backendPath = "(not set)"
			}
			_, _ = fmt.Fprintln(env.stdout, ui.KeyValue(config.KeyBackendToolPath, backendPath))
			_, _ = fmt.Fprintln(env.stdout, ui.KeyValue(config.KeyApplicationVersion, settings.ApplicationVersion))
			_, _ = fmt.Fprintln(env.stdout, ui.Dim(store.Path()))
			return nil
		},
	}

	setBackend := &cobra.Command{
		Use:   "set-backend PATH",
		Short: "Store the FastreeR executable or .jar to run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := env.newService(cmd.Context(), serviceConfig{})
			if err != nil {
				return err
			}
			defer cleanup()
			msg, err := svc.SetBackendPath(args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(env.stdout, msg)
			return nil
		},
	}

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the settings file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := env.settingsStore()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(env.stdout, store.Path())
			return nil
		},
	}

	cmd.AddCommand(show, setBackend, path)
	return cmd
}
