package main

import (
	"fmt"

	"github.com/spf13/cobra"

	appErrors "fastreer-gui/internal/errors"
	"fastreer-gui/internal/ui"
)

func newHistoryCmd(env *environment) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent backend runs and update checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := env.openHistory(cmd.Context())
			if store == nil {
				return appErrors.New(appErrors.CodeHistory, "history database could not be opened", nil)
			}
			defer func() { _ = store.Close() }()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(env.stdout, ui.RenderHistory(entries, 0))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show")
	return cmd
}
