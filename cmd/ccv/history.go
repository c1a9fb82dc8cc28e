package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/ccview/internal/history"
)

// errHistoryDisabled is returned by history commands when history.enabled is false.
var errHistoryDisabled = errors.New("history is disabled (history.enabled: false)")

func newHistoryCommand(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past analyses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withHistory(func(h *history.Store) error {
				return listHistory(cmd.Context(), cmd.OutOrStdout(), h, limit)
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show (0 for all)")

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Print the summaries of a past analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withHistory(func(h *history.Store) error {
				entry, err := h.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printSet(cmd.OutOrStdout(), entry.Set())
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "open <id>",
		Short: "Open a past analysis in the TUI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var entry history.Entry
			err := a.withHistory(func(h *history.Store) error {
				var err error
				entry, err = h.Get(cmd.Context(), args[0])
				return err
			})
			if err != nil {
				return err
			}
			set := entry.Set()
			return a.runTUI(cmd.Context(), &set)
		},
	})

	var keep int
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withHistory(func(h *history.Store) error {
				n, err := h.Prune(cmd.Context(), keep)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entr%s\n", n, plural(n, "y", "ies"))
				return nil
			})
		},
	}
	prune.Flags().IntVar(&keep, "keep", 50, "number of newest entries to keep")
	cmd.AddCommand(prune)

	return cmd
}

// withHistory opens the history store for the duration of fn.
func (a *app) withHistory(fn func(*history.Store) error) error {
	h, err := a.openHistory()
	if err != nil {
		return err
	}
	if h == nil {
		return errHistoryDisabled
	}
	defer h.Close()
	return fn(h)
}

func listHistory(ctx context.Context, w io.Writer, h *history.Store, limit int) error {
	entries, err := h.List(ctx, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "No analyses recorded yet.")
		return nil
	}
	fmt.Fprintf(w, "%-8s  %-19s  %-4s  %7s  %s\n", "ID", "CREATED", "KIND", "RESULTS", "SOURCE")
	for _, e := range entries {
		id := e.ID
		if len(id) > 8 {
			id = id[:8]
		}
		fmt.Fprintf(w, "%-8s  %-19s  %-4s  %7d  %s\n",
			id, e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Kind, e.ResultCount, e.Source)
	}
	return nil
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
