package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/metcalfc/booksum/internal/state"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show previous summarization runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := state.NewHistoryStore(cfg.State.Dir)
			if err != nil {
				return err
			}

			runs := store.List()
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet")
				return nil
			}
			if limit > 0 && len(runs) > limit {
				runs = runs[:limit]
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				detail := run.SummaryPath
				if run.Status != state.StatusDone {
					detail = run.Error
				}
				rows = append(rows, []string{
					run.FinishedAt.Local().Format("2006-01-02 15:04"),
					run.Title,
					run.Mode,
					string(run.Status),
					strconv.Itoa(run.Chapters),
					detail,
				})
			}
			fmt.Fprintln(out, renderTable([]column{
				{header: "Finished"},
				{header: "Title", max: 40},
				{header: "Mode"},
				{header: "Status"},
				{header: "Chapters", align: alignRight},
				{header: "Summary / Reason", max: 60},
			}, rows))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Show at most this many runs (0 for all)")
	cmd.AddCommand(newHistoryClearCommand(ctx))
	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <epub>",
		Short: "Forget every recorded run of a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := state.NewHistoryStore(cfg.State.Dir)
			if err != nil {
				return err
			}
			hash, err := state.ComputeHash(args[0])
			if err != nil {
				return fmt.Errorf("identify %s: %w", args[0], err)
			}
			if err := store.Clear(hash); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared history for %s\n", args[0])
			return nil
		},
	}
}
