package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var errNoHistory = errors.New("history is disabled (set [history] enabled = true)")

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect past runs",
	}
	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryPruneCommand(ctx))
	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg, err := ctx.ensureConfig(); err != nil {
				return err
			} else if !cfg.History.Enabled {
				return errNoHistory
			}
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, r := range runs {
				status := "ok"
				switch {
				case r.Aborted:
					status = "aborted"
				case r.Error != "":
					status = "error"
				}
				rows = append(rows, []string{
					shortID(r.ID),
					r.StartedAt.Local().Format(time.DateTime),
					yesNo(r.DryRun),
					strconv.Itoa(len(r.Platforms)),
					strconv.Itoa(r.Outcomes),
					strconv.Itoa(r.Writes),
					status,
				})
			}
			newPrinter(out).table(tableSpec{
				headers: []string{"Run", "Started", "Dry Run", "Platforms", "Outcomes", "Writes", "Status"},
				rows:    rows,
				right:   []int{3, 4, 5},
			})
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Number of runs to show (0 for all)")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the outcomes of one run (a unique id prefix is enough)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg, err := ctx.ensureConfig(); err != nil {
				return err
			} else if !cfg.History.Enabled {
				return errNoHistory
			}
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			run, outcomes, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			p := newPrinter(out)
			p.section("Run " + run.ID)
			p.status("Started", statusInfo, run.StartedAt.Local().Format(time.DateTime))
			p.status("Duration", statusInfo, run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String())
			p.status("ROM directory", statusInfo, run.RomsDir)
			p.status("Dry run", statusInfo, yesNo(run.DryRun))
			p.status("Platforms", statusInfo, strings.Join(run.Platforms, ", "))
			if run.Error != "" {
				p.status("Error", statusError, run.Error)
			}

			if len(outcomes) == 0 {
				return nil
			}
			rows := make([][]string, 0, len(outcomes))
			for _, o := range outcomes {
				var detail string
				if o.Path != "" {
					detail = relPath(run.RomsDir, o.Path)
				}
				if o.Detail != "" {
					if detail != "" {
						detail += "; "
					}
					detail += o.Detail
				}
				rows = append(rows, []string{o.Platform, o.Set, string(o.Kind), strconv.Itoa(len(o.Members)), detail})
			}
			p.table(tableSpec{
				headers: []string{"Platform", "Set", "Outcome", "Disks", "Detail"},
				rows:    rows,
				right:   []int{3},
			})
			return nil
		},
	}
}

func newHistoryPruneCommand(ctx *commandContext) *cobra.Command {
	var keep int
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the most recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg, err := ctx.ensureConfig(); err != nil {
				return err
			} else if !cfg.History.Enabled {
				return errNoHistory
			}
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Prune(cmd.Context(), keep)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d run(s)\n", removed)
			return nil
		},
	}
	cmd.Flags().IntVar(&keep, "keep", 50, "Number of most recent runs to keep")
	return cmd
}
