package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"layerpage/internal/history"
	"layerpage/internal/services"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded builds",
	}

	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))
	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent builds",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			store, err := ctx.history()
			if err != nil {
				return err
			}
			builds, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if asJSON {
				if builds == nil {
					builds = []*history.Build{}
				}
				return writeJSON(cmd, builds)
			}

			out := cmd.OutOrStdout()
			if len(builds) == 0 {
				fmt.Fprintln(out, "No builds recorded")
				return nil
			}
			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(builds))
			for _, b := range builds {
				rows = append(rows, []string{
					shortRunID(b.RunID),
					b.StartedAt.Local().Format("2006-01-02 15:04:05"),
					string(b.Outcome),
					b.SourcePath,
					strconv.Itoa(b.LayerCount),
					strconv.Itoa(b.AssetCount),
					formatDuration(b.Duration()),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Started", "Outcome", "Source", "Layers", "Assets", "Duration"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
				formatStats(stats),
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum builds to show (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output builds as JSON")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one build and the assets it wrote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			store, err := ctx.history()
			if err != nil {
				return err
			}
			b, err := store.FindByPrefix(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if b == nil {
				return fmt.Errorf("no build matches run id %q", args[0])
			}
			assets, err := store.Assets(cmd.Context(), b.RunID)
			if err != nil {
				return err
			}

			if asJSON {
				if assets == nil {
					assets = []history.Asset{}
				}
				return writeJSON(cmd, struct {
					*history.Build
					Assets []history.Asset `json:"assets"`
				}{b, assets})
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Build "+b.RunID, colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderStatusLine("Outcome", outcomeKind(b.Outcome), string(b.Outcome), colorize))
			if b.ErrorMessage != "" {
				fmt.Fprintln(out, renderStatusLine("Error", statusError, b.ErrorMessage, colorize))
			}
			fields := []struct{ label, value string }{
				{"Source", b.SourcePath},
				{"Output", b.OutputDir},
				{"Page", b.PagePath},
				{"Snapshot", b.SnapshotPath},
				{"Canvas", fmt.Sprintf("%dx%d", b.Width, b.Height)},
				{"Background", b.Background},
				{"Layers", strconv.Itoa(b.LayerCount)},
				{"Started", b.StartedAt.Local().Format(time.RFC3339)},
				{"Duration", formatDuration(b.Duration())},
			}
			for _, f := range fields {
				if f.value == "" {
					continue
				}
				fmt.Fprintln(out, renderStatusLine(f.label, statusInfo, f.value, colorize))
			}
			if len(assets) == 0 {
				return nil
			}
			rows := make([][]string, 0, len(assets))
			for _, a := range assets {
				rows = append(rows, []string{a.Path, a.Layer, a.Fingerprint})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Asset", "Layer", "Fingerprint"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
				"",
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the build as JSON")
	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all recorded builds",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			store, err := ctx.history()
			if err != nil {
				return err
			}
			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d builds from history\n", removed)
			return nil
		},
	}
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "-"
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	default:
		return d.Round(100 * time.Millisecond).String()
	}
}

func formatStats(stats map[services.Outcome]int) string {
	order := []services.Outcome{services.OutcomeSucceeded, services.OutcomeSkipped, services.OutcomeFailed}
	parts := make([]string, 0, len(order))
	for _, outcome := range order {
		parts = append(parts, fmt.Sprintf("%s %d", outcome, stats[outcome]))
	}
	return strings.Join(parts, " · ")
}
