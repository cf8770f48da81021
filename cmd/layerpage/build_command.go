package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"layerpage/internal/build"
	"layerpage/internal/history"
	"layerpage/internal/logging"
	"layerpage/internal/services"
)

type buildFlags struct {
	output   string
	images   string
	template string
	layer    bool
	name     bool
	workers  int
	json     bool
}

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var flags buildFlags

	cmd := &cobra.Command{
		Use:   "build <file>...",
		Short: "Build a static page from each layered document",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			opts := flags.apply(cmd, build.OptionsFromConfig(cfg))
			builder := build.New(logger, openHistoryForBuild(ctx, logger))

			results := make([]*build.Result, 0, len(args))
			failed := 0
			for _, source := range args {
				// Builds run to completion; an interrupt only stops the next one starting.
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				result, _ := builder.Build(cmd.Context(), source, opts)
				if result.Outcome == services.OutcomeFailed {
					failed++
				}
				results = append(results, result)
			}

			if flags.json {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				printBuildResults(cmd.OutOrStdout(), results)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d builds failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output directory (default: next to each input)")
	cmd.Flags().StringVar(&flags.images, "images", "", "Asset subdirectory under the output directory")
	cmd.Flags().StringVarP(&flags.template, "template", "t", "", "Page template file (default: built-in)")
	cmd.Flags().BoolVar(&flags.layer, "layer", false, "Also write the <name>.layer layout snapshot")
	cmd.Flags().BoolVar(&flags.name, "name", false, "Show layer names in the page")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "Maximum concurrent asset writes")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Output results as JSON")
	return cmd
}

// apply overrides config defaults with the flags set on this invocation.
func (f buildFlags) apply(cmd *cobra.Command, opts build.Options) build.Options {
	changed := cmd.Flags().Changed
	if changed("output") {
		opts.Output = strings.TrimSpace(f.output)
	}
	if changed("images") {
		opts.Images = strings.TrimSpace(f.images)
	}
	if changed("template") {
		opts.Template = strings.TrimSpace(f.template)
	}
	if changed("layer") {
		opts.Layer = f.layer
	}
	if changed("name") {
		opts.Name = f.name
	}
	if changed("workers") && f.workers > 0 {
		opts.AssetWorkers = f.workers
	}
	return opts
}

// openHistoryForBuild returns the history store or nil. A store that cannot
// be opened does not block builds.
func openHistoryForBuild(ctx *commandContext, logger *slog.Logger) *history.Store {
	store, err := ctx.history()
	if err == nil {
		return store
	}
	if !errors.Is(err, errHistoryDisabled) {
		logging.WarnWithContext(logger, "build history unavailable", "history_open",
			logging.Error(err),
			logging.String(logging.FieldImpact, "builds will not be recorded"),
			logging.String(logging.FieldErrorHint, "check history.path in the config"),
		)
	}
	return nil
}

func printBuildResults(out io.Writer, results []*build.Result) {
	colorize := shouldColorize(out)
	for _, result := range results {
		label := filepath.Base(result.Source)
		fmt.Fprintln(out, renderStatusLine(label, outcomeKind(result.Outcome), buildSummary(result), colorize))
		for _, d := range result.Warnings() {
			line := d.Message
			if d.Path != "" {
				line += ": " + d.Path
			}
			fmt.Fprintf(out, "%s%s  warning: %s\n", statusIndent, statusIndent, line)
		}
	}
}

func buildSummary(result *build.Result) string {
	switch result.Outcome {
	case services.OutcomeSucceeded:
		layers := 0
		if result.Model != nil {
			layers = len(result.Model.Layers)
		}
		return fmt.Sprintf("%s (%d layers, %d assets)", result.PagePath, layers, len(result.Assets))
	default:
		return result.Error
	}
}

func outcomeKind(outcome services.Outcome) statusKind {
	switch outcome {
	case services.OutcomeSucceeded:
		return statusOK
	case services.OutcomeSkipped:
		return statusWarn
	case services.OutcomeFailed:
		return statusError
	default:
		return statusInfo
	}
}
