package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"layerpage/internal/assets"
	"layerpage/internal/build"
	"layerpage/internal/flatten"
	"layerpage/internal/layout"
	"layerpage/internal/psddoc"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show the flattened layout of a document without writing files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			source := args[0]
			doc, err := psddoc.Open(cmd.Context(), source)
			if err != nil {
				return err
			}
			opts := build.OptionsFromConfig(cfg)
			flattener := flatten.New(assets.Discard{}, logger, flatten.Options{
				ImagesDir:    opts.Images,
				AssetWorkers: opts.AssetWorkers,
			})
			result, err := flattener.Flatten(cmd.Context(), filepath.Base(source), doc)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, result.Model)
			}
			printModel(cmd.OutOrStdout(), result.Model)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the layout model as JSON")
	return cmd
}

func printModel(out io.Writer, model *layout.Model) {
	colorize := shouldColorize(out)
	for _, line := range renderSectionHeader(fmt.Sprintf("%s (%dx%d)", model.Name, model.Width, model.Height), colorize) {
		fmt.Fprintln(out, line)
	}

	if bg := model.Background; bg != nil {
		value := bg.Color
		if value == "" {
			value = bg.Image
		}
		fmt.Fprintln(out, renderStatusLine("Background", statusInfo, fmt.Sprintf("%s (%s)", value, bg.Name), colorize))
	} else {
		fmt.Fprintln(out, renderStatusLine("Background", statusInfo, "none", colorize))
	}

	if len(model.Layers) == 0 {
		fmt.Fprintln(out, renderStatusLine("Layers", statusWarn, "no visible layers", colorize))
		return
	}

	rows := make([][]string, 0, len(model.Layers))
	for i, layer := range model.Layers {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			layer.Name,
			layerKind(layer),
			fmt.Sprintf("%d,%d", layer.Left, layer.Top),
			fmt.Sprintf("%dx%d", layer.Width, layer.Height),
			strconv.FormatFloat(layer.Opacity, 'f', 2, 64),
			layerContent(layer),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"#", "Name", "Kind", "Position", "Size", "Opacity", "Content"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
		"",
	))
}

func layerKind(layer layout.LayerEntry) string {
	if layer.Text != nil {
		return "text"
	}
	return "image"
}

func layerContent(layer layout.LayerEntry) string {
	if layer.Text == nil {
		return layer.Image
	}
	value := strings.ReplaceAll(layer.Text.Value, "\n", " ")
	if len([]rune(value)) > 32 {
		value = string([]rune(value)[:31]) + "…"
	}
	parts := []string{strconv.Quote(value)}
	if layer.FontName != "" {
		parts = append(parts, layer.FontName)
	}
	if layer.FontSize > 0 {
		parts = append(parts, strconv.FormatFloat(layer.FontSize, 'f', -1, 64)+"px")
	}
	if layer.Rotate != 0 {
		parts = append(parts, fmt.Sprintf("rotate %d", layer.Rotate))
	}
	return strings.Join(parts, " ")
}
