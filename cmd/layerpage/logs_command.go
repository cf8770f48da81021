package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"layerpage/internal/logging"
	"layerpage/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool
	var match string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the layerpage log file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(cfg.Logging.Dir) == "" {
				return errors.New("logging.dir is not set; logs only go to the terminal")
			}
			path := filepath.Join(cfg.Logging.Dir, logging.LogFileName)

			out := cmd.OutOrStdout()
			emit := func(line string) {
				if match == "" || strings.Contains(line, match) {
					fmt.Fprintln(out, line)
				}
			}

			recent, offset, err := logs.Last(path, lines)
			if err != nil {
				return err
			}
			for _, line := range recent {
				emit(line)
			}
			if !follow {
				if len(recent) == 0 {
					fmt.Fprintf(cmd.ErrOrStderr(), "No log entries in %s\n", path)
				}
				return nil
			}
			return logs.Follow(cmd.Context(), path, offset, 0, emit)
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of recent lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines until interrupted")
	cmd.Flags().StringVar(&match, "grep", "", "Only show lines containing this text")
	return cmd
}
