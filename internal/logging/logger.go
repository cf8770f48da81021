package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"layerpage/internal/config"
)

// LogFileName is the file NewFromConfig appends to under the log directory.
const LogFileName = "layerpage.log"

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
	// OutputPaths accepts "stdout", "stderr", or file paths. Empty with no
	// Writers means stderr.
	OutputPaths []string
	// Writers are extra sinks, such as a command's stderr.
	Writers     []io.Writer
	Development bool
}

// New constructs a slog logger using the provided options.
func New(opts Options) (*slog.Logger, error) {
	level := parseLevel(opts.Level)

	paths := opts.OutputPaths
	if len(paths) == 0 && len(opts.Writers) == 0 {
		paths = []string{"stderr"}
	}
	out, err := openSinks(paths, opts.Writers)
	if err != nil {
		return nil, err
	}

	addSource := opts.Development || level <= slog.LevelDebug

	switch format := strings.ToLower(strings.TrimSpace(opts.Format)); format {
	case "", "console":
		return slog.New(newConsoleHandler(out, level, addSource)), nil
	case "json":
		return slog.New(newJSONHandler(out, level, addSource)), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
}

// NewFromConfig creates a logger using application config defaults. Output
// goes to stderr, or to console when set, plus LogFileName under the
// configured log directory.
func NewFromConfig(cfg *config.Config, console ...io.Writer) (*slog.Logger, error) {
	opts := Options{Level: "info", Format: "console", Writers: console}
	if len(console) == 0 {
		opts.OutputPaths = []string{"stderr"}
	}
	if cfg == nil {
		return New(opts)
	}

	opts.Level = cfg.Logging.Level
	opts.Format = cfg.Logging.Format
	if dir := cfg.Logging.Dir; dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure log directory: %w", err)
		}
		opts.OutputPaths = append(opts.OutputPaths, filepath.Join(dir, LogFileName))
	}
	return New(opts)
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

func parseLevel(level string) slog.Level {
	if l, ok := levels[strings.ToLower(strings.TrimSpace(level))]; ok {
		return l
	}
	return slog.LevelInfo
}

func openSinks(paths []string, extra []io.Writer) (io.Writer, error) {
	var sinks []io.Writer
	for _, w := range extra {
		if w != nil {
			sinks = append(sinks, w)
		}
	}

	seen := make(map[string]bool, len(paths))
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" || seen[path] {
			continue
		}
		seen[path] = true

		switch path {
		case "stdout":
			sinks = append(sinks, os.Stdout)
		case "stderr":
			sinks = append(sinks, os.Stderr)
		default:
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, fmt.Errorf("create log directory for %s: %w", path, err)
			}
			file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
			if err != nil {
				return nil, fmt.Errorf("open log file %s: %w", path, err)
			}
			sinks = append(sinks, file)
		}
	}

	switch len(sinks) {
	case 0:
		return io.Discard, nil
	case 1:
		return sinks[0], nil
	default:
		return io.MultiWriter(sinks...), nil
	}
}

// newJSONHandler renames the standard keys to ts/level/msg and shortens
// source locations to file:line.
func newJSONHandler(w io.Writer, level slog.Level, addSource bool) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			switch a.Key {
			case slog.TimeKey:
				return slog.String("ts", a.Value.Time().UTC().Format(time.RFC3339))
			case slog.LevelKey:
				return slog.String("level", strings.ToLower(a.Value.String()))
			case slog.MessageKey:
				return slog.String("msg", a.Value.String())
			case slog.SourceKey:
				if src, ok := a.Value.Any().(*slog.Source); ok && src != nil {
					return slog.String("source", fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
				}
			}
			return a
		},
	})
}
