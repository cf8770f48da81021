package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const ansiReset = "\x1b[0m"

var statusStyles = map[statusKind]struct{ label, color string }{
	statusInfo:  {"INFO", "\x1b[34m"},
	statusOK:    {"OK", "\x1b[32m"},
	statusWarn:  {"WARN", "\x1b[33m"},
	statusError: {"ERROR", "\x1b[31m"},
}

const (
	statusLabelWidth = 24
	statusIndent     = "  "
)

// renderStatusLine formats "label: [KIND] message" with a padded label.
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	style := statusStyles[kind]
	line := fmt.Sprintf("%s%-*s [%s]", statusIndent, statusLabelWidth, label+":", style.label)
	if message != "" {
		line += " " + message
	}
	if colorize && style.color != "" {
		line = style.color + line + ansiReset
	}
	return line
}

// renderSectionHeader returns a title and a matching underline.
func renderSectionHeader(title string, colorize bool) []string {
	title = strings.TrimSpace(title)
	lines := []string{title, strings.Repeat("─", len([]rune(title)))}
	if colorize {
		color := statusStyles[statusInfo].color
		for i := range lines {
			lines[i] = color + lines[i] + ansiReset
		}
	}
	return lines
}

func shouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}
