package main

import (
	"bytes"
	"strings"
	"testing"

	"layerpage/internal/services"
)

func TestRenderStatusLine(t *testing.T) {
	line := renderStatusLine("hero.psd", statusOK, "done", false)
	if !strings.HasPrefix(line, statusIndent+"hero.psd:") {
		t.Fatalf("unexpected prefix: %q", line)
	}
	if !strings.HasSuffix(line, "[OK] done") {
		t.Fatalf("unexpected suffix: %q", line)
	}
	if strings.Contains(line, "\x1b[") {
		t.Fatalf("expected no ANSI codes without colorize: %q", line)
	}

	colored := renderStatusLine("hero.psd", statusError, "", true)
	if !strings.HasPrefix(colored, "\x1b[31m") || !strings.HasSuffix(colored, "[ERROR]"+ansiReset) {
		t.Fatalf("unexpected colored line: %q", colored)
	}
}

func TestOutcomeKind(t *testing.T) {
	cases := map[services.Outcome]statusKind{
		services.OutcomeSucceeded: statusOK,
		services.OutcomeSkipped:   statusWarn,
		services.OutcomeFailed:    statusError,
		"unknown":                 statusInfo,
	}
	for outcome, want := range cases {
		if got := outcomeKind(outcome); got != want {
			t.Fatalf("outcomeKind(%q) = %v, want %v", outcome, got, want)
		}
	}
}

func TestShouldColorizeNonTerminal(t *testing.T) {
	if shouldColorize(&bytes.Buffer{}) {
		t.Fatal("buffers are never terminals")
	}
}

func TestRenderTableFooter(t *testing.T) {
	out := renderTable([]string{"A", "B"}, [][]string{{"1", "2"}}, []columnAlignment{alignLeft, alignRight}, "total 1")
	if !strings.Contains(out, "total 1") {
		t.Fatalf("expected footer text, got:\n%s", out)
	}
}
