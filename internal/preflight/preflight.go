package preflight

import (
	"path/filepath"
	"strings"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Targets names the paths a build touches.
type Targets struct {
	Input    string
	Template string
	Output   string
	History  string
}

// RunAll executes the checks that apply to targets. Empty targets are skipped.
func RunAll(targets Targets) []Result {
	var results []Result

	if targets.Input != "" {
		results = append(results, CheckReadableFile("Input document", targets.Input))
	}

	// The built-in template needs no check.
	if targets.Template != "" {
		results = append(results, CheckReadableFile("Template", targets.Template))
	}

	if targets.Output != "" {
		results = append(results, CheckDirectoryAccess("Output directory", targets.Output))
	}

	if strings.TrimSpace(targets.History) != "" {
		results = append(results, CheckDirectoryAccess("History directory", filepath.Dir(targets.History)))
	}

	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
