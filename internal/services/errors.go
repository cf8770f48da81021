package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingInput    = errors.New("missing input")
	ErrMissingTemplate = errors.New("missing template")
	ErrParse           = errors.New("parse failure")
	ErrAssetWrite      = errors.New("asset write failure")
	ErrRender          = errors.New("render failure")
	ErrConfiguration   = errors.New("configuration error")
	ErrOutputLocked    = errors.New("output locked")
)

// Outcome is the terminal state recorded for a build.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrParse
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// OutcomeFor maps a build error to the outcome persisted in history. Builds
// aborted before any work (missing input or template) are skipped rather than
// failed.
func OutcomeFor(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSucceeded
	case errors.Is(err, ErrMissingInput), errors.Is(err, ErrMissingTemplate):
		return OutcomeSkipped
	default:
		return OutcomeFailed
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "build failure"
	}
	return strings.Join(parts, ": ")
}
