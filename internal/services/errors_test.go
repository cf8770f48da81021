package services_test

import (
	"errors"
	"strings"
	"testing"

	"layerpage/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrAssetWrite, "assets", "write", "images/abc123.png", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrAssetWrite) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"assets", "write", "images/abc123.png"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutDetail(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "build failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestOutcomeMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want services.Outcome
	}{
		{"nil", nil, services.OutcomeSucceeded},
		{"missing input", services.Wrap(services.ErrMissingInput, "build", "stat", "a.psd", nil), services.OutcomeSkipped},
		{"missing template", services.Wrap(services.ErrMissingTemplate, "build", "stat", "page.html", nil), services.OutcomeSkipped},
		{"parse", services.Wrap(services.ErrParse, "psd", "decode", "", errors.New("bad magic")), services.OutcomeFailed},
		{"asset", services.Wrap(services.ErrAssetWrite, "assets", "write", "", errors.New("disk full")), services.OutcomeFailed},
		{"plain", errors.New("io"), services.OutcomeFailed},
	}
	for _, tc := range cases {
		if got := services.OutcomeFor(tc.err); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}
