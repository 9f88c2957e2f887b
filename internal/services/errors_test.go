package services_test

import (
	"errors"
	"strings"
	"testing"

	"scribe/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "transcribe", "whisperx", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"transcribe", "whisperx", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestServiceErrorUnwrapsMarkerAndCause(t *testing.T) {
	cause := errors.New("exit status 1")
	err := &services.ServiceError{
		Marker:     services.ErrExternalTool,
		Kind:       services.ErrorKindExternal,
		Operation:  "command",
		Message:    "External command failed",
		DetailPath: "/tmp/tool/uvx.log",
		Cause:      cause,
	}
	wrapped := services.Wrap(services.ErrExternalTool, "align", "run", "", err)
	if !errors.Is(wrapped, services.ErrExternalTool) || !errors.Is(wrapped, cause) {
		t.Fatalf("expected marker and cause through wrap, got %v", wrapped)
	}
	if got := services.DetailPath(wrapped); got != "/tmp/tool/uvx.log" {
		t.Fatalf("unexpected detail path %q", got)
	}
	if !strings.Contains(err.Error(), "see /tmp/tool/uvx.log") {
		t.Fatalf("expected detail path in message, got %q", err.Error())
	}
}

func TestExitCodeMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"validation", services.Wrap(services.ErrValidation, "predict", "input", "bad", nil), 2},
		{"configuration", services.Wrap(services.ErrConfiguration, "predict", "lock", "held", nil), 2},
		{"external", services.Wrap(services.ErrExternalTool, "transcribe", "run", "", errors.New("io")), 3},
		{"other", errors.New("plain"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.ExitCode(tt.err); got != tt.want {
				t.Fatalf("ExitCode = %d, want %d", got, tt.want)
			}
		})
	}
}
