package main

import (
	"strings"
	"testing"
)

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]string{"Check", "Status", "Detail"}, [][]string{
		{"FFmpeg", "OK", "/usr/bin/ffmpeg"},
		{"VAD model", "WARN"},
	})
	lines := strings.Split(strings.TrimSpace(out), "\n")
	// border, header, separator, two rows, border
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d:\n%s", len(lines), out)
	}
	width := len([]rune(lines[0]))
	for _, line := range lines {
		if len([]rune(line)) != width {
			t.Fatalf("ragged table line %q in:\n%s", line, out)
		}
	}
	requireContains(t, out, "VAD model")
	requireContains(t, out, "/usr/bin/ffmpeg")
}

func TestRenderTableWithoutHeaders(t *testing.T) {
	if out := renderTable(nil, [][]string{{"x"}}); out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}
