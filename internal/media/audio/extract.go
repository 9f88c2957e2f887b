package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// CommandRunner executes an external command. Tests substitute fakes.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Window is a temporary file holding a slice of the source audio.
type Window struct {
	Path     string
	StartMS  int64
	LengthMS int64
}

// Close removes the temporary file. It is safe to call more than once.
func (w *Window) Close() error {
	if w == nil || w.Path == "" {
		return nil
	}
	err := os.Remove(w.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Extractor cuts windows out of a source file with ffmpeg.
type Extractor struct {
	FFmpegBinary string
	WorkDir      string
	runner       CommandRunner
}

// NewExtractor constructs an extractor writing temp files under workDir
// (the OS temp directory when empty).
func NewExtractor(ffmpegBinary, workDir string) *Extractor {
	if strings.TrimSpace(ffmpegBinary) == "" {
		ffmpegBinary = "ffmpeg"
	}
	return &Extractor{FFmpegBinary: ffmpegBinary, WorkDir: workDir}
}

// WithCommandRunner overrides command execution.
func (e *Extractor) WithCommandRunner(runner CommandRunner) {
	e.runner = runner
}

// ExtractWindow writes durationMS of audio starting at startMS into a new
// temporary file with the same extension as source. On error no file is left
// behind.
func (e *Extractor) ExtractWindow(ctx context.Context, source string, startMS, durationMS int64) (*Window, error) {
	if strings.TrimSpace(source) == "" {
		return nil, errors.New("extract window: source path required")
	}
	if durationMS <= 0 {
		return nil, fmt.Errorf("extract window: invalid duration %dms", durationMS)
	}
	if startMS < 0 {
		startMS = 0
	}

	ext := filepath.Ext(source)
	if ext == "" {
		ext = ".wav"
	}
	tmp, err := os.CreateTemp(e.WorkDir, "scribe-window-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("extract window: create temp file: %w", err)
	}
	window := &Window{Path: tmp.Name(), StartMS: startMS, LengthMS: durationMS}
	if err := tmp.Close(); err != nil {
		_ = window.Close()
		return nil, fmt.Errorf("extract window: close temp file: %w", err)
	}

	args := buildWindowArgs(source, startMS, durationMS, window.Path)
	if err := e.run(ctx, e.FFmpegBinary, args...); err != nil {
		_ = window.Close()
		return nil, fmt.Errorf("extract window: %w", err)
	}
	return window, nil
}

func (e *Extractor) run(ctx context.Context, name string, args ...string) error {
	if e.runner != nil {
		return e.runner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func buildWindowArgs(source string, startMS, durationMS int64, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-ss", formatSeconds(startMS),
		"-t", formatSeconds(durationMS),
		"-i", source,
		"-vn",
		"-sn",
		"-dn",
		dest,
	}
}

// formatSeconds renders milliseconds as a decimal seconds string ffmpeg accepts.
func formatSeconds(ms int64) string {
	return strconv.FormatFloat(float64(ms)/1000, 'f', 3, 64)
}
