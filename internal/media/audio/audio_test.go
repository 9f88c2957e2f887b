package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func TestExtractWindowKeepsExtensionAndArgs(t *testing.T) {
	dir := t.TempDir()
	var gotName string
	var gotArgs []string
	extractor := NewExtractor("ffmpeg-test", dir)
	extractor.WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		return os.WriteFile(args[len(args)-1], []byte("window"), 0o644)
	})

	window, err := extractor.ExtractWindow(context.Background(), "/media/talk.mp3", 35000, 30000)
	if err != nil {
		t.Fatalf("ExtractWindow returned error: %v", err)
	}
	if gotName != "ffmpeg-test" {
		t.Fatalf("unexpected binary %q", gotName)
	}
	if filepath.Ext(window.Path) != ".mp3" {
		t.Fatalf("expected .mp3 window, got %s", window.Path)
	}
	if filepath.Dir(window.Path) != dir {
		t.Fatalf("expected window under %s, got %s", dir, window.Path)
	}
	joined := strings.Join(gotArgs, " ")
	for _, want := range []string{"-ss 35.000", "-t 30.000", "-i /media/talk.mp3"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("args %q missing %q", joined, want)
		}
	}
	if strings.Index(joined, "-ss") > strings.Index(joined, "-i") {
		t.Fatalf("expected input seek before -i, got %q", joined)
	}

	if err := window.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if _, err := os.Stat(window.Path); !os.IsNotExist(err) {
		t.Fatalf("expected window removed, stat err=%v", err)
	}
	if err := window.Close(); err != nil {
		t.Fatalf("second Close returned error: %v", err)
	}
}

func TestExtractWindowDefaultsExtension(t *testing.T) {
	extractor := NewExtractor("", t.TempDir())
	extractor.WithCommandRunner(func(context.Context, string, ...string) error { return nil })
	window, err := extractor.ExtractWindow(context.Background(), "/media/raw", 0, 1000)
	if err != nil {
		t.Fatalf("ExtractWindow returned error: %v", err)
	}
	defer window.Close()
	if filepath.Ext(window.Path) != ".wav" {
		t.Fatalf("expected .wav fallback, got %s", window.Path)
	}
}

func TestExtractWindowFailureRemovesTempFile(t *testing.T) {
	dir := t.TempDir()
	extractor := NewExtractor("ffmpeg", dir)
	extractor.WithCommandRunner(func(context.Context, string, ...string) error {
		return errors.New("boom")
	})
	if _, err := extractor.ExtractWindow(context.Background(), "/media/a.wav", 0, 30000); err == nil {
		t.Fatal("expected error")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no residual files, found %d", len(entries))
	}
}

func TestExtractWindowCancelledReturnsContextError(t *testing.T) {
	dir := t.TempDir()
	// The default runner never starts the binary once ctx is done.
	extractor := NewExtractor("sh", dir)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := extractor.ExtractWindow(ctx, "/media/a.wav", 0, 30000)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no residual files, found %d", len(entries))
	}
}

func TestExtractWindowValidatesInput(t *testing.T) {
	extractor := NewExtractor("ffmpeg", t.TempDir())
	if _, err := extractor.ExtractWindow(context.Background(), "", 0, 1000); err == nil {
		t.Fatal("expected error for empty source")
	}
	if _, err := extractor.ExtractWindow(context.Background(), "/a.wav", 0, 0); err == nil {
		t.Fatal("expected error for zero duration")
	}
}

func TestDurationMillisReadsWAVHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeSilence(t, path, 16000, 16000*2+8000)

	ms, err := DurationMillis(context.Background(), "/nonexistent/ffprobe", path)
	if err != nil {
		t.Fatalf("DurationMillis returned error: %v", err)
	}
	if ms != 2500 {
		t.Fatalf("expected 2500ms, got %d", ms)
	}
}

func TestDurationMillisFallsBackToFFprobe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.wav")
	if err := os.WriteFile(path, []byte("not a wav"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := DurationMillis(context.Background(), "/nonexistent/ffprobe", path); err == nil {
		t.Fatal("expected ffprobe fallback error")
	}
}

func writeSilence(t *testing.T, path string, sampleRate, samples int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create wav: %v", err)
	}
	defer f.Close()
	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, samples),
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close wav: %v", err)
	}
}
