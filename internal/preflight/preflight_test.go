package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"

	"scribe/internal/config"
	"scribe/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckReadable(t *testing.T) {
	f := filepath.Join(t.TempDir(), "vad.bin")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(t.TempDir(), "missing.bin")

	tests := []struct {
		name     string
		path     string
		optional bool
		passed   bool
	}{
		{name: "present", path: f, passed: true},
		{name: "missing required", path: missing, passed: false},
		{name: "missing optional", path: missing, optional: true, passed: true},
		{name: "unset required", path: "", passed: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckReadable("VAD model", tt.path, tt.optional)
			if result.Passed != tt.passed {
				t.Fatalf("Passed = %v, want %v (%s)", result.Passed, tt.passed, result.Detail)
			}
		})
	}
}

func TestCheckModelHubName(t *testing.T) {
	if result := CheckModel("large-v3"); !result.Passed {
		t.Fatalf("expected hub model to pass, got %s", result.Detail)
	}
	if result := CheckModel(filepath.Join(t.TempDir(), "absent")); result.Passed {
		t.Fatal("expected missing local model to fail")
	}
}

func TestCheckDeviceLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locks", "device.lock")
	if result := CheckDeviceLock(path); !result.Passed {
		t.Fatalf("expected free lock, got %s", result.Detail)
	}

	holder := flock.New(path)
	locked, err := holder.TryLock()
	if err != nil || !locked {
		t.Fatalf("TryLock: locked=%v err=%v", locked, err)
	}
	defer holder.Unlock()

	if result := CheckDeviceLock(path); result.Passed {
		t.Fatal("expected held lock to fail")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil)
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_StubbedConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	cfg.Model.Device = config.DeviceCPU

	results := RunAll(context.Background(), cfg)
	if failed := Failed(results); len(failed) != 0 {
		for _, r := range failed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
	names := map[string]bool{}
	for _, r := range results {
		names[r.Name] = true
	}
	for _, want := range []string{"uvx", "FFmpeg", "FFprobe", "Work directory", "Log directory", "Torch cache", "Recognition model", "VAD model", "Device lock"} {
		if !names[want] {
			t.Fatalf("missing check %q in %v", want, names)
		}
	}
}

func TestRunAll_MissingBinaryFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Runtime.UVXBinary = "clearly-not-present-uvx"

	failed := Failed(RunAll(context.Background(), cfg))
	found := false
	for _, r := range failed {
		if r.Name == "uvx" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected uvx failure, got %#v", failed)
	}
}
