package preflight

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"scribe/internal/config"
	"scribe/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckReadable verifies that path exists and can be read. Optional checks
// pass with an explanatory detail when the path is absent.
func CheckReadable(name, path string, optional bool) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Passed: optional, Optional: optional, Skipped: optional, Detail: "not configured"}
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			if optional {
				return Result{Name: name, Passed: true, Optional: true, Skipped: true, Detail: fmt.Sprintf("%s (absent, skipped)", path)}
			}
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Optional: optional, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Optional: optional, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Optional: optional, Detail: fmt.Sprintf("%s (readable)", path)}
}

// CheckModel verifies the recognition model. Local directories must exist;
// hub names are resolved by the helper at load time and pass here.
func CheckModel(arch string) Result {
	const name = "Recognition model"
	if filepath.IsAbs(arch) {
		return CheckReadable(name, arch, false)
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (hub model, fetched on first use)", arch)}
}

// CheckDeviceLock verifies that no other prediction currently holds the
// accelerator. The lock is released immediately.
func CheckDeviceLock(path string) Result {
	const name = "Device lock"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if !locked {
		return Result{Name: name, Detail: fmt.Sprintf("%s (held by another prediction)", path)}
	}
	_ = lock.Unlock()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (free)", path)}
}

// CheckSystemDeps evaluates the external binaries a prediction shells out to.
// Both the predict and doctor commands use this to avoid duplicating the
// requirements list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "uvx",
			Command:     cfg.Runtime.UVXBinary,
			Description: "Runs the WhisperX helper",
		},
		{
			Name:        "FFmpeg",
			Command:     cfg.Runtime.FFmpegBinary,
			Description: "Cuts language identification windows",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.Runtime.FFprobeBinary,
			Description: "Measures input duration",
		},
	}
	if cfg.UsesCUDA() {
		requirements = append(requirements, deps.Requirement{
			Name:        "nvidia-smi",
			Command:     "nvidia-smi",
			Description: "Reports accelerator status",
			Optional:    true,
		})
	}
	return deps.CheckBinaries(requirements)
}
