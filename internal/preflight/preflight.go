package preflight

import (
	"context"
	"fmt"

	"scribe/internal/config"
	"scribe/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	// Skipped marks an optional check whose subject is absent.
	Skipped bool
	Detail  string
}

// RunAll executes every preflight check for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	for _, status := range CheckSystemDeps(cfg) {
		results = append(results, fromStatus(status))
	}

	results = append(results, CheckDirectoryAccess("Work directory", cfg.WorkDir()))
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	results = append(results, CheckDirectoryAccess("Torch cache", cfg.Paths.TorchCacheDir))
	results = append(results, CheckModel(cfg.Model.Arch))
	results = append(results, CheckReadable("VAD model", cfg.Paths.VADModel, true))

	if ctx.Err() == nil {
		results = append(results, CheckDeviceLock(cfg.Paths.LockFile))
	}
	return results
}

// Failed returns the non-optional results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed && !r.Optional {
			failed = append(failed, r)
		}
	}
	return failed
}

func fromStatus(status deps.Status) Result {
	result := Result{Name: status.Name, Passed: status.Available, Optional: status.Optional}
	switch {
	case status.Available:
		result.Detail = status.Path
	case status.Optional:
		result.Passed = true
		result.Skipped = true
		result.Detail = fmt.Sprintf("%s (optional)", status.Detail)
	default:
		result.Detail = status.Detail
	}
	return result
}
