package predict

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"scribe/internal/config"
	"scribe/internal/fileutil"
	"scribe/internal/logging"
	"scribe/internal/services"
)

// SetupReport describes what Setup did.
type SetupReport struct {
	TorchCacheDir string
	VADSource     string
	// VADInstalled is true only when this call copied the checkpoint.
	VADInstalled bool
	// VADPresent is false when no bundled checkpoint was found to install.
	VADPresent bool
}

// Setup prepares the torch cache: it ensures the cache directory exists and,
// when the bundled VAD checkpoint is present, copies it in unless a copy is
// already there. Calling it repeatedly is harmless.
func Setup(cfg *config.Config, logger *slog.Logger) (SetupReport, error) {
	logger = logging.NewComponentLogger(logger, "setup")
	report := SetupReport{TorchCacheDir: cfg.Paths.TorchCacheDir, VADSource: cfg.Paths.VADModel}

	if err := os.MkdirAll(cfg.Paths.TorchCacheDir, 0o755); err != nil {
		return report, services.Wrap(services.ErrConfiguration, "setup", "create torch cache", "Failed to create torch cache directory", err)
	}

	source := strings.TrimSpace(cfg.Paths.VADModel)
	if source == "" {
		return report, nil
	}
	if _, err := os.Stat(source); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("bundled VAD model absent; relying on download at load time",
				logging.String("path", source),
			)
			return report, nil
		}
		return report, services.Wrap(services.ErrConfiguration, "setup", "stat vad model", "Failed to inspect bundled VAD model", err)
	}
	report.VADPresent = true

	installed, err := fileutil.InstallOnce(source, cfg.Paths.TorchCacheDir)
	if err != nil {
		return report, services.Wrap(services.ErrConfiguration, "setup", "install vad model", "Failed to copy VAD model into torch cache", err)
	}
	report.VADInstalled = installed
	if installed {
		logger.Info("installed VAD model",
			logging.String("source", source),
			logging.String("torch_cache_dir", cfg.Paths.TorchCacheDir),
		)
	}
	return report, nil
}
