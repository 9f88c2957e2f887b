package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeModel(); err != nil {
		return err
	}
	c.normalizeRuntime()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) != "" {
		if c.Paths.WorkDir, err = expandPath(strings.TrimSpace(c.Paths.WorkDir)); err != nil {
			return fmt.Errorf("paths.work_dir: %w", err)
		}
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LockFile) == "" {
		c.Paths.LockFile = defaultLockFile
	}
	if c.Paths.LockFile, err = expandPath(strings.TrimSpace(c.Paths.LockFile)); err != nil {
		return fmt.Errorf("paths.lock_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.VADModel) == "" {
		c.Paths.VADModel = defaultVADModel
	}
	if c.Paths.VADModel, err = expandPath(strings.TrimSpace(c.Paths.VADModel)); err != nil {
		return fmt.Errorf("paths.vad_model: %w", err)
	}
	if strings.TrimSpace(c.Paths.TorchCacheDir) == "" {
		c.Paths.TorchCacheDir = defaultTorchCacheDir
	}
	if c.Paths.TorchCacheDir, err = expandPath(strings.TrimSpace(c.Paths.TorchCacheDir)); err != nil {
		return fmt.Errorf("paths.torch_cache_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeModel() error {
	c.Model.Arch = strings.TrimSpace(c.Model.Arch)
	if c.Model.Arch == "" {
		c.Model.Arch = defaultModelArch
	}
	// Local model directories are addressed by path; hub names are left untouched.
	if strings.HasPrefix(c.Model.Arch, ".") || strings.HasPrefix(c.Model.Arch, "~") || strings.HasPrefix(c.Model.Arch, "/") {
		expanded, err := expandPath(c.Model.Arch)
		if err != nil {
			return fmt.Errorf("model.arch: %w", err)
		}
		c.Model.Arch = expanded
	}

	if value, ok := os.LookupEnv("SCRIBE_DEVICE"); ok && strings.TrimSpace(value) != "" {
		c.Model.Device = value
	}
	c.Model.Device = strings.ToLower(strings.TrimSpace(c.Model.Device))
	if c.Model.Device == "" {
		c.Model.Device = defaultDevice
	}
	c.Model.ComputeType = strings.ToLower(strings.TrimSpace(c.Model.ComputeType))
	if c.Model.ComputeType == "" {
		c.Model.ComputeType = defaultComputeType
	}
	c.Model.DiarizationModel = strings.TrimSpace(c.Model.DiarizationModel)
	if c.Model.DiarizationModel == "" {
		c.Model.DiarizationModel = defaultDiarizationModel
	}
	c.Model.HFToken = strings.TrimSpace(c.Model.HFToken)
	// An exported but empty variable does not shadow the next one.
	for _, key := range []string{"HUGGING_FACE_HUB_TOKEN", "HF_TOKEN"} {
		if c.Model.HFToken != "" {
			break
		}
		c.Model.HFToken = strings.TrimSpace(os.Getenv(key))
	}
	return nil
}

func (c *Config) normalizeRuntime() {
	c.Runtime.UVXBinary = strings.TrimSpace(c.Runtime.UVXBinary)
	if c.Runtime.UVXBinary == "" {
		c.Runtime.UVXBinary = defaultUVXBinary
	}
	c.Runtime.WhisperXPackage = strings.TrimSpace(c.Runtime.WhisperXPackage)
	if c.Runtime.WhisperXPackage == "" {
		c.Runtime.WhisperXPackage = defaultWhisperXPackage
	}
	c.Runtime.IndexURL = strings.TrimSpace(c.Runtime.IndexURL)
	c.Runtime.ExtraIndexURL = strings.TrimSpace(c.Runtime.ExtraIndexURL)
	if c.Runtime.IndexURL == "" {
		c.Runtime.IndexURL = defaultIndexURL
		if c.Model.Device == DeviceCUDA {
			c.Runtime.IndexURL = defaultCUDAIndexURL
			if c.Runtime.ExtraIndexURL == "" {
				c.Runtime.ExtraIndexURL = defaultIndexURL
			}
		}
	}
	c.Runtime.FFmpegBinary = strings.TrimSpace(c.Runtime.FFmpegBinary)
	if c.Runtime.FFmpegBinary == "" {
		c.Runtime.FFmpegBinary = defaultFFmpegBinary
	}
	c.Runtime.FFprobeBinary = strings.TrimSpace(c.Runtime.FFprobeBinary)
	if c.Runtime.FFprobeBinary == "" {
		c.Runtime.FFprobeBinary = defaultFFprobeBinary
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
