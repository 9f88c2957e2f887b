package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and file locations used during a prediction.
type Paths struct {
	// WorkDir receives the temporary language-identification windows.
	// Empty means the OS temp directory.
	WorkDir  string `toml:"work_dir"`
	LogDir   string `toml:"log_dir"`
	LockFile string `toml:"lock_file"`
	// VADModel is the bundled voice-activity segmentation checkpoint that
	// setup installs into TorchCacheDir.
	VADModel      string `toml:"vad_model"`
	TorchCacheDir string `toml:"torch_cache_dir"`
}

// Model contains the recognition model and accelerator settings.
type Model struct {
	// Arch is the faster-whisper model directory or hub name.
	Arch             string `toml:"arch"`
	Device           string `toml:"device"`
	ComputeType      string `toml:"compute_type"`
	DiarizationModel string `toml:"diarization_model"`
	HFToken          string `toml:"hf_token"`
}

// Runtime describes the external tools the pipeline shells out to.
type Runtime struct {
	UVXBinary       string `toml:"uvx_binary"`
	WhisperXPackage string `toml:"whisperx_package"`
	IndexURL        string `toml:"index_url"`
	ExtraIndexURL   string `toml:"extra_index_url"`
	FFmpegBinary    string `toml:"ffmpeg_binary"`
	FFprobeBinary   string `toml:"ffprobe_binary"`
}

// Defaults holds the prediction options used when a flag is not supplied.
type Defaults struct {
	LanguageDetectionMinProb  float64 `toml:"language_detection_min_prob"`
	LanguageDetectionMaxTries int     `toml:"language_detection_max_tries"`
	BatchSize                 int     `toml:"batch_size"`
	Temperature               float64 `toml:"temperature"`
	VADOnset                  float64 `toml:"vad_onset"`
	VADOffset                 float64 `toml:"vad_offset"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	// RetentionDays prunes captured tool stderr dumps older than this; 0 keeps everything.
	RetentionDays int `toml:"retention_days"`
}

// Config encapsulates all configuration values for scribe.
//
// Configuration sections by subsystem:
//   - Paths: work, log, lock and model cache locations
//   - Model: recognition model, device and precision
//   - Runtime: uvx/ffmpeg/ffprobe binaries and package index
//   - Defaults: prediction option defaults
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Model    Model    `toml:"model"`
	Runtime  Runtime  `toml:"runtime"`
	Defaults Defaults `toml:"defaults"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/scribe/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("scribe.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a prediction writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir, c.Paths.TorchCacheDir, filepath.Dir(c.Paths.LockFile)}
	if c.Paths.WorkDir != "" {
		dirs = append(dirs, c.Paths.WorkDir)
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// WorkDir returns the directory for temporary audio windows.
func (c *Config) WorkDir() string {
	if strings.TrimSpace(c.Paths.WorkDir) != "" {
		return c.Paths.WorkDir
	}
	return os.TempDir()
}

// UsesCUDA reports whether the configured device is an accelerator.
func (c *Config) UsesCUDA() bool {
	return c.Model.Device == DeviceCUDA
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the configuration as TOML, redacting secrets.
func (c *Config) Encode() ([]byte, error) {
	clone := *c
	if clone.Model.HFToken != "" {
		clone.Model.HFToken = "<redacted>"
	}
	data, err := toml.Marshal(clone)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}
