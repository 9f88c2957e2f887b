package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"scribe/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("HF_TOKEN", "")
	t.Setenv("HUGGING_FACE_HUB_TOKEN", "")
	t.Setenv("SCRIBE_DEVICE", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLogDir := filepath.Join(tempHome, ".local", "share", "scribe", "logs")
	if cfg.Paths.LogDir != wantLogDir {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogDir)
	}
	if cfg.Paths.TorchCacheDir != filepath.Join(tempHome, ".cache", "torch") {
		t.Fatalf("unexpected torch cache dir: %q", cfg.Paths.TorchCacheDir)
	}
	if !filepath.IsAbs(cfg.Paths.VADModel) || filepath.Base(cfg.Paths.VADModel) != "whisperx-vad-segmentation.bin" {
		t.Fatalf("unexpected vad model path: %q", cfg.Paths.VADModel)
	}
	if !filepath.IsAbs(cfg.Model.Arch) {
		t.Fatalf("expected local model arch to be absolute, got %q", cfg.Model.Arch)
	}
	if cfg.Model.Device != config.DeviceCUDA || cfg.Model.ComputeType != "float16" {
		t.Fatalf("unexpected model defaults: %+v", cfg.Model)
	}
	if cfg.Runtime.IndexURL != "https://download.pytorch.org/whl/cu128" {
		t.Fatalf("expected CUDA wheel index for cuda device, got %q", cfg.Runtime.IndexURL)
	}
	if cfg.Runtime.ExtraIndexURL != "https://pypi.org/simple" {
		t.Fatalf("expected PyPI extra index, got %q", cfg.Runtime.ExtraIndexURL)
	}

	defaults := cfg.Defaults
	if defaults.LanguageDetectionMinProb != 0 || defaults.LanguageDetectionMaxTries != 5 {
		t.Fatalf("unexpected detection defaults: %+v", defaults)
	}
	if defaults.BatchSize != 64 || defaults.Temperature != 0 {
		t.Fatalf("unexpected transcription defaults: %+v", defaults)
	}
	if defaults.VADOnset != 0.500 || defaults.VADOffset != 0.363 {
		t.Fatalf("unexpected vad defaults: %+v", defaults)
	}
	if cfg.WorkDir() != os.TempDir() {
		t.Fatalf("expected OS temp dir as work dir, got %q", cfg.WorkDir())
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, cfg.Paths.TorchCacheDir, filepath.Dir(cfg.Paths.LockFile)} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
	}
}

func TestLoadCustomConfig(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("HF_TOKEN", "")
	t.Setenv("HUGGING_FACE_HUB_TOKEN", "")
	t.Setenv("SCRIBE_DEVICE", "")

	configPath := filepath.Join(tempHome, "config.toml")
	payload := map[string]any{
		"paths": map[string]any{
			"work_dir": "~/windows",
		},
		"model": map[string]any{
			"arch":         "large-v3",
			"device":       "CPU",
			"compute_type": "int8",
			"hf_token":     " secret ",
		},
		"defaults": map[string]any{
			"language_detection_min_prob":  0.7,
			"language_detection_max_tries": 3,
			"batch_size":                   16,
			"vad_onset":                    0.5,
			"vad_offset":                   0.363,
		},
		"logging": map[string]any{
			"format": "JSON",
		},
	}
	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected config to resolve to %q, got %q (exists=%v)", configPath, resolved, exists)
	}
	if cfg.Paths.WorkDir != filepath.Join(tempHome, "windows") {
		t.Fatalf("unexpected work dir: %q", cfg.Paths.WorkDir)
	}
	if cfg.WorkDir() != cfg.Paths.WorkDir {
		t.Fatalf("expected configured work dir, got %q", cfg.WorkDir())
	}
	if cfg.Model.Arch != "large-v3" {
		t.Fatalf("expected hub model name untouched, got %q", cfg.Model.Arch)
	}
	if cfg.Model.Device != config.DeviceCPU || cfg.UsesCUDA() {
		t.Fatalf("expected cpu device, got %q", cfg.Model.Device)
	}
	if cfg.Model.HFToken != "secret" {
		t.Fatalf("expected trimmed token, got %q", cfg.Model.HFToken)
	}
	if cfg.Runtime.IndexURL != "https://pypi.org/simple" || cfg.Runtime.ExtraIndexURL != "" {
		t.Fatalf("expected PyPI only on cpu, got %q / %q", cfg.Runtime.IndexURL, cfg.Runtime.ExtraIndexURL)
	}
	if cfg.Defaults.LanguageDetectionMinProb != 0.7 || cfg.Defaults.LanguageDetectionMaxTries != 3 || cfg.Defaults.BatchSize != 16 {
		t.Fatalf("unexpected defaults: %+v", cfg.Defaults)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected normalized json format, got %q", cfg.Logging.Format)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[model]\nbogus = 1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestEnvironmentFallbacks(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("HUGGING_FACE_HUB_TOKEN", "")
	t.Setenv("HF_TOKEN", "env-token")
	t.Setenv("SCRIBE_DEVICE", "cpu")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[model]\ncompute_type = \"int8\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Model.HFToken != "env-token" {
		t.Fatalf("expected HF_TOKEN fallback, got %q", cfg.Model.HFToken)
	}
	if cfg.Model.Device != config.DeviceCPU {
		t.Fatalf("expected SCRIBE_DEVICE override, got %q", cfg.Model.Device)
	}
}

func TestHFTokenPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		hub    string
		hf     string
		expect string
	}{
		{name: "config wins", file: "from-file", hub: "hub", hf: "hf", expect: "from-file"},
		{name: "hub token before hf token", hub: "hub", hf: "hf", expect: "hub"},
		{name: "empty hub token falls through", hub: "", hf: "hf", expect: "hf"},
		{name: "blank hub token falls through", hub: "   ", hf: " hf ", expect: "hf"},
		{name: "nothing set", expect: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			t.Setenv("HUGGING_FACE_HUB_TOKEN", tt.hub)
			t.Setenv("HF_TOKEN", tt.hf)
			t.Setenv("SCRIBE_DEVICE", "cpu")

			content := "[model]\ncompute_type = \"int8\"\n"
			if tt.file != "" {
				content += "hf_token = \"" + tt.file + "\"\n"
			}
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			cfg, _, _, err := config.Load(path)
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			if cfg.Model.HFToken != tt.expect {
				t.Fatalf("token = %q, want %q", cfg.Model.HFToken, tt.expect)
			}
		})
	}
}

func TestValidateRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"device", func(c *config.Config) { c.Model.Device = "tpu" }, "model.device"},
		{"compute type", func(c *config.Config) { c.Model.ComputeType = "float8" }, "model.compute_type"},
		{"cpu float16", func(c *config.Config) { c.Model.Device = config.DeviceCPU }, "float16"},
		{"min prob", func(c *config.Config) { c.Defaults.LanguageDetectionMinProb = 1.5 }, "language_detection_min_prob"},
		{"max tries", func(c *config.Config) { c.Defaults.LanguageDetectionMaxTries = 0 }, "language_detection_max_tries"},
		{"batch size", func(c *config.Config) { c.Defaults.BatchSize = -1 }, "batch_size"},
		{"temperature", func(c *config.Config) { c.Defaults.Temperature = -0.1 }, "temperature"},
		{"vad onset", func(c *config.Config) { c.Defaults.VADOnset = 1 }, "vad_onset"},
		{"vad offset", func(c *config.Config) { c.Defaults.VADOffset = 0 }, "vad_offset"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"log level", func(c *config.Config) { c.Logging.Level = "trace" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SCRIBE_DEVICE", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Defaults.BatchSize != 64 {
		t.Fatalf("unexpected batch size from sample: %d", cfg.Defaults.BatchSize)
	}
}

func TestEncodeRedactsToken(t *testing.T) {
	cfg := config.Default()
	cfg.Model.HFToken = "hf_secret"
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if strings.Contains(string(data), "hf_secret") {
		t.Fatalf("expected token to be redacted, got %s", data)
	}
	if cfg.Model.HFToken != "hf_secret" {
		t.Fatal("Encode must not mutate the receiver")
	}
}
