package config

import (
	"errors"
	"fmt"
	"slices"
)

var computeTypes = []string{"float16", "float32", "int8", "int8_float16", "int8_float32", "bfloat16"}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateModel(); err != nil {
		return err
	}
	if err := c.validateDefaults(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateModel() error {
	switch c.Model.Device {
	case DeviceCUDA, DeviceCPU:
	default:
		return fmt.Errorf("model.device must be %q or %q, got %q", DeviceCUDA, DeviceCPU, c.Model.Device)
	}
	if !slices.Contains(computeTypes, c.Model.ComputeType) {
		return fmt.Errorf("model.compute_type %q is not supported (one of %v)", c.Model.ComputeType, computeTypes)
	}
	if c.Model.Device == DeviceCPU && c.Model.ComputeType == "float16" {
		return errors.New("model.compute_type float16 requires model.device = \"cuda\"; use int8 or float32 on cpu")
	}
	return nil
}

func (c *Config) validateDefaults() error {
	d := c.Defaults
	if d.LanguageDetectionMinProb < 0 || d.LanguageDetectionMinProb > 1 {
		return errors.New("defaults.language_detection_min_prob must be between 0 and 1")
	}
	if err := ensurePositiveMap(map[string]int{
		"defaults.language_detection_max_tries": d.LanguageDetectionMaxTries,
		"defaults.batch_size":                   d.BatchSize,
	}); err != nil {
		return err
	}
	if d.Temperature < 0 {
		return errors.New("defaults.temperature must be >= 0")
	}
	if d.VADOnset <= 0 || d.VADOnset >= 1 {
		return errors.New("defaults.vad_onset must be between 0 and 1 (exclusive)")
	}
	if d.VADOffset <= 0 || d.VADOffset >= 1 {
		return errors.New("defaults.vad_offset must be between 0 and 1 (exclusive)")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be >= 0")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
