package predict

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"scribe/internal/config"
	langpkg "scribe/internal/language"
	"scribe/internal/services"
	"scribe/internal/services/whisperx"
)

// Input is a single prediction request.
type Input struct {
	AudioPath string
	// Language is the spoken language; empty triggers detection.
	Language                  string
	LanguageDetectionMinProb  float64
	LanguageDetectionMaxTries int
	InitialPrompt             string
	BatchSize                 int
	Temperature               float64
	VADOnset                  float64
	VADOffset                 float64
	AlignOutput               bool
	Diarization               bool
	HFToken                   string
	// MinSpeakers and MaxSpeakers bound diarization; 0 means unknown.
	MinSpeakers int
	MaxSpeakers int
	Debug       bool
}

// Output is the prediction result written to the caller.
type Output struct {
	Segments         []whisperx.Segment `json:"segments"`
	DetectedLanguage string             `json:"detected_language"`
}

// DefaultInput returns an Input for audioPath populated from the configured defaults.
func DefaultInput(cfg *config.Config, audioPath string) Input {
	return Input{
		AudioPath:                 audioPath,
		LanguageDetectionMinProb:  cfg.Defaults.LanguageDetectionMinProb,
		LanguageDetectionMaxTries: cfg.Defaults.LanguageDetectionMaxTries,
		BatchSize:                 cfg.Defaults.BatchSize,
		Temperature:               cfg.Defaults.Temperature,
		VADOnset:                  cfg.Defaults.VADOnset,
		VADOffset:                 cfg.Defaults.VADOffset,
		HFToken:                   cfg.Model.HFToken,
	}
}

// normalize validates the request and returns a copy with the language folded
// to the code the recognizer expects.
func (in Input) normalize() (Input, error) {
	var errs []error
	out := in

	out.AudioPath = strings.TrimSpace(in.AudioPath)
	if out.AudioPath == "" {
		errs = append(errs, errors.New("audio file is required"))
	} else if info, err := os.Stat(out.AudioPath); err != nil {
		errs = append(errs, fmt.Errorf("audio file: %w", err))
	} else if info.IsDir() {
		errs = append(errs, fmt.Errorf("audio file %q is a directory", out.AudioPath))
	}

	language, err := langpkg.Normalize(in.Language)
	if err != nil {
		errs = append(errs, err)
	}
	out.Language = language

	if in.LanguageDetectionMinProb < 0 || in.LanguageDetectionMinProb > 1 {
		errs = append(errs, fmt.Errorf("language detection min probability must be within [0, 1], got %v", in.LanguageDetectionMinProb))
	}
	if in.LanguageDetectionMaxTries < 0 {
		errs = append(errs, fmt.Errorf("language detection max tries must be non-negative, got %d", in.LanguageDetectionMaxTries))
	}
	if in.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("batch size must be positive, got %d", in.BatchSize))
	}
	if in.Temperature < 0 {
		errs = append(errs, fmt.Errorf("temperature must be non-negative, got %v", in.Temperature))
	}
	if in.VADOnset <= 0 || in.VADOnset > 1 {
		errs = append(errs, fmt.Errorf("vad onset must be within (0, 1], got %v", in.VADOnset))
	}
	if in.VADOffset <= 0 || in.VADOffset > 1 {
		errs = append(errs, fmt.Errorf("vad offset must be within (0, 1], got %v", in.VADOffset))
	}
	if in.MinSpeakers < 0 || in.MaxSpeakers < 0 {
		errs = append(errs, errors.New("speaker bounds must be non-negative"))
	}
	if in.MinSpeakers > 0 && in.MaxSpeakers > 0 && in.MinSpeakers > in.MaxSpeakers {
		errs = append(errs, fmt.Errorf("min speakers (%d) exceeds max speakers (%d)", in.MinSpeakers, in.MaxSpeakers))
	}
	out.InitialPrompt = strings.TrimSpace(in.InitialPrompt)
	out.HFToken = strings.TrimSpace(in.HFToken)

	if len(errs) > 0 {
		return Input{}, services.Wrap(services.ErrValidation, "input", "validate", "invalid prediction request", errors.Join(errs...))
	}

	// Diarization only runs when alignment was not requested.
	if out.Diarization && !out.AlignOutput && out.HFToken == "" {
		return Input{}, services.Wrap(services.ErrConfiguration, "input", "validate", "diarization requires a Hugging Face access token (--hf-token or HF_TOKEN)", nil)
	}
	return out, nil
}

func (in Input) transcribeOptions(language string) whisperx.TranscribeOptions {
	return whisperx.TranscribeOptions{
		Language:      language,
		InitialPrompt: in.InitialPrompt,
		Temperature:   in.Temperature,
		BatchSize:     in.BatchSize,
		VADOnset:      in.VADOnset,
		VADOffset:     in.VADOffset,
	}
}
