package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"scribe/internal/config"
	"scribe/internal/deps"
	"scribe/internal/logging"
	"scribe/internal/predict"
	"scribe/internal/preflight"
	"scribe/internal/services"
)

type predictor interface {
	Predict(ctx context.Context, in predict.Input) (predict.Output, error)
}

// newPredictor is replaced in tests to avoid spawning the helper runtime.
var newPredictor = func(cfg *config.Config, logger *slog.Logger) predictor {
	return predict.New(cfg, logger)
}

// skipDependencyCheck is set in tests that stub the predictor entirely.
var skipDependencyCheck = false

type predictFlags struct {
	language      string
	minProb       float64
	maxTries      int
	initialPrompt string
	batchSize     int
	temperature   float64
	vadOnset      float64
	vadOffset     float64
	alignOutput   bool
	diarization   bool
	hfToken       string
	minSpeakers   int
	maxSpeakers   int
	debug         bool
	output        string
}

func newPredictCommand(ctx *commandContext) *cobra.Command {
	var flags predictFlags

	cmd := &cobra.Command{
		Use:   "predict AUDIO",
		Short: "Transcribe an audio file and print segments as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.logger()

			in := predict.DefaultInput(cfg, args[0])
			applyPredictFlags(cmd, flags, &in)

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if _, err := predict.Setup(cfg, logger); err != nil {
				return err
			}
			if !skipDependencyCheck {
				if err := requireDependencies(cfg); err != nil {
					return err
				}
			}
			defer logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays, logging.RetentionTarget{
				Dir:     filepath.Join(cfg.Paths.LogDir, "tool"),
				Pattern: "*.log",
			})

			out, err := newPredictor(cfg, logger).Predict(runCtx, in)
			if err != nil {
				return err
			}
			return writePrediction(cmd, strings.TrimSpace(flags.output), out)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.language, "language", "", "Language spoken in the audio; empty runs language detection")
	f.Float64Var(&flags.minProb, "language-detection-min-prob", 0, "Stop detection once a window reaches this probability")
	f.IntVar(&flags.maxTries, "language-detection-max-tries", 5, "Maximum number of detection windows")
	f.StringVar(&flags.initialPrompt, "initial-prompt", "", "Prompt text for the first transcription window")
	f.IntVar(&flags.batchSize, "batch-size", 64, "Parallelization of input audio transcription")
	f.Float64Var(&flags.temperature, "temperature", 0, "Sampling temperature")
	f.Float64Var(&flags.vadOnset, "vad-onset", 0.500, "VAD onset threshold")
	f.Float64Var(&flags.vadOffset, "vad-offset", 0.363, "VAD offset threshold")
	f.BoolVar(&flags.alignOutput, "align-output", false, "Produce word-level timestamps")
	f.BoolVar(&flags.diarization, "diarization", false, "Assign speaker labels")
	f.StringVar(&flags.hfToken, "hf-token", "", "Hugging Face token for the diarization model (default model.hf_token / HF_TOKEN)")
	f.IntVar(&flags.minSpeakers, "min-speakers", 0, "Minimum number of speakers (0 = unknown)")
	f.IntVar(&flags.maxSpeakers, "max-speakers", 0, "Maximum number of speakers (0 = unknown)")
	f.BoolVar(&flags.debug, "debug", false, "Log stage timings and peak accelerator memory")
	f.StringVarP(&flags.output, "output", "o", "", "Write JSON to this file instead of stdout")

	return cmd
}

// applyPredictFlags overrides the configured defaults with the flags the user
// actually set, so config values win over flag defaults.
func applyPredictFlags(cmd *cobra.Command, flags predictFlags, in *predict.Input) {
	changed := cmd.Flags().Changed
	if changed("language") {
		in.Language = flags.language
	}
	if changed("language-detection-min-prob") {
		in.LanguageDetectionMinProb = flags.minProb
	}
	if changed("language-detection-max-tries") {
		in.LanguageDetectionMaxTries = flags.maxTries
	}
	if changed("initial-prompt") {
		in.InitialPrompt = flags.initialPrompt
	}
	if changed("batch-size") {
		in.BatchSize = flags.batchSize
	}
	if changed("temperature") {
		in.Temperature = flags.temperature
	}
	if changed("vad-onset") {
		in.VADOnset = flags.vadOnset
	}
	if changed("vad-offset") {
		in.VADOffset = flags.vadOffset
	}
	if changed("hf-token") {
		in.HFToken = flags.hfToken
	}
	if changed("min-speakers") {
		in.MinSpeakers = flags.minSpeakers
	}
	if changed("max-speakers") {
		in.MaxSpeakers = flags.maxSpeakers
	}
	in.AlignOutput = flags.alignOutput
	in.Diarization = flags.diarization
	in.Debug = flags.debug
}

func requireDependencies(cfg *config.Config) error {
	missing := deps.Missing(preflight.CheckSystemDeps(cfg))
	if len(missing) == 0 {
		return nil
	}
	names := make([]string, 0, len(missing))
	for _, status := range missing {
		names = append(names, fmt.Sprintf("%s (%s)", status.Name, status.Detail))
	}
	return services.Wrap(services.ErrConfiguration, "predict", "check dependencies",
		"Missing required binaries: "+strings.Join(names, ", "), nil)
}

// writePrediction emits the result. A file target is only written once the
// whole prediction succeeded.
func writePrediction(cmd *cobra.Command, target string, out predict.Output) error {
	if target == "" {
		return writeJSON(cmd, out)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode prediction: %w", err)
	}
	if dir := filepath.Dir(target); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(target, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write prediction: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d segments to %s\n", len(out.Segments), target)
	return nil
}
