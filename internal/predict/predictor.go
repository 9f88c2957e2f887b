package predict

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"scribe/internal/config"
	"scribe/internal/langdetect"
	"scribe/internal/logging"
	"scribe/internal/media/audio"
	"scribe/internal/services"
	"scribe/internal/services/whisperx"
)

// Stage names attached to errors and logs.
const (
	StageDetect     = "detect"
	StageTranscribe = "transcribe"
	StageAlign      = "align"
	StageDiarize    = "diarize"
)

// Backend runs the recognition stages.
type Backend interface {
	langdetect.LanguageIdentifier
	Transcribe(ctx context.Context, path string, opts whisperx.TranscribeOptions) (whisperx.Result, error)
	Align(ctx context.Context, path string, prev whisperx.Result) (whisperx.Result, error)
	Diarize(ctx context.Context, path string, prev whisperx.Result, opts whisperx.DiarizeOptions) (whisperx.Result, error)
}

// DurationProbe reports the duration of an audio file in milliseconds.
type DurationProbe func(ctx context.Context, path string) (int64, error)

// Option customizes a Predictor.
type Option func(*Predictor)

// WithBackend replaces the recognition backend.
func WithBackend(backend Backend) Option {
	return func(p *Predictor) { p.backend = backend }
}

// WithExtractor replaces the window extractor used for language detection.
func WithExtractor(extractor langdetect.WindowExtractor) Option {
	return func(p *Predictor) { p.extractor = extractor }
}

// WithDurationProbe replaces the duration probe.
func WithDurationProbe(probe DurationProbe) Option {
	return func(p *Predictor) { p.probe = probe }
}

// Predictor orchestrates a prediction.
type Predictor struct {
	cfg       *config.Config
	logger    *slog.Logger
	backend   Backend
	extractor langdetect.WindowExtractor
	probe     DurationProbe
}

// New constructs a Predictor wired to the WhisperX helper, ffmpeg and ffprobe
// named in cfg unless overridden by opts.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Predictor {
	if logger == nil {
		logger = logging.NewNop()
	}
	p := &Predictor{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "predict"),
		backend:   whisperx.NewService(cfg, logger),
		extractor: audio.NewExtractor(cfg.Runtime.FFmpegBinary, cfg.WorkDir()),
		probe: func(ctx context.Context, path string) (int64, error) {
			return audio.DurationMillis(ctx, cfg.Runtime.FFprobeBinary, path)
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Predict runs one prediction. Failures abort the whole request; no partial
// output is returned.
func (p *Predictor) Predict(ctx context.Context, in Input) (Output, error) {
	ctx, requestID := services.EnsureRequestID(ctx)
	logger := logging.WithContext(ctx, p.logger)

	in, err := in.normalize()
	if err != nil {
		return Output{}, err
	}

	lock, err := acquireDeviceLock(p.cfg.Paths.LockFile)
	if err != nil {
		return Output{}, err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logging.WarnWithContext(logger, "failed to release device lock", "lock_release_failed",
				logging.String("path", p.cfg.Paths.LockFile),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "remove the lock file if no prediction is running"),
			)
		}
	}()

	logger.Info("prediction started",
		logging.String("audio", in.AudioPath),
		logging.String("model", p.cfg.Model.Arch),
		logging.String("device", p.cfg.Model.Device),
		logging.String("request_id", requestID),
	)

	language := in.Language
	if language == "" {
		detected, err := p.detectLanguage(ctx, in)
		if err != nil {
			return Output{}, err
		}
		language = detected.Language
	}

	result, err := p.transcribe(ctx, in, language)
	if err != nil {
		return Output{}, err
	}

	if result.SupportsAlignment() {
		switch {
		case in.AlignOutput:
			result, err = p.align(ctx, in, result)
		case in.Diarization:
			result, err = p.diarize(ctx, in, result)
		}
		if err != nil {
			return Output{}, err
		}
	} else if in.AlignOutput || in.Diarization {
		logger.Info("alignment and diarization skipped",
			logging.String("language", result.Language),
			logging.String("reason", "no default alignment model"),
		)
	}

	segments := result.Segments
	if segments == nil {
		segments = []whisperx.Segment{}
	}
	logger.Info("prediction finished",
		logging.String("detected_language", result.Language),
		logging.Int("segments", len(segments)),
	)
	return Output{Segments: segments, DetectedLanguage: result.Language}, nil
}

func (p *Predictor) detectLanguage(ctx context.Context, in Input) (langdetect.Result, error) {
	ctx = services.WithStage(ctx, StageDetect)
	logger := logging.WithContext(ctx, p.logger)

	durationMS, err := p.probe(ctx, in.AudioPath)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return langdetect.Result{}, ctxErr
		}
		return langdetect.Result{}, services.Wrap(services.ErrExternalTool, StageDetect, "probe duration", "Failed to measure audio duration", err)
	}
	tries := langdetect.MaxTries(in.LanguageDetectionMaxTries, durationMS)
	offsets := langdetect.Plan(durationMS, langdetect.WindowMS, tries)
	logger.Info("detecting languages on segments",
		logging.String("starts_ms", joinOffsets(offsets)),
		logging.Int64("duration_ms", durationMS),
		logging.Int("max_tries", tries),
	)

	detector := langdetect.NewDetector(p.extractor, p.backend, p.logger)
	started := time.Now()
	detected, err := detector.Detect(ctx, in.AudioPath, offsets, in.LanguageDetectionMinProb, tries, in.transcribeOptions(""))
	if err != nil {
		return langdetect.Result{}, err
	}
	logger.Info("language detected",
		logging.String("language", detected.Language),
		logging.String("probability", strconv.FormatFloat(detected.Probability, 'f', 2, 64)),
		logging.Int("iterations", detected.Iterations),
		logging.String(logging.FieldEventType, "language_detected"),
	)
	p.debugElapsed(logger, in, "detect language", started, 0)
	return detected, nil
}

func (p *Predictor) transcribe(ctx context.Context, in Input, language string) (whisperx.Result, error) {
	ctx = services.WithStage(ctx, StageTranscribe)
	logger := logging.WithContext(ctx, p.logger)
	started := time.Now()
	result, err := p.backend.Transcribe(ctx, in.AudioPath, in.transcribeOptions(language))
	if err != nil {
		return whisperx.Result{}, err
	}
	p.debugElapsed(logger, in, "transcribe", started, result.PeakMemoryGB)
	return result, nil
}

func (p *Predictor) align(ctx context.Context, in Input, prev whisperx.Result) (whisperx.Result, error) {
	ctx = services.WithStage(ctx, StageAlign)
	logger := logging.WithContext(ctx, p.logger)
	started := time.Now()
	result, err := p.backend.Align(ctx, in.AudioPath, prev)
	if err != nil {
		return whisperx.Result{}, err
	}
	p.debugElapsed(logger, in, "align output", started, result.PeakMemoryGB)
	return result, nil
}

func (p *Predictor) diarize(ctx context.Context, in Input, prev whisperx.Result) (whisperx.Result, error) {
	ctx = services.WithStage(ctx, StageDiarize)
	logger := logging.WithContext(ctx, p.logger)
	started := time.Now()
	result, err := p.backend.Diarize(ctx, in.AudioPath, prev, whisperx.DiarizeOptions{
		Token:       in.HFToken,
		MinSpeakers: in.MinSpeakers,
		MaxSpeakers: in.MaxSpeakers,
	})
	if err != nil {
		return whisperx.Result{}, err
	}
	p.debugElapsed(logger, in, "diarize segments", started, result.PeakMemoryGB)
	return result, nil
}

// debugElapsed emits per-stage timing when the request asked for it. Debug
// output goes out at info level so it shows without reconfiguring logging.
func (p *Predictor) debugElapsed(logger *slog.Logger, in Input, step string, started time.Time, peakMemoryGB float64) {
	if !in.Debug {
		return
	}
	attrs := []logging.Attr{
		logging.String("step", step),
		logging.Duration("elapsed", time.Since(started)),
	}
	if peakMemoryGB > 0 {
		attrs = append(attrs, logging.String("max_gpu_memory", fmt.Sprintf("%.2f GB", peakMemoryGB)))
	}
	logger.Info("stage timing", logging.Args(attrs...)...)
}

func joinOffsets(offsets []int64) string {
	parts := make([]string, len(offsets))
	for i, off := range offsets {
		parts[i] = strconv.FormatInt(off, 10)
	}
	return strings.Join(parts, ", ")
}
