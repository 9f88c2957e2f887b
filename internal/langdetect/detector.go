package langdetect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"scribe/internal/logging"
	"scribe/internal/media/audio"
	"scribe/internal/services"
	"scribe/internal/services/whisperx"
)

// Stage is the stage name attached to detection errors and logs.
const Stage = "language_detection"

// Result is the outcome of a detection run. Iterations is the 1-based count
// of windows evaluated.
type Result struct {
	Language    string
	Probability float64
	Iterations  int
}

// WindowExtractor cuts a window of the source into a temporary file.
type WindowExtractor interface {
	ExtractWindow(ctx context.Context, source string, startMS, durationMS int64) (*audio.Window, error)
}

// LanguageIdentifier runs single-window language identification.
type LanguageIdentifier interface {
	DetectLanguage(ctx context.Context, path string, opts whisperx.TranscribeOptions) (whisperx.Detection, error)
}

// Detector runs the sampling loop.
type Detector struct {
	extractor  WindowExtractor
	identifier LanguageIdentifier
	logger     *slog.Logger
}

// NewDetector constructs a detector from its collaborators.
func NewDetector(extractor WindowExtractor, identifier LanguageIdentifier, logger *slog.Logger) *Detector {
	return &Detector{
		extractor:  extractor,
		identifier: identifier,
		logger:     logging.NewComponentLogger(logger, "langdetect"),
	}
}

// Detect evaluates windows at offsets in order. It returns as soon as a
// window's probability reaches minProbability, or after maxIterations
// windows (or every offset) have been evaluated, whichever comes first.
// maxIterations below 1 is treated as 1.
func (d *Detector) Detect(ctx context.Context, source string, offsets []int64, minProbability float64, maxIterations int, opts whisperx.TranscribeOptions) (Result, error) {
	if len(offsets) == 0 {
		return Result{}, services.Wrap(services.ErrValidation, Stage, "plan", "no window offsets to evaluate", nil)
	}
	if maxIterations < 1 {
		maxIterations = 1
	}
	ctx = services.WithStage(ctx, Stage)
	logger := logging.WithContext(ctx, d.logger)

	var last Result
	for iteration := 1; ; iteration++ {
		if err := ctx.Err(); err != nil {
			return Result{}, services.Wrap(services.ErrTransient, Stage, "detect", "detection cancelled", err)
		}
		detection, err := d.evaluate(ctx, logger, source, offsets[iteration-1], opts)
		if err != nil {
			return Result{}, fmt.Errorf("iteration %d: %w", iteration, err)
		}
		last = Result{
			Language:    detection.Language,
			Probability: detection.Probability,
			Iterations:  iteration,
		}
		logger.Info("language identified on window",
			logging.Int("iteration", iteration),
			logging.Int64("offset_ms", offsets[iteration-1]),
			logging.String("language", detection.Language),
			logging.Float64("probability", detection.Probability),
		)
		if detection.Probability >= minProbability || iteration >= maxIterations || iteration >= len(offsets) {
			return last, nil
		}
	}
}

// evaluate identifies the language of one window. The window file is removed
// before evaluate returns, whatever the outcome.
func (d *Detector) evaluate(ctx context.Context, logger *slog.Logger, source string, startMS int64, opts whisperx.TranscribeOptions) (whisperx.Detection, error) {
	window, err := d.extractor.ExtractWindow(ctx, source, startMS, WindowMS)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return whisperx.Detection{}, ctxErr
		}
		var svcErr *services.ServiceError
		if errors.As(err, &svcErr) {
			return whisperx.Detection{}, err
		}
		return whisperx.Detection{}, services.Wrap(services.ErrExternalTool, Stage, "extract window", fmt.Sprintf("Failed to extract window at %dms", startMS), err)
	}
	defer func() {
		if err := window.Close(); err != nil {
			logging.WarnWithContext(logger, "failed to remove language window", "window_cleanup_failed",
				logging.String("path", window.Path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "remove the file manually"),
			)
		}
	}()
	return d.identifier.DetectLanguage(ctx, window.Path, opts)
}
