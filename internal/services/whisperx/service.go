package whisperx

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"scribe/internal/config"
	langpkg "scribe/internal/language"
	"scribe/internal/logging"
	"scribe/internal/services"
)

//go:embed assets/scribe_whisperx.py
var helperScript []byte

// CommandRunner executes an external command.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Service runs WhisperX stages through the embedded helper.
type Service struct {
	cfg           *config.Config
	logger        *slog.Logger
	commandRunner CommandRunner
}

// NewService creates a WhisperX service bound to the given configuration.
func NewService(cfg *config.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "whisperx"),
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner CommandRunner) {
	s.commandRunner = runner
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	return s.cfg.Model.Arch
}

// DetectLanguage identifies the language spoken in the first 30 seconds of
// path. The model is instantiated for this call only.
func (s *Service) DetectLanguage(ctx context.Context, path string, opts TranscribeOptions) (Detection, error) {
	req := s.baseRequest(path, opts)
	req.Language = ""
	resp, err := s.invoke(ctx, StageDetectLanguage, req)
	if err != nil {
		return Detection{}, err
	}
	if strings.TrimSpace(resp.Language) == "" {
		return Detection{}, services.Wrap(services.ErrExternalTool, StageDetectLanguage, "parse output", "helper returned no language", nil)
	}
	return Detection{
		Language:     resp.Language,
		Probability:  resp.Probability,
		PeakMemoryGB: resp.PeakMemoryGB,
	}, nil
}

// Transcribe runs full-file recognition on path.
func (s *Service) Transcribe(ctx context.Context, path string, opts TranscribeOptions) (Result, error) {
	resp, err := s.invoke(ctx, StageTranscribe, s.baseRequest(path, opts))
	if err != nil {
		return Result{}, err
	}
	return Result{
		Segments:       resp.Segments,
		Language:       resp.Language,
		AlignSupported: resp.AlignSupported,
		PeakMemoryGB:   resp.PeakMemoryGB,
	}, nil
}

// Align refines prev with word-level timestamps from the alignment model for
// prev.Language.
func (s *Service) Align(ctx context.Context, path string, prev Result) (Result, error) {
	if !prev.SupportsAlignment() {
		return Result{}, services.Wrap(services.ErrValidation, StageAlign, "lookup model", fmt.Sprintf("no alignment model for language %q", prev.Language), nil)
	}
	req := s.baseRequest(path, TranscribeOptions{})
	req.Language = prev.Language
	req.Segments = prev.Segments
	resp, err := s.invoke(ctx, StageAlign, req)
	if err != nil {
		return Result{}, err
	}
	return Result{Segments: resp.Segments, Language: prev.Language, AlignSupported: prev.AlignSupported, PeakMemoryGB: resp.PeakMemoryGB}, nil
}

// Diarize labels the segments and words of prev with speaker identifiers.
func (s *Service) Diarize(ctx context.Context, path string, prev Result, opts DiarizeOptions) (Result, error) {
	token := strings.TrimSpace(opts.Token)
	if token == "" {
		return Result{}, services.Wrap(services.ErrConfiguration, StageDiarize, "validate", "a Hugging Face access token is required for diarization", nil)
	}
	req := s.baseRequest(path, TranscribeOptions{})
	req.Language = prev.Language
	req.Segments = prev.Segments
	req.DiarizationModel = s.cfg.Model.DiarizationModel
	req.HFToken = token
	req.MinSpeakers = optionalInt(opts.MinSpeakers)
	req.MaxSpeakers = optionalInt(opts.MaxSpeakers)
	resp, err := s.invoke(ctx, StageDiarize, req)
	if err != nil {
		return Result{}, err
	}
	return Result{Segments: resp.Segments, Language: prev.Language, AlignSupported: prev.AlignSupported, PeakMemoryGB: resp.PeakMemoryGB}, nil
}

func (s *Service) baseRequest(path string, opts TranscribeOptions) helperRequest {
	return helperRequest{
		Audio:         path,
		Model:         s.cfg.Model.Arch,
		Device:        s.cfg.Model.Device,
		ComputeType:   s.cfg.Model.ComputeType,
		Language:      helperLanguage(opts.Language),
		InitialPrompt: optionalString(opts.InitialPrompt),
		Temperature:   opts.Temperature,
		BatchSize:     opts.BatchSize,
		VADOnset:      opts.VADOnset,
		VADOffset:     opts.VADOffset,
	}
}

// invoke materializes the helper and request into a scratch directory, runs
// one stage and decodes its output. The scratch directory never outlives the call.
func (s *Service) invoke(ctx context.Context, stage string, req helperRequest) (helperResponse, error) {
	if strings.TrimSpace(req.Audio) == "" {
		return helperResponse{}, services.Wrap(services.ErrValidation, stage, "validate", "audio path required", nil)
	}
	scratch, err := os.MkdirTemp(s.cfg.WorkDir(), "scribe-whisperx-*")
	if err != nil {
		return helperResponse{}, services.Wrap(services.ErrConfiguration, stage, "create scratch dir", "Failed to create helper scratch directory", err)
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			s.logger.Warn("failed to remove helper scratch directory",
				logging.String("path", scratch),
				logging.Error(err),
				logging.String(logging.FieldEventType, "scratch_cleanup_failed"),
				logging.String(logging.FieldErrorHint, "remove the directory manually"),
			)
		}
	}()

	scriptPath := filepath.Join(scratch, helperScriptName)
	if err := os.WriteFile(scriptPath, helperScript, 0o755); err != nil {
		return helperResponse{}, services.Wrap(services.ErrConfiguration, stage, "write helper", "Failed to write helper script", err)
	}
	requestPath := filepath.Join(scratch, requestFileName)
	payload, err := json.Marshal(req)
	if err != nil {
		return helperResponse{}, services.Wrap(services.ErrValidation, stage, "encode request", "Failed to encode helper request", err)
	}
	// The request may carry an access token.
	if err := os.WriteFile(requestPath, payload, 0o600); err != nil {
		return helperResponse{}, services.Wrap(services.ErrConfiguration, stage, "write request", "Failed to write helper request", err)
	}
	outputPath := filepath.Join(scratch, outputFileName)

	args := s.buildArgs(scriptPath, stage, requestPath, outputPath)
	started := time.Now()
	s.logger.Debug("whisperx stage starting",
		logging.String(logging.FieldStage, stage),
		logging.String("model", s.Model()),
		logging.String("device", s.cfg.Model.Device),
	)
	if err := s.run(ctx, s.cfg.Runtime.UVXBinary, args...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return helperResponse{}, ctxErr
		}
		var svcErr *services.ServiceError
		if errors.As(err, &svcErr) {
			if svcErr.Stage == "" {
				svcErr.Stage = stage
			}
			return helperResponse{}, svcErr
		}
		return helperResponse{}, services.Wrap(services.ErrExternalTool, stage, "run helper", "WhisperX helper failed", err)
	}

	resp, err := loadResponse(outputPath)
	if err != nil {
		return helperResponse{}, services.Wrap(services.ErrExternalTool, stage, "read output", "WhisperX helper produced no usable output", err)
	}
	s.logger.Debug("whisperx stage finished",
		logging.String(logging.FieldStage, stage),
		logging.Duration("elapsed", time.Since(started)),
		logging.Float64("peak_memory_gb", resp.PeakMemoryGB),
	)
	return resp, nil
}

// buildArgs constructs the uvx command arguments for one helper stage.
func (s *Service) buildArgs(scriptPath, stage, requestPath, outputPath string) []string {
	args := make([]string, 0, 16)
	if s.cfg.Runtime.IndexURL != "" {
		args = append(args, "--index-url", s.cfg.Runtime.IndexURL)
	}
	if s.cfg.Runtime.ExtraIndexURL != "" {
		args = append(args, "--extra-index-url", s.cfg.Runtime.ExtraIndexURL)
	}
	args = append(args,
		"--with", s.cfg.Runtime.WhisperXPackage,
		pythonCommand,
		scriptPath,
		stage,
		"--request", requestPath,
		"--output", outputPath,
	)
	return args
}

// run executes a command, using the custom runner if set.
func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	return s.defaultCommandRunner(ctx, name, args...)
}

func (s *Service) defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stderr strings.Builder
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr

	env := os.Environ()
	// Torch 2.6 changed torch.load default to weights_only=true, breaking WhisperX/pyannote.
	// Force legacy behavior so bundled WhisperX binaries can load checkpoints safely.
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		env = append(env, "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}
	// The VAD checkpoint installed by setup is looked up under TORCH_HOME.
	if s.cfg.Paths.TorchCacheDir != "" {
		env = append(env, "TORCH_HOME="+s.cfg.Paths.TorchCacheDir)
	}
	cmd.Env = env

	if err := cmd.Run(); err != nil {
		// A killed helper is a cancellation, not a tool failure.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		raw := strings.TrimSpace(stderr.String())
		detailPath := s.writeToolLog(name, args, raw)
		stage, _ := services.StageFromContext(ctx)
		base := fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
		return &services.ServiceError{
			Marker:     services.ErrExternalTool,
			Kind:       services.ErrorKindExternal,
			Stage:      stage,
			Operation:  "command",
			Message:    "External command failed",
			DetailPath: detailPath,
			Cause:      base,
		}
	}
	return nil
}

func (s *Service) writeToolLog(name string, args []string, stderr string) string {
	if s == nil || s.cfg == nil {
		return ""
	}
	logDir := strings.TrimSpace(s.cfg.Paths.LogDir)
	if logDir == "" {
		return ""
	}
	toolDir := filepath.Join(logDir, "tool")
	if err := os.MkdirAll(toolDir, 0o755); err != nil {
		s.logger.Warn("failed to create tool log directory; tool stderr not captured",
			logging.Error(err),
			logging.String(logging.FieldEventType, "tool_log_dir_failed"),
			logging.String(logging.FieldErrorHint, "check log_dir permissions"),
		)
		return ""
	}
	timestamp := time.Now().UTC().Format("20060102T150405.000Z")
	toolName := sanitizeToolName(name)
	if toolName == "" {
		toolName = "tool"
	}
	path := filepath.Join(toolDir, fmt.Sprintf("%s-%s.log", timestamp, toolName))

	command := strings.TrimSpace(strings.Join(append([]string{name}, args...), " "))
	payload := strings.Builder{}
	payload.Grow(len(command) + len(stderr) + 64)
	payload.WriteString("command: ")
	payload.WriteString(command)
	payload.WriteByte('\n')
	payload.WriteString("stderr:\n")
	payload.WriteString(stderr)
	payload.WriteByte('\n')

	if err := os.WriteFile(path, []byte(payload.String()), 0o644); err != nil {
		s.logger.Warn("failed to write tool log; stderr detail lost",
			logging.Error(err),
			logging.String(logging.FieldEventType, "tool_log_write_failed"),
			logging.String(logging.FieldErrorHint, "check log_dir permissions"),
		)
		return ""
	}
	return path
}

// helperLanguage maps known names to ISO 639-1 and passes other model codes
// (e.g. "haw", "yue") through unchanged.
func helperLanguage(code string) string {
	if iso := langpkg.ToISO2(code); iso != "" {
		return iso
	}
	return strings.ToLower(strings.TrimSpace(code))
}

func sanitizeToolName(value string) string {
	value = strings.TrimSpace(filepath.Base(value))
	if value == "" {
		return ""
	}
	value = strings.ToLower(value)
	replacer := strings.NewReplacer("/", "-", "\\", "-", ":", "-", " ", "-")
	return strings.Trim(replacer.Replace(value), "-")
}
