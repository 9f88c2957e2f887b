package config

const (
	DeviceCUDA = "cuda"
	DeviceCPU  = "cpu"
)

const (
	defaultLogDir                   = "~/.local/share/scribe/logs"
	defaultLockFile                 = "~/.local/share/scribe/device.lock"
	defaultVADModel                 = "./models/vad/whisperx-vad-segmentation.bin"
	defaultTorchCacheDir            = "~/.cache/torch"
	defaultModelArch                = "./models/faster-whisper-large-v3"
	defaultDevice                   = DeviceCUDA
	defaultComputeType              = "float16"
	defaultDiarizationModel         = "pyannote/speaker-diarization@2.1"
	defaultUVXBinary                = "uvx"
	defaultWhisperXPackage          = "whisperx"
	defaultIndexURL                 = "https://pypi.org/simple"
	defaultCUDAIndexURL             = "https://download.pytorch.org/whl/cu128"
	defaultFFmpegBinary             = "ffmpeg"
	defaultFFprobeBinary            = "ffprobe"
	defaultLanguageDetectionMinProb = 0
	defaultLanguageDetectionTries   = 5
	defaultBatchSize                = 64
	defaultTemperature              = 0
	defaultVADOnset                 = 0.500
	defaultVADOffset                = 0.363
	defaultLogFormat                = "console"
	defaultLogLevel                 = "info"
	defaultLogRetentionDays         = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:        defaultLogDir,
			LockFile:      defaultLockFile,
			VADModel:      defaultVADModel,
			TorchCacheDir: defaultTorchCacheDir,
		},
		Model: Model{
			Arch:             defaultModelArch,
			Device:           defaultDevice,
			ComputeType:      defaultComputeType,
			DiarizationModel: defaultDiarizationModel,
		},
		Runtime: Runtime{
			UVXBinary:       defaultUVXBinary,
			WhisperXPackage: defaultWhisperXPackage,
			FFmpegBinary:    defaultFFmpegBinary,
			FFprobeBinary:   defaultFFprobeBinary,
		},
		Defaults: Defaults{
			LanguageDetectionMinProb:  defaultLanguageDetectionMinProb,
			LanguageDetectionMaxTries: defaultLanguageDetectionTries,
			BatchSize:                 defaultBatchSize,
			Temperature:               defaultTemperature,
			VADOnset:                  defaultVADOnset,
			VADOffset:                 defaultVADOffset,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
