package whisperx

// Stage identifiers understood by the helper script.
const (
	StageDetectLanguage = "detect-language"
	StageTranscribe     = "transcribe"
	StageAlign          = "align"
	StageDiarize        = "diarize"
)

const (
	helperScriptName = "scribe_whisperx.py"
	requestFileName  = "request.json"
	outputFileName   = "output.json"
	pythonCommand    = "python"
)

// TranscribeOptions carries the recognition settings shared by language
// identification and transcription, since both instantiate the same model.
type TranscribeOptions struct {
	// Language is an ISO 639-1 code; empty lets the model decide.
	Language      string
	InitialPrompt string
	Temperature   float64
	BatchSize     int
	VADOnset      float64
	VADOffset     float64
}

// DiarizeOptions carries speaker diarization settings. Zero speaker bounds
// mean unknown.
type DiarizeOptions struct {
	Token       string
	MinSpeakers int
	MaxSpeakers int
}
