package whisperx

import (
	"encoding/json"
	"fmt"
	"os"

	langpkg "scribe/internal/language"
)

// Word is a single word with optional alignment timing and speaker label.
// Timing fields are nil for tokens the aligner could not place.
type Word struct {
	Word    string   `json:"word"`
	Start   *float64 `json:"start,omitempty"`
	End     *float64 `json:"end,omitempty"`
	Score   *float64 `json:"score,omitempty"`
	Speaker string   `json:"speaker,omitempty"`
}

// Segment is one transcribed span of speech.
type Segment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker,omitempty"`
	Words   []Word  `json:"words,omitempty"`
}

// Result is the outcome of a transcription, alignment or diarization stage.
// Each stage returns a new Result; inputs are never mutated.
type Result struct {
	Segments []Segment
	Language string
	// AlignSupported is the installed whisperx's own verdict on whether
	// Language has a default alignment model. Nil when the helper could
	// not tell.
	AlignSupported *bool
	// PeakMemoryGB is the accelerator memory the helper reserved at its
	// peak, or 0 on CPU.
	PeakMemoryGB float64
}

// SupportsAlignment reports whether align and diarize can run for r. The
// helper's answer wins; the built-in table is the fallback.
func (r Result) SupportsAlignment() bool {
	if r.AlignSupported != nil {
		return *r.AlignSupported
	}
	return langpkg.SupportsAlignment(r.Language)
}

// Detection is the outcome of a single-window language identification.
type Detection struct {
	Language     string
	Probability  float64
	PeakMemoryGB float64
}

type helperRequest struct {
	Audio            string    `json:"audio"`
	Model            string    `json:"model"`
	Device           string    `json:"device"`
	ComputeType      string    `json:"compute_type"`
	Language         string    `json:"language,omitempty"`
	InitialPrompt    *string   `json:"initial_prompt"`
	Temperature      float64   `json:"temperature"`
	BatchSize        int       `json:"batch_size,omitempty"`
	VADOnset         float64   `json:"vad_onset"`
	VADOffset        float64   `json:"vad_offset"`
	Segments         []Segment `json:"segments,omitempty"`
	DiarizationModel string    `json:"diarization_model,omitempty"`
	HFToken          string    `json:"hf_token,omitempty"`
	MinSpeakers      *int      `json:"min_speakers"`
	MaxSpeakers      *int      `json:"max_speakers"`
}

type helperResponse struct {
	Language       string    `json:"language"`
	Probability    float64   `json:"probability"`
	Segments       []Segment `json:"segments"`
	AlignSupported *bool     `json:"align_supported"`
	PeakMemoryGB   float64   `json:"peak_memory_gb"`
}

func loadResponse(path string) (helperResponse, error) {
	var resp helperResponse
	data, err := os.ReadFile(path)
	if err != nil {
		return resp, err
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return resp, fmt.Errorf("parse helper output: %w", err)
	}
	if resp.Segments == nil {
		resp.Segments = []Segment{}
	}
	return resp, nil
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func optionalInt(value int) *int {
	if value <= 0 {
		return nil
	}
	return &value
}
