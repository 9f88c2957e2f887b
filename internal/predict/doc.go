// Package predict runs one transcription request end to end.
//
// A prediction holds the accelerator lock for its whole duration, detects
// the spoken language when the caller did not name one, transcribes the full
// input, then optionally aligns words or labels speakers. Alignment wins when
// both are requested, and both are skipped for languages without a default
// alignment model. Stages run strictly one after another, each in its own
// helper process, so only one model is resident at a time.
//
// Setup installs the bundled VAD checkpoint into the torch cache and is safe
// to call before every prediction.
package predict
