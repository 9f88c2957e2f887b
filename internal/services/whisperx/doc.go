// Package whisperx runs the WhisperX recognition pipeline out of process.
//
// Every stage (language identification, transcription, alignment,
// diarization) is a separate invocation of an embedded Python helper run
// through uvx. A stage loads exactly one model and exits, so model memory and
// accelerator state are released on every path, including failures.
//
// Requests and responses travel through JSON files in a per-call scratch
// directory that is removed before the call returns. Failed invocations
// return a *services.ServiceError whose DetailPath points at the captured
// stderr under the configured log directory.
//
// Tests substitute the command runner with WithCommandRunner.
package whisperx
