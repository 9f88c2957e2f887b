// Package audio measures input durations and cuts short analysis windows
// out of caller-owned audio files.
//
// DurationMillis reads WAV headers directly and falls back to ffprobe for
// every other container. Extractor writes a window into a temporary file
// that keeps the source container extension; callers must Close the
// returned Window once the backend has consumed it.
package audio
