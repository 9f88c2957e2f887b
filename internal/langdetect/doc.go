// Package langdetect decides which language an input is spoken in by
// sampling fixed-length windows spread across the audio.
//
// Plan computes the window start offsets. Detector walks those offsets in
// order, running one language identification per window, and stops at the
// first result whose probability clears the threshold or when the iteration
// budget is spent. In the latter case the last evaluated result is returned,
// not the most confident one.
package langdetect
