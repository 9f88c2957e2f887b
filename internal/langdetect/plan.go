package langdetect

// WindowMS is the length of a language identification window.
const WindowMS int64 = 30000

// Plan returns iterations start offsets (milliseconds) spaced evenly so that
// the last window ends at totalMS. A single iteration always starts at 0.
// Offsets are not clamped: when totalMS < segmentMS the last offset is
// negative. iterations < 1 yields nil.
func Plan(totalMS, segmentMS int64, iterations int) []int64 {
	if iterations < 1 {
		return nil
	}
	offsets := make([]int64, iterations)
	if iterations == 1 {
		return offsets
	}
	span := totalMS - segmentMS
	spacing := floorDiv(span, int64(iterations-1))
	for i := range offsets {
		offsets[i] = int64(i) * spacing
	}
	offsets[iterations-1] = span
	return offsets
}

// MaxTries bounds the requested detection attempts by how many whole windows
// fit in the audio, never going below one attempt.
func MaxTries(requested int, totalMS int64) int {
	fit := floorDiv(totalMS, WindowMS)
	tries := int64(requested)
	if fit < tries {
		tries = fit
	}
	if tries < 1 {
		return 1
	}
	return int(tries)
}

// floorDiv rounds toward negative infinity; Go's / truncates toward zero.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
