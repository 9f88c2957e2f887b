package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"

	"scribe/internal/media/ffprobe"
)

// DurationMillis returns the playable duration of path in whole milliseconds.
func DurationMillis(ctx context.Context, ffprobeBinary, path string) (int64, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		if ms, ok := wavDurationMillis(path); ok {
			return ms, nil
		}
	}
	result, err := ffprobe.Inspect(ctx, ffprobeBinary, path)
	if err != nil {
		return 0, err
	}
	if result.AudioStreamCount() == 0 {
		return 0, fmt.Errorf("probe %s: no audio stream", filepath.Base(path))
	}
	return result.DurationMillis()
}

// wavDurationMillis reports false when the header cannot be trusted so the
// caller can fall back to ffprobe.
func wavDurationMillis(path string) (int64, bool) {
	f, err := os.Open(path)
	if err != nil {
		return 0, false
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return 0, false
	}
	if err := dec.FwdToPCM(); err != nil {
		return 0, false
	}
	bytesPerSecond := int64(dec.SampleRate) * int64(dec.NumChans) * int64(dec.BitDepth) / 8
	if bytesPerSecond <= 0 || dec.PCMLen() <= 0 {
		return 0, false
	}
	return dec.PCMLen() * 1000 / bytesPerSecond, true
}
