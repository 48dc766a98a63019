// ABOUTME: WAV file source
// ABOUTME: Reads PCM WAV files with go-audio/wav
package source

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ReadWAV decodes a PCM WAV stream
func ReadWAV(r io.ReadSeeker) (Clip, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return Clip{}, fmt.Errorf("invalid WAV file")
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return Clip{}, fmt.Errorf("failed to read PCM buffer: %w", err)
	}

	// Scale by 2^(bits-1) so 16-bit input maps exactly like the payload decoder
	scale := float64(goaudio.IntMaxSignedValue(int(d.BitDepth))) + 1

	samples := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float32(float64(v) / scale)
	}

	return Clip{
		Samples:    samples,
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
	}, nil
}
