// ABOUTME: FLAC file source
// ABOUTME: Decodes FLAC frames with mewkiz/flac into interleaved samples
package source

import (
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"
)

// ReadFLAC decodes a FLAC stream
func ReadFLAC(r io.Reader) (Clip, error) {
	stream, err := flac.New(r)
	if err != nil {
		return Clip{}, fmt.Errorf("failed to create FLAC decoder: %w", err)
	}
	defer stream.Close()

	channels := int(stream.Info.NChannels)
	scale := float64(int64(1) << (stream.Info.BitsPerSample - 1))

	var samples []float32
	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Clip{}, fmt.Errorf("failed to parse FLAC frame: %w", err)
		}

		// Subframes hold one channel each; interleave them
		n := len(frame.Subframes[0].Samples)
		for i := 0; i < n; i++ {
			for ch := 0; ch < channels; ch++ {
				samples = append(samples, float32(float64(frame.Subframes[ch].Samples[i])/scale))
			}
		}
	}

	return Clip{
		Samples:    samples,
		SampleRate: int(stream.Info.SampleRate),
		Channels:   channels,
	}, nil
}
