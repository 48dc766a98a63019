// ABOUTME: MP3 file source
// ABOUTME: Decodes MP3 audio with go-mp3 (always 16-bit stereo output)
package source

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
	"github.com/vitruviano/whisper-go/pkg/audio"
)

// ReadMP3 decodes an MP3 stream
func ReadMP3(r io.Reader) (Clip, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return Clip{}, fmt.Errorf("failed to decode MP3: %w", err)
	}

	data, err := io.ReadAll(decoder)
	if err != nil {
		return Clip{}, fmt.Errorf("mp3 decode error: %w", err)
	}

	// go-mp3 outputs interleaved stereo int16
	samples := make([]float32, len(data)/2)
	for i := range samples {
		samples[i] = audio.SampleToFloat(int16(binary.LittleEndian.Uint16(data[i*2:])))
	}

	return Clip{
		Samples:    samples,
		SampleRate: decoder.SampleRate(),
		Channels:   2,
	}, nil
}
