// ABOUTME: PCM audio encoder
// ABOUTME: Encodes float32 samples to 16-bit PCM or float32 little-endian bytes
package encode

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/vitruviano/whisper-go/pkg/audio"
)

// PCMEncoder encodes 16-bit PCM audio
type PCMEncoder struct{}

// NewPCM creates a new PCM encoder
func NewPCM(format audio.Format) (Encoder, error) {
	if format.Codec != "pcm" {
		return nil, fmt.Errorf("invalid codec for PCM encoder: %s", format.Codec)
	}

	if format.BitDepth != audio.BitDepth {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16)", format.BitDepth)
	}

	return &PCMEncoder{}, nil
}

// Encode converts float samples to 16-bit little-endian PCM bytes
func (e *PCMEncoder) Encode(samples []float32) ([]byte, error) {
	return PCM16(samples), nil
}

// Close releases resources
func (e *PCMEncoder) Close() error {
	return nil
}

// PCM16 converts samples to clipped 16-bit little-endian PCM
func PCM16(samples []float32) []byte {
	output := make([]byte, len(samples)*audio.BytesPerSample)
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(output[i*2:], uint16(audio.SampleFromFloat(sample)))
	}
	return output
}

// Float32LE serializes samples as 32-bit little-endian floats
func Float32LE(samples []float32) []byte {
	output := make([]byte, len(samples)*4)
	for i, sample := range samples {
		binary.LittleEndian.PutUint32(output[i*4:], math.Float32bits(sample))
	}
	return output
}
