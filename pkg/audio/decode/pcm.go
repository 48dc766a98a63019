// ABOUTME: PCM audio decoder
// ABOUTME: Decodes base64 16-bit little-endian PCM to float32 samples
package decode

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"

	"github.com/vitruviano/whisper-go/pkg/audio"
)

// PCMDecoder decodes 16-bit little-endian PCM
type PCMDecoder struct{}

// NewPCM creates a new PCM decoder
func NewPCM(format audio.Format) (Decoder, error) {
	if format.Codec != "pcm" {
		return nil, fmt.Errorf("invalid codec for PCM decoder: %s", format.Codec)
	}

	if format.BitDepth != audio.BitDepth {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16)", format.BitDepth)
	}

	return &PCMDecoder{}, nil
}

// Decode converts PCM bytes to float samples
func (d *PCMDecoder) Decode(data []byte) ([]float32, error) {
	if len(data)%audio.BytesPerSample != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of 16-bit samples",
			audio.ErrInvalidAudioPayload, len(data))
	}

	samples := make([]float32, len(data)/audio.BytesPerSample)
	for i := range samples {
		sample16 := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = audio.SampleToFloat(sample16)
	}
	return samples, nil
}

// Close releases resources
func (d *PCMDecoder) Close() error {
	return nil
}

// PCMBytes unwraps the base64 text of a payload into raw PCM bytes
func PCMBytes(payload string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", audio.ErrInvalidAudioPayload, err)
	}

	if len(data)%audio.BytesPerSample != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of 16-bit samples",
			audio.ErrInvalidAudioPayload, len(data))
	}

	return data, nil
}

// DecodeBase64 decodes a payload into a sample buffer
func DecodeBase64(payload string) ([]float32, error) {
	data, err := PCMBytes(payload)
	if err != nil {
		return nil, err
	}

	var d PCMDecoder
	return d.Decode(data)
}
