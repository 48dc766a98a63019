// ABOUTME: Audio source abstraction for importing whisper audio from files
// ABOUTME: Decodes, downmixes and resamples to the canonical payload format
package source

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vitruviano/whisper-go/pkg/audio"
	"github.com/vitruviano/whisper-go/pkg/audio/decode"
	"github.com/vitruviano/whisper-go/pkg/audio/encode"
	"github.com/vitruviano/whisper-go/pkg/audio/resample"
)

// Clip is decoded audio at its native rate
type Clip struct {
	Samples    []float32 // interleaved, normalized
	SampleRate int
	Channels   int
}

// Mono returns the clip downmixed to one channel
func (c Clip) Mono() []float32 {
	return resample.Downmix(c.Samples, c.Channels)
}

// Payload converts the clip to a whisper RawAudioPayload
func (c Clip) Payload() (string, error) {
	if c.SampleRate <= 0 {
		return "", fmt.Errorf("invalid sample rate: %d", c.SampleRate)
	}
	if c.Channels <= 0 {
		return "", fmt.Errorf("invalid channel count: %d", c.Channels)
	}

	samples := resample.New(c.SampleRate, audio.SampleRate).Process(c.Mono())
	return base64.StdEncoding.EncodeToString(encode.PCM16(samples)), nil
}

// LoadFile reads path and returns a RawAudioPayload
func LoadFile(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".b64", ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read payload file: %w", err)
		}
		payload := strings.TrimSpace(string(data))
		if _, err := decode.PCMBytes(payload); err != nil {
			return "", err
		}
		return payload, nil

	case ".pcm":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read PCM file: %w", err)
		}
		if len(data)%audio.BytesPerSample != 0 {
			return "", fmt.Errorf("%w: %d bytes is not a whole number of 16-bit samples",
				audio.ErrInvalidAudioPayload, len(data))
		}
		return base64.StdEncoding.EncodeToString(data), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	clip, err := Read(f, ext)
	if err != nil {
		return "", err
	}
	return clip.Payload()
}

// Read decodes an audio stream identified by its file extension
func Read(r io.ReadSeeker, ext string) (Clip, error) {
	switch strings.ToLower(ext) {
	case ".wav":
		return ReadWAV(r)
	case ".mp3":
		return ReadMP3(r)
	case ".flac":
		return ReadFLAC(r)
	default:
		return Clip{}, fmt.Errorf("unsupported audio format: %s (supported: .wav, .mp3, .flac, .b64, .pcm)", ext)
	}
}
