// ABOUTME: Audio type definitions
// ABOUTME: Defines the whisper PCM format and sample conversion helpers
package audio

import (
	"math"
	"time"
)

const (
	// SampleRate of every RawAudioPayload, as documented by the synthesis API
	SampleRate = 24000

	// Channels is always mono
	Channels = 1

	// BitDepth of the PCM samples
	BitDepth = 16

	// BytesPerSample is the size of one 16-bit sample
	BytesPerSample = BitDepth / 8

	// WAVHeaderSize is the size of the canonical RIFF/WAVE header
	WAVHeaderSize = 44

	// WAVMimeType is served with exported whispers
	WAVMimeType = "audio/wav"

	// WAVExtension is used for exported file names
	WAVExtension = ".wav"

	// sampleScale maps int16 onto [-1.0, 1.0)
	sampleScale = 32768.0
)

// Format describes audio stream format
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// Whisper is the format of every RawAudioPayload
var Whisper = Format{
	Codec:      "pcm",
	SampleRate: SampleRate,
	Channels:   Channels,
	BitDepth:   BitDepth,
}

// ByteRate returns bytes per second for the format
func (f Format) ByteRate() int {
	return f.SampleRate * f.Channels * f.BitDepth / 8
}

// BlockAlign returns bytes per frame
func (f Format) BlockAlign() int {
	return f.Channels * f.BitDepth / 8
}

// SampleToFloat converts a 16-bit sample to a normalized float
func SampleToFloat(sample int16) float32 {
	return float32(float64(sample) / sampleScale)
}

// SampleFromFloat converts a normalized float to a 16-bit sample with clipping
func SampleFromFloat(sample float32) int16 {
	scaled := math.Round(float64(sample) * sampleScale)
	if scaled > math.MaxInt16 {
		return math.MaxInt16
	}
	if scaled < math.MinInt16 {
		return math.MinInt16
	}
	return int16(scaled)
}

// Duration returns the playback length of n mono samples at SampleRate
func Duration(n int) time.Duration {
	return time.Duration(n) * time.Second / SampleRate
}

// SampleOffset converts a playback offset into a sample index at SampleRate
func SampleOffset(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d * SampleRate / time.Second)
}
