// ABOUTME: Audio decoder package for whisper PCM payloads
// ABOUTME: Turns base64 16-bit PCM into normalized float sample buffers
// Package decode converts RawAudioPayloads into DecodedSampleBuffers.
//
// A payload is base64 text wrapping headerless 16-bit little-endian mono PCM
// at 24 kHz. Every sample i of the result equals int16(bytes[2i:2i+2]) / 32768.
// Payloads with a trailing odd byte are rejected with audio.ErrInvalidAudioPayload
// instead of being truncated.
//
// Example:
//
//	samples, err := decode.DecodeBase64("AAAAAAEA")
//	// samples == []float32{0, 0, 0.000030517578125}
package decode
