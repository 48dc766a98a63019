// ABOUTME: Audio fundamentals package for whisper playback and export
// ABOUTME: Defines the canonical PCM format, sample conversions and audio errors
// Package audio provides the fundamental audio types shared by the codec,
// playback and export paths.
//
// Whisper audio always travels as a RawAudioPayload: base64-encoded, headerless
// 16-bit little-endian PCM, mono, at 24 kHz. The format is fixed by the speech
// synthesis service and is never inferred from the data.
//
// This package defines:
//   - Format: describes an audio stream (codec, sample rate, channels, bit depth)
//   - Whisper: the canonical Format of every RawAudioPayload
//   - Sentinel errors shared by the decoder, encoder and playback controller
//
// Example:
//
//	samples, err := decode.DecodeBase64(payload)
//	if errors.Is(err, audio.ErrInvalidAudioPayload) {
//	    // fall back to a no-audio reveal
//	}
//	d := audio.Duration(len(samples))
package audio
