// ABOUTME: Audio encoder package for whisper export and playback
// ABOUTME: Wraps raw PCM payloads into WAV files and serializes sample buffers
// Package encode produces the byte-level outputs of the whisper core.
//
// EncodeWAV wraps the raw PCM bytes of a RawAudioPayload in the canonical
// 44-byte RIFF/WAVE header. The bytes are copied verbatim; the decoded floats
// are never re-quantized, so an exported file matches the synthesized audio
// bit for bit.
//
// The PCM encoder converts float sample buffers back to 16-bit PCM for
// imported audio, and Float32LE serializes buffers for float output devices.
//
// Example:
//
//	wav, err := encode.EncodeWAV(payload)
//	// len(wav) == 44 + pcm byte count
package encode
