// ABOUTME: Audio source package for importing pre-rendered whisper audio
// ABOUTME: Converts WAV, MP3, FLAC and payload files to RawAudioPayloads
// Package source loads whisper audio from disk.
//
// Synthesized whispers arrive as base64 payloads, but pre-rendered whispers
// may be stored as ordinary audio files. Every source is normalized to the
// canonical payload: mono, 24 kHz, 16-bit little-endian PCM, base64-encoded.
//
// Supported inputs:
//   - .wav via github.com/go-audio/wav
//   - .mp3 via github.com/hajimehoshi/go-mp3
//   - .flac via github.com/mewkiz/flac
//   - .b64 / .txt containing a payload
//   - .pcm containing raw 16-bit little-endian mono 24 kHz samples
//
// Example:
//
//	payload, err := source.LoadFile("whisper.mp3")
package source
