// ABOUTME: Sample rate conversion package
// ABOUTME: Linear interpolation resampler for imported audio
// Package resample converts mono float sample buffers between sample rates.
//
// Imported pre-rendered audio arrives at whatever rate it was mastered at
// (44.1 kHz MP3, 48 kHz WAV, ...). Whisper playback and export work only on
// 24 kHz, so imports pass through a linear interpolation resampler.
//
// Example:
//
//	r := resample.New(44100, audio.SampleRate)
//	out := r.Process(samples)
package resample
