// ABOUTME: Audio output package for playing whisper audio
// ABOUTME: Provides Device and Voice interfaces with oto and silent backends
// Package output renders decoded sample buffers.
//
// A Device hands out one Voice per play request. A Voice is the scoped
// render resource: it is acquired on play and must be stopped on pause,
// completion or when the source buffer is replaced. Its Done channel closes
// when rendering ends, either naturally or through Stop.
//
// Backends:
//   - Oto: real audio through github.com/ebitengine/oto/v3 (float32 output)
//   - Silent: renders nothing, completes after the buffer duration
//
// Example:
//
//	dev := output.NewOto(logger)
//	voice, err := dev.Start(samples, audio.SampleRate, audio.Channels)
//	<-voice.Done()
package output
