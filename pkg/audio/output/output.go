// ABOUTME: Audio output interface definition
// ABOUTME: Common interfaces for playback backends and their render resources
package output

// Device represents an audio output device
type Device interface {
	// Start begins rendering samples and returns the active voice.
	// Initialization failures wrap audio.ErrPlaybackResourceUnavailable.
	Start(samples []float32, sampleRate, channels int) (Voice, error)

	// Close releases output resources
	Close() error
}

// Voice is one active playback of a sample buffer
type Voice interface {
	// Done is closed when rendering has finished or the voice was stopped
	Done() <-chan struct{}

	// Stop halts rendering and releases the voice; safe to call repeatedly
	Stop() error
}
