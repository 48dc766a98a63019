// ABOUTME: Sentinel errors for the whisper audio core
// ABOUTME: Shared by decoder, encoder and playback controller
package audio

import "errors"

var (
	// ErrInvalidAudioPayload means the base64 text or its PCM framing is malformed
	ErrInvalidAudioPayload = errors.New("invalid audio payload")

	// ErrPlaybackResourceUnavailable means the audio output could not be initialized
	ErrPlaybackResourceUnavailable = errors.New("playback resource unavailable")

	// ErrInvalidState means a playback transition is not allowed from the current state
	ErrInvalidState = errors.New("invalid playback state")
)
