// ABOUTME: Playback package for whisper audio sessions
// ABOUTME: Position tracking state machine and the session-owned playback controller
// Package playback plays a decoded whisper and remembers where it stopped.
//
// Cursor is the pure state machine (Stopped, Playing) that computes resumable
// offsets from an injected clock. Controller owns one reveal session: the
// decoded buffer, the cursor, and the single active output voice. The
// completion callback is registered when a voice starts and unregistered on
// pause, load, reset and close, so a stale voice can never move the cursor.
//
// Example:
//
//	ctrl := playback.NewController(playback.ControllerConfig{
//	    Device: output.NewOto(logger),
//	})
//	defer ctrl.Close()
//
//	if err := ctrl.Load(payload); err != nil {
//	    // no-audio reveal
//	}
//	ctrl.Play()
//	ctrl.Pause()
//	ctrl.Play() // resumes where it paused
package playback
