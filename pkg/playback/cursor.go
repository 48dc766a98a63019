// ABOUTME: Playback position tracker
// ABOUTME: Play/pause state machine computing resumable, wrapping offsets
package playback

import (
	"fmt"
	"time"

	"github.com/vitruviano/whisper-go/pkg/audio"
)

// DefaultEpsilon is the timer slack accepted when detecting end of buffer
const DefaultEpsilon = 200 * time.Millisecond

// State is the playback state
type State int

const (
	Stopped State = iota
	Playing
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	default:
		return "stopped"
	}
}

// Cursor tracks play state and the paused offset into a buffer
type Cursor struct {
	state    State
	startRef time.Time
	offset   time.Duration
	duration time.Duration
	epsilon  time.Duration
}

// NewCursor creates a stopped cursor with no buffer
func NewCursor(epsilon time.Duration) *Cursor {
	if epsilon < 0 {
		epsilon = 0
	}
	return &Cursor{epsilon: epsilon}
}

// Load resets the cursor for a new buffer of duration d
func (c *Cursor) Load(d time.Duration) {
	c.state = Stopped
	c.startRef = time.Time{}
	c.offset = 0
	c.duration = d
}

// Start transitions to Playing and returns the render offset
func (c *Cursor) Start(now time.Time) (time.Duration, error) {
	if c.duration <= 0 {
		return 0, fmt.Errorf("%w: no audio loaded", audio.ErrInvalidState)
	}
	if c.state == Playing {
		return 0, fmt.Errorf("%w: already playing", audio.ErrInvalidState)
	}

	offset := c.ResumeOffset()
	c.offset = offset
	c.startRef = now.Add(-offset)
	c.state = Playing
	return offset, nil
}

// Pause transitions to Stopped and stores the elapsed offset.
// A pause within epsilon of the end counts as completion and stores 0.
func (c *Cursor) Pause(now time.Time) (time.Duration, error) {
	if c.state != Playing {
		return 0, fmt.Errorf("%w: not playing", audio.ErrInvalidState)
	}

	elapsed := now.Sub(c.startRef)
	c.state = Stopped

	if elapsed >= c.duration-c.epsilon {
		c.offset = 0
	} else {
		c.offset = elapsed
	}
	return c.offset, nil
}

// Complete handles an end-of-buffer signal. It reports whether the buffer
// was played to the end; an early end keeps the elapsed offset.
func (c *Cursor) Complete(now time.Time) (bool, error) {
	if c.state != Playing {
		return false, fmt.Errorf("%w: not playing", audio.ErrInvalidState)
	}

	elapsed := now.Sub(c.startRef)
	c.state = Stopped

	if elapsed >= c.duration-c.epsilon {
		c.offset = 0
		return true, nil
	}

	c.offset = elapsed
	return false, nil
}

// ResumeOffset is where the next Start renders from.
// Offsets past the end wrap around the buffer.
func (c *Cursor) ResumeOffset() time.Duration {
	if c.duration <= 0 || c.offset <= 0 {
		return 0
	}
	return c.offset % c.duration
}

// Position returns the current position into the buffer, in [0, d).
// A playing cursor that ran past the end wraps around the buffer.
func (c *Cursor) Position(now time.Time) time.Duration {
	if c.state != Playing {
		return c.ResumeOffset()
	}

	elapsed := now.Sub(c.startRef)
	if elapsed < 0 {
		return 0
	}
	return elapsed % c.duration
}

// State returns the current state
func (c *Cursor) State() State {
	return c.state
}

// Duration returns the loaded buffer duration
func (c *Cursor) Duration() time.Duration {
	return c.duration
}

// PausedOffset returns the raw stored offset
func (c *Cursor) PausedOffset() time.Duration {
	return c.offset
}
