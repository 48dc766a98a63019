// ABOUTME: Tests for the playback position tracker
// ABOUTME: Tests transitions, resume offsets, wraparound and end detection
package playback

import (
	"errors"
	"testing"
	"time"

	"github.com/vitruviano/whisper-go/pkg/audio"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestCursorInitialState(t *testing.T) {
	c := NewCursor(DefaultEpsilon)

	if c.State() != Stopped {
		t.Errorf("expected Stopped, got %v", c.State())
	}
	if c.Position(epoch) != 0 {
		t.Errorf("expected position 0, got %v", c.Position(epoch))
	}
}

func TestCursorStartEmptyBuffer(t *testing.T) {
	c := NewCursor(DefaultEpsilon)

	if _, err := c.Start(epoch); !errors.Is(err, audio.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if c.State() != Stopped {
		t.Error("expected state to remain Stopped")
	}
}

func TestCursorPauseResume(t *testing.T) {
	c := NewCursor(DefaultEpsilon)
	c.Load(10 * time.Second)

	offset, err := c.Start(epoch)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if offset != 0 {
		t.Errorf("expected offset 0, got %v", offset)
	}

	paused, err := c.Pause(epoch.Add(3 * time.Second))
	if err != nil {
		t.Fatalf("pause failed: %v", err)
	}
	if paused != 3*time.Second {
		t.Errorf("expected paused offset 3s, got %v", paused)
	}

	// Resume an hour later: elapsed must still reflect true position
	later := epoch.Add(time.Hour)
	offset, err = c.Start(later)
	if err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	if offset != 3*time.Second {
		t.Errorf("expected resume at 3s, got %v", offset)
	}
	if pos := c.Position(later.Add(2 * time.Second)); pos != 5*time.Second {
		t.Errorf("expected position 5s, got %v", pos)
	}
}

func TestCursorPlayPauseIdempotence(t *testing.T) {
	c := NewCursor(DefaultEpsilon)
	c.Load(10 * time.Second)

	c.Start(epoch)
	c.Pause(epoch.Add(4 * time.Second))
	before := c.PausedOffset()

	now := epoch.Add(time.Minute)
	c.Start(now)
	c.Pause(now)
	c.Start(now)
	c.Pause(now)

	if c.PausedOffset() != before {
		t.Errorf("expected paused offset %v unchanged, got %v", before, c.PausedOffset())
	}
}

func TestCursorDoubleStartRejected(t *testing.T) {
	c := NewCursor(DefaultEpsilon)
	c.Load(time.Second)
	c.Start(epoch)

	if _, err := c.Start(epoch); !errors.Is(err, audio.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}

func TestCursorPauseWhileStopped(t *testing.T) {
	c := NewCursor(DefaultEpsilon)
	c.Load(time.Second)

	if _, err := c.Pause(epoch); !errors.Is(err, audio.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}

func TestCursorCompleteResetsOffset(t *testing.T) {
	c := NewCursor(DefaultEpsilon)
	c.Load(2 * time.Second)

	c.Start(epoch)
	c.Pause(epoch.Add(500 * time.Millisecond))
	c.Start(epoch.Add(time.Second))

	// Timer fires slightly early, within epsilon
	reached, err := c.Complete(epoch.Add(2*time.Second + 400*time.Millisecond))
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if !reached {
		t.Error("expected end of buffer to be reached")
	}
	if c.PausedOffset() != 0 {
		t.Errorf("expected offset exactly 0, got %v", c.PausedOffset())
	}
	if c.State() != Stopped {
		t.Errorf("expected Stopped, got %v", c.State())
	}

	offset, _ := c.Start(epoch.Add(time.Hour))
	if offset != 0 {
		t.Errorf("expected restart from 0, got %v", offset)
	}
}

func TestCursorCompleteEarly(t *testing.T) {
	c := NewCursor(DefaultEpsilon)
	c.Load(10 * time.Second)
	c.Start(epoch)

	reached, err := c.Complete(epoch.Add(2 * time.Second))
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if reached {
		t.Error("expected early end not to count as completion")
	}
	if c.PausedOffset() != 2*time.Second {
		t.Errorf("expected offset 2s kept, got %v", c.PausedOffset())
	}
}

func TestCursorCompleteWhileStopped(t *testing.T) {
	c := NewCursor(DefaultEpsilon)
	c.Load(time.Second)

	if _, err := c.Complete(epoch); !errors.Is(err, audio.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}

func TestCursorPauseNearEndResets(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    time.Duration
	}{
		{"inside epsilon", 1900 * time.Millisecond, 0},
		{"exactly at epsilon", 1800 * time.Millisecond, 0},
		{"at the end", 2 * time.Second, 0},
		{"past the end", 9 * time.Second, 0},
		{"before epsilon", 1700 * time.Millisecond, 1700 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCursor(DefaultEpsilon)
			c.Load(2 * time.Second)
			c.Start(epoch)

			offset, err := c.Pause(epoch.Add(tt.elapsed))
			if err != nil {
				t.Fatalf("pause failed: %v", err)
			}
			if offset != tt.want || c.PausedOffset() != tt.want {
				t.Errorf("expected offset %v, got %v (stored %v)", tt.want, offset, c.PausedOffset())
			}
			if c.Position(epoch.Add(time.Hour)) != tt.want {
				t.Errorf("expected position %v, got %v", tt.want, c.Position(epoch.Add(time.Hour)))
			}

			resume, err := c.Start(epoch.Add(time.Minute))
			if err != nil {
				t.Fatalf("start failed: %v", err)
			}
			if resume != tt.want {
				t.Errorf("expected resume offset %v, got %v", tt.want, resume)
			}
		})
	}
}

func TestCursorPauseWithoutEpsilon(t *testing.T) {
	c := NewCursor(0)
	c.Load(2 * time.Second)
	c.Start(epoch)

	offset, _ := c.Pause(epoch.Add(1900 * time.Millisecond))
	if offset != 1900*time.Millisecond {
		t.Errorf("expected offset 1.9s without slack, got %v", offset)
	}
}

func TestCursorPositionWrapsWhilePlaying(t *testing.T) {
	c := NewCursor(DefaultEpsilon)
	c.Load(time.Second)
	c.Start(epoch)

	tests := []struct {
		elapsed time.Duration
		want    time.Duration
	}{
		{0, 0},
		{750 * time.Millisecond, 750 * time.Millisecond},
		{time.Second, 0},
		{5250 * time.Millisecond, 250 * time.Millisecond},
	}

	for _, tt := range tests {
		if pos := c.Position(epoch.Add(tt.elapsed)); pos != tt.want {
			t.Errorf("at %v: expected position %v, got %v", tt.elapsed, tt.want, pos)
		}
	}
}

func TestCursorLoadResets(t *testing.T) {
	c := NewCursor(DefaultEpsilon)
	c.Load(10 * time.Second)
	c.Start(epoch)

	c.Load(3 * time.Second)

	if c.State() != Stopped {
		t.Errorf("expected Stopped after load, got %v", c.State())
	}
	if c.PausedOffset() != 0 {
		t.Errorf("expected offset 0 after load, got %v", c.PausedOffset())
	}
	if c.Duration() != 3*time.Second {
		t.Errorf("expected duration 3s, got %v", c.Duration())
	}
}

func TestStateString(t *testing.T) {
	if Playing.String() != "playing" || Stopped.String() != "stopped" {
		t.Errorf("unexpected state names: %s, %s", Playing, Stopped)
	}
}
