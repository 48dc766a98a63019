// ABOUTME: Session-owned playback controller
// ABOUTME: Owns the decoded buffer, the cursor and the single active output voice
package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vitruviano/whisper-go/pkg/audio"
	"github.com/vitruviano/whisper-go/pkg/audio/decode"
	"github.com/vitruviano/whisper-go/pkg/audio/output"
	"go.uber.org/zap"
)

// ControllerConfig holds controller configuration
type ControllerConfig struct {
	// Device renders audio; nil behaves like an unavailable output
	Device output.Device

	// Clock provides offsets (default: SystemClock)
	Clock Clock

	// Epsilon is the end-of-buffer slack. Zero selects DefaultEpsilon;
	// a negative value disables the slack.
	Epsilon time.Duration

	// OnStateChange is called after every transition, outside the lock
	OnStateChange func(Status)

	// Logger receives playback events (default: no-op)
	Logger *zap.Logger
}

// Status describes the controller at a point in time
type Status struct {
	State    State
	Position time.Duration
	Duration time.Duration
	Loaded   bool
	Disabled bool
}

// Controller plays one whisper session
type Controller struct {
	config ControllerConfig
	clock  Clock
	logger *zap.Logger

	mu          sync.Mutex
	cursor      *Cursor
	samples     []float32
	voice       output.Voice
	cancelWatch context.CancelFunc
	generation  uint64
	disabled    error
	closed      bool

	wg sync.WaitGroup
}

// NewController creates a controller with no buffer loaded
func NewController(config ControllerConfig) *Controller {
	if config.Clock == nil {
		config.Clock = SystemClock{}
	}
	if config.Epsilon == 0 {
		config.Epsilon = DefaultEpsilon
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	return &Controller{
		config: config,
		clock:  config.Clock,
		logger: config.Logger,
		cursor: NewCursor(config.Epsilon),
	}
}

// Load decodes payload and makes it the session buffer.
// An invalid payload leaves the current buffer untouched.
func (c *Controller) Load(payload string) error {
	samples, err := decode.DecodeBase64(payload)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("%w: controller closed", audio.ErrInvalidState)
	}

	if c.cursor.State() == Playing {
		c.logger.Debug("Replacing buffer during playback, stopping voice")
	}
	c.releaseLocked()
	c.samples = samples
	c.cursor.Load(audio.Duration(len(samples)))
	status := c.statusLocked()
	c.mu.Unlock()

	c.logger.Info("Whisper audio loaded",
		zap.Int("samples", len(samples)),
		zap.Duration("duration", status.Duration))

	c.notify(status)
	return nil
}

// Play starts or resumes playback. Calling Play while playing is a no-op.
func (c *Controller) Play() error {
	c.mu.Lock()
	changed, err := c.playLocked()
	status := c.statusLocked()
	c.mu.Unlock()

	if changed {
		c.notify(status)
	}
	return err
}

// Pause stops playback and remembers the offset. Calling Pause while stopped is a no-op.
func (c *Controller) Pause() error {
	c.mu.Lock()
	changed := c.pauseLocked()
	status := c.statusLocked()
	c.mu.Unlock()

	if changed {
		c.notify(status)
	}
	return nil
}

// Toggle pauses when playing and plays when stopped
func (c *Controller) Toggle() error {
	c.mu.Lock()
	var (
		changed bool
		err     error
	)
	if c.cursor.State() == Playing {
		changed = c.pauseLocked()
	} else {
		changed, err = c.playLocked()
	}
	status := c.statusLocked()
	c.mu.Unlock()

	if changed {
		c.notify(status)
	}
	return err
}

// Restart plays from the beginning
func (c *Controller) Restart() error {
	c.mu.Lock()
	c.releaseLocked()
	c.cursor.Load(c.cursor.Duration())
	c.mu.Unlock()

	return c.Play()
}

// Reset stops playback and discards the buffer
func (c *Controller) Reset() {
	c.mu.Lock()
	c.releaseLocked()
	c.samples = nil
	c.cursor.Load(0)
	status := c.statusLocked()
	c.mu.Unlock()

	c.notify(status)
}

// Close resets the session and closes the device
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.releaseLocked()
	c.samples = nil
	c.cursor.Load(0)
	c.mu.Unlock()

	c.wg.Wait()

	if c.config.Device != nil {
		return c.config.Device.Close()
	}
	return nil
}

// Status returns the current status
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

// PausedOffset returns the stored resume offset
func (c *Controller) PausedOffset() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor.PausedOffset()
}

// playLocked starts a voice; it reports whether the state changed
func (c *Controller) playLocked() (bool, error) {
	if c.closed {
		return false, fmt.Errorf("%w: controller closed", audio.ErrInvalidState)
	}
	if c.cursor.State() == Playing {
		return false, nil
	}
	if len(c.samples) == 0 {
		return false, fmt.Errorf("%w: no audio loaded", audio.ErrInvalidState)
	}
	if c.disabled != nil {
		return false, c.disabled
	}
	if c.config.Device == nil {
		c.disabled = fmt.Errorf("%w: no output device", audio.ErrPlaybackResourceUnavailable)
		return false, c.disabled
	}

	offset := c.cursor.ResumeOffset()
	start := audio.SampleOffset(offset)
	if start >= len(c.samples) {
		start = 0
	}

	voice, err := c.config.Device.Start(c.samples[start:], audio.SampleRate, audio.Channels)
	if err != nil {
		if errors.Is(err, audio.ErrPlaybackResourceUnavailable) {
			c.disabled = err
			c.logger.Warn("Audio output unavailable, playback disabled", zap.Error(err))
		}
		return false, err
	}

	if _, err := c.cursor.Start(c.clock.Now()); err != nil {
		voice.Stop()
		return false, err
	}

	c.generation++
	ctx, cancel := context.WithCancel(context.Background())
	c.voice = voice
	c.cancelWatch = cancel

	c.wg.Add(1)
	go c.watch(ctx, voice, c.generation)

	c.logger.Debug("Playback started", zap.Duration("offset", offset))
	return true, nil
}

// pauseLocked stops the voice; it reports whether the state changed
func (c *Controller) pauseLocked() bool {
	if c.cursor.State() != Playing {
		return false
	}

	offset, _ := c.cursor.Pause(c.clock.Now())
	c.releaseLocked()

	c.logger.Debug("Playback paused", zap.Duration("offset", offset))
	return true
}

// releaseLocked unregisters the completion watcher and stops the voice
func (c *Controller) releaseLocked() {
	if c.cancelWatch != nil {
		c.cancelWatch()
		c.cancelWatch = nil
	}
	if c.voice != nil {
		if err := c.voice.Stop(); err != nil {
			c.logger.Warn("Failed to stop voice", zap.Error(err))
		}
		c.voice = nil
	}
	if c.cursor.State() == Playing {
		c.cursor.Load(c.cursor.Duration())
	}
}

// watch waits for natural completion of one voice
func (c *Controller) watch(ctx context.Context, voice output.Voice, generation uint64) {
	defer c.wg.Done()

	select {
	case <-ctx.Done():
	case <-voice.Done():
		c.handleEnded(generation)
	}
}

// handleEnded processes end-of-buffer for the voice of the given generation
func (c *Controller) handleEnded(generation uint64) {
	c.mu.Lock()
	if generation != c.generation || c.voice == nil {
		c.mu.Unlock()
		return
	}

	reachedEnd, err := c.cursor.Complete(c.clock.Now())
	if err != nil {
		c.mu.Unlock()
		return
	}
	c.releaseLocked()
	status := c.statusLocked()
	c.mu.Unlock()

	if reachedEnd {
		c.logger.Debug("Playback finished")
	} else {
		c.logger.Warn("Voice ended before the buffer", zap.Duration("offset", status.Position))
	}

	c.notify(status)
}

func (c *Controller) statusLocked() Status {
	return Status{
		State:    c.cursor.State(),
		Position: c.cursor.Position(c.clock.Now()),
		Duration: c.cursor.Duration(),
		Loaded:   len(c.samples) > 0,
		Disabled: c.disabled != nil,
	}
}

// notify calls the OnStateChange callback if set
func (c *Controller) notify(status Status) {
	if c.config.OnStateChange != nil {
		c.config.OnStateChange(status)
	}
}
