// ABOUTME: Oto-based audio output implementation
// ABOUTME: Renders float32 sample buffers with software volume control using oto
package output

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/vitruviano/whisper-go/pkg/audio"
	"github.com/vitruviano/whisper-go/pkg/audio/encode"
	"go.uber.org/zap"
)

// pollInterval is how often a voice checks whether oto drained its buffer
const pollInterval = 10 * time.Millisecond

// Oto output implementation using oto library.
// oto allows a single context per process, so create one Oto per process.
type Oto struct {
	mu         sync.Mutex
	otoCtx     *oto.Context
	sampleRate int
	channels   int
	volume     int
	muted      bool
	active     *otoVoice
	logger     *zap.Logger
}

// NewOto creates a new Oto output
func NewOto(logger *zap.Logger) *Oto {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Oto{
		volume: 100,
		muted:  false,
		logger: logger,
	}
}

// open lazily initializes the oto context
func (o *Oto) open(sampleRate, channels int) error {
	if o.otoCtx != nil {
		if o.sampleRate == sampleRate && o.channels == channels {
			return nil
		}
		// oto cannot be reinitialized with a different format
		return fmt.Errorf("%w: output fixed at %dHz %dch, requested %dHz %dch",
			audio.ErrPlaybackResourceUnavailable, o.sampleRate, o.channels, sampleRate, channels)
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("%w: failed to create oto context: %v", audio.ErrPlaybackResourceUnavailable, err)
	}

	<-readyChan

	o.otoCtx = ctx
	o.sampleRate = sampleRate
	o.channels = channels

	o.logger.Info("Audio output initialized",
		zap.Int("sample_rate", sampleRate),
		zap.Int("channels", channels))

	return nil
}

// Start begins rendering samples
func (o *Oto) Start(samples []float32, sampleRate, channels int) (Voice, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.open(sampleRate, channels); err != nil {
		return nil, err
	}

	player := o.otoCtx.NewPlayer(bytes.NewReader(encode.Float32LE(samples)))
	player.SetVolume(getVolumeMultiplier(o.volume, o.muted))
	player.Play()

	v := &otoVoice{
		player: player,
		done:   make(chan struct{}),
		stop:   make(chan struct{}),
	}
	go v.watch(pollInterval)

	o.active = v
	return v, nil
}

// Close releases output resources
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.active != nil {
		o.active.Stop()
		o.active = nil
	}
	if o.otoCtx != nil {
		if err := o.otoCtx.Suspend(); err != nil {
			return fmt.Errorf("failed to suspend oto context: %w", err)
		}
	}
	return nil
}

// SetVolume sets the volume (0-100)
func (o *Oto) SetVolume(volume int) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.volume = volume
	o.applyVolume()
	o.logger.Debug("Volume set", zap.Int("volume", volume))
}

// SetMuted sets mute state
func (o *Oto) SetMuted(muted bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.muted = muted
	o.applyVolume()
	o.logger.Debug("Mute set", zap.Bool("muted", muted))
}

// GetVolume returns current volume
func (o *Oto) GetVolume() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.volume
}

// IsMuted returns mute state
func (o *Oto) IsMuted() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.muted
}

func (o *Oto) applyVolume() {
	if o.active != nil {
		o.active.player.SetVolume(getVolumeMultiplier(o.volume, o.muted))
	}
}

// otoVoice wraps one oto player
type otoVoice struct {
	player   *oto.Player
	done     chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
	doneOnce sync.Once
}

// watch closes done once oto has drained the reader
func (v *otoVoice) watch(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-v.stop:
			return
		case <-ticker.C:
			if !v.player.IsPlaying() {
				v.finish()
				return
			}
		}
	}
}

func (v *otoVoice) finish() {
	v.doneOnce.Do(func() { close(v.done) })
}

func (v *otoVoice) Done() <-chan struct{} {
	return v.done
}

func (v *otoVoice) Stop() error {
	var err error
	v.stopOnce.Do(func() {
		close(v.stop)
		v.player.Pause()
		err = v.player.Close()
		v.finish()
	})
	return err
}

// getVolumeMultiplier calculates volume multiplier
func getVolumeMultiplier(volume int, muted bool) float64 {
	if muted {
		return 0.0
	}
	return float64(volume) / 100.0
}
