// ABOUTME: Silent audio output
// ABOUTME: Tracks playback time without rendering, for muted or headless sessions
package output

import (
	"sync"
	"time"
)

// Silent output completes each voice after the buffer duration
type Silent struct{}

// NewSilent creates a silent output
func NewSilent() *Silent {
	return &Silent{}
}

// Start schedules completion after the buffer duration
func (s *Silent) Start(samples []float32, sampleRate, channels int) (Voice, error) {
	frames := len(samples) / max(channels, 1)
	d := time.Duration(frames) * time.Second / time.Duration(max(sampleRate, 1))

	v := &silentVoice{done: make(chan struct{})}
	v.timer = time.AfterFunc(d, v.finish)
	return v, nil
}

// Close releases resources
func (s *Silent) Close() error {
	return nil
}

type silentVoice struct {
	timer *time.Timer
	done  chan struct{}
	once  sync.Once
}

func (v *silentVoice) finish() {
	v.once.Do(func() { close(v.done) })
}

func (v *silentVoice) Done() <-chan struct{} {
	return v.done
}

func (v *silentVoice) Stop() error {
	v.timer.Stop()
	v.finish()
	return nil
}
