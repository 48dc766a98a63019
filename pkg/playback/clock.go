// ABOUTME: Clock abstraction for playback timing
// ABOUTME: Wall clock by default, replaceable in tests
package playback

import "time"

// Clock provides the reference time for playback offsets
type Clock interface {
	Now() time.Time
}

// SystemClock reads the monotonic wall clock
type SystemClock struct{}

// Now returns the current time
func (SystemClock) Now() time.Time {
	return time.Now()
}
