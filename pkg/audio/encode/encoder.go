// ABOUTME: Encoder interface definition
// ABOUTME: Common interface for sample buffer encoders
package encode

// Encoder encodes float samples to a byte format
type Encoder interface {
	// Encode converts samples in [-1.0, 1.0] to encoded audio data
	Encode(samples []float32) ([]byte, error)

	// Close releases encoder resources
	Close() error
}
