// ABOUTME: Decoder interface definition
// ABOUTME: Common interface for PCM decoders producing float samples
package decode

// Decoder decodes audio bytes to normalized float samples
type Decoder interface {
	// Decode converts encoded audio data to samples in [-1.0, 1.0]
	Decode(data []byte) ([]float32, error)

	// Close releases decoder resources
	Close() error
}
