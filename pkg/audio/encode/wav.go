// ABOUTME: WAV container encoder
// ABOUTME: Wraps raw 16-bit mono PCM payloads in a canonical 44-byte RIFF header
package encode

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/vitruviano/whisper-go/pkg/audio"
	"github.com/vitruviano/whisper-go/pkg/audio/decode"
)

// EncodeWAV decodes the base64 payload and returns a complete WAV file
func EncodeWAV(payload string) ([]byte, error) {
	pcm, err := decode.PCMBytes(payload)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, audio.WAVHeaderSize+len(pcm))
	out = append(out, WAVHeader(len(pcm))...)
	out = append(out, pcm...)
	return out, nil
}

// WriteWAV streams the WAV file for payload to w.
// Nothing is written when the payload is invalid.
func WriteWAV(w io.Writer, payload string) error {
	pcm, err := decode.PCMBytes(payload)
	if err != nil {
		return err
	}

	if _, err := w.Write(WAVHeader(len(pcm))); err != nil {
		return fmt.Errorf("failed to write WAV header: %w", err)
	}
	if _, err := w.Write(pcm); err != nil {
		return fmt.Errorf("failed to write WAV data: %w", err)
	}
	return nil
}

// WAVHeader builds the header for dataSize bytes of whisper PCM
func WAVHeader(dataSize int) []byte {
	f := audio.Whisper
	h := make([]byte, audio.WAVHeaderSize)

	copy(h[0:4], "RIFF")
	binary.LittleEndian.PutUint32(h[4:8], uint32(36+dataSize))
	copy(h[8:12], "WAVE")

	copy(h[12:16], "fmt ")
	binary.LittleEndian.PutUint32(h[16:20], 16)
	binary.LittleEndian.PutUint16(h[20:22], 1) // linear PCM
	binary.LittleEndian.PutUint16(h[22:24], uint16(f.Channels))
	binary.LittleEndian.PutUint32(h[24:28], uint32(f.SampleRate))
	binary.LittleEndian.PutUint32(h[28:32], uint32(f.ByteRate()))
	binary.LittleEndian.PutUint16(h[32:34], uint16(f.BlockAlign()))
	binary.LittleEndian.PutUint16(h[34:36], uint16(f.BitDepth))

	copy(h[36:40], "data")
	binary.LittleEndian.PutUint32(h[40:44], uint32(dataSize))

	return h
}
