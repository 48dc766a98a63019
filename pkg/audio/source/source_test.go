// ABOUTME: Tests for audio file sources
// ABOUTME: Tests payload import from WAV, payload, raw PCM and invalid files
package source

import (
	"bytes"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/vitruviano/whisper-go/pkg/audio"
	"github.com/vitruviano/whisper-go/pkg/audio/decode"
	"github.com/vitruviano/whisper-go/pkg/audio/encode"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadFileWhisperWAVRoundTrip(t *testing.T) {
	pcm := []byte{0x00, 0x00, 0x01, 0x00, 0xFF, 0x7F, 0x00, 0x80, 0x34, 0x12}
	payload := base64.StdEncoding.EncodeToString(pcm)

	data, err := encode.EncodeWAV(payload)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	got, err := LoadFile(writeFile(t, "whisper.wav", data))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if got != payload {
		t.Errorf("expected payload %q, got %q", payload, got)
	}
}

func TestLoadFileStereo48kWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	// One second of a constant signal on both channels
	data := make([]int, 48000*2)
	for i := range data {
		data[i] = 8192
	}

	enc := wav.NewEncoder(f, 48000, 16, 2, 1)
	buf := &goaudio.IntBuffer{
		Data:           data,
		Format:         &goaudio.Format{NumChannels: 2, SampleRate: 48000},
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("failed to write WAV: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("failed to close encoder: %v", err)
	}
	f.Close()

	payload, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	samples, err := decode.DecodeBase64(payload)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if len(samples) != audio.SampleRate {
		t.Fatalf("expected %d samples after resampling, got %d", audio.SampleRate, len(samples))
	}

	for i, s := range samples {
		if s != 0.25 {
			t.Fatalf("sample %d: expected 0.25, got %v", i, s)
		}
	}
}

func TestLoadFilePayload(t *testing.T) {
	path := writeFile(t, "whisper.b64", []byte("AAAAAAEA\n"))

	payload, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if payload != "AAAAAAEA" {
		t.Errorf("expected trimmed payload, got %q", payload)
	}
}

func TestLoadFileInvalidPayload(t *testing.T) {
	path := writeFile(t, "whisper.b64", []byte("AAAB"))

	if _, err := LoadFile(path); !errors.Is(err, audio.ErrInvalidAudioPayload) {
		t.Errorf("expected ErrInvalidAudioPayload, got %v", err)
	}
}

func TestLoadFileRawPCM(t *testing.T) {
	path := writeFile(t, "whisper.pcm", []byte{0, 0, 0, 0, 1, 0})

	payload, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if payload != "AAAAAAEA" {
		t.Errorf("expected AAAAAAEA, got %q", payload)
	}

	odd := writeFile(t, "odd.pcm", []byte{0, 0, 1})
	if _, err := LoadFile(odd); !errors.Is(err, audio.ErrInvalidAudioPayload) {
		t.Errorf("expected ErrInvalidAudioPayload for odd PCM, got %v", err)
	}
}

func TestLoadFileUnsupported(t *testing.T) {
	path := writeFile(t, "whisper.ogg", []byte("OggS"))

	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.mp3")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReadInvalidStreams(t *testing.T) {
	for _, ext := range []string{".wav", ".mp3", ".flac"} {
		t.Run(ext, func(t *testing.T) {
			if _, err := Read(bytes.NewReader([]byte("definitely not audio")), ext); err == nil {
				t.Errorf("expected error for invalid %s stream", ext)
			}
		})
	}
}

func TestClipPayloadValidation(t *testing.T) {
	if _, err := (Clip{SampleRate: 0, Channels: 1}).Payload(); err == nil {
		t.Error("expected error for zero sample rate")
	}
	if _, err := (Clip{SampleRate: 24000, Channels: 0}).Payload(); err == nil {
		t.Error("expected error for zero channels")
	}
}
