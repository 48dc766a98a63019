// ABOUTME: Tests for audio resampler
// ABOUTME: Tests linear interpolation resampling and channel downmix
package resample

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	r := New(48000, 24000)

	if r == nil {
		t.Fatal("expected resampler to be created")
	}

	if r.Ratio() != 2.0 {
		t.Errorf("expected ratio 2.0, got %f", r.Ratio())
	}
}

func TestProcessDownsampling(t *testing.T) {
	r := New(48000, 24000)

	input := make([]float32, 100)
	for i := range input {
		input[i] = float32(i) / 100
	}

	output := r.Process(input)
	if len(output) != 50 {
		t.Fatalf("expected 50 samples, got %d", len(output))
	}

	// Integer ratio picks every other input sample
	for i, s := range output {
		if s != input[i*2] {
			t.Errorf("sample %d: expected %v, got %v", i, input[i*2], s)
		}
	}
}

func TestProcessUpsampling(t *testing.T) {
	r := New(12000, 24000)

	output := r.Process([]float32{0, 1, 0})
	if len(output) != 6 {
		t.Fatalf("expected 6 samples, got %d", len(output))
	}

	expected := []float32{0, 0.5, 1, 0.5, 0, 0}
	for i, want := range expected {
		if math.Abs(float64(output[i]-want)) > 1e-6 {
			t.Errorf("sample %d: expected %v, got %v", i, want, output[i])
		}
	}
}

func TestProcessNonIntegerRatio(t *testing.T) {
	r := New(44100, 24000)

	input := make([]float32, 44100)
	output := r.Process(input)

	if len(output) < 23990 || len(output) > 24010 {
		t.Errorf("expected ~24000 samples, got %d", len(output))
	}
}

func TestProcessSameRateCopies(t *testing.T) {
	r := New(24000, 24000)
	input := []float32{0.1, 0.2}

	output := r.Process(input)
	output[0] = 9

	if input[0] != 0.1 {
		t.Error("same-rate output aliases the input")
	}
}

func TestProcessEmpty(t *testing.T) {
	if out := New(44100, 24000).Process(nil); out != nil {
		t.Errorf("expected nil output, got %d samples", len(out))
	}
}

func TestDownmix(t *testing.T) {
	mono := Downmix([]float32{1, 0, 0.5, 0.5, -1, 1}, 2)

	expected := []float32{0.5, 0.5, 0}
	if len(mono) != len(expected) {
		t.Fatalf("expected %d frames, got %d", len(expected), len(mono))
	}
	for i := range expected {
		if mono[i] != expected[i] {
			t.Errorf("frame %d: expected %v, got %v", i, expected[i], mono[i])
		}
	}
}

func TestDownmixMonoPassthrough(t *testing.T) {
	in := []float32{0.3, 0.4}
	if out := Downmix(in, 1); len(out) != 2 || out[0] != 0.3 {
		t.Errorf("expected passthrough, got %v", out)
	}
}
