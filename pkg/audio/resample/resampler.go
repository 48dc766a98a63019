// ABOUTME: Simple linear resampler for converting audio sample rates
// ABOUTME: Used to bring imported audio to the whisper sample rate
package resample

// Resampler performs linear interpolation to convert between sample rates
type Resampler struct {
	inputRate  int
	outputRate int
	ratio      float64
}

// New creates a new mono resampler
func New(inputRate, outputRate int) *Resampler {
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		ratio:      float64(inputRate) / float64(outputRate),
	}
}

// Process converts a complete buffer to the output rate
func (r *Resampler) Process(input []float32) []float32 {
	if len(input) == 0 {
		return nil
	}

	// Same rate: copy so callers never alias the input
	if r.inputRate == r.outputRate {
		out := make([]float32, len(input))
		copy(out, input)
		return out
	}

	output := make([]float32, r.OutputSamplesNeeded(len(input)))
	last := len(input) - 1

	for i := range output {
		pos := float64(i) * r.ratio
		idx := int(pos)
		if idx >= last {
			output[i] = input[last]
			continue
		}

		// Linear interpolation between neighbours
		frac := pos - float64(idx)
		output[i] = float32(float64(input[idx])*(1.0-frac) + float64(input[idx+1])*frac)
	}

	return output
}

// OutputSamplesNeeded calculates how many output samples will be produced from input samples
func (r *Resampler) OutputSamplesNeeded(inputSamples int) int {
	return int(float64(inputSamples) / r.ratio)
}

// Ratio returns input rate divided by output rate
func (r *Resampler) Ratio() float64 {
	return r.ratio
}

// Downmix averages interleaved channels into a mono buffer
func Downmix(interleaved []float32, channels int) []float32 {
	if channels <= 1 {
		return interleaved
	}

	frames := len(interleaved) / channels
	mono := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for ch := 0; ch < channels; ch++ {
			sum += interleaved[i*channels+ch]
		}
		mono[i] = sum / float32(channels)
	}
	return mono
}
