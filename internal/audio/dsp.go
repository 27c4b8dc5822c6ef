package audio

import (
	"math"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design"
	"github.com/cwbudde/algo-dsp/dsp/signal"
)

// Hook is a post-processing step over a waveform.
type Hook func(samples []float32) []float32

// ApplyHooks runs hooks over samples in order.
func ApplyHooks(samples []float32, hooks ...Hook) []float32 {
	out := samples
	for _, hook := range hooks {
		out = hook(out)
	}

	return out
}

// TrimTail drops the last n samples. The vocoder pads its output with a
// short run of noise that this removes.
func TrimTail(samples []float32, n int) []float32 {
	if n <= 0 {
		return samples
	}
	if n >= len(samples) {
		return []float32{}
	}

	return samples[:len(samples)-n]
}

// PeakNormalize scales samples so the peak amplitude reaches 1.0.
// Silence is returned unchanged.
func PeakNormalize(samples []float32) []float32 {
	if len(samples) == 0 {
		return []float32{}
	}

	out, err := signal.Normalize(toFloat64(samples), 1)
	if err != nil {
		return copySamples(samples)
	}

	return toFloat32(out)
}

const (
	// dcCutoffHz is the corner frequency of the DC blocking high-pass.
	dcCutoffHz = 20.0
	// dcQ gives a Butterworth response.
	dcQ = 1 / math.Sqrt2
)

// DCBlock removes the mean of samples and then runs a 20 Hz high-pass
// biquad to take out slow drift left by the vocoder.
func DCBlock(samples []float32, sampleRate int) []float32 {
	if len(samples) == 0 || sampleRate < 1 {
		return copySamples(samples)
	}

	centered, err := signal.RemoveDC(toFloat64(samples))
	if err != nil {
		return copySamples(samples)
	}

	coeffs := design.Highpass(dcCutoffHz, dcQ, float64(sampleRate))
	if coeffs == (biquad.Coefficients{}) {
		// Cutoff at or above Nyquist: the mean removal is all we can do.
		return toFloat32(centered)
	}

	biquad.NewSection(coeffs).ProcessBlock(centered)

	return toFloat32(centered)
}

// FadeIn applies a linear fade-in ramp over the given duration in milliseconds.
func FadeIn(samples []float32, sampleRate int, ms float64) []float32 {
	out := copySamples(samples)

	n := fadeLength(len(out), sampleRate, ms)
	for i := 0; i < n; i++ {
		out[i] *= float32(i) / float32(n)
	}

	return out
}

// FadeOut applies a linear fade-out ramp over the given duration in milliseconds.
func FadeOut(samples []float32, sampleRate int, ms float64) []float32 {
	out := copySamples(samples)

	n := fadeLength(len(out), sampleRate, ms)
	for i := 0; i < n; i++ {
		out[len(out)-1-i] *= float32(i) / float32(n)
	}

	return out
}

func fadeLength(total, sampleRate int, ms float64) int {
	if ms <= 0 || sampleRate < 1 {
		return 0
	}

	n := int(ms / 1000 * float64(sampleRate))
	if n > total {
		n = total
	}

	return n
}

func copySamples(samples []float32) []float32 {
	out := make([]float32, len(samples))
	copy(out, samples)

	return out
}

func toFloat64(samples []float32) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = float64(s)
	}

	return out
}

func toFloat32(samples []float64) []float32 {
	out := make([]float32, len(samples))
	for i, s := range samples {
		out[i] = float32(s)
	}

	return out
}
