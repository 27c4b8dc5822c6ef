package testutil

import (
	"bytes"
	"testing"

	"github.com/cwbudde/wav"
)

// AssertValidWAV checks that data is a mono 16-bit PCM WAV at sampleRate
// holding at least one sample.
func AssertValidWAV(tb testing.TB, data []byte, sampleRate int) {
	tb.Helper()

	samples := decode(tb, data, sampleRate)
	if samples == 0 {
		tb.Fatal("WAV: data chunk contains zero samples")
	}
}

// AssertWAVDurationApprox asserts that the WAV audio duration falls within
// [minSec, maxSec].
func AssertWAVDurationApprox(tb testing.TB, data []byte, sampleRate int, minSec, maxSec float64) {
	tb.Helper()

	samples := decode(tb, data, sampleRate)

	durationSec := float64(samples) / float64(sampleRate)
	if durationSec < minSec || durationSec > maxSec {
		tb.Fatalf("WAV duration %.3fs out of expected range [%.3fs, %.3fs]", durationSec, minSec, maxSec)
	}
}

func decode(tb testing.TB, data []byte, sampleRate int) int {
	tb.Helper()

	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		tb.Fatal("WAV: invalid RIFF/WAVE data")
		return 0
	}

	if dec.WavAudioFormat != 1 {
		tb.Fatalf("WAV: expected PCM format (1), got %d", dec.WavAudioFormat)
	}

	if dec.NumChans != 1 {
		tb.Fatalf("WAV: expected mono (1 channel), got %d", dec.NumChans)
	}

	if int(dec.SampleRate) != sampleRate {
		tb.Fatalf("WAV: expected sample rate %d, got %d", sampleRate, dec.SampleRate)
	}

	if dec.BitDepth != 16 {
		tb.Fatalf("WAV: expected 16-bit depth, got %d", dec.BitDepth)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		tb.Fatalf("WAV: read PCM: %v", err)
		return 0
	}

	return len(buf.Data)
}
