package testutil_test

import (
	"testing"

	"github.com/example/go-german-tts/internal/audio"
	"github.com/example/go-german-tts/internal/testutil"
)

func TestRequireONNXRuntime_SkipsWhenAbsent(t *testing.T) {
	t.Setenv("GERMANTTS_ORT_LIB", "/nonexistent/libonnxruntime.so")

	skipped := false
	fakeT := &skipTracker{TB: t, onSkip: func() { skipped = true }}
	testutil.RequireONNXRuntime(fakeT)
	if !skipped {
		t.Error("expected RequireONNXRuntime to skip when library is absent")
	}
}

func TestRequireModelGraphs_SkipsWhenUnset(t *testing.T) {
	t.Setenv("GERMANTTS_ACOUSTIC_GRAPH", "")
	t.Setenv("GERMANTTS_VOCODER_GRAPH", "")

	skipped := false
	fakeT := &skipTracker{TB: t, onSkip: func() { skipped = true }}
	testutil.RequireModelGraphs(fakeT)
	if !skipped {
		t.Error("expected RequireModelGraphs to skip when graphs are not configured")
	}
}

func TestAssertValidWAV_AcceptsEncoderOutput(t *testing.T) {
	data, err := audio.EncodeWAV(make([]float32, audio.DefaultSampleRate/10), audio.DefaultSampleRate)
	if err != nil {
		t.Fatalf("EncodeWAV: %v", err)
	}

	testutil.AssertValidWAV(t, data, audio.DefaultSampleRate)
	testutil.AssertWAVDurationApprox(t, data, audio.DefaultSampleRate, 0.09, 0.11)
}

// skipTracker is a minimal testing.TB implementation that intercepts Skip calls.
type skipTracker struct {
	testing.TB
	onSkip func()
}

func (s *skipTracker) Helper() {}

func (s *skipTracker) Skip(_ ...any) {
	s.onSkip()
}

func (s *skipTracker) Skipf(_ string, _ ...any) {
	s.onSkip()
	// Do NOT call s.TB.Skip, that would actually skip the outer test.
}
