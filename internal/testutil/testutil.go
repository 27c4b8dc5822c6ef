// Package testutil provides shared skip helpers for integration tests.
//
// Each helper calls t.Skip with a clear human-readable reason when the named
// prerequisite is absent, so integration tests remain runnable in partial
// environments without failing noisily.
//
// Typical usage:
//
//	func TestMyIntegration(t *testing.T) {
//	    lib := testutil.RequireONNXRuntime(t)
//	    acoustic, vocoder := testutil.RequireModelGraphs(t)
//	    ...
//	}
package testutil

import (
	"os"
	"testing"
)

// ortCandidates mirrors the well-known install locations probed at runtime.
var ortCandidates = []string{
	"/usr/lib/libonnxruntime.so",
	"/usr/local/lib/libonnxruntime.so",
	"/usr/lib/x86_64-linux-gnu/libonnxruntime.so",
	"/opt/homebrew/lib/libonnxruntime.dylib",
}

// RequireONNXRuntime skips the test if no ONNX Runtime shared library can be
// located and returns its path otherwise. It checks the GERMANTTS_ORT_LIB and
// ORT_LIBRARY_PATH env vars, then common system library paths.
func RequireONNXRuntime(tb testing.TB) string {
	tb.Helper()

	for _, env := range []string{"GERMANTTS_ORT_LIB", "ORT_LIBRARY_PATH"} {
		if p := os.Getenv(env); p != "" {
			if _, err := os.Stat(p); err == nil {
				return p
			}

			tb.Skipf("ONNX Runtime library not found at %s=%q", env, p)
			return ""
		}
	}

	for _, p := range ortCandidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	tb.Skip("ONNX Runtime shared library not found; set GERMANTTS_ORT_LIB or ORT_LIBRARY_PATH")
	return ""
}

// RequireModelGraphs skips the test unless GERMANTTS_ACOUSTIC_GRAPH and
// GERMANTTS_VOCODER_GRAPH point at exported ONNX graphs.
func RequireModelGraphs(tb testing.TB) (acoustic, vocoder string) {
	tb.Helper()

	paths := make([]string, 0, 2)
	for _, env := range []string{"GERMANTTS_ACOUSTIC_GRAPH", "GERMANTTS_VOCODER_GRAPH"} {
		p := os.Getenv(env)
		if p == "" {
			tb.Skipf("%s not set; export the German Tacotron2 and MB-MelGAN graphs to run this test", env)
			return "", ""
		}
		if _, err := os.Stat(p); err != nil {
			tb.Skipf("model graph not found at %s=%q", env, p)
			return "", ""
		}
		paths = append(paths, p)
	}

	return paths[0], paths[1]
}
