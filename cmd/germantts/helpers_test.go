package main

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/example/go-german-tts/internal/config"
	"github.com/example/go-german-tts/internal/tts"
	"github.com/spf13/afero"
)

// fakeRuntime returns n samples of a constant tone per call and records the ids.
type fakeRuntime struct {
	n     int
	calls [][]int32
}

func (f *fakeRuntime) GenerateAudio(_ context.Context, ids []int32, _ tts.RuntimeGenerateConfig) ([]float32, error) {
	f.calls = append(f.calls, ids)
	out := make([]float32, f.n)
	for i := range out {
		out[i] = 0.25
	}
	return out, nil
}

func (f *fakeRuntime) Close() {}

// useFakeSynthesizer routes every command to a service backed by rt and
// captures written files in memory.
func useFakeSynthesizer(t *testing.T, rt *fakeRuntime) afero.Fs {
	t.Helper()

	origNew, origFs := newSynthesizer, outputFs
	t.Cleanup(func() {
		newSynthesizer, outputFs = origNew, origFs
	})

	newSynthesizer = func(_ context.Context, cfg config.Config) (synthesizer, error) {
		return tts.NewServiceWithRuntime(cfg.TTS, rt), nil
	}
	outputFs = afero.NewMemMapFs()

	return outputFs
}

// runRoot executes the root command with args and returns stdout.
func runRoot(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	orig := activeCfg
	t.Cleanup(func() { activeCfg = orig })

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func tarGz(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, body := range files {
		hdr := &tar.Header{Name: name, Mode: 0o644, Size: int64(len(body)), Typeflag: tar.TypeReg}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("WriteHeader: %v", err)
		}
		if _, err := tw.Write([]byte(body)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("tar close: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

// modelServer serves both archives of the full variant.
func modelServer(t *testing.T) *httptest.Server {
	t.Helper()

	archives := map[string][]byte{
		"german-tts-tacotron2.tar.gz": tarGz(t, map[string]string{"tacotron2/model.onnx": "acoustic"}),
		"german-tts-mbmelgan.tar.gz":  tarGz(t, map[string]string{"mbmelgan/model.onnx": "vocoder"}),
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := archives[strings.TrimPrefix(r.URL.Path, "/")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func writeEmpty(path string) error {
	return os.WriteFile(path, nil, 0o644)
}
