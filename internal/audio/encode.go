package audio

import (
	"fmt"
	"io"

	"github.com/cwbudde/wav"
	goaudio "github.com/go-audio/audio"
	"github.com/spf13/afero"
)

// WriteWAV writes samples to w as mono 16-bit PCM at sampleRate.
// Samples outside [-1, 1] are clamped.
func WriteWAV(w io.WriteSeeker, samples []float32, sampleRate int) error {
	if sampleRate < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}

	enc := wav.NewEncoder(w, sampleRate, BitDepth, Channels, 1) // 1 = PCM

	pcm := &goaudio.Float32Buffer{
		Data:           clamp(samples),
		Format:         &goaudio.Format{SampleRate: sampleRate, NumChannels: Channels},
		SourceBitDepth: BitDepth,
	}

	if err := enc.Write(pcm); err != nil {
		return fmt.Errorf("writing PCM: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("closing encoder: %w", err)
	}

	return nil
}

// EncodeWAV encodes samples into an in-memory WAV file.
func EncodeWAV(samples []float32, sampleRate int) ([]byte, error) {
	// The encoder seeks back to patch the header, so stage it in a memory file.
	fs := afero.NewMemMapFs()
	f, err := fs.Create("out.wav")
	if err != nil {
		return nil, fmt.Errorf("create buffer: %w", err)
	}
	defer f.Close()

	if err := WriteWAV(f, samples, sampleRate); err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind buffer: %w", err)
	}

	return io.ReadAll(f)
}

func clamp(samples []float32) []float32 {
	out := make([]float32, len(samples))
	for i, s := range samples {
		switch {
		case s > 1:
			out[i] = 1
		case s < -1:
			out[i] = -1
		default:
			out[i] = s
		}
	}

	return out
}
