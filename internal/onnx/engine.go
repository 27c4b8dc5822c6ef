package onnx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
)

// GraphRunner is the minimal runner contract required by Engine methods.
type GraphRunner interface {
	Run(ctx context.Context, inputs map[string]*Tensor) (map[string]*Tensor, error)
	Name() string
	Close()
}

// Engine drives the two-stage pipeline: ids -> mel spectrogram -> waveform.
type Engine struct {
	runners map[string]GraphRunner
	io      GraphIO
}

// NewEngine opens one ORT session per graph. On failure every session
// opened so far is closed.
func NewEngine(sessions []Session, io GraphIO, cfg RunnerConfig) (*Engine, error) {
	if err := io.validate(); err != nil {
		return nil, err
	}

	runners := make(map[string]GraphRunner, len(sessions))
	for _, s := range sessions {
		r, err := NewRunner(s, cfg)
		if err != nil {
			for _, opened := range runners {
				opened.Close()
			}

			return nil, err
		}

		runners[s.Name] = r
		slog.Info("loaded ONNX session", "name", s.Name, "path", s.Path)
	}

	return &Engine{runners: runners, io: io}, nil
}

// NewEngineWithRunners builds an Engine from externally provided graph runners.
func NewEngineWithRunners(runners map[string]GraphRunner, io GraphIO) *Engine {
	internal := make(map[string]GraphRunner, len(runners))
	maps.Copy(internal, runners)

	return &Engine{runners: internal, io: io}
}

func (e *Engine) Runner(name string) (GraphRunner, bool) {
	r, ok := e.runners[name]
	return r, ok
}

// Acoustic runs the acoustic graph over one id sequence and returns the
// mel spectrogram, shape [1, frames, mels].
func (e *Engine) Acoustic(ctx context.Context, ids []int32, speakerID int32) (*Tensor, error) {
	if len(ids) == 0 {
		return nil, errors.New("acoustic: empty id sequence")
	}

	r, err := e.runner(GraphAcoustic)
	if err != nil {
		return nil, err
	}

	inputIDs, err := NewTensor(ids, []int64{1, int64(len(ids))})
	if err != nil {
		return nil, fmt.Errorf("acoustic: %w", err)
	}
	lengths, err := NewTensor([]int32{int32(len(ids))}, []int64{1})
	if err != nil {
		return nil, fmt.Errorf("acoustic: %w", err)
	}
	speakers, err := NewTensor([]int32{speakerID}, []int64{1})
	if err != nil {
		return nil, fmt.Errorf("acoustic: %w", err)
	}

	out, err := r.Run(ctx, map[string]*Tensor{
		e.io.InputIDs:     inputIDs,
		e.io.InputLengths: lengths,
		e.io.SpeakerIDs:   speakers,
	})
	if err != nil {
		return nil, fmt.Errorf("acoustic: %w", err)
	}

	mel, ok := out[e.io.MelOutput]
	if !ok {
		return nil, fmt.Errorf("acoustic: missing output %q", e.io.MelOutput)
	}
	if shape := mel.Shape(); len(shape) != 3 || shape[0] != 1 {
		return nil, fmt.Errorf("acoustic: %q has shape %v, want [1 frames mels]", e.io.MelOutput, shape)
	}

	return mel, nil
}

// Vocode turns a mel spectrogram into mono float32 samples.
func (e *Engine) Vocode(ctx context.Context, mel *Tensor) ([]float32, error) {
	r, err := e.runner(GraphVocoder)
	if err != nil {
		return nil, err
	}

	out, err := r.Run(ctx, map[string]*Tensor{e.io.VocoderInput: mel})
	if err != nil {
		return nil, fmt.Errorf("vocoder: %w", err)
	}

	wave, ok := out[e.io.AudioOutput]
	if !ok {
		return nil, fmt.Errorf("vocoder: missing output %q", e.io.AudioOutput)
	}

	// Accept [1, samples, 1] as well as [1, samples].
	shape := wave.Shape()
	if len(shape) < 2 || shape[0] != 1 || (len(shape) == 3 && shape[2] != 1) || len(shape) > 3 {
		return nil, fmt.Errorf("vocoder: %q has shape %v, want [1 samples 1]", e.io.AudioOutput, shape)
	}

	samples, err := ExtractFloat32(wave)
	if err != nil {
		return nil, fmt.Errorf("vocoder: %w", err)
	}

	return samples, nil
}

// Synthesize runs both graphs back to back.
func (e *Engine) Synthesize(ctx context.Context, ids []int32, speakerID int32) ([]float32, error) {
	mel, err := e.Acoustic(ctx, ids, speakerID)
	if err != nil {
		return nil, err
	}

	slog.Debug("acoustic model done", "ids", len(ids), "mel_shape", mel.Shape())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return e.Vocode(ctx, mel)
}

// Close releases every runner. Safe to call multiple times.
func (e *Engine) Close() {
	for name, r := range e.runners {
		r.Close()
		delete(e.runners, name)
	}
}

func (e *Engine) runner(name string) (GraphRunner, error) {
	r, ok := e.runners[name]
	if !ok {
		return nil, fmt.Errorf("graph %q not loaded", name)
	}

	return r, nil
}
