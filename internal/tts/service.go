package tts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/example/go-german-tts/internal/audio"
	"github.com/example/go-german-tts/internal/config"
	"github.com/example/go-german-tts/internal/model"
	"github.com/example/go-german-tts/internal/onnx"
	"github.com/example/go-german-tts/internal/text"
)

// ErrNoAudio is returned when nothing is left after trimming the vocoder tail.
var ErrNoAudio = errors.New("synthesis produced no audio")

type Service struct {
	normalizer *text.GermanNormalizer
	encoder    *text.Encoder
	runtime    Runtime
	ttsCfg     config.TTSConfig
}

// NewService bootstraps ONNX Runtime and opens the acoustic and vocoder graphs.
func NewService(cfg config.Config, graphs model.Graphs) (*Service, error) {
	info, err := onnx.Bootstrap(cfg.Runtime)
	if err != nil {
		return nil, err
	}

	sessions, err := onnx.Sessions(graphs.Acoustic, graphs.Vocoder)
	if err != nil {
		return nil, err
	}

	engine, err := onnx.NewEngine(sessions, onnx.DefaultGraphIO(), info.RunnerConfig())
	if err != nil {
		return nil, err
	}

	return NewServiceWithRuntime(cfg.TTS, newONNXRuntime(engine)), nil
}

// NewServiceWithRuntime wires the German encoder to an existing runtime.
func NewServiceWithRuntime(cfg config.TTSConfig, rt Runtime) *Service {
	normalizer := text.NewGermanNormalizer(text.DefaultGermanOptions())

	return &Service{
		normalizer: normalizer,
		encoder:    text.NewEncoder(text.DefaultSymbolTable(), normalizer),
		runtime:    rt,
		ttsCfg:     cfg,
	}
}

// Encode returns the symbol id sequence for input, end-of-sequence included.
func (s *Service) Encode(input string) []int {
	return s.encoder.Encode(input)
}

// SampleRate is the rate of the samples returned by Synthesize.
func (s *Service) SampleRate() int {
	if s.ttsCfg.SampleRate <= 0 {
		return audio.DefaultSampleRate
	}

	return s.ttsCfg.SampleRate
}

// Synthesize turns one piece of text into mono float32 samples.
func (s *Service) Synthesize(ctx context.Context, input string) ([]float32, error) {
	if s.runtime == nil {
		return nil, errors.New("tts runtime is not initialized")
	}

	cleaned, err := text.CleanInput(input)
	if err != nil {
		return nil, err
	}

	ids := s.encoder.EncodeInt32(cleaned)
	if slog.Default().Enabled(ctx, slog.LevelDebug) {
		slog.Debug("encoded text", "normalized", s.normalizer.Normalize(cleaned), "ids", len(ids))
	}

	samples, err := s.runtime.GenerateAudio(ctx, ids, RuntimeGenerateConfig{SpeakerID: int32(s.ttsCfg.SpeakerID)})
	if err != nil {
		return nil, fmt.Errorf("generate audio: %w", err)
	}

	samples = audio.TrimTail(samples, s.ttsCfg.TailTrim)
	if len(samples) == 0 {
		return nil, ErrNoAudio
	}

	return samples, nil
}

// SynthesizeChunks synthesizes each chunk in order and concatenates the audio.
func (s *Service) SynthesizeChunks(ctx context.Context, chunks []string) ([]float32, error) {
	var out []float32

	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		samples, err := s.Synthesize(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}

		out = append(out, samples...)
	}

	if len(out) == 0 {
		return nil, ErrNoAudio
	}

	return out, nil
}

// Close releases the runtime.
func (s *Service) Close() {
	if s.runtime != nil {
		s.runtime.Close()
	}
}
