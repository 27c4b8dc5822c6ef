package tts

import (
	"context"
)

// RuntimeGenerateConfig controls a single generation call.
type RuntimeGenerateConfig struct {
	SpeakerID int32
}

// Runtime abstracts graph execution so the service pipeline
// (cleanup, encoding, tail trimming) can be tested without ONNX Runtime.
type Runtime interface {
	GenerateAudio(ctx context.Context, ids []int32, cfg RuntimeGenerateConfig) ([]float32, error)
	Close()
}
