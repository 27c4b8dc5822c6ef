package tts

import (
	"context"

	"github.com/example/go-german-tts/internal/onnx"
)

type onnxRuntime struct {
	engine *onnx.Engine
}

func newONNXRuntime(engine *onnx.Engine) Runtime {
	return &onnxRuntime{engine: engine}
}

func (r *onnxRuntime) GenerateAudio(ctx context.Context, ids []int32, cfg RuntimeGenerateConfig) ([]float32, error) {
	return r.engine.Synthesize(ctx, ids, cfg.SpeakerID)
}

func (r *onnxRuntime) Close() {
	if r.engine != nil {
		r.engine.Close()
	}
}
