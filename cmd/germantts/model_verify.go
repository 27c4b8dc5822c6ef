package main

import (
	"fmt"

	"github.com/example/go-german-tts/internal/config"
	"github.com/example/go-german-tts/internal/model"
	"github.com/example/go-german-tts/internal/onnx"
	"github.com/spf13/cobra"
)

func newModelVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Load the cached graphs into ONNX Runtime",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			sessions, err := cachedSessions(cfg)
			if err != nil {
				return err
			}

			info, err := onnx.Bootstrap(cfg.Runtime)
			if err != nil {
				return err
			}

			err = model.VerifyGraphs(model.VerifyOptions{
				Sessions: sessions,
				Runner:   info.RunnerConfig(),
				Stdout:   cmd.OutOrStdout(),
				Stderr:   cmd.ErrOrStderr(),
			})
			if err != nil {
				return fmt.Errorf("model verify failed: %w", err)
			}

			return nil
		},
	}

	return cmd
}

// cachedSessions locates the graphs of the configured variant without
// downloading anything.
func cachedSessions(cfg config.Config) ([]onnx.Session, error) {
	m, err := model.PinnedManifest(cfg.Models.Variant)
	if err != nil {
		return nil, err
	}

	graphs, err := model.NewCache(cfg.Paths.CacheDir, cfg.Models.BaseURL).Graphs(m)
	if err != nil {
		return nil, fmt.Errorf("%w (run `germantts model download`)", err)
	}

	return onnx.Sessions(graphs.Acoustic, graphs.Vocoder)
}
