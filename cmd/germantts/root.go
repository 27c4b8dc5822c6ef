package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/example/go-german-tts/internal/audio"
	"github.com/example/go-german-tts/internal/config"
	"github.com/example/go-german-tts/internal/logging"
	"github.com/example/go-german-tts/internal/model"
	"github.com/example/go-german-tts/internal/tts"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// demoSentence is synthesized when germantts runs without a subcommand.
const demoSentence = "Möchtest du das meiner Frau erklären? Nein? Ich auch nicht."

var (
	cfgFile   string
	envFile   string
	activeCfg config.Config
	logCloser io.Closer
)

// outputFs receives every file the CLI writes.
var outputFs afero.Fs = afero.NewOsFs()

// synthesizer is the part of tts.Service the commands depend on.
type synthesizer interface {
	Synthesize(ctx context.Context, input string) ([]float32, error)
	SynthesizeChunks(ctx context.Context, chunks []string) ([]float32, error)
	SampleRate() int
	Close()
}

// newSynthesizer is swapped out in tests.
var newSynthesizer = func(ctx context.Context, cfg config.Config) (synthesizer, error) {
	graphs, err := ensureGraphs(ctx, cfg)
	if err != nil {
		return nil, err
	}

	svc, err := tts.NewService(cfg, graphs)
	if err != nil {
		return nil, fmt.Errorf("initialize synth service: %w", err)
	}

	return svc, nil
}

func NewRootCmd() *cobra.Command {
	defaults := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "germantts",
		Short: "German Tacotron2 text-to-speech",
		Long: "Without a subcommand, downloads the models if needed and writes a demo\n" +
			"sentence to sample.wav (sample_tflite.wav for the lite variant).",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(config.LoadOptions{
				Cmd:        cmd,
				ConfigFile: cfgFile,
				EnvFile:    envFile,
				Defaults:   defaults,
			})
			if err != nil {
				return err
			}
			activeCfg = loaded
			return setupLogger(loaded.LogLevel, loaded.LogFile)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			return runDemo(cmd.Context(), cfg)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Optional config file (yaml|toml|json)")
	cmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Optional dotenv file (default ./.env when present)")
	config.RegisterFlags(cmd.PersistentFlags(), defaults)

	cmd.AddCommand(newSynthCmd())
	cmd.AddCommand(newEncodeCmd())
	cmd.AddCommand(newModelCmd())
	cmd.AddCommand(newDoctorCmd())

	return cmd
}

// setupLogger configures the process-wide slog default logger.
func setupLogger(levelStr, file string) error {
	logger, closer, err := logging.New(logging.Options{Level: levelStr, File: file})
	if err != nil {
		return err
	}
	if logCloser != nil {
		_ = logCloser.Close()
	}
	logCloser = closer
	slog.SetDefault(logger)
	return nil
}

func requireConfig() (config.Config, error) {
	if activeCfg.Paths.CacheDir == "" {
		return config.Config{}, errors.New("configuration not loaded")
	}
	return activeCfg, nil
}

// ensureGraphs downloads the configured variant if needed and returns its graphs.
func ensureGraphs(ctx context.Context, cfg config.Config) (model.Graphs, error) {
	m, err := model.PinnedManifest(cfg.Models.Variant)
	if err != nil {
		return model.Graphs{}, err
	}

	cache := model.NewCache(cfg.Paths.CacheDir, cfg.Models.BaseURL)
	cache.Stdout = os.Stderr

	graphs, err := cache.EnsureAll(ctx, m)
	if err != nil {
		return model.Graphs{}, fmt.Errorf("prepare models: %w", err)
	}

	return graphs, nil
}

func demoOutputPath(variant string) string {
	if variant == config.VariantLite {
		return "sample_tflite.wav"
	}
	return "sample.wav"
}

func runDemo(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()

	svc, err := newSynthesizer(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	samples, err := svc.Synthesize(ctx, demoSentence)
	if err != nil {
		return err
	}

	wavData, err := audio.EncodeWAV(samples, svc.SampleRate())
	if err != nil {
		return fmt.Errorf("encode WAV: %w", err)
	}

	out := demoOutputPath(cfg.Models.Variant)
	if err := afero.WriteFile(outputFs, out, wavData, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	slog.Info("synthesis finished",
		"out", out,
		"samples", len(samples),
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
	)

	return nil
}
