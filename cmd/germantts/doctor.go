package main

import (
	"errors"
	"fmt"

	"github.com/example/go-german-tts/internal/config"
	"github.com/example/go-german-tts/internal/doctor"
	"github.com/example/go-german-tts/internal/onnx"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	var load bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run local runtime and model checks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "variant: %s\n", cfg.Models.Variant)

			sessions, sessionsErr := cachedSessions(cfg)

			dcfg := doctor.Config{
				Runtime:    runtimeProbe(cfg.Runtime),
				APIVersion: cfg.Runtime.APIVersion,
				CacheDir:   cfg.Paths.CacheDir,
			}
			for _, s := range sessions {
				dcfg.GraphFiles = append(dcfg.GraphFiles, s.Path)
			}
			if load {
				dcfg.ValidateGraph = graphLoader(cfg.Runtime)
			}

			result := doctor.Run(dcfg, w)

			if sessionsErr != nil {
				result.AddFailure(fmt.Sprintf("model graphs: %v", sessionsErr))
				_, _ = fmt.Fprintf(w, "%s model graphs: %v\n", doctor.FailMark, sessionsErr)
			}

			if result.Failed() {
				for _, f := range result.Failures() {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "FAIL: %s\n", f)
				}

				return errors.New("doctor checks failed")
			}

			_, _ = fmt.Fprintln(w, "doctor checks passed")

			return nil
		},
	}

	cmd.Flags().BoolVar(&load, "load", false, "Also load each graph into ONNX Runtime")

	return cmd
}

func runtimeProbe(cfg config.RuntimeConfig) doctor.RuntimeFunc {
	return func() (string, string, error) {
		info, err := onnx.DetectRuntime(cfg)
		if err != nil {
			return "", "", err
		}
		return info.LibraryPath, info.Version, nil
	}
}

// graphLoader opens and closes a session for one graph.
func graphLoader(cfg config.RuntimeConfig) func(string) error {
	return func(path string) error {
		info, err := onnx.Bootstrap(cfg)
		if err != nil {
			return err
		}

		r, err := onnx.NewRunner(onnx.Session{Name: "doctor", Path: path}, info.RunnerConfig())
		if err != nil {
			return err
		}
		r.Close()

		return nil
	}
}
