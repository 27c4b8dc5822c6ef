package model

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/example/go-german-tts/internal/onnx"
)

type VerifyOptions struct {
	Sessions []onnx.Session
	Runner   onnx.RunnerConfig
	Stdout   io.Writer
	Stderr   io.Writer
}

// openRunner is swapped out in tests.
var openRunner = func(s onnx.Session, cfg onnx.RunnerConfig) (onnx.GraphRunner, error) {
	r, err := onnx.NewRunner(s, cfg)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// VerifyGraphs loads every session into ONNX Runtime and reports PASS or
// FAIL per graph. It does not run inference; the graphs take dynamic
// shapes that only real input can exercise.
func VerifyGraphs(opts VerifyOptions) error {
	if len(opts.Sessions) == 0 {
		return errors.New("no graphs to verify")
	}

	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}

	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}

	var failures []string

	for _, session := range opts.Sessions {
		r, err := openRunner(session, opts.Runner)
		if err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "FAIL %s: %v\n", session.Name, err)
			failures = append(failures, session.Name)

			continue
		}
		r.Close()

		_, _ = fmt.Fprintf(opts.Stdout, "PASS %s (%s)\n", session.Name, session.Path)
	}

	if len(failures) > 0 {
		return fmt.Errorf("verify failed for %d graph(s): %s", len(failures), strings.Join(failures, ", "))
	}

	return nil
}
