// Package doctor provides environment preflight checks for germantts.
package doctor

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// RuntimeFunc locates the ONNX Runtime shared library.
type RuntimeFunc func() (path, version string, err error)

// Config holds injectable dependencies for each doctor check.
type Config struct {
	// Runtime resolves the ORT library path and version.
	Runtime RuntimeFunc
	// SkipRuntime skips the ORT checks (encode-only use).
	SkipRuntime bool
	// APIVersion is the ORT C API version that will be requested.
	APIVersion uint32
	// CacheDir is the model cache root.
	CacheDir string
	// GraphFiles are the ONNX graphs expected in the cache.
	GraphFiles []string
	// ValidateGraph optionally loads a graph that exists on disk.
	ValidateGraph func(path string) error
	// Fs defaults to the OS filesystem.
	Fs afero.Fs
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

// AddFailure appends an external failure message to the result.
func (r *Result) AddFailure(msg string) { r.failures = append(r.failures, msg) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all configured checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	fs := cfg.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	// ---- ONNX Runtime -----------------------------------------------------
	switch {
	case cfg.SkipRuntime:
		fmt.Fprintf(w, "%s onnx runtime: skipped\n", PassMark)
	case cfg.Runtime == nil:
		res.fail("onnx runtime: no detector configured")
		fmt.Fprintf(w, "%s onnx runtime: no detector configured\n", FailMark)
	default:
		path, ver, err := cfg.Runtime()
		if err != nil {
			res.fail(fmt.Sprintf("onnx runtime: %v", err))
			fmt.Fprintf(w, "%s onnx runtime: not found (%v)\n", FailMark, err)
		} else if verErr := checkORTVersion(ver, cfg.APIVersion); verErr != nil {
			res.fail(fmt.Sprintf("onnx runtime version: %v", verErr))
			fmt.Fprintf(w, "%s onnx runtime %s: %v\n", FailMark, ver, verErr)
		} else {
			fmt.Fprintf(w, "%s onnx runtime: %s (%s)\n", PassMark, path, ver)
		}
	}

	// ---- model cache ------------------------------------------------------
	if cfg.CacheDir != "" {
		if ok, err := afero.DirExists(fs, cfg.CacheDir); err != nil || !ok {
			res.fail(fmt.Sprintf("cache dir %q: not found", cfg.CacheDir))
			fmt.Fprintf(w, "%s cache dir %s: not found (run `germantts model download`)\n", FailMark, cfg.CacheDir)
		} else {
			fmt.Fprintf(w, "%s cache dir: %s\n", PassMark, cfg.CacheDir)
		}
	}

	// ---- graphs -----------------------------------------------------------
	for _, path := range cfg.GraphFiles {
		if _, err := fs.Stat(path); err != nil {
			res.fail(fmt.Sprintf("graph %q: %v", path, err))
			fmt.Fprintf(w, "%s graph %s: not found\n", FailMark, path)
			continue
		}

		fmt.Fprintf(w, "%s graph: %s\n", PassMark, path)

		if cfg.ValidateGraph != nil {
			if err := cfg.ValidateGraph(path); err != nil {
				res.fail(fmt.Sprintf("graph validation %q: %v", path, err))
				fmt.Fprintf(w, "%s graph validation: %v\n", FailMark, err)
			} else {
				fmt.Fprintf(w, "%s graph validation: ok\n", PassMark)
			}
		}
	}

	return res
}

// checkORTVersion returns an error if ver is too old to serve apiVersion.
// ORT 1.N implements C API version N. Unknown versions are not rejected.
func checkORTVersion(ver string, apiVersion uint32) error {
	if ver == "" || ver == "unknown" {
		return nil
	}

	major, minor, err := parseMajorMinor(ver)
	if err != nil {
		return fmt.Errorf("cannot parse %q: %w", ver, err)
	}
	if major != 1 {
		return fmt.Errorf("requires ONNX Runtime 1.x, got %d", major)
	}
	if apiVersion > 0 && minor < int(apiVersion) {
		return fmt.Errorf("API version %d requires ONNX Runtime >=1.%d, got 1.%d", apiVersion, apiVersion, minor)
	}
	return nil
}

func parseMajorMinor(ver string) (major, minor int, err error) {
	parts := strings.SplitN(ver, ".", 3)
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("unexpected version format %q", ver)
	}
	major, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("bad major in %q: %w", ver, err)
	}
	minor, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("bad minor in %q: %w", ver, err)
	}
	return major, minor, nil
}
