package onnx

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/example/go-german-tts/internal/config"
)

// DefaultAPIVersion is the ORT C API version requested when none is configured.
const DefaultAPIVersion uint32 = 23

// ErrRuntimeNotFound is returned when no ONNX Runtime shared library can be located.
var ErrRuntimeNotFound = errors.New("unable to detect ONNX Runtime library path")

type RuntimeInfo struct {
	LibraryPath string
	Version     string
	APIVersion  uint32
	Initialized bool
}

// RunnerConfig returns the settings needed to open sessions against this runtime.
func (i RuntimeInfo) RunnerConfig() RunnerConfig {
	return RunnerConfig{LibraryPath: i.LibraryPath, APIVersion: i.APIVersion}
}

var versionPattern = regexp.MustCompile(`([0-9]+\.[0-9]+\.[0-9]+)`)

// libraryCandidates are probed in order when nothing is configured.
var libraryCandidates = []string{
	"/usr/lib/libonnxruntime.so",
	"/usr/local/lib/libonnxruntime.so",
	"/usr/lib/x86_64-linux-gnu/libonnxruntime.so",
	"/opt/homebrew/lib/libonnxruntime.dylib",
	"/usr/local/lib/libonnxruntime.dylib",
}

var (
	bootstrapMu   sync.Mutex
	bootstrapInfo RuntimeInfo
	bootstrapErr  error
	bootstrapDone bool
)

// Bootstrap detects the runtime once per process. Later calls return the
// first result regardless of cfg until Shutdown is called.
func Bootstrap(cfg config.RuntimeConfig) (RuntimeInfo, error) {
	bootstrapMu.Lock()
	defer bootstrapMu.Unlock()

	if !bootstrapDone {
		info, err := DetectRuntime(cfg)
		if err == nil {
			info.Initialized = true
			slog.Debug("onnx runtime detected", "path", info.LibraryPath, "version", info.Version)
		}
		bootstrapInfo, bootstrapErr, bootstrapDone = info, err, true
	}

	if bootstrapErr != nil {
		return RuntimeInfo{}, bootstrapErr
	}

	return bootstrapInfo, nil
}

// Shutdown forgets the bootstrapped runtime. Sessions own their native
// handles and are released by Engine.Close.
func Shutdown() error {
	bootstrapMu.Lock()
	defer bootstrapMu.Unlock()

	bootstrapInfo, bootstrapErr, bootstrapDone = RuntimeInfo{}, nil, false

	return nil
}

// DetectRuntime resolves the ORT shared library from config, the
// GERMANTTS_ORT_LIB and ORT_LIBRARY_PATH variables, then well-known paths.
func DetectRuntime(cfg config.RuntimeConfig) (RuntimeInfo, error) {
	apiVersion := cfg.APIVersion
	if apiVersion == 0 {
		apiVersion = DefaultAPIVersion
	}

	path := cfg.ORTLibraryPath
	if path == "" {
		path = os.Getenv("GERMANTTS_ORT_LIB")
	}

	if path == "" {
		path = os.Getenv("ORT_LIBRARY_PATH")
	}

	if path == "" {
		for _, c := range libraryCandidates {
			if _, err := os.Stat(c); err == nil {
				path = c
				break
			}
		}
	}

	if path == "" {
		return RuntimeInfo{LibraryPath: "not found", Version: "unknown", APIVersion: apiVersion}, ErrRuntimeNotFound
	}

	if _, err := os.Stat(path); err != nil {
		return RuntimeInfo{LibraryPath: path, Version: "unknown", APIVersion: apiVersion}, fmt.Errorf("onnx runtime library path check failed: %w", err)
	}

	version := cfg.ORTVersion
	if version == "" {
		version = os.Getenv("ORT_VERSION")
	}

	if version == "" {
		version = inferVersionFromPath(path)
	}

	if version == "" {
		version = "unknown"
	}

	return RuntimeInfo{LibraryPath: path, Version: version, APIVersion: apiVersion}, nil
}

func inferVersionFromPath(path string) string {
	name := filepath.Base(path)
	if m := versionPattern.FindStringSubmatch(name); len(m) == 2 {
		return m[1]
	}

	return ""
}
