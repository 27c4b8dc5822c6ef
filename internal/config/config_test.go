package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

// fakeBinder wraps a pflag.FlagSet to satisfy the flagBinder interface.
type fakeBinder struct {
	fs *pflag.FlagSet
}

func (f *fakeBinder) Flags() *pflag.FlagSet { return f.fs }

// parsedBinder registers all config flags and parses args.
func parsedBinder(t *testing.T, defaults Config, args ...string) *fakeBinder {
	t.Helper()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs, defaults)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	return &fakeBinder{fs: fs}
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	return path
}

// --- DefaultConfig ---

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Paths.CacheDir == "" {
		t.Error("Paths.CacheDir is empty")
	}

	if filepath.Base(cfg.Paths.CacheDir) != "germantts" {
		t.Errorf("Paths.CacheDir = %q; want a germantts directory", cfg.Paths.CacheDir)
	}

	if cfg.Models.Variant != VariantFull {
		t.Errorf("Models.Variant = %q; want %q", cfg.Models.Variant, VariantFull)
	}

	if cfg.Models.BaseURL != DefaultBaseURL {
		t.Errorf("Models.BaseURL = %q; want %q", cfg.Models.BaseURL, DefaultBaseURL)
	}

	if cfg.Runtime.APIVersion != 23 {
		t.Errorf("Runtime.APIVersion = %d; want 23", cfg.Runtime.APIVersion)
	}

	if cfg.TTS.SampleRate != 22050 {
		t.Errorf("TTS.SampleRate = %d; want 22050", cfg.TTS.SampleRate)
	}

	if cfg.TTS.TailTrim != 1024 {
		t.Errorf("TTS.TailTrim = %d; want 1024", cfg.TTS.TailTrim)
	}

	if cfg.TTS.SpeakerID != 0 {
		t.Errorf("TTS.SpeakerID = %d; want 0", cfg.TTS.SpeakerID)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q; want %q", cfg.LogLevel, "info")
	}
}

// --- NormalizeVariant ---

func TestNormalizeVariant(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"full", "full", VariantFull, false},
		{"lite", "lite", VariantLite, false},
		{"saved model alias", "savedmodel", VariantFull, false},
		{"saved alias", "saved", VariantFull, false},
		{"tflite alias", "tflite", VariantLite, false},
		{"mixed case", "LiTe", VariantLite, false},
		{"padded", "  full  ", VariantFull, false},
		{"empty defaults to full", "", VariantFull, false},
		{"invalid value", "onnx", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeVariant(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NormalizeVariant(%q) = %q, nil; want error", tt.input, got)
				}

				return
			}

			if err != nil {
				t.Fatalf("NormalizeVariant(%q) unexpected error: %v", tt.input, err)
			}

			if got != tt.want {
				t.Errorf("NormalizeVariant(%q) = %q; want %q", tt.input, got, tt.want)
			}
		})
	}
}

// --- ParseLogLevel ---

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"info", slog.LevelInfo, false},
		{"DEBUG", slog.LevelDebug, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLogLevel(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLogLevel(%q) error = %v; wantErr %v", tt.input, err, tt.wantErr)
			continue
		}

		if got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v; want %v", tt.input, got, tt.want)
		}
	}
}

// --- RegisterFlags ---

func TestRegisterFlags(t *testing.T) {
	defaults := DefaultConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs, defaults)

	checks := []struct {
		flag string
		want string
	}{
		{"variant", "full"},
		{"models-base-url", DefaultBaseURL},
		{"sample-rate", "22050"},
		{"tail-trim", "1024"},
		{"speaker-id", "0"},
		{"log-level", "info"},
	}

	for _, c := range checks {
		f := fs.Lookup(c.flag)
		if f == nil {
			t.Errorf("flag %q not registered", c.flag)
			continue
		}

		if f.DefValue != c.want {
			t.Errorf("flag %q default = %q; want %q", c.flag, f.DefValue, c.want)
		}
	}

	for name := range flagKeys {
		if fs.Lookup(name) == nil {
			t.Errorf("flagKeys entry %q has no registered flag", name)
		}
	}
}

// --- Load ---

func TestLoad_Defaults(t *testing.T) {
	defaults := DefaultConfig()

	cfg, err := Load(LoadOptions{
		Cmd:      parsedBinder(t, defaults),
		Defaults: defaults,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg != defaults {
		t.Errorf("Load() = %+v; want %+v", cfg, defaults)
	}
}

func TestLoad_NilCmd(t *testing.T) {
	defaults := DefaultConfig()

	cfg, err := Load(LoadOptions{Defaults: defaults})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.TTS.TailTrim != defaults.TTS.TailTrim {
		t.Errorf("TTS.TailTrim = %d; want %d", cfg.TTS.TailTrim, defaults.TTS.TailTrim)
	}
}

func TestLoad_FlagOverride(t *testing.T) {
	defaults := DefaultConfig()

	cfg, err := Load(LoadOptions{
		Cmd: parsedBinder(t, defaults,
			"--variant=tflite",
			"--tail-trim=512",
			"--cache-dir=/tmp/models",
			"--log-level=debug",
		),
		Defaults: defaults,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Models.Variant != VariantLite {
		t.Errorf("Models.Variant = %q; want %q", cfg.Models.Variant, VariantLite)
	}

	if cfg.TTS.TailTrim != 512 {
		t.Errorf("TTS.TailTrim = %d; want 512", cfg.TTS.TailTrim)
	}

	if cfg.Paths.CacheDir != "/tmp/models" {
		t.Errorf("Paths.CacheDir = %q; want %q", cfg.Paths.CacheDir, "/tmp/models")
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q; want %q", cfg.LogLevel, "debug")
	}
}

func TestLoad_ORTLibAlias(t *testing.T) {
	defaults := DefaultConfig()

	cfg, err := Load(LoadOptions{
		Cmd:      parsedBinder(t, defaults, "--ort-lib=/opt/ort/libonnxruntime.so"),
		Defaults: defaults,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Runtime.ORTLibraryPath != "/opt/ort/libonnxruntime.so" {
		t.Errorf("Runtime.ORTLibraryPath = %q; want %q", cfg.Runtime.ORTLibraryPath, "/opt/ort/libonnxruntime.so")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("GERMANTTS_LOG_LEVEL", "warn")
	t.Setenv("GERMANTTS_TTS_SPEAKER_ID", "3")
	t.Setenv("GERMANTTS_MODELS_VARIANT", "lite")

	cfg, err := Load(LoadOptions{Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q; want %q", cfg.LogLevel, "warn")
	}

	if cfg.TTS.SpeakerID != 3 {
		t.Errorf("TTS.SpeakerID = %d; want 3", cfg.TTS.SpeakerID)
	}

	if cfg.Models.Variant != VariantLite {
		t.Errorf("Models.Variant = %q; want %q", cfg.Models.Variant, VariantLite)
	}
}

func TestLoad_ORTEnvAliases(t *testing.T) {
	t.Setenv("ORT_LIBRARY_PATH", "/usr/lib/libonnxruntime.so")

	cfg, err := Load(LoadOptions{Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Runtime.ORTLibraryPath != "/usr/lib/libonnxruntime.so" {
		t.Errorf("Runtime.ORTLibraryPath = %q; want %q", cfg.Runtime.ORTLibraryPath, "/usr/lib/libonnxruntime.so")
	}
}

func TestLoad_FlagBeatsEnv(t *testing.T) {
	t.Setenv("GERMANTTS_TTS_TAIL_TRIM", "2048")

	defaults := DefaultConfig()

	cfg, err := Load(LoadOptions{
		Cmd:      parsedBinder(t, defaults, "--tail-trim=0"),
		Defaults: defaults,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.TTS.TailTrim != 0 {
		t.Errorf("TTS.TailTrim = %d; want 0", cfg.TTS.TailTrim)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	cfgFile := writeConfig(t, "germantts.yaml", `
log_level: error
models:
  variant: lite
  base_url: "http://mirror.local/models/"
tts:
  speaker_id: 1
`)

	defaults := DefaultConfig()

	cfg, err := Load(LoadOptions{
		Cmd:        parsedBinder(t, defaults),
		ConfigFile: cfgFile,
		Defaults:   defaults,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q; want %q", cfg.LogLevel, "error")
	}

	if cfg.Models.Variant != VariantLite {
		t.Errorf("Models.Variant = %q; want %q", cfg.Models.Variant, VariantLite)
	}

	if cfg.Models.BaseURL != "http://mirror.local/models/" {
		t.Errorf("Models.BaseURL = %q; want %q", cfg.Models.BaseURL, "http://mirror.local/models/")
	}

	if cfg.TTS.SpeakerID != 1 {
		t.Errorf("TTS.SpeakerID = %d; want 1", cfg.TTS.SpeakerID)
	}

	if cfg.TTS.TailTrim != defaults.TTS.TailTrim {
		t.Errorf("TTS.TailTrim = %d; want default %d", cfg.TTS.TailTrim, defaults.TTS.TailTrim)
	}
}

func TestLoad_TOMLConfigFile(t *testing.T) {
	cfgFile := writeConfig(t, "germantts.toml", "log_level = \"debug\"\n\n[tts]\nspeaker_id = 2\n")

	cfg, err := Load(LoadOptions{ConfigFile: cfgFile, Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LogLevel != "debug" || cfg.TTS.SpeakerID != 2 {
		t.Errorf("Load() = %+v; want log_level debug and speaker 2", cfg)
	}
}

func TestLoad_FlagBeatsConfigFile(t *testing.T) {
	cfgFile := writeConfig(t, "germantts.yaml", "models:\n  variant: lite\n")
	defaults := DefaultConfig()

	cfg, err := Load(LoadOptions{
		Cmd:        parsedBinder(t, defaults, "--variant=full"),
		ConfigFile: cfgFile,
		Defaults:   defaults,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Models.Variant != VariantFull {
		t.Errorf("Models.Variant = %q; want %q", cfg.Models.Variant, VariantFull)
	}
}

func TestLoad_InvalidVariant(t *testing.T) {
	defaults := DefaultConfig()

	_, err := Load(LoadOptions{
		Cmd:      parsedBinder(t, defaults, "--variant=huge"),
		Defaults: defaults,
	})
	if err == nil {
		t.Error("Load() = nil; want error for invalid variant")
	}
}

func TestLoad_InvalidConfigFile(t *testing.T) {
	cfgFile := writeConfig(t, "bad.yaml", ":\t:bad yaml:::")

	_, err := Load(LoadOptions{
		ConfigFile: cfgFile,
		Defaults:   DefaultConfig(),
	})
	if err == nil {
		t.Error("Load() = nil; want error for invalid config file")
	}
}

func TestLoad_MissingExplicitConfigFile(t *testing.T) {
	_, err := Load(LoadOptions{
		ConfigFile: "/nonexistent/path/germantts.yaml",
		Defaults:   DefaultConfig(),
	})
	if err == nil {
		t.Error("Load() = nil; want error for missing explicit config file")
	}
}

func TestLoad_EnvFile(t *testing.T) {
	t.Cleanup(func() {
		_ = os.Unsetenv("GERMANTTS_TTS_TAIL_TRIM")
		_ = os.Unsetenv("GERMANTTS_LOG_FILE")
	})

	path := writeConfig(t, "germantts.env", "GERMANTTS_TTS_TAIL_TRIM=512\nGERMANTTS_LOG_FILE=/tmp/germantts.log\n")

	cfg, err := Load(LoadOptions{EnvFile: path, Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.TTS.TailTrim != 512 {
		t.Errorf("TTS.TailTrim = %d; want 512", cfg.TTS.TailTrim)
	}
	if cfg.LogFile != "/tmp/germantts.log" {
		t.Errorf("LogFile = %q", cfg.LogFile)
	}
}

func TestLoad_EnvFileDoesNotOverrideEnv(t *testing.T) {
	t.Setenv("GERMANTTS_TTS_SPEAKER_ID", "4")

	path := writeConfig(t, "germantts.env", "GERMANTTS_TTS_SPEAKER_ID=9\n")

	cfg, err := Load(LoadOptions{EnvFile: path, Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.TTS.SpeakerID != 4 {
		t.Errorf("TTS.SpeakerID = %d; want 4", cfg.TTS.SpeakerID)
	}
}

func TestLoad_DotEnvInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("GERMANTTS_MODELS_VARIANT=tflite\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Chdir(dir)
	t.Cleanup(func() { _ = os.Unsetenv("GERMANTTS_MODELS_VARIANT") })

	cfg, err := Load(LoadOptions{Defaults: DefaultConfig()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Models.Variant != VariantLite {
		t.Errorf("Models.Variant = %q; want %q", cfg.Models.Variant, VariantLite)
	}
}

func TestLoad_MissingEnvFile(t *testing.T) {
	_, err := Load(LoadOptions{EnvFile: "/nonexistent/germantts.env", Defaults: DefaultConfig()})
	if err == nil {
		t.Error("Load() = nil; want error for missing explicit env file")
	}
}
