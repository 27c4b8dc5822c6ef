package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Paths    PathsConfig   `mapstructure:"paths"`
	Models   ModelsConfig  `mapstructure:"models"`
	Runtime  RuntimeConfig `mapstructure:"runtime"`
	TTS      TTSConfig     `mapstructure:"tts"`
	LogLevel string        `mapstructure:"log_level"`
	LogFile  string        `mapstructure:"log_file"`
}

type PathsConfig struct {
	CacheDir string `mapstructure:"cache_dir"`
}

type ModelsConfig struct {
	Variant string `mapstructure:"variant"`
	BaseURL string `mapstructure:"base_url"`
}

type RuntimeConfig struct {
	ORTLibraryPath string `mapstructure:"ort_library_path"`
	ORTVersion     string `mapstructure:"ort_version"`
	APIVersion     uint32 `mapstructure:"api_version"`
}

type TTSConfig struct {
	SampleRate int `mapstructure:"sample_rate"`
	TailTrim   int `mapstructure:"tail_trim"`
	SpeakerID  int `mapstructure:"speaker_id"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	// EnvFile is a dotenv file loaded before the environment is read.
	// When empty, ./.env is loaded if it exists.
	EnvFile  string
	Defaults Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

// DefaultBaseURL hosts the released German model archives.
const DefaultBaseURL = "https://storage.googleapis.com/mys-released-models/"

func DefaultConfig() Config {
	return Config{
		Paths: PathsConfig{
			CacheDir: defaultCacheDir(),
		},
		Models: ModelsConfig{
			Variant: VariantFull,
			BaseURL: DefaultBaseURL,
		},
		Runtime: RuntimeConfig{
			APIVersion: 23,
		},
		TTS: TTSConfig{
			SampleRate: 22050,
			TailTrim:   1024,
			SpeakerID:  0,
		},
		LogLevel: "info",
	}
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(".cache", "germantts")
	}

	return filepath.Join(dir, "germantts")
}

// flagKeys maps each registered flag onto its config key.
var flagKeys = map[string]string{
	"cache-dir":                "paths.cache_dir",
	"variant":                  "models.variant",
	"models-base-url":          "models.base_url",
	"runtime-ort-library-path": "runtime.ort_library_path",
	"ort-lib":                  "runtime.ort_library_path",
	"runtime-ort-version":      "runtime.ort_version",
	"runtime-api-version":      "runtime.api_version",
	"sample-rate":              "tts.sample_rate",
	"tail-trim":                "tts.tail_trim",
	"speaker-id":               "tts.speaker_id",
	"log-level":                "log_level",
	"log-file":                 "log_file",
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("cache-dir", defaults.Paths.CacheDir, "Directory holding downloaded model archives")
	fs.String("variant", defaults.Models.Variant, "Model variant (full|lite)")
	fs.String("models-base-url", defaults.Models.BaseURL, "Base URL of the model archives")
	fs.String("runtime-ort-library-path", defaults.Runtime.ORTLibraryPath, "Path to ONNX Runtime shared library")
	fs.String("ort-lib", defaults.Runtime.ORTLibraryPath, "Path to ONNX Runtime shared library (alias for --runtime-ort-library-path)")
	fs.String("runtime-ort-version", defaults.Runtime.ORTVersion, "Expected ONNX Runtime version")
	fs.Uint32("runtime-api-version", defaults.Runtime.APIVersion, "ONNX Runtime C API version")
	fs.Int("sample-rate", defaults.TTS.SampleRate, "Output sample rate in Hz")
	fs.Int("tail-trim", defaults.TTS.TailTrim, "Samples dropped from the end of the vocoder output")
	fs.Int("speaker-id", defaults.TTS.SpeakerID, "Speaker id passed to the acoustic model")
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
	fs.String("log-file", defaults.LogFile, "Also write logs to this file, rotated by size")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := bindFlags(v, opts.Cmd.Flags()); err != nil {
			return Config{}, err
		}
	}

	if err := loadEnvFile(opts.EnvFile); err != nil {
		return Config{}, err
	}

	v.SetEnvPrefix("GERMANTTS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	if err := v.BindEnv("runtime.ort_library_path", "GERMANTTS_RUNTIME_ORT_LIBRARY_PATH", "GERMANTTS_ORT_LIB", "ORT_LIBRARY_PATH"); err != nil {
		return Config{}, fmt.Errorf("bind ort env vars: %w", err)
	}
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("germantts")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	variant, err := NormalizeVariant(cfg.Models.Variant)
	if err != nil {
		return Config{}, err
	}
	cfg.Models.Variant = variant

	return cfg, nil
}

// bindFlags binds each known flag to its nested key. Only flags the user
// changed take precedence; the rest fall through to env, file and defaults.
// "ort-lib" wins over "runtime-ort-library-path" when both are set.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		if name == "ort-lib" && !changed(fs, name) {
			continue
		}
		if name == "runtime-ort-library-path" && changed(fs, "ort-lib") {
			continue
		}
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}

	return nil
}

func changed(fs *pflag.FlagSet, name string) bool {
	f := fs.Lookup(name)
	return f != nil && f.Changed
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("paths.cache_dir", c.Paths.CacheDir)
	v.SetDefault("models.variant", c.Models.Variant)
	v.SetDefault("models.base_url", c.Models.BaseURL)
	v.SetDefault("runtime.ort_library_path", c.Runtime.ORTLibraryPath)
	v.SetDefault("runtime.ort_version", c.Runtime.ORTVersion)
	v.SetDefault("runtime.api_version", c.Runtime.APIVersion)
	v.SetDefault("tts.sample_rate", c.TTS.SampleRate)
	v.SetDefault("tts.tail_trim", c.TTS.TailTrim)
	v.SetDefault("tts.speaker_id", c.TTS.SpeakerID)
	v.SetDefault("log_level", c.LogLevel)
	v.SetDefault("log_file", c.LogFile)
}

// loadEnvFile copies dotenv entries into the process environment.
// Variables that are already set keep their value.
func loadEnvFile(path string) error {
	if path == "" {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		path = ".env"
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}

	return nil
}
