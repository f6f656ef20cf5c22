// Package config handles loading and validating the readalong configuration.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for the readalong daemon.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Transports TransportsConfig `mapstructure:"transports"`
	Tokenizer  TokenizerConfig  `mapstructure:"tokenizer"`
	Recognizer RecognizerConfig `mapstructure:"recognizer"`
	Pipeline   PipelineConfig   `mapstructure:"pipeline"`
	Store      StoreConfig      `mapstructure:"store"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig holds the health check server settings.
type ServerConfig struct {
	HealthPort int `mapstructure:"health_port"`
}

// TransportsConfig holds the configuration for each transport layer.
type TransportsConfig struct {
	GRPC GRPCConfig `mapstructure:"grpc"`
	HTTP HTTPConfig `mapstructure:"http"`
}

// GRPCConfig configures the gRPC transport.
type GRPCConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// HTTPConfig configures the HTTP/WebSocket transport.
type HTTPConfig struct {
	Enabled      bool  `mapstructure:"enabled"`
	Port         int   `mapstructure:"port"`
	MaxBodyBytes int64 `mapstructure:"max_body_bytes"`
}

// TokenizerConfig selects and configures the morphological tokenizer.
type TokenizerConfig struct {
	Backend string       `mapstructure:"backend"` // "kagome", "mecab" or "remote"
	Cache   bool         `mapstructure:"cache"`   // cache results in the store
	Kagome  KagomeConfig `mapstructure:"kagome"`
	MeCab   MeCabConfig  `mapstructure:"mecab"`
	Remote  RemoteConfig `mapstructure:"remote"`
}

// KagomeConfig configures the in-process kagome tokenizer.
type KagomeConfig struct {
	Mode string `mapstructure:"mode"` // "normal", "search" or "extended"
}

// MeCabConfig configures the external mecab binary.
type MeCabConfig struct {
	Binary string   `mapstructure:"binary"`
	Args   []string `mapstructure:"args"` // e.g. ["-d", "/usr/lib/mecab/dic/unidic"]
	// KanaField is the zero-based feature column holding the kana reading.
	// 17 for UniDic 2.x, 20 for UniDic 3.x, 7 for IPADIC.
	KanaField int `mapstructure:"kana_field"`
}

// RemoteConfig configures an HTTP tokenizer service.
type RemoteConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Token    string        `mapstructure:"token"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// RecognizerConfig selects and configures the speech recognizer.
type RecognizerConfig struct {
	Backend string        `mapstructure:"backend"` // "vosk", "whisper" or "none"
	Vosk    VoskConfig    `mapstructure:"vosk"`
	Whisper WhisperConfig `mapstructure:"whisper"`
}

// VoskConfig holds vosk-server WebSocket settings.
type VoskConfig struct {
	Endpoint   string `mapstructure:"endpoint"` // ws://host:2700
	SampleRate int    `mapstructure:"sample_rate"`
	ChunkSize  int    `mapstructure:"chunk_size"` // bytes per audio frame
}

// WhisperConfig holds Whisper-compatible transcription endpoint settings.
type WhisperConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	Language string `mapstructure:"language"` // ISO-639-1, defaults to "ja"
}

// PipelineConfig bounds the work done per alignment.
type PipelineConfig struct {
	Concurrency  int `mapstructure:"concurrency"`    // parallel word tokenizations
	MaxGridCells int `mapstructure:"max_grid_cells"` // 0 disables the limit
}

// StoreConfig configures the SQLite cache.
type StoreConfig struct {
	Path   string        `mapstructure:"path"` // empty disables the store
	MaxAge time.Duration `mapstructure:"max_age"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// Load reads the configuration from file, environment variables, and defaults.
// If configFile is non-empty it is used directly; otherwise the standard
// search order applies: ./readalong.yaml, ./configs/readalong.yaml, /etc/readalong/readalong.yaml.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.health_port", 8081)
	v.SetDefault("transports.grpc.enabled", true)
	v.SetDefault("transports.grpc.port", 50051)
	v.SetDefault("transports.http.enabled", true)
	v.SetDefault("transports.http.port", 8080)
	v.SetDefault("transports.http.max_body_bytes", 64<<20)
	v.SetDefault("tokenizer.backend", "kagome")
	v.SetDefault("tokenizer.cache", true)
	v.SetDefault("tokenizer.kagome.mode", "normal")
	v.SetDefault("tokenizer.mecab.binary", "mecab")
	v.SetDefault("tokenizer.mecab.args", []string{})
	v.SetDefault("tokenizer.mecab.kana_field", 17)
	v.SetDefault("tokenizer.remote.endpoint", "http://localhost:8090/tokenize")
	v.SetDefault("tokenizer.remote.timeout", 30*time.Second)
	v.SetDefault("recognizer.backend", "vosk")
	v.SetDefault("recognizer.vosk.endpoint", "ws://localhost:2700")
	v.SetDefault("recognizer.vosk.sample_rate", 16000)
	v.SetDefault("recognizer.vosk.chunk_size", 8000)
	v.SetDefault("recognizer.whisper.endpoint", "http://localhost:8000/v1/audio/transcriptions")
	v.SetDefault("recognizer.whisper.model", "whisper-1")
	v.SetDefault("recognizer.whisper.language", "ja")
	v.SetDefault("pipeline.concurrency", 8)
	v.SetDefault("pipeline.max_grid_cells", 50_000_000)
	v.SetDefault("store.path", "readalong.db")
	v.SetDefault("store.max_age", 30*24*time.Hour)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("readalong")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/readalong")
	}

	// Environment variables: READALONG_SERVER_HEALTH_PORT, READALONG_TOKENIZER_BACKEND, etc.
	v.SetEnvPrefix("READALONG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional, env vars and defaults are sufficient)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Info("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Resolve env var references in sensitive fields (e.g., "${WHISPER_API_KEY}")
	cfg.Recognizer.Whisper.APIKey = resolveEnvRef(cfg.Recognizer.Whisper.APIKey)
	cfg.Tokenizer.Remote.Token = resolveEnvRef(cfg.Tokenizer.Remote.Token)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the daemon cannot run with.
func (c *Config) Validate() error {
	switch c.Tokenizer.Backend {
	case "kagome", "mecab", "remote":
	default:
		return fmt.Errorf("config: unknown tokenizer backend %q", c.Tokenizer.Backend)
	}
	switch c.Recognizer.Backend {
	case "vosk", "whisper", "none":
	default:
		return fmt.Errorf("config: unknown recognizer backend %q", c.Recognizer.Backend)
	}
	if c.Pipeline.Concurrency < 1 {
		return fmt.Errorf("config: pipeline.concurrency must be at least 1, got %d", c.Pipeline.Concurrency)
	}
	if c.Pipeline.MaxGridCells < 0 {
		return fmt.Errorf("config: pipeline.max_grid_cells must not be negative")
	}
	if c.Tokenizer.MeCab.KanaField < 0 {
		return fmt.Errorf("config: tokenizer.mecab.kana_field must not be negative")
	}
	return nil
}

// resolveEnvRef replaces "${VAR_NAME}" patterns with the corresponding env var value.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		envKey := val[2 : len(val)-1]
		if envVal := os.Getenv(envKey); envVal != "" {
			return envVal
		}
	}
	return val
}

// SetupLogging configures the global slog logger based on config.
func SetupLogging(cfg LoggingConfig) {
	slog.SetDefault(NewLogger(cfg, os.Stdout))
}

// NewLogger builds a slog logger writing to w.
func NewLogger(cfg LoggingConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}
