package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks for a config file when none is given.
const DefaultPath = ".config.yaml"

// Loader reads configuration from an optional yaml file layered over
// defaults, with environment variables applied last.
type Loader struct {
	path      string
	useDotEnv bool
}

// NewLoader creates a loader for the default config path.
func NewLoader() *Loader {
	return &Loader{path: DefaultPath, useDotEnv: true}
}

// WithPath overrides the config file location.
func (l *Loader) WithPath(path string) *Loader {
	if path != "" {
		l.path = path
	}
	return l
}

// WithDotEnv toggles loading variables from a .env file before reading config.
func (l *Loader) WithDotEnv(enabled bool) *Loader {
	l.useDotEnv = enabled
	return l
}

// Result captures the loaded configuration and its origin.
type Result struct {
	Config *Config
	Path   string
}

// Load builds the effective configuration. A missing config file is not an
// error; defaults plus environment overrides apply.
func (l *Loader) Load() (*Result, error) {
	if l.useDotEnv {
		_ = godotenv.Load()
	}

	cfg := DefaultConfig()
	origin := "defaults"

	data, err := os.ReadFile(l.path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", l.path, err)
		}
		origin = l.path
	case os.IsNotExist(err):
		// fall through to defaults
	default:
		return nil, fmt.Errorf("read config %s: %w", l.path, err)
	}

	applyEnv(cfg)

	if err := l.validate(cfg); err != nil {
		return nil, err
	}

	return &Result{Config: cfg, Path: origin}, nil
}

func (l *Loader) validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", cfg.Server.Port)
	}
	if cfg.Upload.MaxDimension <= 0 {
		return fmt.Errorf("invalid max dimension %d", cfg.Upload.MaxDimension)
	}
	if _, ok := cfg.Vision[cfg.Selected.Vision]; !ok {
		return fmt.Errorf("selected vision provider %q is not configured", cfg.Selected.Vision)
	}
	if _, ok := cfg.LLM[cfg.Selected.LLM]; !ok {
		return fmt.Errorf("selected llm provider %q is not configured", cfg.Selected.LLM)
	}
	return nil
}

// applyEnv layers environment variables over the file values. Secrets are
// expected to arrive this way rather than through the config file.
func applyEnv(cfg *Config) {
	if port := os.Getenv("PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Server.Port = n
		}
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if bucket := os.Getenv("S3_DIAGRAMS_BUCKET"); bucket != "" {
		cfg.Storage.Bucket = bucket
	}
	if region := os.Getenv("AWS_DEFAULT_REGION"); region != "" {
		cfg.Storage.Region = region
	}

	applyModelEnv(cfg.Vision)
	applyModelEnv(cfg.LLM)
}

func applyModelEnv(models map[string]ModelConfig) {
	anthropicKey := os.Getenv("ANTHROPIC_API_KEY")
	openaiKey := os.Getenv("OPENAI_API_KEY")

	for name, mc := range models {
		if mc.APIKey != "" {
			continue
		}
		switch mc.Type {
		case "anthropic":
			mc.APIKey = anthropicKey
		case "openai":
			mc.APIKey = openaiKey
		}
		models[name] = mc
	}
}
