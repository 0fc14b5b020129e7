package config

import "time"

// DefaultConfig returns the configuration used when no config file is
// present. Model API keys still have to come from the environment.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			IP:   "0.0.0.0",
			Port: 8000,
		},
		Log: LogConfig{
			Level: "info",
			Dir:   "data/logs",
			File:  "server.log",
		},
		Upload: UploadConfig{
			MaxImageBytes: 10 * 1024 * 1024,
			MaxPDFBytes:   20 * 1024 * 1024,
			MaxDimension:  1920,
			PDFRenderDPI:  200,
		},
		Selected: SelectedConfig{
			Vision: "claude_vision",
			LLM:    "claude",
		},
		Vision: map[string]ModelConfig{
			"claude_vision": {
				Type:        "anthropic",
				ModelName:   "claude-3-5-sonnet-20241022",
				Temperature: 0.3,
				MaxTokens:   4096,
				Timeout:     90 * time.Second,
			},
			"gpt4o_vision": {
				Type:        "openai",
				ModelName:   "gpt-4o",
				Temperature: 0.3,
				MaxTokens:   4096,
				Timeout:     90 * time.Second,
			},
		},
		LLM: map[string]ModelConfig{
			"claude": {
				Type:        "anthropic",
				ModelName:   "claude-3-5-sonnet-20241022",
				Temperature: 0.7,
				MaxTokens:   4096,
				Timeout:     120 * time.Second,
			},
		},
		Storage: StorageConfig{
			Enabled:   true,
			Bucket:    "skyrchitect-diagrams",
			Region:    "us-west-2",
			KeyPrefix: "diagrams",
		},
	}
}
