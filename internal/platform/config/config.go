package config

import "time"

type Config struct {
	Server   ServerConfig           `yaml:"server"`
	Log      LogConfig              `yaml:"log"`
	Upload   UploadConfig           `yaml:"upload"`
	Selected SelectedConfig         `yaml:"selected_module"`
	Vision   map[string]ModelConfig `yaml:"vision"`
	LLM      map[string]ModelConfig `yaml:"llm"`
	Storage  StorageConfig          `yaml:"storage"`
}

type ServerConfig struct {
	IP   string `yaml:"ip"`
	Port int    `yaml:"port"`
}

type LogConfig struct {
	Level string `yaml:"log_level"`
	Dir   string `yaml:"log_dir"`
	File  string `yaml:"log_file"`
}

// UploadConfig bounds what the diagram endpoint accepts.
type UploadConfig struct {
	// MaxImageBytes is the ceiling for raster uploads (PNG/JPEG/WEBP).
	MaxImageBytes int64 `yaml:"max_image_bytes"`
	// MaxPDFBytes is the (larger) ceiling for PDF uploads.
	MaxPDFBytes int64 `yaml:"max_pdf_bytes"`
	// MaxDimension caps normalized image width and height in pixels.
	MaxDimension int `yaml:"max_dimension"`
	// PDFRenderDPI is the rasterization resolution for PDF pages.
	PDFRenderDPI float64 `yaml:"pdf_render_dpi"`
}

// SelectedConfig names the active provider entry per model role.
type SelectedConfig struct {
	Vision string `yaml:"vision"`
	LLM    string `yaml:"llm"`
}

// ModelConfig configures one remote model endpoint. Type selects the
// backend SDK ("anthropic" or "openai").
type ModelConfig struct {
	Type        string        `yaml:"type"`
	ModelName   string        `yaml:"model_name"`
	BaseURL     string        `yaml:"url"`
	APIKey      string        `yaml:"api_key"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
}

// StorageConfig configures the S3 diagram backup collaborator.
type StorageConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	KeyPrefix string `yaml:"key_prefix"`
}
