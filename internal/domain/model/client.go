// Package model is the remote model boundary. Every call is a single
// request: no retries, no streaming, failure reported to the caller.
package model

import (
	"context"

	"skyrchitect-server-go/internal/platform/config"
	"skyrchitect-server-go/internal/platform/errors"
	"skyrchitect-server-go/internal/platform/logging"
	"skyrchitect-server-go/internal/platform/observability"
)

// Client abstracts a hosted model endpoint.
type Client interface {
	// AnalyzeImage sends a PNG plus an instruction and returns the raw
	// model text.
	AnalyzeImage(ctx context.Context, pngData []byte, prompt string) (string, error)
	// Complete sends a plain text exchange with an optional system prompt.
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// NewClient builds a client for the configured backend type.
func NewClient(cfg config.ModelConfig, logger *logging.Logger, metrics *observability.Metrics) (Client, error) {
	const op = "model.NewClient"

	if cfg.APIKey == "" {
		return nil, errors.New(errors.KindConfig, op, "missing API key for %s backend", cfg.Type)
	}

	switch cfg.Type {
	case "anthropic":
		return newAnthropicClient(cfg, logger, metrics), nil
	case "openai":
		return newOpenAIClient(cfg, logger, metrics), nil
	default:
		return nil, errors.New(errors.KindConfig, op, "unsupported model backend: %s", cfg.Type)
	}
}

func observeCall(metrics *observability.Metrics, provider string, seconds float64) {
	if metrics == nil {
		return
	}
	metrics.ModelCallSecs.WithLabelValues(provider).Observe(seconds)
}
