package model

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"skyrchitect-server-go/internal/platform/config"
	"skyrchitect-server-go/internal/platform/errors"
	"skyrchitect-server-go/internal/platform/logging"
	"skyrchitect-server-go/internal/platform/observability"
)

type anthropicClient struct {
	client  anthropic.Client
	cfg     config.ModelConfig
	logger  *logging.Logger
	metrics *observability.Metrics
}

func newAnthropicClient(cfg config.ModelConfig, logger *logging.Logger, metrics *observability.Metrics) *anthropicClient {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &anthropicClient{
		client:  anthropic.NewClient(opts...),
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
	}
}

func (c *anthropicClient) AnalyzeImage(ctx context.Context, pngData []byte, prompt string) (string, error) {
	encoded := base64.StdEncoding.EncodeToString(pngData)
	message := anthropic.NewUserMessage(
		anthropic.NewImageBlockBase64("image/png", encoded),
		anthropic.NewTextBlock(prompt),
	)
	return c.call(ctx, "model.anthropic.AnalyzeImage", nil, []anthropic.MessageParam{message})
}

func (c *anthropicClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	var sys []anthropic.TextBlockParam
	if system != "" {
		sys = []anthropic.TextBlockParam{{Text: system}}
	}
	message := anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))
	return c.call(ctx, "model.anthropic.Complete", sys, []anthropic.MessageParam{message})
}

func (c *anthropicClient) call(ctx context.Context, op string, system []anthropic.TextBlockParam, messages []anthropic.MessageParam) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.cfg.ModelName),
		Messages:  messages,
		MaxTokens: int64(c.cfg.MaxTokens),
	}
	if len(system) > 0 {
		params.System = system
	}
	if c.cfg.Temperature > 0 {
		params.Temperature = anthropic.Float(c.cfg.Temperature)
	}

	start := time.Now()
	resp, err := c.client.Messages.New(ctx, params)
	observeCall(c.metrics, "anthropic", time.Since(start).Seconds())
	if err != nil {
		return "", errors.Wrap(errors.KindTransport, op, "anthropic API call", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.AsText().Text)
		}
	}
	if text.Len() == 0 {
		return "", errors.New(errors.KindTransport, op, "anthropic response contained no text")
	}

	c.logger.Component("model").Debugf(
		"anthropic call: model=%s in_tokens=%d out_tokens=%d duration=%s",
		c.cfg.ModelName, resp.Usage.InputTokens, resp.Usage.OutputTokens, time.Since(start),
	)
	return text.String(), nil
}
