package model

import (
	"context"
	"encoding/base64"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"skyrchitect-server-go/internal/platform/config"
	"skyrchitect-server-go/internal/platform/errors"
	"skyrchitect-server-go/internal/platform/logging"
	"skyrchitect-server-go/internal/platform/observability"
)

type openaiClient struct {
	client  *openai.Client
	cfg     config.ModelConfig
	logger  *logging.Logger
	metrics *observability.Metrics
}

func newOpenAIClient(cfg config.ModelConfig, logger *logging.Logger, metrics *observability.Metrics) *openaiClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &openaiClient{
		client:  openai.NewClientWithConfig(clientCfg),
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
	}
}

func (c *openaiClient) AnalyzeImage(ctx context.Context, pngData []byte, prompt string) (string, error) {
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngData)
	messages := []openai.ChatCompletionMessage{
		{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{
					Type:     openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
				},
				{
					Type: openai.ChatMessagePartTypeText,
					Text: prompt,
				},
			},
		},
	}
	return c.call(ctx, "model.openai.AnalyzeImage", messages)
}

func (c *openaiClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	var messages []openai.ChatCompletionMessage
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})
	return c.call(ctx, "model.openai.Complete", messages)
}

func (c *openaiClient) call(ctx context.Context, op string, messages []openai.ChatCompletionMessage) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.cfg.ModelName,
		Messages:    messages,
		Temperature: float32(c.cfg.Temperature),
		MaxTokens:   c.cfg.MaxTokens,
	})
	observeCall(c.metrics, "openai", time.Since(start).Seconds())
	if err != nil {
		return "", errors.Wrap(errors.KindTransport, op, "openai API call", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New(errors.KindTransport, op, "openai response contained no text")
	}

	c.logger.Component("model").Debugf(
		"openai call: model=%s tokens=%d duration=%s",
		c.cfg.ModelName, resp.Usage.TotalTokens, time.Since(start),
	)
	return resp.Choices[0].Message.Content, nil
}
