package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

var ErrEmptyCompletion = errors.New("model returned no choices")

// Config carries everything the transport needs; it is built once at
// startup from the application config and threaded in, never read from
// globals.
type Config struct {
	OpenAIToken     string
	AnthropicToken  string
	OllamaServerURL string
	Temperature     float64
	MaxTokens       int
	MaxRetries      int
}

// Client is the hosted-model transport. It owns resilience for a single
// call: overloaded or flaky requests are retried with exponential backoff
// before the failure is surfaced to the caller.
type Client struct {
	logger    *slog.Logger
	model     llms.Model
	modelName string
	conf      Config
}

// NewClient builds a transport for the given model identifier. The
// provider is picked from the identifier: claude-* goes to Anthropic,
// gpt-* and the o1/o3/o4 reasoning families to OpenAI, anything else to
// a local Ollama server.
func NewClient(logger *slog.Logger, conf Config, modelName string) (*Client, error) {
	model, err := buildModel(conf, modelName)
	if err != nil {
		return nil, fmt.Errorf("failed to build model client: %w", err)
	}

	return &Client{
		logger:    logger.With("component", "llm", "model", modelName),
		model:     model,
		modelName: modelName,
		conf:      conf,
	}, nil
}

func buildModel(conf Config, modelName string) (llms.Model, error) {
	switch {
	case strings.HasPrefix(modelName, "claude"):
		return anthropic.New(
			anthropic.WithModel(modelName),
			anthropic.WithToken(conf.AnthropicToken),
		)
	case strings.HasPrefix(modelName, "gpt") ||
		strings.HasPrefix(modelName, "o1") ||
		strings.HasPrefix(modelName, "o3") ||
		strings.HasPrefix(modelName, "o4"):
		opts := []openai.Option{openai.WithModel(modelName)}
		if conf.OpenAIToken != "" {
			opts = append(opts, openai.WithToken(conf.OpenAIToken))
		}
		return openai.New(opts...)
	default:
		opts := []ollama.Option{ollama.WithModel(modelName)}
		if conf.OllamaServerURL != "" {
			opts = append(opts, ollama.WithServerURL(conf.OllamaServerURL))
		}
		return ollama.New(opts...)
	}
}

// Complete sends a system+user prompt pair and returns the reply text.
func (that *Client) Complete(ctx context.Context, system, user string) (string, error) {
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, user),
	}

	var reply string

	operation := func() error {
		response, err := that.model.GenerateContent(ctx, content,
			llms.WithTemperature(that.conf.Temperature),
			llms.WithMaxTokens(that.conf.MaxTokens),
			llms.WithJSONMode(),
		)
		if err != nil {
			return fmt.Errorf("generate content: %w", err)
		}

		if len(response.Choices) == 0 {
			return ErrEmptyCompletion
		}

		reply = response.Choices[0].Content
		return nil
	}

	notify := func(err error, wait time.Duration) {
		that.logger.Warn("model call failed, retrying", "error", err, "wait", wait)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(that.conf.MaxRetries)),
		ctx,
	)

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return "", fmt.Errorf("model %s did not answer: %w", that.modelName, err)
	}

	return reply, nil
}
