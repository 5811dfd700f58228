package purpose

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig configures an OpenAI-compatible chat completion endpoint.
type OpenAIConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration
	Temperature float32
}

// DefaultModel is used when no model is configured.
const DefaultModel = openai.GPT4oMini

// OpenAI generates statements with a chat completion model.
type OpenAI struct {
	client *openai.Client
	config OpenAIConfig
	logger *slog.Logger
}

// NewOpenAI creates a generator for an OpenAI-compatible endpoint.
func NewOpenAI(cfg OpenAIConfig, logger *slog.Logger) *OpenAI {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(clientCfg),
		config: cfg,
		logger: logger.With("component", "purpose", "model", cfg.Model),
	}
}

// GeneratePrimaryPurpose asks the model for a primary purpose statement.
func (g *OpenAI) GeneratePrimaryPurpose(ctx context.Context, industryDescription string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: Prompt(industryDescription)},
		},
		Temperature: g.config.Temperature,
	})
	if err != nil {
		g.logger.Warn("chat completion failed", "error", err)
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrGenerationFailed)
	}

	text := clean(resp.Choices[0].Message.Content)
	g.logger.Debug("primary purpose generated",
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)
	return text, nil
}
