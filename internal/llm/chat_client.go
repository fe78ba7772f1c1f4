// Package llm builds chat models from saved settings for the "test
// connection" action.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"chatbox/internal/catalog"
	"chatbox/internal/models"
)

var ErrAPIKeyRequired = errors.New("api key is required")

const pingPrompt = "Reply with the single word: pong"

// Config is everything needed to build a chat model for one provider.
type Config struct {
	Kind        catalog.ClientKind
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
	// MaxTokens is nil when the generation length is unbounded.
	MaxTokens *int
	// MaxTokensCap is used by clients that require an explicit limit.
	MaxTokensCap int
}

// ConfigFor derives the client configuration from a settings record.
func ConfigFor(settings models.Settings, provider *catalog.Provider) (Config, error) {
	spec, ok := provider.Model(settings.Model)
	if !ok {
		return Config{}, fmt.Errorf("provider %s has no model %q", provider.ID, settings.Model)
	}
	key := strings.TrimSpace(settings.OpenAIKey)
	if provider.NeedAPI && key == "" {
		return Config{}, fmt.Errorf("%s: %w", provider.ID, ErrAPIKeyRequired)
	}
	baseURL := strings.TrimSpace(settings.APIURL)
	if baseURL == "" {
		baseURL = provider.URL
	}

	cfg := Config{
		Kind:         provider.Client,
		BaseURL:      baseURL,
		APIKey:       key,
		Model:        spec.ID,
		Temperature:  float32(settings.Temperature),
		MaxTokensCap: spec.MaxGenerateLength.Max,
	}
	if n, bounded := settings.MaxTokens.Value(); bounded && n > 0 {
		cfg.MaxTokens = &n
	}
	return cfg, nil
}

// NewChatModel builds the eino chat model for cfg.
func NewChatModel(ctx context.Context, cfg Config) (model.BaseChatModel, error) {
	temp := cfg.Temperature

	switch cfg.Kind {
	case catalog.ClientOpenAI, "":
		m, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: &temp,
			MaxTokens:   cfg.MaxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("create openai chat model: %w", err)
		}
		return m, nil

	case catalog.ClientClaude:
		maxTokens := cfg.MaxTokensCap
		if cfg.MaxTokens != nil {
			maxTokens = *cfg.MaxTokens
		}
		var baseURL *string
		if cfg.BaseURL != "" {
			baseURL = &cfg.BaseURL
		}
		m, err := claude.NewChatModel(ctx, &claude.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     baseURL,
			Model:       cfg.Model,
			MaxTokens:   maxTokens,
			Temperature: &temp,
		})
		if err != nil {
			return nil, fmt.Errorf("create claude chat model: %w", err)
		}
		return m, nil

	case catalog.ClientGemini:
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:      cfg.APIKey,
			Backend:     genai.BackendGeminiAPI,
			HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
		})
		if err != nil {
			return nil, fmt.Errorf("create genai client: %w", err)
		}
		m, err := gemini.NewChatModel(ctx, &gemini.Config{
			Client:      client,
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: &temp,
		})
		if err != nil {
			return nil, fmt.Errorf("create gemini chat model: %w", err)
		}
		return m, nil

	default:
		return nil, fmt.Errorf("unsupported client kind %q", cfg.Kind)
	}
}

type ChatClient struct {
	ChatModel model.BaseChatModel
	Provider  string
	Model     string
	log       *slog.Logger
}

// NewChatClient builds a client for the provider and model in settings.
func NewChatClient(ctx context.Context, settings models.Settings, provider *catalog.Provider, log *slog.Logger) (*ChatClient, error) {
	cfg, err := ConfigFor(settings, provider)
	if err != nil {
		return nil, err
	}
	m, err := NewChatModel(ctx, cfg)
	if err != nil {
		log.Error("error creating chat model", slog.String("provider", provider.ID), slog.Any("error", err))
		return nil, err
	}
	return NewChatClientWithModel(m, provider.ID, cfg.Model, log), nil
}

func NewChatClientWithModel(m model.BaseChatModel, provider, modelID string, log *slog.Logger) *ChatClient {
	return &ChatClient{
		ChatModel: m,
		Provider:  provider,
		Model:     modelID,
		log:       log.With(slog.String("service", "llm"), slog.String("provider", provider)),
	}
}

// Ping sends one short user message and returns the reply text.
func (c *ChatClient) Ping(ctx context.Context) (string, error) {
	msg, err := c.ChatModel.Generate(ctx, []*schema.Message{schema.UserMessage(pingPrompt)})
	if err != nil {
		c.log.Warn("ping failed", slog.String("model", c.Model), slog.Any("error", err))
		return "", fmt.Errorf("ping %s/%s: %w", c.Provider, c.Model, err)
	}
	if msg == nil {
		return "", fmt.Errorf("ping %s/%s: empty response", c.Provider, c.Model)
	}
	reply := strings.TrimSpace(msg.Content)
	c.log.Info("ping succeeded", slog.String("model", c.Model))
	return reply, nil
}
