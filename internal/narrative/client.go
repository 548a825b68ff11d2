package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/Ankur-Sura/Nivesh-Copilot/internal/config"
)

// Client wraps a chat model for the research stages. All prose and all
// structured extraction go through it; failures come back as errors and the
// caller decides what to substitute.
type Client struct {
	chatModel model.BaseChatModel
	system    string
}

const defaultSystemPrompt = "You are an equity research assistant covering Indian stock markets. " +
	"Answer concisely and ground every claim in the material provided."

// NewClient builds a chat model from the configured provider.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	cm, err := newChatModel(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Client{chatModel: cm, system: defaultSystemPrompt}, nil
}

// NewClientWithModel wires an existing chat model. Used by tests.
func NewClientWithModel(cm model.BaseChatModel) *Client {
	return &Client{chatModel: cm, system: defaultSystemPrompt}
}

func newChatModel(ctx context.Context, cfg *config.Config) (model.BaseChatModel, error) {
	switch cfg.LLMProvider {
	case "deepseek":
		if cfg.DeepSeekAPIKey == "" {
			return nil, fmt.Errorf("DEEPSEEK_API_KEY not set")
		}
		return deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:    cfg.DeepSeekAPIKey,
			Model:     cfg.LLMModel,
			MaxTokens: 4096,
		})
	case "openai", "":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not set")
		}
		maxTokens := 4096
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL:   cfg.BackendURL,
			APIKey:    cfg.OpenAIAPIKey,
			Model:     cfg.LLMModel,
			MaxTokens: &maxTokens,
		})
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.LLMProvider)
	}
}

// Generate returns the model's reply to a single prompt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	msgs := []*schema.Message{
		schema.SystemMessage(c.system),
		schema.UserMessage(prompt),
	}

	resp, err := c.chatModel.Generate(ctx, msgs)
	if err != nil {
		return "", fmt.Errorf("chat generate: %w", err)
	}
	if strings.TrimSpace(resp.Content) == "" {
		return "", fmt.Errorf("chat generate: empty response")
	}

	return resp.Content, nil
}

// GenerateJSON asks for a JSON-only answer and unmarshals it into out.
// Unparseable replies are an error, not a guess.
func (c *Client) GenerateJSON(ctx context.Context, prompt string, out interface{}) error {
	fullPrompt := prompt + "\n\nRespond with a single JSON object only. No prose, no markdown fences."

	reply, err := c.Generate(ctx, fullPrompt)
	if err != nil {
		return err
	}

	cleaned := stripCodeFences(reply)
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		log.Printf("[narrative] unparseable JSON reply: %.120s", cleaned)
		return fmt.Errorf("parse model JSON: %w", err)
	}

	return nil
}

// stripCodeFences removes a surrounding ```json fence and trims to the
// outermost object when the model pads its answer.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
