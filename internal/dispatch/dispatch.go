// Package dispatch submits a built prompt to an OpenAI-compatible chat completion API.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/kayz/promptbuilder/internal/config"
	"github.com/kayz/promptbuilder/internal/logger"
)

const (
	defaultModel     = "gpt-4o-mini"
	defaultMaxTokens = 4096
)

// ErrEmptyResponse is returned when the API answers without choices.
var ErrEmptyResponse = errors.New("empty response from chat API")

// Client sends prompts to a chat completion endpoint.
type Client struct {
	client       *openai.Client
	model        string
	maxTokens    int
	providerName string
}

// New creates a Client from the ai config section.
func New(cfg config.AIConfig) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("API key is required (set ai.api_key or OPENAI_API_KEY)")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	provider := strings.TrimSpace(cfg.Provider)
	if provider == "" {
		provider = "openai"
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		clientCfg.BaseURL = baseURL
	}

	return &Client{
		client:       openai.NewClientWithConfig(clientCfg),
		model:        model,
		maxTokens:    maxTokens,
		providerName: provider,
	}, nil
}

// Model returns the model the client submits to.
func (c *Client) Model() string {
	return c.model
}

// Send submits prompt as a single user message and returns the reply text.
func (c *Client) Send(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", fmt.Errorf("prompt is empty")
	}

	logger.Debug("Sending prompt to %s model %s (%d bytes)", c.providerName, c.model, len(prompt))
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%s API error: %w", c.providerName, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
