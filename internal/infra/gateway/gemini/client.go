// Package gemini streams advisor replies from Google's Gemini models.
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/kislikjeka/finsight/internal/platform/advisor"
	"github.com/kislikjeka/finsight/pkg/logger"
)

const (
	// DefaultModel is used when Config.Model is empty
	DefaultModel = "gemini-2.5-flash"

	defaultTemperature     float32 = 0.4
	defaultMaxOutputTokens int32   = 1024

	genaiRoleUser  = "user"
	genaiRoleModel = "model"
)

// Config holds Gemini client settings
type Config struct {
	APIKey string
	Model  string

	// BaseURL overrides the API endpoint (tests)
	BaseURL string
}

// Client implements advisor.Model on top of the genai SDK
type Client struct {
	client *genai.Client
	model  string
	logger *logger.Logger
}

// NewClient creates a Gemini client
func NewClient(ctx context.Context, cfg Config, log *logger.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: create genai client: %w", err)
	}

	return &Client{
		client: client,
		model:  model,
		logger: log.WithComponent("gemini"),
	}, nil
}

// Stream sends the conversation and forwards each text chunk to emit
func (c *Client) Stream(ctx context.Context, systemInstruction string, messages []advisor.Message, emit func(chunk string) error) error {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(defaultTemperature),
		MaxOutputTokens: defaultMaxOutputTokens,
	}
	if systemInstruction != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		}
	}

	chunks := 0
	for resp, err := range c.client.Models.GenerateContentStream(ctx, c.model, ToContents(messages), config) {
		if err != nil {
			return fmt.Errorf("gemini: stream: %w", err)
		}
		text := resp.Text()
		if text == "" {
			continue
		}
		chunks++
		if err := emit(text); err != nil {
			return err
		}
	}

	c.logger.Debug("gemini stream finished", "model", c.model, "chunks", chunks)
	return nil
}

// ToContents maps advisor messages onto genai contents. The advisor's
// "assistant" role is called "model" by Gemini.
func ToContents(messages []advisor.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		role := genaiRoleUser
		if m.Role == advisor.RoleAssistant {
			role = genaiRoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}
	return contents
}
