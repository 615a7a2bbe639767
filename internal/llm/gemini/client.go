package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"voc-backend/internal/llm"
)

const defaultModel = "gemini-2.0-flash"

// Client generates completions through the Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a Gemini completion client.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

// Complete requests a JSON response for the prompt.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	temp := float32(0.3)
	result, err := c.client.Models.GenerateContent(ctx,
		c.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		&genai.GenerateContentConfig{
			Temperature:      &temp,
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("GenAI returned an empty response")
	}
	return text, nil
}

var _ llm.Completer = (*Client)(nil)
