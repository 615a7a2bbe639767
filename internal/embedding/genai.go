package embedding

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GenAIEngine generates embeddings using Google's Gemini API.
type GenAIEngine struct {
	client     *genai.Client
	model      string
	dimensions int
}

// NewGenAIEngine creates a new GenAI embedding engine.
func NewGenAIEngine(ctx context.Context, apiKey, model string, dimensions int) (*GenAIEngine, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = "gemini-embedding-001"
	}
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GenAIEngine{client: client, model: model, dimensions: dimensions}, nil
}

// Embed generates an embedding for a single text.
func (e *GenAIEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch uses the native batch support of the embed endpoint.
func (e *GenAIEngine) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	dims := int32(e.dimensions)
	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, &genai.EmbedContentConfig{
		OutputDimensionality: &dims,
	})
	if err != nil {
		return nil, fmt.Errorf("GenAI embed failed: %w", err)
	}
	if len(result.Embeddings) != len(texts) {
		return nil, fmt.Errorf("GenAI returned %d embeddings for %d texts", len(result.Embeddings), len(texts))
	}

	out := make([][]float32, len(result.Embeddings))
	for i, emb := range result.Embeddings {
		out[i] = emb.Values
	}
	return out, nil
}

func (e *GenAIEngine) Dimensions() int { return e.dimensions }

func (e *GenAIEngine) Name() string { return fmt.Sprintf("genai:%s", e.model) }
