// Package embedding turns log text into vectors for similarity search.
package embedding

import (
	"context"
	"fmt"
	"strings"
)

// Embedder generates vector embeddings for text.
type Embedder interface {
	// Embed generates an embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch generates embeddings for several texts, preserving order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	// Dimensions returns the vector length produced by the engine.
	Dimensions() int
	// Name identifies the engine in logs and health output.
	Name() string
}

// Config selects and configures an engine.
type Config struct {
	Provider   string
	Model      string
	BaseURL    string
	APIKey     string
	Dimensions int
}

// New builds the engine named by cfg.Provider.
func New(ctx context.Context, cfg Config) (Embedder, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "ollama":
		return NewOllamaEngine(cfg.BaseURL, cfg.Model, cfg.Dimensions)
	case "genai", "gemini":
		return NewGenAIEngine(ctx, cfg.APIKey, cfg.Model, cfg.Dimensions)
	case "hash":
		return NewHashEngine(cfg.Dimensions), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

func embedSequential(ctx context.Context, e Embedder, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("failed to embed text %d: %w", i, err)
		}
		out[i] = vec
	}
	return out, nil
}
