// Package retrieval finds historical log entries similar to a query.
package retrieval

import (
	"context"
	"errors"
	"math"
)

// Metric identifies how a store scores a hit.
type Metric int

const (
	// MetricCosineSimilarity scores lie in [-1,1], higher is closer.
	MetricCosineSimilarity Metric = iota
	// MetricCosineDistance scores lie in [0,2], lower is closer (pgvector <=>).
	MetricCosineDistance
	// MetricDotProduct scores are inner products of unit vectors.
	MetricDotProduct
)

func (m Metric) String() string {
	switch m {
	case MetricCosineSimilarity:
		return "cosine_similarity"
	case MetricCosineDistance:
		return "cosine_distance"
	case MetricDotProduct:
		return "dot_product"
	default:
		return "unknown"
	}
}

// Normalize maps a raw store score into a similarity in [0,1].
func Normalize(metric Metric, raw float64) float64 {
	switch metric {
	case MetricCosineDistance:
		return clamp01(1 - raw)
	case MetricDotProduct:
		return clamp01((raw + 1) / 2)
	default:
		return clamp01(raw)
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ErrNotInitialized is returned when the backing table or index is missing.
var ErrNotInitialized = errors.New("vector store not initialized")

// Hit is a raw store result in rank order.
type Hit struct {
	ID       string
	Content  string
	Metadata map[string]string
	Score    float64
}

// Entry is a document ready to be stored.
type Entry struct {
	ID       string
	Content  string
	Metadata map[string]string
	Vector   []float32
}

// Store persists embeddings and answers nearest-neighbour queries.
type Store interface {
	Initialize(ctx context.Context) error
	Upsert(ctx context.Context, entries []Entry) error
	Search(ctx context.Context, vector []float32, k int) ([]Hit, error)
	Count(ctx context.Context) (int, error)
	Reset(ctx context.Context) error
	Metric() Metric
}
