package retrieval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeByMetric(t *testing.T) {
	tests := []struct {
		name   string
		metric Metric
		raw    float64
		want   float64
	}{
		{"cosine similarity passthrough", MetricCosineSimilarity, 0.82, 0.82},
		{"cosine similarity negative", MetricCosineSimilarity, -0.4, 0},
		{"cosine distance exact", MetricCosineDistance, 0, 1},
		{"cosine distance mid", MetricCosineDistance, 0.25, 0.75},
		{"cosine distance opposite", MetricCosineDistance, 2, 0},
		{"dot product max", MetricDotProduct, 1, 1},
		{"dot product zero", MetricDotProduct, 0, 0.5},
		{"dot product min", MetricDotProduct, -1, 0},
		{"dot product overflow", MetricDotProduct, 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Normalize(tt.metric, tt.raw), 1e-9)
		})
	}
}

func TestMemoryStoreRanksByCosine(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Upsert(ctx, []Entry{
		{ID: "a", Content: "a", Vector: []float32{1, 0}},
		{ID: "b", Content: "b", Vector: []float32{0.7, 0.7}},
		{ID: "c", Content: "c", Vector: []float32{0, 1}},
	}))

	hits, err := s.Search(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].ID)
	assert.Equal(t, "b", hits[1].ID)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
}

func TestMemoryStoreUpsertReplacesAndResets(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Upsert(ctx, []Entry{{ID: "a", Vector: []float32{1}}}))
	require.NoError(t, s.Upsert(ctx, []Entry{{ID: "a", Content: "new", Vector: []float32{1}}}))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	hits, _ := s.Search(ctx, []float32{1}, 5)
	require.Len(t, hits, 1)
	assert.Equal(t, "new", hits[0].Content)

	require.NoError(t, s.Reset(ctx))
	n, _ = s.Count(ctx)
	assert.Zero(t, n)
}

func TestMemoryStoreEmptySearch(t *testing.T) {
	hits, err := NewMemoryStore().Search(context.Background(), []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.NotNil(t, hits)
	assert.Empty(t, hits)
}
