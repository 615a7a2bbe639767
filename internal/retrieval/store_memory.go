package retrieval

import (
	"context"
	"math"
	"sort"
	"sync"
)

// MemoryStore is a brute-force cosine store safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]Entry
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (s *MemoryStore) Initialize(ctx context.Context) error {
	return ctx.Err()
}

// Upsert replaces entries with the same ID and keeps first-insert order.
func (s *MemoryStore) Upsert(ctx context.Context, entries []Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		if _, ok := s.entries[e.ID]; !ok {
			s.order = append(s.order, e.ID)
		}
		s.entries[e.ID] = e
	}
	return nil
}

// Search ranks every entry by cosine similarity, best first.
func (s *MemoryStore) Search(ctx context.Context, vector []float32, k int) ([]Hit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return []Hit{}, nil
	}
	s.mu.RLock()
	hits := make([]Hit, 0, len(s.order))
	for _, id := range s.order {
		e := s.entries[id]
		hits = append(hits, Hit{
			ID:       e.ID,
			Content:  e.Content,
			Metadata: e.Metadata,
			Score:    cosine(vector, e.Vector),
		})
	}
	s.mu.RUnlock()

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

func (s *MemoryStore) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.entries = make(map[string]Entry)
	return nil
}

func (s *MemoryStore) Metric() Metric { return MetricCosineSimilarity }

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
