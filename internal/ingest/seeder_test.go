package ingest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"voc-backend/internal/embedding"
	"voc-backend/internal/knowledge"
	"voc-backend/internal/logs"
	"voc-backend/internal/retrieval"
	"voc-backend/internal/shared/storage/object/local"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newGateway() *retrieval.Gateway {
	return retrieval.NewGateway(retrieval.NewMemoryStore(), embedding.NewHashEngine(embedding.DefaultDimensions), retrieval.Options{})
}

func expectedTemplateCount(kb *knowledge.Base) int {
	n := 0
	for _, e := range kb.Entries(knowledge.TaxonomyLog) {
		n += min(len(e.TypicalCauses), templateCausesPerCategory)
	}
	return n
}

// fakeIndex records batches and fails those containing a poisoned id.
type fakeIndex struct {
	mu       sync.Mutex
	batches  [][]logs.Document
	poison   string
	count    int
	countErr error
	resetN   int
	block    chan struct{}
}

func (f *fakeIndex) Index(ctx context.Context, docs []logs.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range docs {
		if f.poison != "" && d.ID == f.poison {
			return errors.New("embedder rejected batch")
		}
	}
	f.batches = append(f.batches, docs)
	return nil
}

func (f *fakeIndex) Count(ctx context.Context) (int, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	return f.count, f.countErr
}

func (f *fakeIndex) Reset(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetN++
	return nil
}

func TestTemplateDocuments(t *testing.T) {
	kb := knowledge.New(knowledge.VOCFirst)
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	docs, categories := TemplateDocuments(kb, at)
	require.Len(t, docs, expectedTemplateCount(kb))
	assert.Len(t, categories, 10)
	assert.Equal(t, "payment", categories[0])

	first := docs[0]
	assert.Equal(t, "template-payment-000", first.ID)
	assert.Equal(t, "2026-01-02T03:04:05Z", first.Timestamp)
	assert.Equal(t, "ERROR", first.LogLevel)
	assert.Equal(t, "payment-service", first.ServiceName)
	assert.Equal(t, "결제 게이트웨이 서버 응답 지연 또는 장애. Keywords: payment, gateway, timeout", first.Message)
	assert.Equal(t, "high", first.Severity)

	assert.Equal(t, "WARN", docs[1].LogLevel)
	assert.Equal(t, "medium", docs[1].Severity)
	assert.Equal(t, "INFO", docs[2].LogLevel)

	ids := make(map[string]bool)
	for _, d := range docs {
		require.NoError(t, d.Validate())
		require.False(t, ids[d.ID], "duplicate id %s", d.ID)
		ids[d.ID] = true
		assert.True(t, strings.HasPrefix(d.ID, "template-"+d.Category+"-"))
	}
}

func TestSeedTemplatesIsIdempotent(t *testing.T) {
	kb := knowledge.New(knowledge.VOCFirst)
	gw := newGateway()
	s := NewSeeder(gw, kb, nil, SeederOptions{})
	ctx := context.Background()

	assert.Equal(t, StatusNotStarted, s.Status().Status)

	res, err := s.Seed(ctx, SeedRequest{})
	require.NoError(t, err)
	want := expectedTemplateCount(kb)
	assert.Equal(t, StatusCompleted, res.Status)
	assert.Equal(t, SourceTemplates, res.Source)
	assert.Equal(t, want, res.Total)
	assert.Equal(t, want, res.Seeded)
	assert.Zero(t, res.Failed)
	require.NotNil(t, res.StartedAt)
	require.NotNil(t, res.CompletedAt)
	assert.Equal(t, res, s.Status())

	n, err := gw.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, n)

	again, err := s.Seed(ctx, SeedRequest{Source: SourceTemplates})
	require.NoError(t, err)
	assert.True(t, again.Skipped)
	assert.Zero(t, again.Seeded)
	n, _ = gw.Count(ctx)
	assert.Equal(t, want, n)

	reset, err := s.Seed(ctx, SeedRequest{Source: SourceTemplates, Reset: true})
	require.NoError(t, err)
	assert.False(t, reset.Skipped)
	assert.Equal(t, want, reset.Seeded)
	n, _ = gw.Count(ctx)
	assert.Equal(t, want, n)
}

func TestSeedFromFile(t *testing.T) {
	store := local.New(t.TempDir())
	body := `[
		{"id":"log-1","timestamp":"2024-01-15T10:30:00","logLevel":"ERROR","serviceName":"payment-service","message":"Payment gateway timeout","category":"payment","severity":"high"},
		{"id":"log-2","timestamp":"2024-01-15T10:31:00","logLevel":"WARN","serviceName":"auth-service","message":"Token expired","category":"auth","severity":"medium"},
		{"id":"log-3","message":"no category"},
		{"id":"log-4","logLevel":"ERROR"},
		42
	]`
	_, err := store.Put(context.Background(), "seed/custom.json", "application/json", strings.NewReader(body))
	require.NoError(t, err)

	idx := &fakeIndex{}
	s := NewSeeder(idx, knowledge.New(knowledge.VOCFirst), store, SeederOptions{})

	res, err := s.Seed(context.Background(), SeedRequest{Source: SourceFile, Key: "seed/custom.json"})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, res.Status)
	assert.Equal(t, 5, res.Total)
	assert.Equal(t, 3, res.Seeded)
	assert.Equal(t, 2, res.Failed)
	assert.Equal(t, []string{"auth", "payment", "unknown"}, res.Categories)
}

func TestSeedFromFileFailures(t *testing.T) {
	store := local.New(t.TempDir())
	_, err := store.Put(context.Background(), DefaultSeedKey, "application/json", strings.NewReader(`{"not":"an array"}`))
	require.NoError(t, err)
	s := NewSeeder(&fakeIndex{}, knowledge.New(knowledge.VOCFirst), store, SeederOptions{})

	res, err := s.Seed(context.Background(), SeedRequest{Source: SourceFile})
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, res.Status)
	assert.Contains(t, res.Error, "JSON array")
	assert.Equal(t, StatusFailed, s.Status().Status)

	res, err = s.Seed(context.Background(), SeedRequest{Source: SourceFile, Key: "missing.json"})
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, res.Status)
	assert.Contains(t, res.Error, "missing.json")
}

func TestSeedRequestErrors(t *testing.T) {
	s := NewSeeder(&fakeIndex{}, knowledge.New(knowledge.VOCFirst), nil, SeederOptions{})

	_, err := s.Seed(context.Background(), SeedRequest{Source: "expanded"})
	require.ErrorIs(t, err, ErrUnknownSource)

	_, err = s.Seed(context.Background(), SeedRequest{Source: SourceFile})
	require.ErrorIs(t, err, ErrNoObjectStore)

	assert.Equal(t, StatusNotStarted, s.Status().Status)
}

func TestSeedCountsFailedBatches(t *testing.T) {
	kb := knowledge.New(knowledge.VOCFirst)
	idx := &fakeIndex{poison: "template-auth-001"}
	s := NewSeeder(idx, kb, nil, SeederOptions{BatchSize: 5, Concurrency: 2})

	res, err := s.Seed(context.Background(), SeedRequest{})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, res.Status)
	assert.Equal(t, 5, res.Failed)
	assert.Equal(t, res.Total-5, res.Seeded)
	for _, b := range idx.batches {
		assert.LessOrEqual(t, len(b), 5)
	}
}

func TestSeedFailsWhenNothingIndexed(t *testing.T) {
	idx := &fakeIndex{poison: "template-payment-000"}
	s := NewSeeder(idx, knowledge.New(knowledge.VOCFirst), nil, SeederOptions{BatchSize: 1000})

	res, err := s.Seed(context.Background(), SeedRequest{})
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, res.Status)
	assert.Zero(t, res.Seeded)
	assert.Equal(t, res.Total, res.Failed)
}

func TestSeedCountError(t *testing.T) {
	s := NewSeeder(&fakeIndex{countErr: errors.New("relation does not exist")}, knowledge.New(knowledge.VOCFirst), nil, SeederOptions{})

	res, err := s.Seed(context.Background(), SeedRequest{})
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, res.Status)
	assert.Contains(t, res.Error, "relation does not exist")
}

func TestSeedRejectsConcurrentRun(t *testing.T) {
	idx := &fakeIndex{block: make(chan struct{})}
	s := NewSeeder(idx, knowledge.New(knowledge.VOCFirst), nil, SeederOptions{})

	done := make(chan Result)
	go func() {
		res, _ := s.Seed(context.Background(), SeedRequest{})
		done <- res
	}()

	require.Eventually(t, func() bool {
		return s.Status().Status == StatusInProgress
	}, time.Second, 5*time.Millisecond)

	_, err := s.Seed(context.Background(), SeedRequest{})
	require.ErrorIs(t, err, ErrSeedInProgress)

	close(idx.block)
	res := <-done
	assert.Equal(t, StatusCompleted, res.Status)
}
