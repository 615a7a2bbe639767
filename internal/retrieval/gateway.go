package retrieval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"voc-backend/internal/embedding"
	"voc-backend/internal/logs"
	"voc-backend/internal/shared/metrics"
)

// ErrPoolExhausted means no search slot freed up within the pool wait.
var ErrPoolExhausted = errors.New("retrieval pool exhausted")

const (
	DefaultTopK     = 5
	defaultPoolSize = 8
	defaultPoolWait = 250 * time.Millisecond
	defaultTimeout  = 10 * time.Second
)

// Match is a stored document with its similarity in [0,1].
type Match struct {
	Document   logs.Document
	Similarity float64
}

// Options tunes the gateway.
type Options struct {
	PoolSize int
	PoolWait time.Duration
	Timeout  time.Duration
}

// Gateway embeds queries and searches the store through a bounded pool.
type Gateway struct {
	store    Store
	embedder embedding.Embedder
	pool     *semaphore.Weighted
	poolWait time.Duration
	timeout  time.Duration
}

// NewGateway constructs a gateway. Zero options take defaults.
func NewGateway(store Store, embedder embedding.Embedder, opts Options) *Gateway {
	if opts.PoolSize <= 0 {
		opts.PoolSize = defaultPoolSize
	}
	if opts.PoolWait <= 0 {
		opts.PoolWait = defaultPoolWait
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &Gateway{
		store:    store,
		embedder: embedder,
		pool:     semaphore.NewWeighted(int64(opts.PoolSize)),
		poolWait: opts.PoolWait,
		timeout:  opts.Timeout,
	}
}

// Search returns up to k matches in store rank order. An empty store yields
// an empty slice.
func (g *Gateway) Search(ctx context.Context, query string, k int) ([]Match, error) {
	if k <= 0 {
		k = DefaultTopK
	}
	release, err := g.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	start := time.Now()
	defer func() { metrics.ObserveRetrievalSeconds(time.Since(start).Seconds()) }()

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	vec, err := g.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	hits, err := g.store.Search(ctx, vec, k)
	if err != nil {
		return nil, fmt.Errorf("search store: %w", err)
	}

	metric := g.store.Metric()
	matches := make([]Match, 0, len(hits))
	for _, h := range hits {
		matches = append(matches, Match{
			Document:   logs.FromMetadata(h.Content, h.Metadata),
			Similarity: Normalize(metric, h.Score),
		})
	}
	return matches, nil
}

// Index embeds and stores documents. Invalid documents fail the whole call.
func (g *Gateway) Index(ctx context.Context, docs []logs.Document) error {
	if len(docs) == 0 {
		return nil
	}
	texts := make([]string, len(docs))
	for i, d := range docs {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("document %q: %w", d.ID, err)
		}
		texts[i] = d.Text()
	}
	vecs, err := g.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed documents: %w", err)
	}
	if len(vecs) != len(docs) {
		return fmt.Errorf("embedder returned %d vectors for %d documents", len(vecs), len(docs))
	}
	entries := make([]Entry, len(docs))
	for i, d := range docs {
		entries[i] = Entry{ID: d.ID, Content: texts[i], Metadata: d.Metadata(), Vector: vecs[i]}
	}
	return g.store.Upsert(ctx, entries)
}

func (g *Gateway) Initialize(ctx context.Context) error { return g.store.Initialize(ctx) }

func (g *Gateway) Count(ctx context.Context) (int, error) { return g.store.Count(ctx) }

func (g *Gateway) Reset(ctx context.Context) error { return g.store.Reset(ctx) }

// EmbedderName reports the embedding engine for health output.
func (g *Gateway) EmbedderName() string { return g.embedder.Name() }

func (g *Gateway) acquire(ctx context.Context) (func(), error) {
	waitCtx, cancel := context.WithTimeout(ctx, g.poolWait)
	defer cancel()
	if err := g.pool.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		metrics.IncPoolRejected()
		return nil, ErrPoolExhausted
	}
	return func() { g.pool.Release(1) }, nil
}
