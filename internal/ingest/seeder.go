package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"voc-backend/internal/knowledge"
	"voc-backend/internal/logs"
	"voc-backend/internal/shared/metrics"
	"voc-backend/internal/shared/storage/object"
	"voc-backend/internal/shared/telemetry"
)

const (
	DefaultBatchSize   = 50
	defaultConcurrency = 4
)

// Index is the part of the retrieval gateway that seeding writes through.
type Index interface {
	Index(ctx context.Context, docs []logs.Document) error
	Count(ctx context.Context) (int, error)
	Reset(ctx context.Context) error
}

// SeederOptions tunes batch indexing.
type SeederOptions struct {
	BatchSize   int
	Concurrency int
}

// Seeder loads documents into the vector store and tracks the last run.
type Seeder struct {
	index   Index
	kb      *knowledge.Base
	objects object.ObjectStore
	opts    SeederOptions
	now     func() time.Time

	mu   sync.Mutex
	last Result
}

// NewSeeder constructs a Seeder. objects may be nil, which disables the file source.
func NewSeeder(index Index, kb *knowledge.Base, objects object.ObjectStore, opts SeederOptions) *Seeder {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	return &Seeder{
		index:   index,
		kb:      kb,
		objects: objects,
		opts:    opts,
		now:     time.Now,
		last:    Result{Status: StatusNotStarted, Categories: []string{}},
	}
}

// Status returns the most recent seeding result.
func (s *Seeder) Status() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Seed runs one seeding pass. Request errors and concurrent runs return an
// error; failures during the run are reported in the Result.
func (s *Seeder) Seed(ctx context.Context, req SeedRequest) (Result, error) {
	if req.Source == "" {
		req.Source = SourceTemplates
	}
	switch req.Source {
	case SourceTemplates:
	case SourceFile:
		if s.objects == nil {
			return Result{}, ErrNoObjectStore
		}
		if strings.TrimSpace(req.Key) == "" {
			req.Key = DefaultSeedKey
		}
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownSource, req.Source)
	}

	started := s.now().UTC()
	s.mu.Lock()
	if s.last.Status == StatusInProgress {
		s.mu.Unlock()
		return Result{}, ErrSeedInProgress
	}
	s.last = Result{Status: StatusInProgress, Source: req.Source, Categories: []string{}, StartedAt: &started}
	s.mu.Unlock()

	res := s.run(ctx, req)
	res.Source = req.Source
	res.StartedAt = &started
	completed := s.now().UTC()
	res.CompletedAt = &completed
	if res.Categories == nil {
		res.Categories = []string{}
	}

	s.mu.Lock()
	s.last = res
	s.mu.Unlock()

	fields := map[string]any{
		"source":   string(req.Source),
		"status":   string(res.Status),
		"total":    res.Total,
		"seeded":   res.Seeded,
		"failed":   res.Failed,
		"skipped":  res.Skipped,
		"duration": completed.Sub(started).String(),
	}
	if res.Status == StatusFailed {
		fields["error"] = res.Error
		telemetry.Error("ingest.seed.failed", fields)
	} else {
		telemetry.Info("ingest.seed.completed", fields)
	}
	return res, nil
}

func (s *Seeder) run(ctx context.Context, req SeedRequest) Result {
	fail := func(err error) Result {
		return Result{Status: StatusFailed, Error: err.Error()}
	}

	if req.Reset {
		if err := s.index.Reset(ctx); err != nil {
			return fail(fmt.Errorf("reset store: %w", err))
		}
	} else {
		n, err := s.index.Count(ctx)
		if err != nil {
			return fail(fmt.Errorf("count documents: %w", err))
		}
		if n > 0 {
			return Result{Status: StatusCompleted, Skipped: true, Total: n}
		}
	}

	var (
		docs       []logs.Document
		categories []string
		invalid    int
	)
	switch req.Source {
	case SourceTemplates:
		docs, categories = TemplateDocuments(s.kb, s.now())
	case SourceFile:
		var err error
		docs, invalid, err = s.loadFile(ctx, req.Key)
		if err != nil {
			return fail(err)
		}
		categories = categoriesOf(docs)
	}

	seeded, failed, err := s.indexBatches(ctx, docs)
	failed += invalid
	metrics.AddSeededDocuments(string(req.Source), "seeded", seeded)
	metrics.AddSeededDocuments(string(req.Source), "failed", failed)

	res := Result{
		Status:     StatusCompleted,
		Total:      len(docs) + invalid,
		Seeded:     seeded,
		Failed:     failed,
		Categories: categories,
	}
	switch {
	case err != nil:
		res.Status = StatusFailed
		res.Error = err.Error()
	case seeded == 0 && res.Total > 0:
		res.Status = StatusFailed
		res.Error = "no documents were indexed"
	}
	return res
}

// indexBatches writes docs in fixed-size batches with bounded concurrency.
// A failed batch is counted and logged; only cancellation aborts the run.
func (s *Seeder) indexBatches(ctx context.Context, docs []logs.Document) (seeded, failed int, err error) {
	var ok, bad atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)

	for start := 0; start < len(docs); start += s.opts.BatchSize {
		end := min(start+s.opts.BatchSize, len(docs))
		batch := docs[start:end]
		first := start
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := s.index.Index(gctx, batch); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				bad.Add(int64(len(batch)))
				telemetry.Warn("ingest.batch.failed", map[string]any{
					"offset": first,
					"size":   len(batch),
					"error":  err,
				})
				return nil
			}
			ok.Add(int64(len(batch)))
			return nil
		})
	}
	err = g.Wait()
	seeded, failed = int(ok.Load()), int(bad.Load())
	if err != nil {
		failed = len(docs) - seeded
	}
	return seeded, failed, err
}

// loadFile decodes a JSON array of documents. Entries that do not decode or
// validate are counted, not fatal.
func (s *Seeder) loadFile(ctx context.Context, key string) ([]logs.Document, int, error) {
	rc, err := s.objects.Open(ctx, key)
	if err != nil {
		return nil, 0, fmt.Errorf("open seed file %q: %w", key, err)
	}
	defer rc.Close()
	return decodeEntries(rc)
}

func decodeEntries(r io.Reader) ([]logs.Document, int, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, 0, fmt.Errorf("seed file must contain a JSON array of log entries: %w", err)
	}
	docs := make([]logs.Document, 0, len(raw))
	invalid := 0
	for i, entry := range raw {
		var doc logs.Document
		if err := json.Unmarshal(entry, &doc); err != nil {
			invalid++
			telemetry.Warn("ingest.entry.invalid", map[string]any{"index": i, "error": err})
			continue
		}
		if err := doc.Validate(); err != nil {
			invalid++
			telemetry.Warn("ingest.entry.invalid", map[string]any{"index": i, "error": err})
			continue
		}
		docs = append(docs, doc)
	}
	return docs, invalid, nil
}

func categoriesOf(docs []logs.Document) []string {
	seen := make(map[string]struct{})
	for _, d := range docs {
		c := d.Category
		if c == "" {
			c = "unknown"
		}
		seen[c] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
