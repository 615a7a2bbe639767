package retrieval

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pgvector/pgvector-go"
)

// PGDimensions is the width of the log_embeddings.embedding column.
const PGDimensions = 768

// ErrDimensionMismatch is returned when an embedder cannot fill the vector column.
var ErrDimensionMismatch = errors.New("embedding dimensions do not match vector column")

// CheckPGDimensions fails unless dims equals the vector column width.
func CheckPGDimensions(dims int) error {
	if dims != PGDimensions {
		return fmt.Errorf("%w: embedder produces %d, log_embeddings.embedding is vector(%d)", ErrDimensionMismatch, dims, PGDimensions)
	}
	return nil
}

// PGStore keeps embeddings in the log_embeddings table using pgvector.
type PGStore struct {
	DB *sql.DB
}

// Initialize verifies that migrations created the embeddings table.
func (s *PGStore) Initialize(ctx context.Context) error {
	var exists bool
	if err := s.DB.QueryRowContext(ctx, `SELECT to_regclass('public.log_embeddings') IS NOT NULL`).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotInitialized
	}
	return nil
}

// Upsert writes all entries in one transaction.
func (s *PGStore) Upsert(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	const query = `
INSERT INTO log_embeddings (log_id, content, metadata, embedding)
VALUES ($1, $2, $3, $4)
ON CONFLICT (log_id) DO UPDATE
SET content = EXCLUDED.content, metadata = EXCLUDED.metadata, embedding = EXCLUDED.embedding, updated_at = now()`

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range entries {
		meta, err := json.Marshal(e.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata for %s: %w", e.ID, err)
		}
		if _, err := tx.ExecContext(ctx, query, e.ID, e.Content, meta, pgvector.NewVector(e.Vector)); err != nil {
			return fmt.Errorf("upsert %s: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

// Search returns the k nearest rows by cosine distance.
func (s *PGStore) Search(ctx context.Context, vector []float32, k int) ([]Hit, error) {
	if k <= 0 {
		return []Hit{}, nil
	}
	const query = `
SELECT log_id, content, metadata, embedding <=> $1 AS distance
FROM log_embeddings
ORDER BY embedding <=> $1
LIMIT $2`
	rows, err := s.DB.QueryContext(ctx, query, pgvector.NewVector(vector), k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hits := []Hit{}
	for rows.Next() {
		var h Hit
		var meta []byte
		if err := rows.Scan(&h.ID, &h.Content, &meta, &h.Score); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &h.Metadata); err != nil {
				return nil, fmt.Errorf("decode metadata for %s: %w", h.ID, err)
			}
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

func (s *PGStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM log_embeddings`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *PGStore) Reset(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, `TRUNCATE TABLE log_embeddings`)
	return err
}

func (s *PGStore) Metric() Metric { return MetricCosineDistance }
