package records

import (
	"context"
	"database/sql"
	"time"
)

// PGRepo implements Repo using the model_metrics table.
type PGRepo struct {
	DB *sql.DB
}

// Save inserts a record.
func (r *PGRepo) Save(ctx context.Context, rec Record) error {
	const query = `
INSERT INTO model_metrics (
	request_id, analysis_method, confidence_score, latency_ms, json_parse_success,
	vector_match_count, model_name, embedding_model, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	var parseSuccess sql.NullBool
	if rec.JSONParseSuccess != nil {
		parseSuccess = sql.NullBool{Bool: *rec.JSONParseSuccess, Valid: true}
	}
	_, err := r.DB.ExecContext(ctx, query,
		rec.ID,
		rec.Method,
		rec.Confidence,
		rec.LatencyMs,
		parseSuccess,
		rec.VectorMatchCount,
		rec.ModelName,
		rec.EmbeddingModel,
		createdAt,
	)
	return err
}

// SetFeedback stores user feedback on an existing record.
func (r *PGRepo) SetFeedback(ctx context.Context, id string, feedback Feedback) error {
	const query = `UPDATE model_metrics SET user_feedback = $1, updated_at = now() WHERE request_id = $2`
	res, err := r.DB.ExecContext(ctx, query, string(feedback), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Summary aggregates records created in [start, end].
func (r *PGRepo) Summary(ctx context.Context, start, end time.Time) (Summary, error) {
	out := Summary{
		Start:              start,
		End:                end,
		MethodDistribution: map[string]int{},
		FeedbackStats:      map[string]int{},
	}

	const overall = `
SELECT
	COUNT(*),
	COALESCE(AVG(latency_ms), 0),
	COALESCE(AVG(confidence_score), 0),
	COALESCE(AVG(CASE WHEN json_parse_success THEN 1.0 ELSE 0.0 END) FILTER (WHERE json_parse_success IS NOT NULL), 0)
FROM model_metrics
WHERE created_at BETWEEN $1 AND $2`
	if err := r.DB.QueryRowContext(ctx, overall, start, end).Scan(
		&out.TotalRequests,
		&out.AvgLatencyMs,
		&out.AvgConfidence,
		&out.JSONSuccessRate,
	); err != nil {
		return Summary{}, err
	}
	out.AvgLatencyMs = round(out.AvgLatencyMs, 1)
	out.AvgConfidence = round(out.AvgConfidence, 3)
	out.JSONSuccessRate = round(out.JSONSuccessRate, 3)

	const byMethod = `
SELECT analysis_method, COUNT(*)
FROM model_metrics
WHERE created_at BETWEEN $1 AND $2
GROUP BY analysis_method`
	if err := r.countInto(ctx, byMethod, start, end, out.MethodDistribution); err != nil {
		return Summary{}, err
	}

	const byFeedback = `
SELECT user_feedback, COUNT(*)
FROM model_metrics
WHERE created_at BETWEEN $1 AND $2 AND user_feedback IS NOT NULL
GROUP BY user_feedback`
	if err := r.countInto(ctx, byFeedback, start, end, out.FeedbackStats); err != nil {
		return Summary{}, err
	}
	return out, nil
}

func (r *PGRepo) countInto(ctx context.Context, query string, start, end time.Time, dst map[string]int) error {
	rows, err := r.DB.QueryContext(ctx, query, start, end)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		dst[key] = n
	}
	return rows.Err()
}
