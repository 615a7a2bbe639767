package records

import (
	"context"
	"math"
	"sync"
	"time"
)

// MemoryRepo stores records in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Record
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Record)}
}

func (r *MemoryRepo) Save(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[rec.ID] = rec
	return nil
}

func (r *MemoryRepo) SetFeedback(ctx context.Context, id string, feedback Feedback) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	rec.Feedback = &feedback
	r.byID[id] = rec
	return nil
}

func (r *MemoryRepo) Summary(ctx context.Context, start, end time.Time) (Summary, error) {
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}
	out := Summary{
		Start:              start,
		End:                end,
		MethodDistribution: map[string]int{},
		FeedbackStats:      map[string]int{},
	}
	var latency, conf float64
	var parsed, parsedOK int

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.byID {
		if rec.CreatedAt.Before(start) || rec.CreatedAt.After(end) {
			continue
		}
		out.TotalRequests++
		latency += float64(rec.LatencyMs)
		conf += rec.Confidence
		out.MethodDistribution[rec.Method]++
		if rec.JSONParseSuccess != nil {
			parsed++
			if *rec.JSONParseSuccess {
				parsedOK++
			}
		}
		if rec.Feedback != nil {
			out.FeedbackStats[string(*rec.Feedback)]++
		}
	}
	if out.TotalRequests > 0 {
		out.AvgLatencyMs = round(latency/float64(out.TotalRequests), 1)
		out.AvgConfidence = round(conf/float64(out.TotalRequests), 3)
	}
	if parsed > 0 {
		out.JSONSuccessRate = round(float64(parsedOK)/float64(parsed), 3)
	}
	return out, nil
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
