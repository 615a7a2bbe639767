package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"voc-backend/internal/logs"
	"voc-backend/internal/queue"
	"voc-backend/internal/shared/metrics"
	"voc-backend/internal/shared/telemetry"
)

const (
	resolvedIDPrefix  = "voc-resolved-"
	resolvedService   = "voc-service"
	resolvedLogLevel  = "INFO"
	resolvedSeverity  = "low"
	resolvedMsgPrefix = "[VOC Resolution] "
)

// DocumentIndexer writes documents into the vector store.
type DocumentIndexer interface {
	Index(ctx context.Context, docs []logs.Document) error
}

// Learner turns resolved VOCs into searchable log documents. With a queue
// configured, submissions are enqueued for the worker instead of indexed inline.
type Learner struct {
	index DocumentIndexer
	queue queue.Client
	now   func() time.Time
}

// NewLearner constructs a Learner. q may be nil.
func NewLearner(index DocumentIndexer, q queue.Client) *Learner {
	return &Learner{index: index, queue: q, now: time.Now}
}

// Queued reports whether Submit enqueues instead of indexing.
func (l *Learner) Queued() bool {
	return l.queue != nil
}

// Submit validates the resolution and either enqueues it or indexes it now.
// It reports whether the resolution was queued.
func (l *Learner) Submit(ctx context.Context, res Resolution, requestID string) (bool, error) {
	if err := res.Validate(); err != nil {
		return false, err
	}
	if l.queue == nil {
		return false, l.Apply(ctx, res)
	}

	msg := queue.LearnMessage{
		MessageID:  uuid.NewString(),
		VOCID:      res.VOCID,
		Title:      res.Title,
		Content:    res.Content,
		Resolution: res.Resolution,
		Category:   res.Category,
		RequestID:  requestID,
		EnqueuedAt: l.now().UTC().Format(time.RFC3339),
		Version:    queue.MessageVersion,
	}
	if err := l.queue.Send(ctx, msg); err != nil {
		metrics.IncLearnJob("enqueue_failed")
		return false, fmt.Errorf("enqueue learn message: %w", err)
	}
	metrics.IncLearnJob("queued")
	telemetry.Info("ingest.learn.queued", map[string]any{
		"voc_id":     res.VOCID,
		"message_id": msg.MessageID,
		"request_id": requestID,
	})
	return true, nil
}

// Apply indexes a resolution immediately.
func (l *Learner) Apply(ctx context.Context, res Resolution) error {
	if err := res.Validate(); err != nil {
		return err
	}
	doc := ResolutionDocument(res, l.now())
	if err := l.index.Index(ctx, []logs.Document{doc}); err != nil {
		metrics.IncLearnJob("failed")
		return fmt.Errorf("index resolution %s: %w", res.VOCID, err)
	}
	metrics.IncLearnJob("indexed")
	telemetry.Info("ingest.learn.indexed", map[string]any{"voc_id": res.VOCID, "document_id": doc.ID})
	return nil
}

// ResolutionDocument renders a resolved VOC as a low-severity INFO log.
func ResolutionDocument(res Resolution, at time.Time) logs.Document {
	return logs.Document{
		ID:          DocumentID(res.VOCID),
		Timestamp:   at.UTC().Format(time.RFC3339),
		LogLevel:    resolvedLogLevel,
		ServiceName: resolvedService,
		Message:     resolvedMsgPrefix + strings.TrimSpace(res.Title) + ": " + strings.TrimSpace(res.Resolution),
		Category:    res.Category,
		Severity:    resolvedSeverity,
	}
}

// DocumentID is the store id of a learned VOC.
func DocumentID(vocID string) string {
	return resolvedIDPrefix + strings.TrimSpace(vocID)
}

// ResolutionFromMessage converts a queued learn message back into a Resolution.
func ResolutionFromMessage(msg queue.LearnMessage) Resolution {
	return Resolution{
		VOCID:      msg.VOCID,
		Title:      msg.Title,
		Content:    msg.Content,
		Resolution: msg.Resolution,
		Category:   msg.Category,
	}
}
