package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"voc-backend/internal/ingest"
	"voc-backend/internal/queue"
)

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{BodyLen: 0, BodySHA: ""}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

// ErrInvalidMessage indicates a decoded message that can never be indexed.
type ErrInvalidMessage struct {
	Meta      MessageMeta
	VOCID     string
	RequestID string
	Err       error
}

func (e ErrInvalidMessage) Error() string {
	if e.Err == nil {
		return "invalid learn message"
	}
	return "invalid learn message: " + e.Err.Error()
}

// ErrProcess indicates indexing failed after successful parsing. These are
// retried through the queue's visibility timeout.
type ErrProcess struct {
	VOCID     string
	RequestID string
	Err       error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "process learn message"
	}
	return "process learn message: " + e.Err.Error()
}

// Applier indexes a resolution. *ingest.Learner implements it.
type Applier interface {
	Apply(ctx context.Context, res ingest.Resolution) error
}

// ParseMessage validates and decodes the queue payload.
func ParseMessage(body string) (queue.LearnMessage, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return queue.LearnMessage{}, meta, ErrEmptyBody{Meta: meta}
	}

	msg, err := queue.DecodeMessage([]byte(body))
	if err != nil {
		return queue.LearnMessage{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	if err := ingest.ResolutionFromMessage(msg).Validate(); err != nil {
		return msg, meta, ErrInvalidMessage{Meta: meta, VOCID: msg.VOCID, RequestID: msg.RequestID, Err: err}
	}
	return msg, meta, nil
}

type parsedMessageKey struct{}

// WithParsedMessage stores a decoded message in the context for reuse.
func WithParsedMessage(ctx context.Context, msg queue.LearnMessage) context.Context {
	return context.WithValue(ctx, parsedMessageKey{}, msg)
}

func parsedMessageFromContext(ctx context.Context) (queue.LearnMessage, bool) {
	if ctx == nil {
		return queue.LearnMessage{}, false
	}
	msg, ok := ctx.Value(parsedMessageKey{}).(queue.LearnMessage)
	return msg, ok
}

// HandleMessage parses, validates, and indexes a learn message payload.
func HandleMessage(ctx context.Context, applier Applier, body string) error {
	if applier == nil {
		return errors.New("learner not configured")
	}

	msg, ok := parsedMessageFromContext(ctx)
	if !ok {
		var err error
		msg, _, err = ParseMessage(body)
		if err != nil {
			return err
		}
	}

	if err := applier.Apply(ctx, ingest.ResolutionFromMessage(msg)); err != nil {
		var fErr *ingest.FieldsError
		if errors.As(err, &fErr) {
			return ErrInvalidMessage{Meta: ComputeMeta(body), VOCID: msg.VOCID, RequestID: msg.RequestID, Err: err}
		}
		return ErrProcess{VOCID: msg.VOCID, RequestID: msg.RequestID, Err: err}
	}
	return nil
}
