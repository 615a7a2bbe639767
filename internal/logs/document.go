package logs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Document is a single historical log entry indexed for similarity search.
type Document struct {
	ID          string `json:"id"`
	Timestamp   string `json:"timestamp"`
	LogLevel    string `json:"logLevel"`
	ServiceName string `json:"serviceName"`
	Message     string `json:"message"`
	StackTrace  string `json:"stackTrace,omitempty"`
	Category    string `json:"category"`
	Severity    string `json:"severity"`
}

var (
	ErrMissingID      = errors.New("log document id is required")
	ErrMissingMessage = errors.New("log document message is required")
)

// Validate checks the fields every stored document must carry.
func (d Document) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(d.Message) == "" {
		return ErrMissingMessage
	}
	return nil
}

// Text renders the canonical searchable form of the document.
func (d Document) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] [%s] [%s] %s", d.Timestamp, d.LogLevel, d.ServiceName, d.Message)
	if trace := strings.TrimSpace(d.StackTrace); trace != "" {
		b.WriteString(" StackTrace: ")
		b.WriteString(trace)
	}
	return b.String()
}

// Metadata returns the structured fields stored next to the embedding.
// The stack trace only lives in the rendered text.
func (d Document) Metadata() map[string]string {
	return map[string]string{
		"id":          d.ID,
		"timestamp":   d.Timestamp,
		"logLevel":    d.LogLevel,
		"serviceName": d.ServiceName,
		"message":     d.Message,
		"category":    d.Category,
		"severity":    d.Severity,
	}
}

// FromMetadata rebuilds a document from a raw store hit.
func FromMetadata(content string, metadata map[string]string) Document {
	doc := Document{
		ID:          metadata["id"],
		Timestamp:   metadata["timestamp"],
		LogLevel:    metadata["logLevel"],
		ServiceName: metadata["serviceName"],
		Message:     metadata["message"],
		Category:    metadata["category"],
		Severity:    metadata["severity"],
	}
	if idx := strings.Index(content, " StackTrace: "); idx >= 0 {
		doc.StackTrace = strings.TrimSpace(content[idx+len(" StackTrace: "):])
	}
	if doc.Message == "" {
		doc.Message = content
	}
	return doc
}

// DecodeList reads a JSON array of documents and validates each entry.
func DecodeList(r io.Reader) ([]Document, error) {
	var docs []Document
	if err := json.NewDecoder(r).Decode(&docs); err != nil {
		return nil, fmt.Errorf("decode log documents: %w", err)
	}
	for i, doc := range docs {
		if err := doc.Validate(); err != nil {
			return nil, fmt.Errorf("log document %d: %w", i, err)
		}
	}
	return docs, nil
}
