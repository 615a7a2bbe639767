// Package ingest fills the vector store: bulk seeding from templates or a
// JSON file, and progressive learning from resolved VOCs.
package ingest

import (
	"errors"
	"strings"
	"time"
)

// Status is the lifecycle of the most recent seeding run.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Source names where seed documents come from.
type Source string

const (
	SourceTemplates Source = "templates"
	SourceFile      Source = "file"
)

// DefaultSeedKey is the object key read by the file source when none is given.
const DefaultSeedKey = "seed/logs.json"

var (
	ErrSeedInProgress   = errors.New("seeding already in progress")
	ErrUnknownSource    = errors.New("unknown seed source")
	ErrNoObjectStore    = errors.New("file seeding requires an object store")
	ErrInvalidLearnBody = errors.New("invalid learn request")
)

// SeedRequest selects a source. Reset clears the store first; without it a
// non-empty store is left untouched.
type SeedRequest struct {
	Source Source `json:"source"`
	Key    string `json:"key,omitempty"`
	Reset  bool   `json:"reset,omitempty"`
}

// Result summarizes one seeding run.
type Result struct {
	Status      Status     `json:"status"`
	Source      Source     `json:"source,omitempty"`
	Total       int        `json:"total"`
	Seeded      int        `json:"seeded"`
	Failed      int        `json:"failed"`
	Skipped     bool       `json:"skipped,omitempty"`
	Categories  []string   `json:"categories"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// Resolution is a resolved VOC submitted for progressive learning.
type Resolution struct {
	VOCID      string `json:"vocId"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Resolution string `json:"resolution"`
	Category   string `json:"category"`
}

// Validate requires the fields that end up in the indexed document.
func (r Resolution) Validate() error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"vocId", r.VOCID},
		{"title", r.Title},
		{"resolution", r.Resolution},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &FieldsError{Fields: missing}
	}
	return nil
}

// FieldsError lists missing learn request fields.
type FieldsError struct {
	Fields []string
}

func (e *FieldsError) Error() string {
	return "missing fields: " + strings.Join(e.Fields, ", ")
}

func (e *FieldsError) Unwrap() error { return ErrInvalidLearnBody }
