package health

import (
	"context"
	"time"
)

const checkTimeout = 2 * time.Second

// Readiness reports whether the analysis pipeline accepts requests.
type Readiness interface {
	Ready() bool
}

// Counter reports the number of indexed documents.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// Pinger checks the database connection.
type Pinger func(ctx context.Context) error

// Status is the health payload.
type Status struct {
	OK                     bool   `json:"ok"`
	VectorstoreInitialized bool   `json:"vectorstoreInitialized"`
	DocumentCount          int    `json:"documentCount"`
	Database               string `json:"database"`
	Embedder               string `json:"embedder,omitempty"`
}

// Service encapsulates health-related checks.
type Service struct {
	analysis Readiness
	store    Counter
	ping     Pinger
	embedder string
}

// NewService constructs a new health service. ping may be nil when running
// without a database.
func NewService(analysis Readiness, store Counter, ping Pinger, embedder string) *Service {
	return &Service{analysis: analysis, store: store, ping: ping, embedder: embedder}
}

// Status runs the checks. The process is OK while it can serve analyses,
// even if every one of them ends up on the rule-based tier.
func (s *Service) Status(ctx context.Context) Status {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	st := Status{OK: true, Database: "memory", Embedder: s.embedder}
	if s.analysis != nil {
		st.VectorstoreInitialized = s.analysis.Ready()
	}
	if s.store != nil {
		if n, err := s.store.Count(ctx); err == nil {
			st.DocumentCount = n
		} else {
			st.VectorstoreInitialized = false
		}
	}
	if s.ping != nil {
		st.Database = "up"
		if err := s.ping(ctx); err != nil {
			st.Database = "down"
			st.OK = false
		}
	}
	return st
}
