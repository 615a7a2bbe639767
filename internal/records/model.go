// Package records persists one row per analysis for quality tracking.
package records

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidFeedback = errors.New("feedback must be GOOD or BAD")
)

// Feedback is a user's verdict on an analysis.
type Feedback string

const (
	FeedbackGood Feedback = "GOOD"
	FeedbackBad  Feedback = "BAD"
)

// ParseFeedback accepts GOOD or BAD in any case.
func ParseFeedback(raw string) (Feedback, error) {
	switch Feedback(strings.ToUpper(strings.TrimSpace(raw))) {
	case FeedbackGood:
		return FeedbackGood, nil
	case FeedbackBad:
		return FeedbackBad, nil
	default:
		return "", ErrInvalidFeedback
	}
}

// Record is one analysis outcome. JSONParseSuccess is nil when no LLM
// response was parsed.
type Record struct {
	ID               string
	Method           string
	Confidence       float64
	LatencyMs        int64
	JSONParseSuccess *bool
	VectorMatchCount int
	ModelName        string
	EmbeddingModel   string
	Feedback         *Feedback
	CreatedAt        time.Time
}

// Summary aggregates records inside a time window.
type Summary struct {
	Start              time.Time      `json:"start"`
	End                time.Time      `json:"end"`
	TotalRequests      int            `json:"totalRequests"`
	AvgLatencyMs       float64        `json:"avgLatencyMs"`
	AvgConfidence      float64        `json:"avgConfidence"`
	JSONSuccessRate    float64        `json:"jsonSuccessRate"`
	MethodDistribution map[string]int `json:"methodDistribution"`
	FeedbackStats      map[string]int `json:"feedbackStats"`
}
