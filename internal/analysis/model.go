// Package analysis runs the RAG, rule-based and direct LLM fallback chain.
package analysis

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"voc-backend/internal/confidence"
)

const (
	MaxTitleLength   = 500
	MaxContentLength = 5000
)

// State is a step of the fallback state machine.
type State string

const (
	StateStart         State = "START"
	StateTryRAG        State = "TRY_RAG"
	StateRAGSuccess    State = "RAG_SUCCESS"
	StateTryRuleBased  State = "TRY_RULE_BASED"
	StateRuleSuccess   State = "RULE_SUCCESS"
	StateTryDirectLLM  State = "TRY_DIRECT_LLM"
	StateDirectSuccess State = "DIRECT_SUCCESS"
	StateFailure       State = "FAILURE"
)

// Request is a customer-reported issue. ServiceName optionally pins the
// log category used by the rule tier.
type Request struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	ServiceName string `json:"serviceName,omitempty"`
}

// FieldError names one invalid request field.
type FieldError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// ValidationError lists every invalid field of a request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Issue)
	}
	return "invalid request: " + strings.Join(parts, ", ")
}

// Validate checks length bounds in characters after trimming.
func (r Request) Validate() error {
	var fields []FieldError
	check := func(name, value string, max int) {
		n := utf8.RuneCountInString(strings.TrimSpace(value))
		switch {
		case n == 0:
			fields = append(fields, FieldError{Field: name, Issue: "required"})
		case n > max:
			fields = append(fields, FieldError{Field: name, Issue: fmt.Sprintf("must be at most %d characters", max)})
		}
	}
	check("title", r.Title, MaxTitleLength)
	check("content", r.Content, MaxContentLength)
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (r Request) query() string {
	return strings.TrimSpace(r.Title) + " " + strings.TrimSpace(r.Content)
}

// RelatedLog is a retrieved log entry shown with the result.
type RelatedLog struct {
	Timestamp      string  `json:"timestamp"`
	LogLevel       string  `json:"logLevel"`
	ServiceName    string  `json:"serviceName"`
	Message        string  `json:"message"`
	RelevanceScore float64 `json:"relevanceScore"`
}

// Result is the response for one analysis.
type Result struct {
	AnalysisID        string             `json:"analysisId"`
	Summary           string             `json:"summary"`
	Confidence        float64            `json:"confidence"`
	Keywords          []string           `json:"keywords"`
	PossibleCauses    []string           `json:"possibleCauses"`
	RelatedLogs       []RelatedLog       `json:"relatedLogs"`
	Recommendation    string             `json:"recommendation"`
	AnalysisMethod    confidence.Method  `json:"analysisMethod"`
	ConfidenceDetails confidence.Details `json:"confidenceDetails"`
	VectorMatchCount  int                `json:"vectorMatchCount"`
	DetectedCategory  *string            `json:"detectedCategory,omitempty"`
	VOCCategory       string             `json:"vocCategory,omitempty"`
	CategoryCode      string             `json:"categoryCode,omitempty"`
	Severity          string             `json:"severity,omitempty"`
	State             State              `json:"-"`
}
