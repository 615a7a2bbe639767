package records

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(repo Repo, now time.Time) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(repo)
	h.now = func() time.Time { return now }
	r := gin.New()
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestFeedbackFlow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := NewMemoryRepo()
	parsed := true
	require.NoError(t, repo.Save(context.Background(), Record{ID: "a1", Method: "RAG", Confidence: 0.8, LatencyMs: 100, JSONParseSuccess: &parsed, CreatedAt: now.Add(-time.Hour)}))
	require.NoError(t, repo.Save(context.Background(), Record{ID: "a2", Method: "RULE_BASED", Confidence: 0.4, LatencyMs: 10, CreatedAt: now.Add(-2 * time.Hour)}))
	r := newTestRouter(repo, now)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/analyses/a1/feedback", strings.NewReader(`{"feedback":"good"}`)))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/summary", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	var s Summary
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &s))
	assert.Equal(t, 2, s.TotalRequests)
	assert.Equal(t, 55.0, s.AvgLatencyMs)
	assert.InDelta(t, 0.6, s.AvgConfidence, 1e-9)
	assert.Equal(t, 1.0, s.JSONSuccessRate)
	assert.Equal(t, map[string]int{"RAG": 1, "RULE_BASED": 1}, s.MethodDistribution)
	assert.Equal(t, map[string]int{"GOOD": 1}, s.FeedbackStats)
}

func TestFeedbackValidation(t *testing.T) {
	r := newTestRouter(NewMemoryRepo(), time.Now())

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"invalid value", "/api/v1/analyses/a1/feedback", `{"feedback":"MEH"}`, http.StatusBadRequest},
		{"bad json", "/api/v1/analyses/a1/feedback", `{`, http.StatusBadRequest},
		{"unknown analysis", "/api/v1/analyses/nope/feedback", `{"feedback":"BAD"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body)))
			assert.Equal(t, tt.status, resp.Code)
		})
	}
}

func TestSummaryRejectsBadDates(t *testing.T) {
	r := newTestRouter(NewMemoryRepo(), time.Now())
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/summary?start=yesterday", nil))
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/summary?start=2026-02-01&end=2026-01-01", nil))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestParseFeedback(t *testing.T) {
	fb, err := ParseFeedback(" bad ")
	require.NoError(t, err)
	assert.Equal(t, FeedbackBad, fb)
	_, err = ParseFeedback("")
	assert.ErrorIs(t, err, ErrInvalidFeedback)
}
