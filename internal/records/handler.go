package records

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"voc-backend/internal/shared/server/respond"
	"voc-backend/internal/shared/telemetry"
)

const defaultSummaryWindow = 7 * 24 * time.Hour

// Handler exposes feedback and summary endpoints.
type Handler struct {
	Repo Repo
	now  func() time.Time
}

// NewHandler constructs a Handler.
func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo, now: time.Now}
}

// RegisterRoutes attaches record routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses/:id/feedback", h.feedback)
	rg.GET("/analyses/summary", h.summary)
}

type feedbackRequest struct {
	Feedback string `json:"feedback"`
}

func (h *Handler) feedback(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "analysis id is required", nil)
		return
	}
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid JSON body", nil)
		return
	}
	fb, err := ParseFeedback(req.Feedback)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), []map[string]string{
			{"field": "feedback", "issue": "invalid"},
		})
		return
	}
	if err := h.Repo.SetFeedback(c.Request.Context(), id, fb); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "analysis not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to record feedback", nil)
		return
	}
	telemetry.Info("records.feedback", map[string]any{
		"request_id":  c.GetString("requestId"),
		"analysis_id": id,
		"feedback":    string(fb),
	})
	respond.OK(c, gin.H{"analysisId": id, "feedback": fb})
}

func (h *Handler) summary(c *gin.Context) {
	end := h.now().UTC()
	start := end.Add(-defaultSummaryWindow)
	var err error
	if raw := c.Query("start"); raw != "" {
		if start, err = parseDate(raw); err != nil {
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "start must be RFC3339 or YYYY-MM-DD", nil)
			return
		}
	}
	if raw := c.Query("end"); raw != "" {
		if end, err = parseDate(raw); err != nil {
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "end must be RFC3339 or YYYY-MM-DD", nil)
			return
		}
	}
	if end.Before(start) {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "end must not precede start", nil)
		return
	}

	summary, err := h.Repo.Summary(c.Request.Context(), start, end)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to load summary", nil)
		return
	}
	respond.OK(c, summary)
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02", raw)
}
