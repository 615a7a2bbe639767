package analysis

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"voc-backend/internal/retrieval"
	"voc-backend/internal/shared/server/middleware"
	"voc-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the analysis service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze", h.analyze)
}

func (h *Handler) analyze(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid JSON body", nil)
		return
	}

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	result, err := h.Svc.Analyze(ctx, req)
	if err != nil {
		var vErr *ValidationError
		switch {
		case errors.As(err, &vErr):
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid analysis request", vErr.Fields)
		case errors.Is(err, ErrServiceNotInitialized):
			respond.Error(c, http.StatusServiceUnavailable, respond.CodeServiceNotInitialized, "analysis service is not initialized", nil)
		case errors.Is(err, retrieval.ErrPoolExhausted):
			c.Header("Retry-After", "1")
			respond.Error(c, http.StatusServiceUnavailable, respond.CodeServiceUnavailable, "analysis capacity exhausted, retry shortly", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "analysis failed", nil)
		}
		return
	}

	c.Set(middleware.AnalysisIDKey, result.AnalysisID)
	c.Set(middleware.AnalysisMethodKey, string(result.AnalysisMethod))
	c.Set(middleware.AnalysisStateKey, string(result.State))
	c.Header("X-Analysis-Id", result.AnalysisID)
	respond.OK(c, result)
}
