package ingest

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"voc-backend/internal/shared/server/middleware"
	"voc-backend/internal/shared/server/respond"
	"voc-backend/internal/shared/telemetry"
)

// Handler exposes seeding and learning endpoints.
type Handler struct {
	Seeder  *Seeder
	Learner *Learner
}

// NewHandler constructs a Handler.
func NewHandler(seeder *Seeder, learner *Learner) *Handler {
	return &Handler{Seeder: seeder, Learner: learner}
}

// RegisterRoutes attaches ingest routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/seed", h.seed)
	rg.GET("/seed/status", h.status)
	rg.POST("/learn", h.learn)
}

func (h *Handler) seed(c *gin.Context) {
	var req SeedRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid JSON body", nil)
		return
	}

	telemetry.Info("ingest.seed.requested", map[string]any{
		"source":     string(req.Source),
		"reset":      req.Reset,
		"operator":   middleware.OperatorFromContext(c.Request.Context()),
		"request_id": middleware.RequestIDFromContext(c),
	})
	res, err := h.Seeder.Seed(c.Request.Context(), req)
	switch {
	case err == nil:
		respond.OK(c, res)
	case errors.Is(err, ErrSeedInProgress):
		respond.Error(c, http.StatusConflict, respond.CodeConflict, err.Error(), nil)
	case errors.Is(err, ErrUnknownSource), errors.Is(err, ErrNoObjectStore):
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), []map[string]string{
			{"field": "source", "issue": "unsupported"},
		})
	default:
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "seeding failed", nil)
	}
}

func (h *Handler) status(c *gin.Context) {
	respond.OK(c, h.Seeder.Status())
}

func (h *Handler) learn(c *gin.Context) {
	var req Resolution
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid JSON body", nil)
		return
	}

	queued, err := h.Learner.Submit(c.Request.Context(), req, middleware.RequestIDFromContext(c))
	if err != nil {
		var fErr *FieldsError
		if errors.As(err, &fErr) {
			details := make([]map[string]string, 0, len(fErr.Fields))
			for _, f := range fErr.Fields {
				details = append(details, map[string]string{"field": f, "issue": "required"})
			}
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid learn request", details)
			return
		}
		respond.Error(c, http.StatusServiceUnavailable, respond.CodeServiceUnavailable, "failed to add VOC to vector database", nil)
		return
	}

	if queued {
		respond.JSON(c, http.StatusAccepted, gin.H{
			"success": true,
			"queued":  true,
			"message": "VOC queued for learning",
		})
		return
	}
	respond.OK(c, gin.H{
		"success":    true,
		"queued":     false,
		"documentId": DocumentID(req.VOCID),
		"message":    "VOC added to vector database for learning",
	})
}
