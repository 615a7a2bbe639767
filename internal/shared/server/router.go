package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"voc-backend/internal/analysis"
	"voc-backend/internal/ingest"
	"voc-backend/internal/records"
	"voc-backend/internal/services/health"
	"voc-backend/internal/shared/auth"
	"voc-backend/internal/shared/config"
	"voc-backend/internal/shared/metrics"
	"voc-backend/internal/shared/server/middleware"
	"voc-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers built in bootstrap. Nil handlers are skipped.
type RouterDeps struct {
	Config          config.Config
	AnalysisHandler *analysis.Handler
	IngestHandler   *ingest.Handler
	RecordsHandler  *records.Handler
	Health          *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				middleware.GroupAnalyze: {
					Rate:  deps.Config.RateLimit.AnalyzeRPS,
					Burst: deps.Config.RateLimit.AnalyzeBurst,
				},
			},
			GroupFor: rateLimitGroup,
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.JSON(c, http.StatusOK, gin.H{"ok": true})
			return
		}
		respond.JSON(c, http.StatusOK, deps.Health.Status(c.Request.Context()))
	})
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(api)
	}
	if deps.IngestHandler != nil {
		deps.IngestHandler.RegisterRoutes(api.Group("", middleware.RequireOperator(operatorVerifier(deps.Config))))
	}
	if deps.RecordsHandler != nil {
		deps.RecordsHandler.RegisterRoutes(api)
	}

	return r
}

// operatorVerifier returns nil when no secret is configured, which leaves the
// ingest routes open.
func operatorVerifier(cfg config.Config) middleware.TokenVerifier {
	signer, err := auth.NewSigner(cfg.OperatorSecret)
	if err != nil {
		return nil
	}
	return signer
}

// rateLimitGroup puts the LLM-backed endpoints under the analyze budget.
func rateLimitGroup(c *gin.Context) string {
	if c.Request.Method != http.MethodPost {
		return ""
	}
	path := strings.TrimSuffix(c.Request.URL.Path, "/")
	if path == "/api/v1/analyze" || path == "/api/v1/seed" {
		return middleware.GroupAnalyze
	}
	return ""
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
