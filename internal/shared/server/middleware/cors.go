package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows the configured origins. Requests from other origins are
// rejected with 403; requests without an Origin header pass through. With no
// usable origins the middleware is a no-op.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	var origins []string
	for _, o := range allowedOrigins {
		trimmed := strings.TrimSpace(o)
		if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id", "X-Analysis-Id"},
		AllowCredentials: true,
		MaxAge:           10 * time.Minute,
	})
}
