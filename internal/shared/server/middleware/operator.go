package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"voc-backend/internal/shared/auth"
	"voc-backend/internal/shared/server/respond"
)

const operatorKey = "operator"

type operatorCtxKey struct{}

// TokenVerifier checks a bearer token. *auth.Signer implements it.
type TokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}

// RequireOperator rejects requests without a valid bearer token. A nil
// verifier disables the check.
func RequireOperator(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if v == nil {
			c.Next()
			return
		}
		raw := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(raw, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			respond.Error(c, http.StatusUnauthorized, respond.CodeUnauthorized, "operator token required", nil)
			return
		}
		claims, err := v.Verify(strings.TrimSpace(token))
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, respond.CodeUnauthorized, "invalid operator token", nil)
			return
		}

		c.Set(operatorKey, claims.Sub)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), operatorCtxKey{}, claims.Sub))
		c.Next()
	}
}

// OperatorFromContext returns the operator subject set by RequireOperator.
func OperatorFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(operatorCtxKey{}).(string); ok {
		return v
	}
	return ""
}
