package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"voc-backend/internal/shared/auth"
)

func operatorRouter(v TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/seed", RequireOperator(v), func(c *gin.Context) {
		c.String(http.StatusOK, OperatorFromContext(c.Request.Context()))
	})
	return r
}

func TestRequireOperator(t *testing.T) {
	signer, err := auth.NewSigner("s3cret")
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	token, err := signer.Sign(auth.Claims{Sub: "ops"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantBody string
	}{
		{"missing", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, ""},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized, ""},
		{"valid", "Bearer " + token, http.StatusOK, "ops"},
	}
	r := operatorRouter(signer)
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/seed", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != tt.wantCode {
			t.Fatalf("%s: expected %d, got %d", tt.name, tt.wantCode, rec.Code)
		}
		if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
			t.Fatalf("%s: expected body %q, got %q", tt.name, tt.wantBody, rec.Body.String())
		}
	}
}

func TestRequireOperatorDisabled(t *testing.T) {
	r := operatorRouter(nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/seed", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with no verifier, got %d", rec.Code)
	}
}
