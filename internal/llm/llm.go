package llm

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/oauth2/clientcredentials"
)

// Completer turns a prompt into raw model text. Implementations must honor
// ctx cancellation; callers bound every call with a timeout.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("llm provider not configured")

// PlaceholderClient is used when no provider is configured. Every call fails,
// which sends the analysis chain down its non-LLM paths.
type PlaceholderClient struct{}

// Complete returns ErrNotConfigured.
func (PlaceholderClient) Complete(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	_ = prompt
	return "", ErrNotConfigured
}

// OAuthConfig describes a client-credentials token endpoint guarding an LLM gateway.
type OAuthConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

// Enabled reports whether enough fields are set to request tokens.
func (c OAuthConfig) Enabled() bool {
	return c.TokenURL != "" && c.ClientID != "" && c.ClientSecret != ""
}

// NewHTTPClient returns an HTTP client for provider calls. When OAuth is
// enabled, requests carry a bearer token obtained via client credentials.
func NewHTTPClient(ctx context.Context, timeout time.Duration, oauth OAuthConfig) *http.Client {
	if !oauth.Enabled() {
		return &http.Client{Timeout: timeout}
	}
	cc := clientcredentials.Config{
		ClientID:     oauth.ClientID,
		ClientSecret: oauth.ClientSecret,
		TokenURL:     oauth.TokenURL,
		Scopes:       oauth.Scopes,
	}
	client := cc.Client(ctx)
	client.Timeout = timeout
	return client
}
