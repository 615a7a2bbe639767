package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voc-backend/internal/analysis"
	"voc-backend/internal/bootstrap"
	"voc-backend/internal/ingest"
	"voc-backend/internal/services/health"
	"voc-backend/internal/shared/auth"
	"voc-backend/internal/shared/config"
)

type harness struct {
	cfg    config.Config
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	built  *bootstrap.App
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{
		cfg: config.Config{
			Env:             "dev",
			ObjectStoreType: "local",
			LocalStoreDir:   t.TempDir(),
			LLM:             config.LLMConfig{Provider: "none"},
			Embedding:       config.EmbeddingConfig{Provider: "hash", Dimensions: 64},
		},
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
}

// run executes one command. The built app is kept so tests can inspect the
// in-memory store afterwards.
func (h *harness) run(t *testing.T, args ...string) error {
	t.Helper()
	h.stdout.Reset()
	h.stderr.Reset()
	cmd := newRootCommand(&app{
		loadConfig: func() config.Config { return h.cfg },
		build: func(ctx context.Context, cfg config.Config, opts bootstrap.Options) (*bootstrap.App, error) {
			built, err := bootstrap.Build(ctx, cfg, opts)
			h.built = built
			return built, err
		},
		stdin:  &bytes.Buffer{},
		stdout: h.stdout,
		stderr: h.stderr,
	})
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func TestSeedTemplates(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "seed"))

	var res ingest.Result
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &res))
	assert.Equal(t, ingest.StatusCompleted, res.Status)
	assert.Equal(t, ingest.SourceTemplates, res.Source)
	assert.Equal(t, 50, res.Seeded)
	assert.Zero(t, res.Failed)
}

func TestSeedUploadsFile(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "logs.json")
	body := `[
		{"id":"log-1","timestamp":"2024-01-15T10:30:00Z","logLevel":"ERROR","serviceName":"payment-service","message":"PG timeout after 30s"},
		{"id":"log-2","timestamp":"2024-01-15T10:31:00Z","logLevel":"WARN","serviceName":"auth-service","message":"token refresh failed"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	require.NoError(t, h.run(t, "seed", "--upload", path, "--key", "seed/custom.json"))

	var res ingest.Result
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &res))
	assert.Equal(t, ingest.SourceFile, res.Source)
	assert.Equal(t, 2, res.Seeded)
	assert.Contains(t, h.stderr.String(), "seed/custom.json")
	assert.FileExists(t, filepath.Join(h.cfg.LocalStoreDir, "seed", "custom.json"))
}

func TestSeedMissingFileFails(t *testing.T) {
	h := newHarness(t)

	err := h.run(t, "seed", "--source", "file", "--key", "seed/absent.json")

	require.ErrorContains(t, err, "seeding failed")
	var res ingest.Result
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &res))
	assert.Equal(t, ingest.StatusFailed, res.Status)
}

func TestSeedUnknownSource(t *testing.T) {
	h := newHarness(t)

	err := h.run(t, "seed", "--source", "ftp")

	require.ErrorIs(t, err, ingest.ErrUnknownSource)
}

func TestResetRequiresConfirmation(t *testing.T) {
	h := newHarness(t)

	require.ErrorContains(t, h.run(t, "reset"), "--yes")
	require.NoError(t, h.run(t, "reset", "--yes"))
	assert.Contains(t, h.stdout.String(), "vector store reset")
}

func TestStatus(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "status"))

	var st health.Status
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &st))
	assert.True(t, st.OK)
	assert.True(t, st.VectorstoreInitialized)
	assert.Equal(t, "memory", st.Database)
	assert.Equal(t, "hash", st.Embedder)
}

func TestAnalyzeFallsBackToRules(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "analyze", "--title", "결제 오류 발생", "--content", "결제 진행 중 타임아웃 오류가 발생했습니다"))

	var res analysis.Result
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &res))
	assert.Equal(t, "RULE_BASED", string(res.AnalysisMethod))
	assert.NotEmpty(t, res.AnalysisID)
	assert.GreaterOrEqual(t, res.Confidence, 0.3)
	assert.LessOrEqual(t, res.Confidence, 0.5)
}

func TestAnalyzeValidatesFlags(t *testing.T) {
	h := newHarness(t)

	err := h.run(t, "analyze", "--content", "body only")

	var vErr *analysis.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Nil(t, h.built)
}

func TestTokenRequiresSecret(t *testing.T) {
	h := newHarness(t)

	require.ErrorIs(t, h.run(t, "token"), auth.ErrMissingSecret)
}

func TestTokenVerifies(t *testing.T) {
	h := newHarness(t)
	h.cfg.OperatorSecret = "s3cret"

	require.NoError(t, h.run(t, "token", "--sub", "oncall"))

	signer, err := auth.NewSigner("s3cret")
	require.NoError(t, err)
	claims, err := signer.Verify(strings.TrimSpace(h.stdout.String()))
	require.NoError(t, err)
	assert.Equal(t, "oncall", claims.Sub)
	assert.Nil(t, h.built)
}
