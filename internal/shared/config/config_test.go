package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV", "")

	cfg := Load()
	if cfg.Env != "dev" {
		t.Fatalf("expected dev env, got %q", cfg.Env)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.Retrieval.TopK != 5 {
		t.Fatalf("expected top k 5, got %d", cfg.Retrieval.TopK)
	}
	if cfg.Retrieval.MinSimilarity != 0.35 {
		t.Fatalf("expected min similarity 0.35, got %v", cfg.Retrieval.MinSimilarity)
	}
	if cfg.Retrieval.PoolWait != 250*time.Millisecond {
		t.Fatalf("expected pool wait 250ms, got %s", cfg.Retrieval.PoolWait)
	}
	if cfg.LLM.Timeout != time.Minute {
		t.Fatalf("expected llm timeout 60s, got %s", cfg.LLM.Timeout)
	}
	if cfg.Embedding.Dimensions != 768 {
		t.Fatalf("expected 768 dimensions, got %d", cfg.Embedding.Dimensions)
	}
	if cfg.TaxonomyPrecedence != "voc-first" {
		t.Fatalf("expected voc-first, got %q", cfg.TaxonomyPrecedence)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV", "prod")
	t.Setenv("LLM_PROVIDER", " OpenAI ")
	t.Setenv("RETRIEVAL_TOP_K", "3")
	t.Setenv("RETRIEVAL_TIMEOUT", "2s")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("OBJECT_STORE", "S3")

	cfg := Load()
	if cfg.Env != "production" {
		t.Fatalf("expected production, got %q", cfg.Env)
	}
	if cfg.LLM.Provider != "openai" {
		t.Fatalf("expected openai, got %q", cfg.LLM.Provider)
	}
	if cfg.Retrieval.TopK != 3 || cfg.Retrieval.Timeout != 2*time.Second {
		t.Fatalf("unexpected retrieval config %+v", cfg.Retrieval)
	}
	if len(cfg.CORSAllowOrigin) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.CORSAllowOrigin)
	}
	if cfg.ObjectStoreType != "s3" {
		t.Fatalf("expected s3, got %q", cfg.ObjectStoreType)
	}
}

func TestLoadReadsDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("LEARN_SQS_QUEUE_URL=https://sqs.example/learn\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("LEARN_SQS_QUEUE_URL", "")
	os.Unsetenv("LEARN_SQS_QUEUE_URL")

	cfg := Load()
	if cfg.LearnQueueURL != "https://sqs.example/learn" {
		t.Fatalf("expected queue url from .env, got %q", cfg.LearnQueueURL)
	}
}
