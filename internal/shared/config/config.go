package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port               string
	CORSAllowOrigin    []string
	ObjectStoreType    string
	LocalStoreDir      string
	AWSRegion          string
	S3Bucket           string
	S3Prefix           string
	SSEKMSKeyID        string
	DatabaseURL        string
	Env                string
	LogLevel           string
	LogFile            string
	TaxonomyPrecedence string
	SeedOnStart        bool
	LearnQueueURL      string
	OperatorSecret     string

	LLM       LLMConfig
	Embedding EmbeddingConfig
	Retrieval RetrievalConfig
	RateLimit RateLimitConfig
}

// LLMConfig selects and configures the completion provider.
type LLMConfig struct {
	Provider          string
	Model             string
	BaseURL           string
	Timeout           time.Duration
	OpenAIAPIKey      string
	GeminiAPIKey      string
	OAuthTokenURL     string
	OAuthClientID     string
	OAuthClientSecret string
	OAuthScopes       []string
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	Provider   string
	Model      string
	BaseURL    string
	Dimensions int
}

// RetrievalConfig tunes the retrieval gateway.
type RetrievalConfig struct {
	TopK          int
	MinSimilarity float64
	Timeout       time.Duration
	PoolSize      int
	PoolWait      time.Duration
}

// RateLimitConfig bounds the analyze endpoint per client.
type RateLimitConfig struct {
	AnalyzeRPS   float64
	AnalyzeBurst int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	env := normalizeEnv(v.GetString("ENV"))
	dbURL := strings.TrimSpace(v.GetString("DATABASE_URL"))

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}
	if env == "production" && strings.TrimSpace(v.GetString("OPERATOR_JWT_SECRET")) == "" {
		log.Printf("OPERATOR_JWT_SECRET is empty; ingest endpoints are unauthenticated")
	}

	return Config{
		Port:               v.GetString("PORT"),
		CORSAllowOrigin:    splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		ObjectStoreType:    normalizeStoreType(v.GetString("OBJECT_STORE")),
		LocalStoreDir:      v.GetString("LOCAL_STORE_DIR"),
		AWSRegion:          v.GetString("AWS_REGION"),
		S3Bucket:           v.GetString("S3_BUCKET"),
		S3Prefix:           v.GetString("S3_PREFIX"),
		SSEKMSKeyID:        v.GetString("SSE_KMS_KEY_ID"),
		DatabaseURL:        dbURL,
		Env:                env,
		LogLevel:           v.GetString("LOG_LEVEL"),
		LogFile:            v.GetString("LOG_FILE"),
		TaxonomyPrecedence: v.GetString("TAXONOMY_PRECEDENCE"),
		SeedOnStart:        v.GetBool("SEED_ON_START"),
		LearnQueueURL:      strings.TrimSpace(v.GetString("LEARN_SQS_QUEUE_URL")),
		OperatorSecret:     strings.TrimSpace(v.GetString("OPERATOR_JWT_SECRET")),
		LLM: LLMConfig{
			Provider:          normalizeProvider(v.GetString("LLM_PROVIDER")),
			Model:             v.GetString("LLM_MODEL"),
			BaseURL:           v.GetString("LLM_BASE_URL"),
			Timeout:           v.GetDuration("LLM_TIMEOUT"),
			OpenAIAPIKey:      v.GetString("OPENAI_API_KEY"),
			GeminiAPIKey:      v.GetString("GEMINI_API_KEY"),
			OAuthTokenURL:     v.GetString("LLM_OAUTH_TOKEN_URL"),
			OAuthClientID:     v.GetString("LLM_OAUTH_CLIENT_ID"),
			OAuthClientSecret: v.GetString("LLM_OAUTH_CLIENT_SECRET"),
			OAuthScopes:       splitAndTrim(v.GetString("LLM_OAUTH_SCOPES")),
		},
		Embedding: EmbeddingConfig{
			Provider:   normalizeProvider(v.GetString("EMBEDDING_PROVIDER")),
			Model:      v.GetString("EMBEDDING_MODEL"),
			BaseURL:    v.GetString("EMBEDDING_BASE_URL"),
			Dimensions: v.GetInt("EMBEDDING_DIMENSIONS"),
		},
		Retrieval: RetrievalConfig{
			TopK:          v.GetInt("RETRIEVAL_TOP_K"),
			MinSimilarity: v.GetFloat64("RETRIEVAL_MIN_SIMILARITY"),
			Timeout:       v.GetDuration("RETRIEVAL_TIMEOUT"),
			PoolSize:      v.GetInt("RETRIEVAL_POOL_SIZE"),
			PoolWait:      v.GetDuration("RETRIEVAL_POOL_WAIT"),
		},
		RateLimit: RateLimitConfig{
			AnalyzeRPS:   v.GetFloat64("RATE_LIMIT_ANALYZE_RPS"),
			AnalyzeBurst: v.GetInt("RATE_LIMIT_ANALYZE_BURST"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:5173")
	v.SetDefault("OBJECT_STORE", "local")
	v.SetDefault("LOCAL_STORE_DIR", "./data")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TAXONOMY_PRECEDENCE", "voc-first")
	v.SetDefault("SEED_ON_START", false)

	v.SetDefault("LLM_PROVIDER", "ollama")
	v.SetDefault("LLM_MODEL", "llama3.2")
	v.SetDefault("LLM_BASE_URL", "http://localhost:11434")
	v.SetDefault("LLM_TIMEOUT", "60s")

	v.SetDefault("EMBEDDING_PROVIDER", "ollama")
	v.SetDefault("EMBEDDING_MODEL", "nomic-embed-text")
	v.SetDefault("EMBEDDING_BASE_URL", "http://localhost:11434")
	v.SetDefault("EMBEDDING_DIMENSIONS", 768)

	v.SetDefault("RETRIEVAL_TOP_K", 5)
	v.SetDefault("RETRIEVAL_MIN_SIMILARITY", 0.35)
	v.SetDefault("RETRIEVAL_TIMEOUT", "10s")
	v.SetDefault("RETRIEVAL_POOL_SIZE", 8)
	v.SetDefault("RETRIEVAL_POOL_WAIT", "250ms")

	v.SetDefault("RATE_LIMIT_ANALYZE_RPS", 2.0)
	v.SetDefault("RATE_LIMIT_ANALYZE_BURST", 10)
}

func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			log.Printf("config: failed to load %s: %v", path, err)
		}
	}
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeProvider(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
