package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"voc-backend/internal/analysis"
	"voc-backend/internal/embedding"
	"voc-backend/internal/ingest"
	"voc-backend/internal/knowledge"
	"voc-backend/internal/llm"
	"voc-backend/internal/llm/gemini"
	"voc-backend/internal/llm/ollama"
	"voc-backend/internal/llm/openai"
	"voc-backend/internal/queue"
	"voc-backend/internal/records"
	"voc-backend/internal/retrieval"
	"voc-backend/internal/rules"
	"voc-backend/internal/services/health"
	"voc-backend/internal/shared/config"
	"voc-backend/internal/shared/server"
	"voc-backend/internal/shared/storage/db"
	"voc-backend/internal/shared/storage/object"
	localstore "voc-backend/internal/shared/storage/object/local"
	s3store "voc-backend/internal/shared/storage/object/s3"
	"voc-backend/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Store           object.ObjectStore
	Queue           queue.Client
	LLM             llm.Completer
	Embedder        embedding.Embedder
	Gateway         *retrieval.Gateway
	Knowledge       *knowledge.Base
	Rules           *rules.Analyzer
	RecordsRepo     records.Repo
	AnalysisService *analysis.Service
	Seeder          *ingest.Seeder
	Learner         *ingest.Learner
	Health          *health.Service
	AnalysisHandler *analysis.Handler
	IngestHandler   *ingest.Handler
	RecordsHandler  *records.Handler
}

// Options adjusts Build for processes that do not serve HTTP.
type Options struct {
	// DBOptions overrides the connection pool defaults.
	DBOptions *db.Options
	// SkipMigrations leaves the schema untouched.
	SkipMigrations bool
}

// Build prepares shared dependencies and the router. It does not initialize
// the analysis service; call Start for that.
func Build(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	sqlDB, err := buildDB(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	completer, modelName, err := buildLLM(ctx, cfg)
	if err != nil {
		return nil, err
	}

	embedder, err := embedding.New(ctx, embedding.Config{
		Provider:   cfg.Embedding.Provider,
		Model:      cfg.Embedding.Model,
		BaseURL:    cfg.Embedding.BaseURL,
		APIKey:     cfg.LLM.GeminiAPIKey,
		Dimensions: cfg.Embedding.Dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("build embedder: %w", err)
	}
	if err := checkVectorStore(sqlDB, embedder); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	app := &App{
		Config:   cfg,
		DB:       sqlDB,
		Store:    store,
		Queue:    queueClient,
		LLM:      completer,
		Embedder: embedder,
	}
	buildServices(app, modelName)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		AnalysisHandler: app.AnalysisHandler,
		IngestHandler:   app.IngestHandler,
		RecordsHandler:  app.RecordsHandler,
		Health:          app.Health,
	})

	return app, nil
}

// Start initializes the analysis service and optionally seeds an empty store.
func (a *App) Start(ctx context.Context) error {
	if err := a.AnalysisService.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize analysis service: %w", err)
	}
	if a.Config.SeedOnStart {
		if _, err := a.Seeder.Seed(ctx, ingest.SeedRequest{Source: ingest.SourceTemplates}); err != nil {
			return fmt.Errorf("seed on start: %w", err)
		}
	}
	return nil
}

// Close releases the database pool.
func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

func buildDB(ctx context.Context, cfg config.Config, opts Options) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.db.memory", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	poolOpts := db.OptionsFromEnv(db.DefaultServerOptions())
	if opts.DBOptions != nil {
		poolOpts = db.OptionsFromEnv(*opts.DBOptions)
	}
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, poolOpts)
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db.memory", map[string]any{"reason": "connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}

	if !opts.SkipMigrations {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if cfg.LearnQueueURL == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx, cfg.AWSRegion, cfg.LearnQueueURL)
}

// buildLLM returns the completer and the model name recorded with each analysis.
func buildLLM(ctx context.Context, cfg config.Config) (llm.Completer, string, error) {
	httpClient := llm.NewHTTPClient(ctx, cfg.LLM.Timeout, llm.OAuthConfig{
		TokenURL:     cfg.LLM.OAuthTokenURL,
		ClientID:     cfg.LLM.OAuthClientID,
		ClientSecret: cfg.LLM.OAuthClientSecret,
		Scopes:       cfg.LLM.OAuthScopes,
	})

	switch cfg.LLM.Provider {
	case "ollama":
		c, err := ollama.NewClient(cfg.LLM.BaseURL, cfg.LLM.Model, httpClient)
		if err != nil {
			return nil, "", err
		}
		return c, "ollama/" + cfg.LLM.Model, nil
	case "openai":
		opts := []openai.Option{openai.WithHTTPClient(httpClient)}
		if cfg.LLM.BaseURL != "" && !strings.Contains(cfg.LLM.BaseURL, ":11434") {
			opts = append(opts, openai.WithBaseURL(cfg.LLM.BaseURL))
		}
		c, err := openai.NewClient(cfg.LLM.OpenAIAPIKey, cfg.LLM.Model, opts...)
		if err != nil {
			return nil, "", err
		}
		return c, "openai/" + cfg.LLM.Model, nil
	case "genai", "gemini":
		c, err := gemini.NewClient(ctx, cfg.LLM.GeminiAPIKey, cfg.LLM.Model)
		if err != nil {
			return nil, "", err
		}
		return c, "genai/" + cfg.LLM.Model, nil
	case "", "none":
		telemetry.Warn("bootstrap.llm.disabled", map[string]any{"provider": cfg.LLM.Provider})
		return llm.PlaceholderClient{}, "none", nil
	default:
		return nil, "", fmt.Errorf("unknown LLM provider %q", cfg.LLM.Provider)
	}
}

// checkVectorStore rejects embedders whose vectors do not fit the Postgres
// column. The in-memory store accepts any width.
func checkVectorStore(sqlDB *sql.DB, embedder embedding.Embedder) error {
	if sqlDB == nil {
		return nil
	}
	return retrieval.CheckPGDimensions(embedder.Dimensions())
}

func buildServices(app *App, modelName string) {
	cfg := app.Config

	var vectors retrieval.Store
	var recordsRepo records.Repo
	if app.DB != nil {
		vectors = &retrieval.PGStore{DB: app.DB}
		recordsRepo = &records.PGRepo{DB: app.DB}
	} else {
		vectors = retrieval.NewMemoryStore()
		recordsRepo = records.NewMemoryRepo()
	}

	gateway := retrieval.NewGateway(vectors, app.Embedder, retrieval.Options{
		PoolSize: cfg.Retrieval.PoolSize,
		PoolWait: cfg.Retrieval.PoolWait,
		Timeout:  cfg.Retrieval.Timeout,
	})
	kb := knowledge.New(knowledge.ParsePrecedence(cfg.TaxonomyPrecedence))
	analyzer := rules.NewAnalyzer(kb)

	svc := analysis.NewService(analysis.Deps{
		Retriever: gateway,
		LLM:       app.LLM,
		Rules:     analyzer,
		Recorder:  recordsRepo,
	}, analysis.Options{
		TopK:             cfg.Retrieval.TopK,
		MinSimilarity:    cfg.Retrieval.MinSimilarity,
		LLMTimeout:       cfg.LLM.Timeout,
		RetrievalTimeout: cfg.Retrieval.Timeout,
		ModelName:        modelName,
		EmbeddingModel:   app.Embedder.Name(),
	})

	var ping health.Pinger
	if app.DB != nil {
		ping = func(ctx context.Context) error { return db.Ping(ctx, app.DB, 0) }
	}

	app.Gateway = gateway
	app.Knowledge = kb
	app.Rules = analyzer
	app.RecordsRepo = recordsRepo
	app.AnalysisService = svc
	app.Seeder = ingest.NewSeeder(gateway, kb, app.Store, ingest.SeederOptions{})
	app.Learner = ingest.NewLearner(gateway, app.Queue)
	app.Health = health.NewService(svc, gateway, ping, app.Embedder.Name())
	app.AnalysisHandler = analysis.NewHandler(svc)
	app.IngestHandler = ingest.NewHandler(app.Seeder, app.Learner)
	app.RecordsHandler = records.NewHandler(recordsRepo)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

// ConfigureLogging applies the configured level and optional rotated log file.
func ConfigureLogging(cfg config.Config) error {
	return telemetry.Configure(telemetry.Options{Level: cfg.LogLevel, File: cfg.LogFile})
}
