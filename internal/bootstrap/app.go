// Package bootstrap wires configuration, storage, queue, and services into a
// runnable application shared by the API and the worker.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-ranker/internal/explain"
	"resume-ranker/internal/extract"
	"resume-ranker/internal/jobs"
	"resume-ranker/internal/queue"
	"resume-ranker/internal/ranking"
	"resume-ranker/internal/resumes"
	"resume-ranker/internal/shared/config"
	"resume-ranker/internal/shared/server"
	"resume-ranker/internal/shared/storage/db"
	"resume-ranker/internal/shared/storage/object"
	localstore "resume-ranker/internal/shared/storage/object/local"
	s3store "resume-ranker/internal/shared/storage/object/s3"
	"resume-ranker/internal/shared/util"
	"resume-ranker/internal/uploads"
)

// BatchProcessor allows callers to override batch processing for tests.
type BatchProcessor interface {
	ProcessBatchID(ctx context.Context, batchID string) error
}

// App holds shared dependencies for the API and the worker.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Queue  queue.Client

	JobsRepo       jobs.Repo
	ResumesRepo    resumes.Repo
	BatchRepo      ranking.BatchRepo
	ResultRepo     ranking.ResultRepo
	Provider       explain.Provider
	RankingService *ranking.Service
	BatchProcessor BatchProcessor
	UploadsService *uploads.Service
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	if err := buildServices(ctx, app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         app.Config,
		JobsHandler:    jobs.NewHandler(app.JobsRepo),
		UploadsHandler: uploads.NewHandler(app.UploadsService),
		RankingHandler: &ranking.Handler{
			Batches: app.BatchRepo,
			Results: app.ResultRepo,
			Resumes: app.ResumesRepo,
		},
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildServices(ctx context.Context, app *App) error {
	if app.DB != nil {
		app.JobsRepo = &jobs.PGRepo{DB: app.DB}
		app.ResumesRepo = &resumes.PGRepo{DB: app.DB}
		app.BatchRepo = &ranking.PGBatchRepo{DB: app.DB}
		app.ResultRepo = &ranking.PGResultRepo{DB: app.DB}
	} else {
		app.JobsRepo = jobs.NewMemoryRepo()
		app.ResumesRepo = resumes.NewMemoryRepo()
		app.BatchRepo = ranking.NewMemoryBatchRepo()
		app.ResultRepo = ranking.NewMemoryResultRepo()
	}

	provider := explain.Provider(explain.HeuristicProvider{})
	if app.Config.AugmentationEnabled() {
		remote, err := explain.NewOpenAIProvider(app.Config.OpenAIAPIKey, app.Config.OpenAIModel, 0)
		if err != nil {
			return err
		}
		provider = remote
	}
	app.Provider = provider

	app.RankingService = ranking.NewService(
		app.JobsRepo,
		app.ResumesRepo,
		app.BatchRepo,
		app.ResultRepo,
		storeExtractor{store: app.Store},
		provider,
	)
	app.BatchProcessor = processorAdapter{svc: app.RankingService}

	queueClient, err := buildQueue(ctx, app)
	if err != nil {
		return err
	}
	app.Queue = queueClient

	app.UploadsService = uploads.NewService(
		app.JobsRepo,
		app.ResumesRepo,
		app.BatchRepo,
		app.Store,
		app.Queue,
	)
	return nil
}

func buildQueue(ctx context.Context, app *App) (queue.Client, error) {
	if strings.TrimSpace(app.Config.SQSQueueURL) == "" {
		log.Printf("bootstrap: RR_SQS_QUEUE_URL empty; processing batches in-process")
		return &queue.LocalClient{Process: func(ctx context.Context, batchID string) error {
			return app.BatchProcessor.ProcessBatchID(ctx, batchID)
		}}, nil
	}
	return queue.NewSQSClient(ctx, app.Config.AWSRegion, app.Config.SQSQueueURL)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

// storeExtractor feeds stored documents into the text extraction pipeline.
type storeExtractor struct {
	store object.ObjectStore
}

func (e storeExtractor) Extract(ctx context.Context, storageKey, fileName string) (string, error) {
	return extract.ExtractText(ctx, e.store, storageKey, util.FileExt(fileName))
}

type processorAdapter struct {
	svc *ranking.Service
}

func (p processorAdapter) ProcessBatchID(ctx context.Context, batchID string) error {
	_, err := p.svc.ProcessBatch(ctx, batchID)
	return err
}
