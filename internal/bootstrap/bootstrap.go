package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/obrusnev/docqa-assistant/internal/config"
	"github.com/obrusnev/docqa-assistant/internal/core/domain"
	"github.com/obrusnev/docqa-assistant/internal/core/ports"
	"github.com/obrusnev/docqa-assistant/internal/core/usecase"
	"github.com/obrusnev/docqa-assistant/internal/grouping"
	"github.com/obrusnev/docqa-assistant/internal/infrastructure/chunking"
	"github.com/obrusnev/docqa-assistant/internal/infrastructure/extractor"
	"github.com/obrusnev/docqa-assistant/internal/infrastructure/lexical"
	"github.com/obrusnev/docqa-assistant/internal/infrastructure/llm/ollama"
	"github.com/obrusnev/docqa-assistant/internal/infrastructure/queue/nats"
	"github.com/obrusnev/docqa-assistant/internal/infrastructure/repository/postgres"
	"github.com/obrusnev/docqa-assistant/internal/infrastructure/resilience"
	"github.com/obrusnev/docqa-assistant/internal/infrastructure/storage/localfs"
	"github.com/obrusnev/docqa-assistant/internal/infrastructure/vector/qdrant"
	"github.com/obrusnev/docqa-assistant/internal/observability/metrics"
)

type App struct {
	Config config.Config

	Queue      ports.MessageQueue
	Repo       ports.DocumentRepository
	IngestUC   ports.DocumentIngestor
	ProcessUC  ports.DocumentProcessor
	RetrieveUC ports.ContextRetriever

	Metrics *metrics.WorkerMetrics

	closeFn func()
}

// Options carries per-binary wiring choices.
type Options struct {
	// ServiceName labels the metrics this process emits.
	ServiceName string
}

func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	serviceName := opts.ServiceName
	if serviceName == "" {
		serviceName = "docqa"
	}
	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	retrievalMetrics := metrics.NewRetrievalMetrics(workerMetrics)

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	chunkRepo := postgres.NewChunkRepository(db)
	groupStore := postgres.NewGroupStore(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	ollamaClient := ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaEmbedModel, executor)
	embedder := ollama.NewEmbedder(ollamaClient)
	summarizer := ollama.NewSummarizer(ollamaClient)

	vectorDB := qdrant.New(cfg.QdrantURL, cfg.QdrantCollection)
	chunker := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	extract := extractor.NewRouter(storage)
	bm25 := lexical.NewSearcher()

	groupGen, err := grouping.NewGenerator(summarizer, grouping.Config{
		PoolSize:          cfg.GroupWorkers,
		RequestsPerSecond: cfg.GroupLLMRatePerSec,
		PromptVersion:     cfg.GroupPromptVersion,
		Observer:          workerMetrics,
	}, nil)
	if err != nil {
		queue.Close()
		return nil, fmt.Errorf("init group generator: %w", err)
	}

	aggCfg := domain.AggregationConfig{
		TargetChars: cfg.GroupTargetChars,
		MinChars:    cfg.GroupMinChars,
		MaxChars:    cfg.GroupMaxChars,
	}

	ingestUC := usecase.NewIngestDocumentUseCase(repo, storage, queue)
	processUC := usecase.NewProcessDocumentUseCase(repo, extract, chunker, embedder, vectorDB, chunkRepo, groupGen, groupStore, aggCfg)
	retrieveUC := usecase.NewRetrieveContextUseCase(embedder, vectorDB, bm25, chunkRepo, groupStore, usecase.RetrievalConfig{
		HybridCandidates: cfg.HybridCandidates,
		FusionRRFK:       cfg.FusionRRFK,
		TokenBudget:      cfg.ContextTokenBudget,
		AnswerReserve:    cfg.AnswerReserveTokens,
		SearchTimeout:    time.Duration(cfg.SearchTimeoutSeconds) * time.Second,
		HighlightChars:   cfg.HighlightChars,
	}, nil).WithObserver(retrievalMetrics)

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   repo,

		Metrics: workerMetrics,

		IngestUC:   ingestUC,
		ProcessUC:  processUC,
		RetrieveUC: retrieveUC,

		closeFn: func() {
			groupGen.Release()
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
