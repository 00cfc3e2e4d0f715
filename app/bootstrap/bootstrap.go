package bootstrap

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shikhar1verma/chat-contract-pdf/app/controllers"
	"github.com/shikhar1verma/chat-contract-pdf/app/middleware"
	"github.com/shikhar1verma/chat-contract-pdf/app/router"
	"github.com/shikhar1verma/chat-contract-pdf/internal/config"
	"github.com/shikhar1verma/chat-contract-pdf/internal/database"
	"github.com/shikhar1verma/chat-contract-pdf/internal/logger"
	"github.com/shikhar1verma/chat-contract-pdf/internal/rag"
	"github.com/shikhar1verma/chat-contract-pdf/internal/repository"
	"github.com/shikhar1verma/chat-contract-pdf/internal/services"
	"github.com/shikhar1verma/chat-contract-pdf/internal/storage"
)

// App encapsulates lifecycle resources that need to be cleaned up on shutdown.
type App struct {
	Config       *config.Config
	cleanupTasks []func() error
}

// Init bootstraps configuration, logger, database connections and the
// ingestion/chat services required by the Beego application.
func Init() (*App, error) {
	// Load environment variables from .env if present (non-fatal if missing).
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	if err := logger.InitLogger(); err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg}
	app.cleanupTasks = append(app.cleanupTasks, func() error {
		logger.Sync()
		return nil
	})

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return nil, err
	}
	app.cleanupTasks = append(app.cleanupTasks, func() error {
		return database.CloseDB(db)
	})

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = database.InitRedis(cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, rate limiting uses in-memory counters", zap.Error(err))
			redisClient = nil
		} else {
			app.cleanupTasks = append(app.cleanupTasks, func() error {
				return database.CloseRedis(redisClient)
			})
		}
	}

	embedder := rag.NewOpenAIEmbedder(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.EmbeddingModel)
	generator := rag.NewOpenAIGenerator(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.ChatModel,
		cfg.AI.MaxTokens, cfg.AI.Temperature)

	store, err := buildChunkStore(cfg, db, embedder)
	if err != nil {
		return nil, err
	}

	archiver, err := buildArchiver(cfg)
	if err != nil {
		logger.Warn("Archive storage unavailable, PDFs will not be archived", zap.Error(err))
		archiver = &storage.NoopArchiver{}
	}

	registry := repository.NewUploadRepository(db)
	chunker := rag.NewChunker(cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap)
	parser := rag.NewPDFParser()

	ingest := services.NewIngestService(registry, parser, chunker, embedder, store, archiver)
	chat := services.NewChatService(registry, embedder, store, generator, cfg.Ingest.TopK)

	dispatcher, err := services.NewDispatcher(ingest, cfg.Ingest.Workers, cfg.Ingest.QueueSize)
	if err != nil {
		return nil, err
	}
	app.cleanupTasks = append(app.cleanupTasks, func() error {
		dispatcher.Shutdown()
		return nil
	})

	controllers.Setup(controllers.Dependencies{
		Config:     cfg,
		Registry:   registry,
		Dispatcher: dispatcher,
		Ingest:     ingest,
		Chat:       chat,
		Store:      store,
	})

	rateLimiter := middleware.NewRateLimiter(redisClient)
	router.Init(cfg, rateLimiter)

	logger.Info("Application bootstrap complete",
		zap.String("vector_store", cfg.VectorStore.Provider),
		zap.Bool("archive", cfg.Archive.Enabled))

	return app, nil
}

// buildChunkStore 按配置选择向量存储实现
func buildChunkStore(cfg *config.Config, db *gorm.DB, embedder rag.Embedder) (rag.ChunkStore, error) {
	switch cfg.VectorStore.Provider {
	case "milvus":
		vectorSize := cfg.VectorStore.Milvus.VectorSize
		if vectorSize == 0 {
			vectorSize = embedder.Dimensions()
		}
		return rag.NewMilvusChunkStore(rag.MilvusOptions{
			Address:    cfg.VectorStore.Milvus.Address,
			Username:   cfg.VectorStore.Milvus.Username,
			Password:   cfg.VectorStore.Milvus.Password,
			Collection: cfg.VectorStore.Milvus.Collection,
			Database:   cfg.VectorStore.Milvus.Database,
			VectorSize: vectorSize,
			UseTLS:     cfg.VectorStore.Milvus.TLS,
		})
	case "memory":
		return rag.NewMemoryChunkStore(), nil
	default:
		return rag.NewDBChunkStore(db), nil
	}
}

// buildArchiver 按配置创建归档客户端，未启用时返回no-op
func buildArchiver(cfg *config.Config) (storage.Archiver, error) {
	if !cfg.Archive.Enabled {
		return &storage.NoopArchiver{}, nil
	}
	return storage.NewMinioArchiver(cfg.Archive)
}

// Shutdown 逆序执行清理任务
func (a *App) Shutdown() {
	for i := len(a.cleanupTasks) - 1; i >= 0; i-- {
		if err := a.cleanupTasks[i](); err != nil {
			logger.Error("Cleanup task failed", zap.Error(err))
		}
	}
}
