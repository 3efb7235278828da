package bootstrap

import (
	"context"
	"log"
	"os"

	"github.com/Alpha-Bytes-Department/daissy-ai/internal/config"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/controller"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/pkg/logger"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/repository/memory"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/repository/unitofwork"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/service"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/websocket"
	"github.com/Alpha-Bytes-Department/daissy-ai/pkg/embedding"
	"github.com/Alpha-Bytes-Department/daissy-ai/pkg/llm/factory"
	pkgNats "github.com/Alpha-Bytes-Department/daissy-ai/pkg/nats"
	"github.com/Alpha-Bytes-Department/daissy-ai/pkg/retrieval"
	"github.com/Alpha-Bytes-Department/daissy-ai/pkg/transcribe"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ConsultationController controller.IConsultationController
	AudioController        controller.IAudioController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	WebSocketHub *websocket.Hub

	// Core Facades
	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	redisAvailable := true
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		redisAvailable = false
	}

	// 3. AI Providers
	embeddingProvider, err := embedding.NewProvider(
		cfg.Ai.EmbeddingProvider,
		cfg.Ai.EmbeddingModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.OpenAI,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Embedding Provider: %v", err)
	}
	if redisAvailable {
		embeddingProvider = embedding.NewCachedProvider(embeddingProvider, rdb)
	}
	log.Printf("[INFO] Using Embedding Provider: %s (%s)", cfg.Ai.EmbeddingProvider, cfg.Ai.EmbeddingModel)

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.OpenAI,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	transcriber := transcribe.NewWhisperTranscriber("", cfg.Keys.OpenAI, cfg.Ai.WhisperModel)
	processor := transcribe.NewProcessor(transcriber, llmProvider)

	// In-Memory Session State
	stateRepo := memory.NewSessionStateRepository()
	lockRegistry := memory.NewLockRegistry()

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/ingest.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 4. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Keys.AudioIngestTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.AudioIngestTopic,
		uowFactory,
		embeddingProvider,
		natsPub,
		wsHub,
		sysLogger,
	)

	selector := retrieval.NewSelector(embeddingProvider, sysLogger.Raw())

	consultationService := service.NewConsultationService(
		uowFactory,
		llmProvider,
		selector,
		stateRepo,
		lockRegistry,
		natsPub,
		sysLogger,
		service.ConsultationConfig{
			ContextWindow: cfg.Ai.ContextWindow,
			Retrieval: retrieval.Config{
				Threshold: cfg.Retrieval.Threshold,
				TopK:      cfg.Retrieval.TopK,
			},
			GenerationTimeout: cfg.Ai.GenerationTimeout,
			RetrievalTimeout:  cfg.Ai.RetrievalTimeout,
		},
	)

	audioService := service.NewAudioService(
		uowFactory,
		processor,
		embeddingProvider,
		publisherService,
		sysLogger,
	)

	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		log.Printf("[WARN] Failed to create upload directory %s: %v", cfg.Upload.Dir, err)
	}

	// 5. Controllers
	return &Container{
		ConsultationController: controller.NewConsultationController(consultationService),
		AudioController:        controller.NewAudioController(audioService, cfg.Upload.Dir),

		ConsumerService: consumerService,
		WebSocketHub:    wsHub,
		Logger:          sysLogger,
	}
}
