package bootstrap

import (
	"context"
	"log"
	"time"

	"sparkmart-ai-be/internal/config"
	"sparkmart-ai-be/internal/controller"
	"sparkmart-ai-be/internal/pkg/logger"
	"sparkmart-ai-be/internal/pkg/mailer"
	"sparkmart-ai-be/internal/repository/implementation"
	"sparkmart-ai-be/internal/repository/memory"
	"sparkmart-ai-be/internal/repository/redisstore"
	"sparkmart-ai-be/internal/repository/unitofwork"
	"sparkmart-ai-be/internal/service"
	"sparkmart-ai-be/pkg/llm/factory"
	"sparkmart-ai-be/pkg/storage"
	"sparkmart-ai-be/pkg/store"

	pktNats "sparkmart-ai-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController    controller.IChatController
	CatalogController controller.ICatalogController
	OrderController   controller.IOrderController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	catalogRepo := implementation.NewCatalogRepository(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.SMTP.SupportEmail,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// 3. Session Store
	sessionTTL := time.Duration(cfg.App.SessionTTLMinutes) * time.Minute
	var sessions store.SessionStore
	if cfg.App.SessionStore == "redis" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Invalid REDIS_URL, using defaults: %v", err)
			opt = &redis.Options{Addr: "localhost:6379"}
		}
		rdb := redis.NewClient(opt)
		sessions = redisstore.NewSessionRepository(rdb, sessionTTL)
		log.Printf("[INFO] Using Session Store: REDIS")
	} else {
		sessions = memory.NewSessionRepository(sessionTTL)
		log.Printf("[INFO] Using Session Store: MEMORY")
	}

	// 4. LLM Provider
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.GroqAPIKey,
		llmBaseURL(cfg),
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 5. Object Storage (complaint attachments)
	var uploader storage.Uploader
	if cfg.Storage.Endpoint != "" {
		minioUploader, err := storage.NewMinioUploader(context.Background(), storage.MinioConfig{
			Endpoint:        cfg.Storage.Endpoint,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			UseSSL:          cfg.Storage.UseSSL,
			PublicBaseURL:   cfg.Storage.PublicBaseURL,
		})
		if err != nil {
			log.Printf("[WARN] Failed to initialize object storage: %v (uploads disabled)", err)
		} else {
			uploader = minioUploader
		}
	} else {
		log.Printf("[INFO] Object storage not configured (uploads disabled)")
	}

	// 6. Services
	orderService := service.NewOrderService(uowFactory, pubSub, natsPub, sysLogger)
	catalogService := service.NewCatalogService(catalogRepo, cfg.Database.CatalogTable, natsPub, sysLogger)
	paymentService := service.NewPaymentService(uowFactory, cfg.Payment, cfg.App.ClientURL, sysLogger)
	chatService := service.NewChatService(
		uowFactory,
		llmProvider,
		catalogRepo,
		sessions,
		orderService,
		cfg.Database.CatalogTable,
		sysLogger,
	)
	consumerService := service.NewConsumerService(pubSub, service.ComplaintTopicName, emailService)

	// Start Service (Worker)
	notifService := service.NewNotificationService(natsSub, emailService, cfg.SMTP.SupportEmail, sysLogger)
	if natsSub != nil {
		go func() {
			if err := notifService.Start(); err != nil {
				log.Printf("[WARN] Failed to start order receipt worker: %v", err)
			}
		}()
	}

	// 7. Controllers
	return &Container{
		ChatController:    controller.NewChatController(chatService, uploader),
		CatalogController: controller.NewCatalogController(catalogService),
		OrderController:   controller.NewOrderController(orderService, paymentService),
		ConsumerService:   consumerService,
		Logger:            sysLogger,
	}
}

func llmBaseURL(cfg *config.Config) string {
	if cfg.Ai.LLMProvider == "ollama" {
		return cfg.Ai.OllamaBaseURL
	}
	return cfg.Ai.GroqBaseURL
}
