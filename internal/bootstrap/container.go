package bootstrap

import (
	"context"
	"log"

	"redoma-support-be/internal/config"
	"redoma-support-be/internal/constant"
	"redoma-support-be/internal/controller"
	"redoma-support-be/internal/handler"
	"redoma-support-be/internal/pkg/logger"
	"redoma-support-be/internal/pkg/mailer"
	"redoma-support-be/internal/repository/memory"
	"redoma-support-be/internal/repository/unitofwork"
	"redoma-support-be/internal/service"
	"redoma-support-be/internal/websocket"
	pktNats "redoma-support-be/pkg/nats"
	"redoma-support-be/pkg/storage"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController         controller.IAuthController
	ConversationController controller.IConversationController
	ProviderController     controller.IProviderController
	ErrorLogController     controller.IErrorLogController

	// Background services, run from main.go
	AutoReplyService service.IAutoReplyService
	FeedService      *service.FeedService
	ProviderService  service.IProviderService

	// WebSockets
	FeedHandler  *handler.FeedHandler
	WebSocketHub *websocket.Hub

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
	)

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// In-memory staff session cache
	sessionRepo := memory.NewSessionRepository()

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// Object storage
	objectStorage, err := storage.NewMinioStorage(storage.Config{
		Endpoint:      cfg.Storage.Endpoint,
		AccessKey:     cfg.Storage.AccessKey,
		SecretKey:     cfg.Storage.SecretKey,
		UseSSL:        cfg.Storage.UseSSL,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize object storage: %v", err)
	}
	if err := objectStorage.EnsureBuckets(context.Background(), constant.BucketChatUploads, constant.BucketProviderLogos); err != nil {
		log.Printf("[WARN] Failed to ensure storage buckets: %v", err)
	}

	// WebSocket hub
	wsLogger := logger.NewIsolatedLogger("logs/feed.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Services
	feedPublisher := service.NewFeedPublisher(natsPub, sysLogger)
	msgPublisher := service.NewClientMessagePublisher(pubSub, sysLogger)

	authService := service.NewAuthService(uowFactory, sessionRepo)
	conversationService := service.NewConversationService(
		uowFactory,
		feedPublisher,
		msgPublisher,
		emailService,
		cfg.App.SupportInboxEmail,
		sysLogger,
	)
	messageService := service.NewMessageService(uowFactory, feedPublisher, msgPublisher, objectStorage)
	providerService := service.NewProviderService(uowFactory, feedPublisher, objectStorage, sysLogger)
	errorLogService := service.NewErrorLogService(uowFactory, sysLogger)

	autoReplyService := service.NewAutoReplyService(pubSub, uowFactory, messageService)

	var feedService *service.FeedService
	if natsSub != nil {
		feedService = service.NewFeedService(natsSub, wsHub, wsLogger)
	}

	// 4. Controllers
	return &Container{
		AuthController:         controller.NewAuthController(authService),
		ConversationController: controller.NewConversationController(conversationService, messageService),
		ProviderController:     controller.NewProviderController(providerService),
		ErrorLogController:     controller.NewErrorLogController(errorLogService, sysLogger),

		AutoReplyService: autoReplyService,
		FeedService:      feedService,
		ProviderService:  providerService,

		FeedHandler:  handler.NewFeedHandler(wsHub, wsLogger),
		WebSocketHub: wsHub,

		Logger: sysLogger,
	}
}
