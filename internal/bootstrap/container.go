package bootstrap

import (
	"context"
	"log"

	"discussly-be/internal/config"
	"discussly-be/internal/controller"
	"discussly-be/internal/handler"
	"discussly-be/internal/pkg/clock"
	"discussly-be/internal/pkg/logger"
	"discussly-be/internal/repository/memory"
	"discussly-be/internal/repository/unitofwork"
	"discussly-be/internal/service"
	"discussly-be/internal/websocket"
	pktNats "discussly-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	DiscussionController controller.IDiscussionController

	// WebSockets
	ChatHandler  *handler.ChatHandler
	WebSocketHub *websocket.Hub

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService
	SweeperService  service.ISweeperService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	clk := clock.New()

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis, optional. Without it the hub only fans out locally.
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	// WebSocket rooms
	registry := websocket.NewRoomRegistry()
	wsHub := websocket.NewHub(registry, rdb, sysLogger)

	// In-memory author lookup cache for the chat path
	userCache := memory.NewUserCache()

	// 3. Services
	lifecycleService := service.NewLifecycleService(uowFactory, clk, pubSub, sysLogger)
	discussionService := service.NewDiscussionService(uowFactory, lifecycleService, natsPub, sysLogger)
	chatService := service.NewChatService(registry, wsHub, uowFactory, lifecycleService, userCache, sysLogger)
	sweeperService := service.NewSweeperService(uowFactory, lifecycleService, clk, cfg.App.SweepInterval, sysLogger)
	consumerService := service.NewConsumerService(pubSub, wsHub, natsPub, sysLogger)

	// 4. Controllers and handlers
	return &Container{
		DiscussionController: controller.NewDiscussionController(discussionService),
		ChatHandler:          handler.NewChatHandler(chatService, sysLogger),
		WebSocketHub:         wsHub,
		ConsumerService:      consumerService,
		SweeperService:       sweeperService,
		Logger:               sysLogger,
	}
}
