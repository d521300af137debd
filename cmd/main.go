package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/123varunshhhhhh/RealtimeChatApp/internal/api"
	"github.com/123varunshhhhhh/RealtimeChatApp/internal/auth"
	"github.com/123varunshhhhhh/RealtimeChatApp/internal/cache"
	cfgpkg "github.com/123varunshhhhhh/RealtimeChatApp/internal/config"
	"github.com/123varunshhhhhh/RealtimeChatApp/internal/events"
	"github.com/123varunshhhhhh/RealtimeChatApp/internal/logger"
	"github.com/123varunshhhhhh/RealtimeChatApp/internal/media"
	"github.com/123varunshhhhhh/RealtimeChatApp/internal/metrics"
	"github.com/123varunshhhhhh/RealtimeChatApp/internal/presence"
	"github.com/123varunshhhhhh/RealtimeChatApp/internal/repository"
	"github.com/123varunshhhhhh/RealtimeChatApp/internal/service"
	"github.com/123varunshhhhhh/RealtimeChatApp/internal/ws"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := cfgpkg.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	zl, err := logger.New(logger.Config{Development: cfg.App.Env != "production"})
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	metrics.Init()

	if err := os.MkdirAll(cfg.App.UploadDir, 0o755); err != nil {
		zl.Fatalw("upload dir", "err", err)
	}

	// Mongo client
	mc, err := repository.NewMongoClient(context.Background(), cfg.Mongo.URI)
	if err != nil {
		zl.Fatalw("mongo init", "err", err)
	}
	defer func() { _ = mc.Disconnect(context.Background()) }()
	db := mc.Database(cfg.Mongo.Database)

	// Redis client
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	recent := cache.NewRecentMessages(rdb, cfg.RecentCacheTTL)

	// Kafka producer
	pub := events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents)
	defer func() { _ = pub.Close() }()

	// S3 uploader
	uploader, err := media.NewS3Store(context.Background(), cfg.AWS.Region, cfg.AWS.Bucket)
	if err != nil {
		zl.Fatalw("s3 init", "err", err)
	}

	// Repositories & services
	msgRepo := repository.NewMessageRepo(db.Collection("messages"))
	convRepo := repository.NewConversationRepo(db.Collection("conversations"))
	groupRepo := repository.NewGroupRepo(db.Collection("groups"))
	storyRepo := repository.NewStoryRepo(db.Collection("stories"))
	userRepo := repository.NewUserRepo(db.Collection("users"))

	msgSvc := service.NewMessageService(msgRepo, convRepo, uploader, recent, pub, zl)
	groupSvc := service.NewGroupService(groupRepo, msgRepo, uploader, zl)
	storySvc := service.NewStoryService(storyRepo, uploader, pub, zl)
	userSvc := service.NewUserService(userRepo, uploader, zl)

	// realtime layer
	reg := presence.NewRegistry(zl)
	router := ws.NewRouter(reg, msgSvc, groupSvc, zl)
	gateway := ws.NewGateway(reg, router, cfg.PingInterval, cfg.WriteDeadline, cfg.WS.MaxMessageSizeBytes, zl)

	app := api.NewServer(api.Deps{
		Messages:  msgSvc,
		Groups:    groupSvc,
		Stories:   storySvc,
		Users:     userSvc,
		Router:    router,
		Gateway:   gateway,
		Validator: auth.NewValidator(cfg.JWT.Secret),
		UploadDir: cfg.App.UploadDir,
		Log:       zl,
	})

	errs := make(chan error, 1)
	go func() {
		addr := ":" + strconv.Itoa(cfg.App.Port)
		zl.Infow("starting chat service", "addr", addr)
		errs <- app.Listen(addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case e := <-errs:
		zl.Fatalw("server error", "err", e)
	case s := <-quit:
		zl.Infow("signal received", "signal", s.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		zl.Warnw("fiber shutdown", "err", err)
	}
	zl.Info("chat service stopped")
}
