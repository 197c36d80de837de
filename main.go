package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hazlamahedich/shop-sub002/config"
	"github.com/hazlamahedich/shop-sub002/controllers"
	"github.com/hazlamahedich/shop-sub002/database"
	"github.com/hazlamahedich/shop-sub002/kafka"
	"github.com/hazlamahedich/shop-sub002/logger"
	awspkg "github.com/hazlamahedich/shop-sub002/pkg/aws"
	"github.com/hazlamahedich/shop-sub002/platform"
	"github.com/hazlamahedich/shop-sub002/repository"
	"github.com/hazlamahedich/shop-sub002/routes"
	"github.com/hazlamahedich/shop-sub002/sender"
	"github.com/hazlamahedich/shop-sub002/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Initialize(cfg.Env)
	zlog := logger.Log
	defer zlog.Sync() //nolint:errcheck

	// Stores
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		zlog.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	db, err := database.Connect(cfg.PostgresDSN())
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}

	cartStore := database.NewRedisCartStore(redisClient, cfg.CheckoutTokenTTL)
	confirmationStore := database.NewRedisConfirmationStore(redisClient, cfg.ConfirmationTTL)
	notificationStore := database.NewRedisNotificationStore(redisClient, cfg.ConfirmationTTL, 24*time.Hour)
	pollingLock := database.NewRedisPollingLock(redisClient, cfg.PollLockTTL)

	orderRepo := repository.NewGormOrderRepository(db)
	merchantRepo := repository.NewGormMerchantRepository(db)
	consentRepo := repository.NewGormConsentRepository(db)
	notificationLogRepo := repository.NewGormNotificationLogRepository(db)

	// Outbound clients
	platformClient := platform.NewRestClient()
	urlValidator := platform.NewHTTPURLValidator(cfg.CheckoutValidationTimeout)
	messageSender, err := sender.NewMessengerSender(cfg.MessagingAPIURL, cfg.MessagingToken)
	if err != nil {
		zlog.Fatal("Failed to init message sender", zap.Error(err))
	}

	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer producer.Close() //nolint:errcheck

	var snsClient awspkg.SNSPublisher
	if awsCfg, awsErr := awspkg.LoadAWSConfig(context.Background()); awsErr != nil {
		zlog.Warn("AWS config unavailable, SNS disabled", zap.Error(awsErr))
	} else {
		snsClient = awspkg.NewSNSClient(awsCfg)
	}

	// Services
	checkoutService := services.NewCheckoutService(
		cartStore,
		platformClient,
		urlValidator,
		producer,
		platform.Credentials{ShopDomain: cfg.PlatformShopDomain, AccessToken: cfg.PlatformAccessToken},
		cfg.CheckoutMaxRetries,
		zlog,
	)
	confirmationService := services.NewOrderConfirmationService(
		cartStore, confirmationStore, orderRepo, merchantRepo, messageSender, producer, zlog,
	)
	notificationService := services.NewShippingNotificationService(
		consentRepo, notificationStore, messageSender, notificationLogRepo,
		snsClient, cfg.ShippingSNSARN, int64(cfg.NotificationDailyCap), zlog,
	)

	pollingHealth := services.NewPollingHealthState()
	pollingService := services.NewOrderPollingService(
		pollingLock, merchantRepo, platformClient, orderRepo, notificationService,
		pollingHealth, cfg.PollWindow, cfg.InterMerchantDelay, zlog,
	)
	scheduler := services.NewPollingScheduler(pollingService, merchantRepo, cfg.PollInterval, pollingHealth, zlog)

	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	go scheduler.Start(schedulerCtx)

	// HTTP server
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), logger.RequestLogger())

	routes.Register(router,
		controllers.NewWebhookController(confirmationService, zlog),
		controllers.NewCheckoutController(checkoutService),
		controllers.NewPollingController(pollingService),
	)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		zlog.Info("Order pipeline service running", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zlog.Info("Shutting down gracefully...")
	stopScheduler()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Fatal("Shutdown error", zap.Error(err))
	}
	zlog.Info("Server shutdown complete.")
}
