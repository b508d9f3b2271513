package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/n190166/BiryaniJunction/config"
	"github.com/n190166/BiryaniJunction/internal/api"
	"github.com/n190166/BiryaniJunction/internal/auth"
	"github.com/n190166/BiryaniJunction/internal/broker"
	"github.com/n190166/BiryaniJunction/internal/notification"
	"github.com/n190166/BiryaniJunction/internal/payment"
	"github.com/n190166/BiryaniJunction/internal/redisclient"
	"github.com/n190166/BiryaniJunction/internal/service"
	"github.com/n190166/BiryaniJunction/internal/store"
	"github.com/n190166/BiryaniJunction/internal/util"
	"github.com/n190166/BiryaniJunction/internal/worker"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env, "biryani-junction"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting Biryani Junction API")

	decimal.MarshalJSONWithoutQuotes = true

	tp, err := util.InitTracer("biryani-junction", cfg.Server.Env, cfg.Observ.JaegerEndpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("Error shutting down tracer", zap.Error(err))
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = db.Migrate(migrateCtx)
	migrateCancel()
	if err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	logger.Info("Database connected")

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.CartTTL)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("Redis connected")

	tolerance, err := decimal.NewFromString(cfg.Business.TotalTolerance)
	if err != nil {
		logger.Fatal("Invalid order total tolerance", zap.String("value", cfg.Business.TotalTolerance), zap.Error(err))
	}

	mailer, err := notification.NewMailer(db,
		notification.NewSMTPSender(cfg.Notification.SMTPHost, cfg.Notification.SMTPPort,
			cfg.Notification.SMTPUser, cfg.Notification.SMTPPassword, cfg.Notification.From),
		notification.MailerConfig{
			Brand:       cfg.Notification.BrandName,
			MaxAttempts: cfg.Notification.MaxAttempts,
			SendTimeout: cfg.Notification.SendTimeout,
		})
	if err != nil {
		logger.Fatal("Failed to initialize mailer", zap.Error(err))
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	var (
		notifier          service.Notifier
		stopNotifications func()
	)
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder)
		defer producer.Close()
		notifier = broker.NewEventPublisher(producer, cfg.Notification.SendTimeout)

		consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder, cfg.Kafka.ConsumerGroup)
		notificationWorker := worker.NewNotificationWorker(consumer, mailer)
		go func() {
			if err := notificationWorker.Start(workerCtx); err != nil {
				logger.Error("Notification worker error", zap.Error(err))
			}
		}()
		stopNotifications = func() {
			workerCancel()
			if err := notificationWorker.Stop(); err != nil {
				logger.Error("Failed to stop notification worker", zap.Error(err))
			}
		}
		logger.Info("Order events routed through Kafka", zap.String("topic", cfg.Kafka.TopicOrder))
	} else {
		dispatcher := notification.NewDispatcher(mailer, cfg.Notification.Workers, cfg.Notification.QueueSize)
		dispatcher.Start(workerCtx)
		notifier = dispatcher
		// drain the queue while deliveries still have a live context
		stopNotifications = func() {
			dispatcher.Stop()
			workerCancel()
		}
		logger.Info("Order events delivered in process", zap.Int("workers", cfg.Notification.Workers))
	}

	var gateway service.PaymentGateway
	if cfg.Payment.StripeSecretKey != "" {
		gateway = payment.NewStripeGateway(cfg.Payment.StripeSecretKey)
	} else {
		logger.Warn("STRIPE_SECRET_KEY not set, payment intents are disabled")
	}

	tokens := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	catalog := service.NewCatalogService(db, redisClient, cfg.Redis.ProductCacheTTL)
	contacts := service.NewContactService(db)

	services := api.Services{
		Auth:     service.NewAuthService(db, tokens),
		Catalog:  catalog,
		Cart:     service.NewCartService(redisClient, catalog),
		Orders:   service.NewOrderService(db, catalog, notifier, tolerance),
		Contacts: contacts,
		Payments: service.NewPaymentService(gateway, cfg.Payment.Currency),
		Admin:    service.NewAdminService(db, catalog, contacts),
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(services, tokens, cfg.Server.OperationTimeout, map[string]api.Pinger{
		"postgres": db,
		"redis":    redisClient,
	})
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	stopNotifications()

	logger.Info("Server exited")
}
