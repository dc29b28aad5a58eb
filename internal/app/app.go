package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	emailadapter "github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/adapter/email"
	mongoadapter "github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/adapter/mongo"
	natsadapter "github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/adapter/nats"
	redisadapter "github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/adapter/redis"
	minioadapter "github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/adapter/storage/minio"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/app/config"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/logger"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/metrics"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/tracer"
	httpport "github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/port/http"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/port/http/handler"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/port/ws"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/service"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const metricsNamespace = "marketplace"

type App struct {
	cfg *config.Config
	log logger.Logger

	server     *httpport.Server
	hub        *ws.Hub
	subscriber *ws.Subscriber

	mongoClient    *mongo.Client
	redisClient    *redis.Client
	natsConn       *nats.Conn
	tracerProvider *sdktrace.TracerProvider
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	appLogger, err := logger.NewZapLogger(logger.Config{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Infof("Configuration loaded: Env=%s, HTTP port: %s", cfg.Env, cfg.HTTPServer.Port)

	tracerProvider, err := tracer.Init(ctx, "marketplace-api", cfg.Tracing.OTLPEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	mongoClient, err := mongoadapter.NewClient(ctx, cfg.MongoDB)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MongoDB client: %w", err)
	}
	if err := mongoadapter.EnsureIndexes(ctx, mongoClient, cfg.MongoDB); err != nil {
		return nil, fmt.Errorf("failed to ensure MongoDB indexes: %w", err)
	}
	appLogger.Info("MongoDB client initialized, indexes ensured")

	redisClient, err := redisadapter.NewClient(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis client: %w", err)
	}
	appLogger.Info("Redis client initialized")

	natsConn, err := natsadapter.NewConnection(cfg.NATS)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	publisher, err := natsadapter.NewNATSPublisher(natsConn)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}
	appLogger.Info("NATS connection initialized")

	var sender emailadapter.EmailSender
	if cfg.SMTP.Host != "" {
		sender, err = emailadapter.NewSMTPSender(cfg.SMTP, appLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to create SMTP sender: %w", err)
		}
		appLogger.Info("SMTP email sender initialized")
	} else {
		sender = emailadapter.NewConsoleSender(appLogger)
		appLogger.Warn("SMTP not configured, emails go to the log")
	}

	imageStore, err := minioadapter.NewImageStore(ctx, cfg.Storage, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image store: %w", err)
	}
	appLogger.Info("Image store initialized")

	metricsManager := metrics.NewManager(metricsNamespace)

	// Repositories.
	productRepo := mongoadapter.NewProductRepository(mongoClient, cfg.MongoDB)
	orderRepo := mongoadapter.NewOrderRepository(mongoClient, cfg.MongoDB)
	categoryRepo := mongoadapter.NewCategoryRepository(mongoClient, cfg.MongoDB)
	userRepo := mongoadapter.NewUserRepository(mongoClient, cfg.MongoDB)
	tokenRepo := mongoadapter.NewRefreshTokenRepository(mongoClient, cfg.MongoDB)
	resetRepo := mongoadapter.NewPasswordResetRepository(mongoClient, cfg.MongoDB)
	notifRepo := mongoadapter.NewNotificationRepository(mongoClient, cfg.MongoDB)
	contactRepo := mongoadapter.NewContactRepository(mongoClient, cfg.MongoDB)
	cartRepo := redisadapter.NewCartRepository(redisClient)

	// Services.
	notificationService := service.NewNotificationService(notifRepo, publisher, metricsManager, appLogger)
	cartService := service.NewCartService(cartRepo, productRepo, appLogger, cfg.Cart.TTL)
	orderService := service.NewOrderService(orderRepo, cartService, notificationService, publisher, metricsManager, appLogger)
	productService := service.NewProductService(productRepo, categoryRepo, imageStore, appLogger)
	categoryService := service.NewCategoryService(categoryRepo, appLogger)
	authService := service.NewAuthService(userRepo, tokenRepo, resetRepo, sender, metricsManager, appLogger,
		cfg.JWT, cfg.Lockout, cfg.PasswordReset)
	userService := service.NewUserService(userRepo, tokenRepo, appLogger)
	contactService := service.NewContactService(contactRepo, sender, notificationService, cfg.AdminEmail, appLogger)

	// Real-time hub.
	hub := ws.NewHub(metricsManager, appLogger)
	subscriber := ws.NewSubscriber(natsConn, hub, appLogger)

	router := httpport.NewRouter(httpport.Handlers{
		Auth:          handler.NewAuthHandler(authService, appLogger),
		User:          handler.NewUserHandler(userService, appLogger),
		Product:       handler.NewProductHandler(productService, appLogger),
		Category:      handler.NewCategoryHandler(categoryService, appLogger),
		Cart:          handler.NewCartHandler(cartService, appLogger),
		Order:         handler.NewOrderHandler(orderService, appLogger),
		Notification:  handler.NewNotificationHandler(notificationService, appLogger),
		Contact:       handler.NewContactHandler(contactService, appLogger),
		AuthService:   authService,
		Hub:           hub,
		Metrics:       metricsManager,
		Log:           appLogger,
		TracingActive: tracerProvider != nil,
	})

	server := httpport.NewServer(cfg.HTTPServer, router, appLogger)

	return &App{
		cfg:            cfg,
		log:            appLogger,
		server:         server,
		hub:            hub,
		subscriber:     subscriber,
		mongoClient:    mongoClient,
		redisClient:    redisClient,
		natsConn:       natsConn,
		tracerProvider: tracerProvider,
	}, nil
}

func (a *App) Run() {
	a.log.Info("Starting application components...")

	if err := a.subscriber.Start(); err != nil {
		a.log.Fatalf("Failed to start websocket subscriber: %v", err)
	}

	go func() {
		if err := a.server.Start(); err != nil {
			a.log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	a.log.Infof("Received shutdown signal: %v. Shutting down...", receivedSignal)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPServer.TimeoutGraceful+5*time.Second)
	defer cancel()

	if err := a.server.Stop(shutdownCtx); err != nil {
		a.log.Errorf("Error during HTTP server shutdown: %v", err)
	}

	a.subscriber.Stop()
	a.hub.Close()

	if a.natsConn != nil {
		a.natsConn.Close()
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Errorf("Error closing Redis client: %v", err)
		}
	}
	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(shutdownCtx); err != nil {
			a.log.Errorf("Error disconnecting from MongoDB: %v", err)
		}
	}
	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(shutdownCtx); err != nil {
			a.log.Errorf("Error shutting down tracer provider: %v", err)
		}
	}

	a.log.Info("Application shut down successfully")
}
