package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/Acurioustractor/barkly-research-platform-sub002/config"
	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/cache"
	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/repository"
	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/service"
	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/transport/rest"
	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/transport/ws"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load()
	ctx := context.Background()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		logger.Fatal("failed to ping MongoDB", zap.Error(err))
	}
	logger.Info("connected to MongoDB", zap.String("database", cfg.MongoDatabase))

	db := mongoClient.Database(cfg.MongoDatabase)

	// Redis connection
	redisAddr := cfg.RedisAddr
	if len(redisAddr) > 8 && redisAddr[:8] == "redis://" {
		redisAddr = redisAddr[8:]
	}
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		logger.Fatal("failed to ping Redis", zap.Error(err))
	}
	logger.Info("connected to Redis", zap.String("addr", redisAddr))

	// Initialize WebSocket hub (implements service.Notifier)
	wsHub := ws.NewHub(logger)

	// Initialize repositories
	requestRepo := repository.NewRequestRepo(db)
	validatorRepo := repository.NewValidatorRepo(db)
	workflowRepo := repository.NewWorkflowRepo(db)
	feedbackRepo := repository.NewFeedbackRepo(db)

	// Initialize caches
	registryCache := cache.NewRegistryCache(rdb, validatorRepo)
	workflowCache := cache.NewWorkflowCache(rdb, workflowRepo)

	// Initialize services
	locks := service.NewRequestLocks()
	classifier := service.NewKeywordClassifier()
	authSvc := service.NewAuthService(cfg.AdminUsername, cfg.AdminPassword, cfg.JWTSecret)
	registrySvc := service.NewRegistryService(validatorRepo, registryCache, logger)
	assignmentSvc := service.NewAssignmentService(registryCache, wsHub, logger)
	feedbackSvc := service.NewFeedbackService(feedbackRepo, logger)
	validationSvc := service.NewValidationService(
		requestRepo, workflowCache, assignmentSvc, feedbackSvc, registrySvc,
		classifier, wsHub, locks, logger,
	)
	revisionSvc := service.NewRevisionService(
		requestRepo, workflowCache, assignmentSvc, wsHub, locks, logger,
	)
	metricsSvc := service.NewMetricsService(requestRepo, feedbackRepo, logger)

	wsHandler := ws.NewHandler(wsHub, authSvc, logger)

	// Create router with container
	container := &rest.Container{
		AuthService:       authSvc,
		ValidationService: validationSvc,
		RevisionService:   revisionSvc,
		RegistryService:   registrySvc,
		MetricsService:    metricsSvc,
		WorkflowRepo:      workflowRepo,
		WorkflowCache:     workflowCache,
		WSHub:             wsHub,
		WSHandler:         wsHandler,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen and serve", zap.Error(err))
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
