package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eapmetrics/internal/cache"
	"eapmetrics/internal/config"
	"eapmetrics/internal/logging"
	"eapmetrics/internal/repository"
	"eapmetrics/internal/scoring"
	"eapmetrics/internal/service"
	"eapmetrics/internal/transport/rest"
	"eapmetrics/internal/transport/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logging.Init(cfg.Logging)
	slog.Info("started")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		fatal("failed to connect to MongoDB", err)
	}
	defer mongoClient.Disconnect(context.Background())

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		fatal("failed to ping MongoDB", err)
	}
	slog.Info("connected to MongoDB", slog.String("database", cfg.Mongo.Database))

	db := mongoClient.Database(cfg.Mongo.Database)

	// Redis connection
	redisOpts, err := cfg.RedisOptions()
	if err != nil {
		fatal("invalid Redis URI", err)
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		fatal("failed to ping Redis", err)
	}
	slog.Info("connected to Redis", slog.String("addr", redisOpts.Addr), slog.Int("db", redisOpts.DB))

	// Initialize repositories
	surveyRepo := repository.NewSurveyRepo(db)
	responseRepo := repository.NewResponseRepo(db)
	companyRepo := repository.NewCompanyRepo(db)

	if err := responseRepo.EnsureIndexes(ctx); err != nil {
		slog.Warn("failed to ensure response indexes", slog.String("error", err.Error()))
	}

	// Initialize caches
	reportCache := cache.NewReportCache(rdb, cfg.Redis.ReportTTL)
	feed := cache.NewChangeFeed(rdb, cfg.Redis.FeedChannel)

	// Initialize WebSocket hub
	wsHub := ws.NewHub()

	// Initialize services
	engine := scoring.NewEngine(scoring.DefaultCatalog(), service.ThresholdsFromConfig(cfg.Scoring))
	authSvc := service.NewAuthService(cfg.Auth)
	surveySvc := service.NewSurveyService(surveyRepo)
	responseSvc := service.NewResponseService(responseRepo, surveyRepo, feed)
	reportSvc := service.NewReportService(engine, cfg.Scoring.Parallel, surveyRepo, responseRepo, companyRepo, reportCache)

	// wsHub implements service.Broadcaster
	watcher := service.NewWatcher(feed, reportSvc, wsHub, cfg.Redis.WatchInterval)
	go func() {
		if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("response watcher stopped", slog.String("error", err.Error()))
		}
	}()

	// Create router with container
	container := &rest.Container{
		AuthService:        authSvc,
		SurveyService:      surveySvc,
		ResponseService:    responseSvc,
		ReportService:      reportSvc,
		WSHub:              wsHub,
		CORSAllowedOrigins: cfg.HTTP.CORSAllowedOrigins,
	}

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           rest.NewRouter(container),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", slog.String("port", cfg.HTTP.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fatal("ListenAndServe", err)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}

func fatal(msg string, err error) {
	slog.Error(msg, slog.String("error", err.Error()))
	os.Exit(1)
}
