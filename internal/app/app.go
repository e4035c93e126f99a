package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"winereco/internal/config"
	"winereco/internal/handlers"
	"winereco/internal/middleware"
	"winereco/internal/services"
)

type App struct {
	config   *config.Config
	logger   *logrus.Logger
	redis    *redis.Client
	cache    *services.ModelCache
	handlers *handlers.Handlers
	router   *gin.Engine
}

func New(cfg *config.Config) (*App, error) {
	app := &App{
		config: cfg,
		logger: SetupLogger(&cfg.Logging),
	}

	if cfg.Redis.Enabled {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		app.redis = redis.NewClient(opts)
	}

	// The model cache is owned here and handed to the recommendation
	// service; handlers never touch ambient global state.
	app.cache = services.NewModelCache(cfg.Data.ArtifactDir, cfg.Data.SnapshotDir, app.logger)
	engine := services.NewPreferenceEngine(&cfg.Engine, app.logger)
	reco := services.NewRecommendationService(app.cache, engine, app.redis, cfg.Redis.ResultTTL, app.logger)

	app.handlers = handlers.New(app.logger, reco)
	app.setupRouter()

	return app, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application...")
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.WithError(err).Error("Error closing redis client")
			return err
		}
	}
	return nil
}

// SetupLogger builds the shared logrus logger from config; CLIs reuse it so
// pipelines and server log identically.
func SetupLogger(cfg *config.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

func (a *App) setupRouter() {
	if a.config.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(a.logger))
	router.Use(middleware.Recovery(a.logger))
	router.Use(middleware.CORS())

	// Health check endpoint
	router.GET("/health", a.handlers.Health.Check)

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := router.Group("/api/v1")
	{
		api.GET("/info", a.handlers.Recommendation.Info)
		api.GET("/recommend", a.handlers.Recommendation.Query)
		api.POST("/recommendations", a.handlers.Recommendation.RecommendProfile)
	}

	a.router = router
}
