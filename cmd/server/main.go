package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gnatwriter/internal/api"
	"gnatwriter/internal/assistant"
	"gnatwriter/internal/cache"
	"gnatwriter/internal/config"
	"gnatwriter/internal/database"
	"gnatwriter/internal/interfaces"
	applogger "gnatwriter/internal/logger"
	"gnatwriter/internal/metrics"
	"gnatwriter/internal/serializer"
	"gnatwriter/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.New(applogger.Config{
		Level:    cfg.LogLevel,
		Encoding: "json",
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	zap.ReplaceGlobals(logger)
	zap.L().Info("Configuration loaded", zap.String("logLevel", cfg.LogLevel))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	migrateURL := fmt.Sprintf("pgx5://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBSSLMode)
	if err := database.RunMigrations(migrateURL, logger); err != nil {
		zap.L().Fatal("Failed to run migrations", zap.Error(err))
	}

	pgPool, err := setupPostgres(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pgPool.Close()
	zap.L().Info("Connected to PostgreSQL")

	m := metrics.New(prometheus.DefaultRegisterer)
	snapshotCache := buildSnapshotCache(ctx, cfg, logger)

	deps := service.Deps{
		Stories:        database.NewPgStoryRepository(pgPool, logger.Named("PgStoryRepo")),
		Chapters:       database.NewPgChapterRepository(pgPool, logger.Named("PgChapterRepo")),
		Scenes:         database.NewPgSceneRepository(pgPool, logger.Named("PgSceneRepo")),
		Characters:     database.NewPgCharacterRepository(pgPool, logger.Named("PgCharacterRepo")),
		Events:         database.NewPgEventRepository(pgPool, logger.Named("PgEventRepo")),
		Locations:      database.NewPgLocationRepository(pgPool, logger.Named("PgLocationRepo")),
		Notes:          database.NewPgNoteRepository(pgPool, logger.Named("PgNoteRepo")),
		Links:          database.NewPgLinkRepository(pgPool, logger.Named("PgLinkRepo")),
		Images:         database.NewPgImageRepository(pgPool, logger.Named("PgImageRepo")),
		Authors:        database.NewPgAuthorRepository(pgPool, logger.Named("PgAuthorRepo")),
		Bibliographies: database.NewPgBibliographyRepository(pgPool, logger.Named("PgBibliographyRepo")),
		Submissions:    database.NewPgSubmissionRepository(pgPool, logger.Named("PgSubmissionRepo")),
		Users:          database.NewPgUserRepository(pgPool, logger.Named("PgUserRepo")),
		Relations:      database.NewPgRelationRepository(pgPool, logger.Named("PgRelationRepo")),
		Activities:     database.NewPgActivityRepository(pgPool, logger.Named("PgActivityRepo")),
		Cache:          snapshotCache,
		Metrics:        m,
		Logger:         logger,
	}

	provider := database.NewSnapshotProvider(pgPool, logger.Named("SnapshotProvider"))
	serializerSvc := serializer.NewService(provider, snapshotCache, logger)

	assistantCfg, err := assistant.LoadConfig(cfg.AssistantsFile)
	if err != nil {
		zap.L().Fatal("Failed to load assistant configuration", zap.Error(err))
	}

	var estimator assistant.SizeEstimator
	if tokEst, err := assistant.NewTokenEstimator(); err != nil {
		zap.L().Warn("Token estimator unavailable, falling back to rune estimate", zap.Error(err))
		estimator = assistant.RuneEstimator{}
	} else {
		estimator = tokEst
	}

	manager := assistant.NewContextManager(estimator, logger)
	dispatcher, err := assistant.NewDispatcher(assistantCfg, deps.Activities, m, logger)
	if err != nil {
		zap.L().Fatal("Failed to build assistant dispatcher", zap.Error(err))
	}
	assistantSvc := assistant.NewService(assistantCfg, manager, dispatcher, serializerSvc,
		deps.Scenes, deps.Chapters, deps.Relations, deps.Images, deps.Activities, logger)

	services := api.Services{
		Stories:        service.NewStoryService(deps),
		Chapters:       service.NewChapterService(deps),
		Scenes:         service.NewSceneService(deps),
		Characters:     service.NewCharacterService(deps),
		Events:         service.NewEventService(deps),
		Locations:      service.NewLocationService(deps),
		Notes:          service.NewNoteService(deps),
		Links:          service.NewLinkService(deps),
		Images:         service.NewImageService(deps),
		Authors:        service.NewAuthorService(deps),
		Bibliographies: service.NewBibliographyService(deps),
		Submissions:    service.NewSubmissionService(deps),
		Users:          service.NewUserService(deps),
		Activities:     service.NewActivityService(deps),
		Relations:      service.NewRelationService(deps),
		Serializer:     serializerSvc,
		Assistant:      assistantSvc,
	}

	gin.SetMode(gin.ReleaseMode)
	if cfg.Env == "development" {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.RedirectTrailingSlash = true
	router.Use(api.ZapLogger(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if origins := cfg.GetAllowedOrigins(); len(origins) > 0 {
		corsConfig.AllowOrigins = origins
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "X-User-ID", "X-Request-ID"}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	handler := api.NewHandler(services, logger)
	handler.RegisterRoutes(router)

	p := ginprometheus.NewPrometheus("gin")
	p.Use(router)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	zap.L().Info("Starting HTTP server", zap.String("port", cfg.ServerPort))

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("HTTP server listen error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("HTTP server forced to shutdown", zap.Error(err))
	}

	zap.L().Info("Server exiting")
}

// setupPostgres initializes the connection pool with retry logic.
func setupPostgres(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBSSLMode)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to parse postgres config: %w", err)
	}
	poolConfig.MaxConns = cfg.DBMaxConns

	var pool *pgxpool.Pool
	var lastErr error
	maxRetries := 10
	retryDelay := 3 * time.Second

	for i := 0; i < maxRetries; i++ {
		attempt := i + 1
		connectCtx, connectCancel := context.WithTimeout(ctx, 5*time.Second)
		pool, err = pgxpool.NewWithConfig(connectCtx, poolConfig)
		connectCancel()

		if err != nil {
			lastErr = fmt.Errorf("unable to create postgres connection pool (attempt %d/%d): %w", attempt, maxRetries, err)
			zap.L().Warn("Postgres pool creation failed, retrying...", zap.Int("attempt", attempt), zap.Error(err))
			time.Sleep(retryDelay)
			continue
		}

		pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
		err = pool.Ping(pingCtx)
		pingCancel()

		if err == nil {
			return pool, nil
		}

		pool.Close()
		lastErr = fmt.Errorf("unable to ping postgres database (attempt %d/%d): %w", attempt, maxRetries, err)
		zap.L().Warn("Postgres ping failed, retrying...", zap.Int("attempt", attempt), zap.Error(err))
		time.Sleep(retryDelay)
	}

	return nil, fmt.Errorf("failed to connect to postgres after %d attempts: %w", maxRetries, lastErr)
}

// buildSnapshotCache connects Redis when configured. An empty REDIS_ADDR
// disables caching; every snapshot then serializes fresh.
func buildSnapshotCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) interfaces.SnapshotCache {
	if cfg.RedisAddr == "" {
		zap.L().Info("Snapshot cache disabled (REDIS_ADDR not set)")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		zap.L().Warn("Redis unreachable, snapshot cache disabled", zap.Error(err))
		client.Close()
		return nil
	}
	zap.L().Info("Connected to Redis", zap.String("addr", cfg.RedisAddr))
	return cache.NewRedisSnapshotCache(client, cfg.SnapshotTTL, logger)
}
