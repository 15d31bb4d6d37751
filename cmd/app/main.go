package main

import (
	"context"
	"errors"
	"minisocial/internal/adapters/database"
	"minisocial/internal/adapters/filestore"
	"minisocial/internal/adapters/httpapi"
	"minisocial/internal/adapters/memory"
	redisadapter "minisocial/internal/adapters/redis"
	"minisocial/internal/adapters/security"
	"minisocial/internal/adapters/token"
	"minisocial/internal/config"
	authapp "minisocial/internal/core/auth/service"
	feedapp "minisocial/internal/core/feed/service"
	postapp "minisocial/internal/core/post/service"
	userapp "minisocial/internal/core/user/service"
	"minisocial/internal/ports/ratelimit"
	"minisocial/internal/workers"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger, err := config.NewLogger(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.OpenDB(cfg, logger)
	if err != nil {
		logger.Fatal("Error connecting to the database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("Error during migrations", zap.Error(err))
	}
	logger.Info("Database migrations completed")

	redisClient, err := config.OpenRedis(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Error connecting to Redis", zap.Error(err))
	}
	defer closeResources(logger, db, redisClient)

	userRepo := database.NewUserRepositoryDatabase(db)
	postRepo := database.NewPostRepositoryDatabase(db)
	commentRepo := database.NewCommentRepositoryDatabase(db)
	likeRepo := database.NewLikeRepositoryDatabase(db)

	tokens, err := token.NewJWTTokenService(cfg.JWTSecret, cfg.JWTAlg, cfg.AccessTokenTTL)
	if err != nil {
		logger.Fatal("Invalid token configuration", zap.Error(err))
	}
	storage, err := filestore.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		logger.Fatal("Upload directory unavailable", zap.Error(err))
	}

	authSvc := authapp.NewAuthService(userRepo, tokens, logger)
	userSvc := userapp.NewUserService(userRepo, postRepo, security.NewBcryptHasher(cfg.BcryptCost), authSvc, storage, logger)
	feedSvc := feedapp.NewFeedService(postRepo, userRepo, likeRepo, commentRepo, logger)
	postSvc := postapp.NewPostService(postRepo, commentRepo, likeRepo, feedSvc, storage, postapp.UploadPolicy{
		AllowedExt: cfg.AllowedUploadExt,
		MaxBytes:   cfg.MaxUploadBytes,
	}, logger)

	// left as a nil interface when RATE_LIMIT_PER_MINUTE is 0
	var limiter ratelimit.Limiter
	switch {
	case cfg.RateLimitPerMinute <= 0:
		logger.Info("Rate limiting disabled")
	case redisClient != nil:
		limiter = redisadapter.NewRateLimiterRedis(redisClient, cfg.RateLimitPerMinute, time.Minute)
	default:
		local := memory.NewRateLimiterMemory(cfg.RateLimitPerMinute, time.Minute)
		local.StartPruning(ctx, 10*time.Minute, 10*time.Minute)
		limiter = local
		logger.Info("Using in-process rate limiter")
	}

	r := httpapi.SetupRoutes(authSvc, userSvc, feedSvc, postSvc, httpapi.Options{
		UploadDir:      cfg.UploadDir,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Limiter:        limiter,
		TrustedProxies: cfg.TrustedProxies,
		Logger:         logger,
	})

	handler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(r)

	if cfg.UploadSweepInterval > 0 {
		sweeper := workers.NewUploadSweeper(storage, postRepo, cfg.UploadSweepInterval, cfg.UploadSweepGrace, 100, logger)
		go sweeper.Run(ctx)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("App is running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

// closeResources closes the Redis and database connections.
func closeResources(logger *zap.Logger, db *gorm.DB, redisClient *redis.Client) {
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Error closing Redis connection", zap.Error(err))
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Error getting raw DB", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Error closing database connection", zap.Error(err))
	}
}
