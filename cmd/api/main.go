package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/nextdash/dashboard-backend/config"
	"github.com/nextdash/dashboard-backend/internal/api/http/middleware"
	"github.com/nextdash/dashboard-backend/internal/auth"
	authmw "github.com/nextdash/dashboard-backend/internal/auth/middleware"
	"github.com/nextdash/dashboard-backend/internal/bootstrap"
	"github.com/nextdash/dashboard-backend/internal/cache"
	"github.com/nextdash/dashboard-backend/internal/imagehost"
	"github.com/nextdash/dashboard-backend/internal/logging"
	"github.com/nextdash/dashboard-backend/internal/metrics"
	"github.com/nextdash/dashboard-backend/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logging.SetLevel(cfg.App.LogLevel)
	bootstrap.SetGinMode(cfg.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{
		DSN:      postgres.DSN(&cfg.Database),
		MaxConns: int32(cfg.Database.MaxConns),
	})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	db := bootstrap.SQLDB(pool)
	defer db.Close()

	deps := bootstrap.RouterDeps{
		ServiceName:   cfg.App.ServiceName,
		Version:       cfg.App.Version,
		CORSOrigins:   cfg.Server.CORSOrigins,
		DB:            db,
		DBHealth:      pool,
		Metrics:       metrics.New(),
		Limiter:       middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		ImageMaxBytes: cfg.Images.MaxBytes,
	}

	if cfg.Redis.Enabled() {
		rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer rdb.Close()

		deps.Views = cache.NewRedisCache(rdb, cfg.Redis.ViewTTL)
		deps.CacheHealth = bootstrap.RedisPinger{Client: rdb}
		log.Printf("view cache: redis at %s (ttl %s)", cfg.Redis.Addr, cfg.Redis.ViewTTL)
	} else {
		log.Println("view cache: disabled (REDIS_ADDR not set)")
	}

	deps.Auth, err = authMiddleware(ctx, cfg)
	if err != nil {
		log.Fatalf("auth: %v", err)
	}

	if cfg.Images.Enabled() {
		s3c, err := imagehost.NewS3Client(ctx, cfg.Images)
		if err != nil {
			log.Fatalf("image host: %v", err)
		}
		deps.Images = imagehost.NewHost(s3c, cfg.Images.Bucket, cfg.Images.PublicURL)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: bootstrap.BuildRouter(deps),
	}

	go func() {
		log.Printf("%s %s listening on :%s", cfg.App.ServiceName, cfg.App.Version, cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func authMiddleware(ctx context.Context, cfg *config.Config) (gin.HandlerFunc, error) {
	if cfg.Auth.Mode != config.AuthModeFirebase {
		if cfg.IsProduction() {
			log.Println("WARNING: AUTH_MODE=header trusts X-User-Id; use firebase in production")
		}
		return authmw.HeaderIdentity(), nil
	}

	client, err := auth.NewFirebaseVerifier(ctx, &cfg.Auth)
	if err != nil {
		return nil, err
	}
	return authmw.FirebaseAuthMiddleware(client), nil
}
