package bootstrap

import (
	"database/sql"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/nextdash/dashboard-backend/internal/api/http"
	"github.com/nextdash/dashboard-backend/internal/api/http/middleware"
	"github.com/nextdash/dashboard-backend/internal/api/http/routes"
	"github.com/nextdash/dashboard-backend/internal/cache"
	"github.com/nextdash/dashboard-backend/internal/imagehost"
	"github.com/nextdash/dashboard-backend/internal/metrics"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	CORSOrigins []string

	DB       *sql.DB
	DBHealth httpapi.Pinger
	// CacheHealth is nil when redis is not configured.
	CacheHealth httpapi.Pinger
	Views       cache.ViewCache
	Metrics     *metrics.Recorder

	Auth    gin.HandlerFunc
	Limiter *middleware.RateLimiter

	Images        imagehost.Uploader
	ImageMaxBytes int64
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(dep.Metrics.Middleware())
	r.Use(cors.New(corsConfig(dep.CORSOrigins)))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DBHealth, dep.CacheHealth)
	healthHandler.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(dep.Metrics.Handler()))

	var mutate gin.HandlerFunc
	if dep.Limiter != nil {
		mutate = dep.Limiter.Middleware()
	}

	routes.RegisterV1(r, routes.V1Deps{
		DB:            dep.DB,
		Views:         dep.Views,
		Metrics:       dep.Metrics,
		Auth:          dep.Auth,
		Mutate:        mutate,
		Images:        dep.Images,
		ImageMaxBytes: dep.ImageMaxBytes,
	})

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{middleware.HeaderRequestID, "Location"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowOrigins = nil
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	}
	return cfg
}
