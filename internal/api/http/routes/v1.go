package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"github.com/nextdash/dashboard-backend/internal/cache"
	"github.com/nextdash/dashboard-backend/internal/customers"
	"github.com/nextdash/dashboard-backend/internal/imagehost"
	invoicehttp "github.com/nextdash/dashboard-backend/internal/invoices/http"
	invoicerepo "github.com/nextdash/dashboard-backend/internal/invoices/repository"
	invoicesvc "github.com/nextdash/dashboard-backend/internal/invoices/service"
	"github.com/nextdash/dashboard-backend/internal/metrics"
	"github.com/nextdash/dashboard-backend/internal/overview"
	projecthttp "github.com/nextdash/dashboard-backend/internal/projects/http"
	projectrepo "github.com/nextdash/dashboard-backend/internal/projects/repository"
	projectsvc "github.com/nextdash/dashboard-backend/internal/projects/service"
)

type V1Deps struct {
	DB      *sql.DB
	Views   cache.ViewCache
	Metrics *metrics.Recorder
	// Auth guards every /api/v1 route.
	Auth gin.HandlerFunc
	// Mutate runs ahead of every write route.
	Mutate gin.HandlerFunc
	// Images is nil when no bucket is configured; /uploads is then not mounted.
	Images        imagehost.Uploader
	ImageMaxBytes int64
}

func RegisterV1(r *gin.Engine, dep V1Deps) {
	api := r.Group("/api/v1")
	if dep.Auth != nil {
		api.Use(dep.Auth)
	}

	var mutate []gin.HandlerFunc
	if dep.Mutate != nil {
		mutate = append(mutate, dep.Mutate)
	}

	customers.NewHandler(customers.NewRepo(dep.DB)).Register(api.Group("/customers"))

	dash := overview.NewService(overview.NewRepo(dep.DB), dep.Views, dep.Metrics)
	overview.NewHandler(dash).Register(api.Group("/overview"))

	projects := projectsvc.NewProjectService(projectrepo.NewProjectRepository(dep.DB), dep.Views, dep.Metrics)
	projecthttp.New(projects).Register(api.Group("/projects"), mutate...)

	invoices := invoicesvc.NewInvoiceService(invoicerepo.NewInvoiceRepository(dep.DB), dep.Views, dep.Metrics)
	invoicehttp.New(invoices).Register(api.Group("/invoices"), mutate...)

	if dep.Images != nil {
		imagehost.NewHandler(dep.Images, dep.ImageMaxBytes).Register(api.Group("/uploads"), mutate...)
	}
}
