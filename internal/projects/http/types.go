package http

import (
	"context"
	"net/url"

	"github.com/nextdash/dashboard-backend/internal/action"
	"github.com/nextdash/dashboard-backend/internal/projects/domain"
)

// Service is the project mutation handler the routes delegate to.
type Service interface {
	Create(ctx context.Context, form url.Values) action.Result
	Update(ctx context.Context, id string, form url.Values) action.Result
	Get(ctx context.Context, id string) (*domain.ProjectDetail, error)
	List(ctx context.Context, query string, page int) (*domain.ProjectPage, error)
}

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	svc Service
}

func New(svc Service) *Handler {
	return &Handler{svc: svc}
}
