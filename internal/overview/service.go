package overview

import (
	"context"
	"encoding/json"

	"github.com/nextdash/dashboard-backend/internal/cache"
	"github.com/nextdash/dashboard-backend/internal/logging"
	"github.com/nextdash/dashboard-backend/internal/metrics"
)

const variant = "summary"

type Store interface {
	Cards(ctx context.Context) (Cards, error)
	Revenue(ctx context.Context) ([]Revenue, error)
	LatestInvoices(ctx context.Context) ([]LatestInvoice, error)
}

type Service struct {
	repo    Store
	views   cache.ViewCache
	metrics *metrics.Recorder
}

// NewService wires the store and view cache. A nil views disables caching.
func NewService(repo Store, views cache.ViewCache, rec *metrics.Recorder) *Service {
	if views == nil {
		views = cache.Noop{}
	}
	return &Service{repo: repo, views: views, metrics: rec}
}

// Get returns the landing page data, from the view cache when the last
// invoice mutation has not invalidated it.
func (s *Service) Get(ctx context.Context) (*Overview, error) {
	log := logging.New(ctx)

	body, slot, err := s.views.Lookup(ctx, Path, variant)
	if err != nil {
		log.Warnf("get_overview", "view cache lookup error=%v", err)
	}
	if body != nil {
		var cached Overview
		if err := json.Unmarshal(body, &cached); err == nil {
			s.metrics.CacheLookup(Path, true)
			return &cached, nil
		}
	}
	s.metrics.CacheLookup(Path, false)

	cards, err := s.repo.Cards(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.repo.Revenue(ctx)
	if err != nil {
		return nil, err
	}
	latest, err := s.repo.LatestInvoices(ctx)
	if err != nil {
		return nil, err
	}

	out := &Overview{Cards: cards, Revenue: revenue, LatestInvoices: latest}
	if encoded, err := json.Marshal(out); err == nil {
		if err := s.views.Store(ctx, slot, encoded); err != nil {
			log.Warnf("get_overview", "view cache store error=%v", err)
		}
	}
	return out, nil
}
