package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nextdash/dashboard-backend/internal/action"
	"github.com/nextdash/dashboard-backend/internal/cache"
	"github.com/nextdash/dashboard-backend/internal/logging"
	"github.com/nextdash/dashboard-backend/internal/metrics"
	"github.com/nextdash/dashboard-backend/internal/projects/domain"
	"github.com/nextdash/dashboard-backend/internal/validation"
)

// ListingPath is the project listing route; it is invalidated and navigated
// to after every successful project mutation.
const ListingPath = "/dashboard/projects"

const (
	MsgSelectCustomer = "Please select a customer."
	MsgEnterTitle     = "Please enter a project title."
	MsgEnterDesc      = "Please enter a project description."

	MsgCreateInvalid = "Missing Fields. Failed to Create Project."
	MsgUpdateInvalid = "Missing Fields. Failed to Update Project."
	MsgCreateFailed  = "Database Error: Failed to Create Project."
	MsgUpdateFailed  = "Database Error: Failed to Update Project."
	MsgNotFound      = "Project not found."
)

var createSchema = validation.New(
	validation.Field{Name: "customerId", Rules: []validation.Rule{validation.NonBlank(MsgSelectCustomer)}},
	validation.Field{Name: "title", Rules: []validation.Rule{validation.NonBlank(MsgEnterTitle)}},
	validation.Field{Name: "description", Rules: []validation.Rule{validation.Required(MsgEnterDesc)}},
)

// The edit form posts the customer as customer_id; errors are still reported under customerId.
var updateSchema = validation.New(
	validation.Field{Name: "customerId", Source: "customer_id", Rules: []validation.Rule{validation.NonBlank(MsgSelectCustomer)}},
	validation.Field{Name: "title", Rules: []validation.Rule{validation.NonBlank(MsgEnterTitle)}},
	validation.Field{Name: "description", Rules: []validation.Rule{validation.Required(MsgEnterDesc)}},
)

// ProjectStore is the persistence gateway the service writes through.
type ProjectStore interface {
	Create(ctx context.Context, in domain.NewProject) (string, error)
	Update(ctx context.Context, id string, f domain.ProjectFields, stamp string) error
	GetByID(ctx context.Context, id string) (*domain.ProjectDetail, error)
	ListFiltered(ctx context.Context, query string, page int) ([]domain.ProjectListItem, error)
	CountPages(ctx context.Context, query string) (int, error)
}

// ProjectService handles project-related business logic
type ProjectService struct {
	repo    ProjectStore
	views   cache.ViewCache
	metrics *metrics.Recorder
	now     func() time.Time
}

type Option func(*ProjectService)

// WithClock overrides the clock used for date stamps.
func WithClock(now func() time.Time) Option {
	return func(s *ProjectService) { s.now = now }
}

// NewProjectService creates a new project service
func NewProjectService(repo ProjectStore, views cache.ViewCache, rec *metrics.Recorder, opts ...Option) *ProjectService {
	if views == nil {
		views = cache.Noop{}
	}
	s := &ProjectService{
		repo:    repo,
		views:   views,
		metrics: rec,
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Create validates the form, writes the project with its images and, on
// success, invalidates the listing and redirects to it.
func (s *ProjectService) Create(ctx context.Context, form url.Values) action.Result {
	res := s.create(ctx, form)
	s.metrics.Mutation("project", "create", res.Kind.String())
	return res
}

func (s *ProjectService) create(ctx context.Context, form url.Values) action.Result {
	log := logging.New(ctx)

	rec, errs := createSchema.Validate(form)
	if errs != nil {
		return action.Invalid(errs, MsgCreateInvalid)
	}

	in := domain.NewProject{
		ProjectFields: fieldsFrom(rec),
		Stamp:         domain.Today(s.now()),
		ImageURLs:     imageURLs(form["images"]),
	}

	id, err := s.repo.Create(ctx, in)
	if err != nil {
		log.Error("create_project", err)
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return action.Invalid(validation.FieldErrors{"customerId": {MsgSelectCustomer}}, MsgCreateFailed)
		}
		return action.Failed(MsgCreateFailed)
	}

	log.Infof("create_project", "project_id=%s images=%d", id, len(in.ImageURLs))
	return s.invalidateAndRedirect(ctx, "create_project")
}

// Update validates the edit form and rewrites the project's editable fields.
// Images are not editable.
func (s *ProjectService) Update(ctx context.Context, id string, form url.Values) action.Result {
	res := s.update(ctx, id, form)
	s.metrics.Mutation("project", "update", res.Kind.String())
	return res
}

func (s *ProjectService) update(ctx context.Context, id string, form url.Values) action.Result {
	log := logging.New(ctx)

	rec, errs := updateSchema.Validate(form)
	if errs != nil {
		return action.Invalid(errs, MsgUpdateInvalid)
	}

	if !validID(id) {
		return action.NotFound(MsgNotFound)
	}

	stamp := domain.Today(s.now()).Format(domain.DateLayout)
	if err := s.repo.Update(ctx, id, fieldsFrom(rec), stamp); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return action.NotFound(MsgNotFound)
		case errors.Is(err, domain.ErrCustomerNotFound):
			log.Error("update_project", err)
			return action.Invalid(validation.FieldErrors{"customerId": {MsgSelectCustomer}}, MsgUpdateFailed)
		default:
			log.Error("update_project", err)
			return action.Failed(MsgUpdateFailed)
		}
	}

	log.Infof("update_project", "project_id=%s", id)
	return s.invalidateAndRedirect(ctx, "update_project")
}

// Get returns the edit-screen view of a project or domain.ErrNotFound.
func (s *ProjectService) Get(ctx context.Context, id string) (*domain.ProjectDetail, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// List returns one listing page, served from the view cache when possible.
func (s *ProjectService) List(ctx context.Context, query string, page int) (*domain.ProjectPage, error) {
	log := logging.New(ctx)
	if page < 1 {
		page = 1
	}
	query = strings.TrimSpace(query)
	variant := url.Values{"query": {query}, "page": {strconv.Itoa(page)}}.Encode()

	body, slot, err := s.views.Lookup(ctx, ListingPath, variant)
	if err != nil {
		log.Warnf("list_projects", "view cache lookup error=%v", err)
	}
	if body != nil {
		var cached domain.ProjectPage
		if err := json.Unmarshal(body, &cached); err == nil {
			s.metrics.CacheLookup(ListingPath, true)
			return &cached, nil
		}
		log.Warn("list_projects", "discarding unreadable cached view")
	}
	s.metrics.CacheLookup(ListingPath, false)

	items, err := s.repo.ListFiltered(ctx, query, page)
	if err != nil {
		return nil, err
	}
	pages, err := s.repo.CountPages(ctx, query)
	if err != nil {
		return nil, err
	}

	out := &domain.ProjectPage{Projects: items, Page: page, TotalPages: pages}
	if encoded, err := json.Marshal(out); err == nil {
		if err := s.views.Store(ctx, slot, encoded); err != nil {
			log.Warnf("list_projects", "view cache store error=%v", err)
		}
	}
	return out, nil
}

// invalidateAndRedirect runs after a committed write. A cache failure is
// logged but does not undo the navigation; entries age out by TTL.
func (s *ProjectService) invalidateAndRedirect(ctx context.Context, op string) action.Result {
	if err := s.views.InvalidatePath(ctx, ListingPath); err != nil {
		logging.New(ctx).Warnf(op, "invalidate path=%s error=%v", ListingPath, err)
	}
	return action.Redirect(ListingPath)
}

func fieldsFrom(rec validation.Record) domain.ProjectFields {
	return domain.ProjectFields{
		CustomerID:  rec["customerId"],
		Title:       rec["title"],
		Description: rec["description"],
	}
}

// imageURLs keeps submission order and drops blank entries.
func imageURLs(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, u := range raw {
		if strings.TrimSpace(u) == "" {
			continue
		}
		out = append(out, u)
	}
	return out
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
