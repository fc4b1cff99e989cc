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
	"github.com/nextdash/dashboard-backend/internal/invoices/domain"
	"github.com/nextdash/dashboard-backend/internal/logging"
	"github.com/nextdash/dashboard-backend/internal/metrics"
	"github.com/nextdash/dashboard-backend/internal/overview"
	"github.com/nextdash/dashboard-backend/internal/validation"
)

const ListingPath = "/dashboard/invoices"

const (
	MsgSelectCustomer = "Please select a customer."
	MsgAmount         = "Please enter an amount greater than $0."
	MsgStatus         = "Please select an invoice status."

	MsgCreateInvalid = "Missing Fields. Failed to Create Invoice."
	MsgUpdateInvalid = "Missing Fields. Failed to Update Invoice."
	MsgCreateFailed  = "Database Error: Failed to Create Invoice."
	MsgUpdateFailed  = "Database Error: Failed to Update Invoice."
	MsgDeleteFailed  = "Database Error: Failed to Delete Invoice."
	MsgNotFound      = "Invoice not found."
)

var invoiceSchema = validation.New(
	validation.Field{Name: "customerId", Rules: []validation.Rule{validation.NonBlank(MsgSelectCustomer)}},
	validation.Field{Name: "amount", Rules: []validation.Rule{validation.PositiveAmount(MsgAmount)}},
	validation.Field{Name: "status", Rules: []validation.Rule{validation.OneOf(MsgStatus, domain.StatusPending, domain.StatusPaid)}},
)

type InvoiceStore interface {
	Create(ctx context.Context, f domain.InvoiceFields, date string) (string, error)
	Update(ctx context.Context, id string, f domain.InvoiceFields) error
	Delete(ctx context.Context, id string) error
	ListFiltered(ctx context.Context, query string, page int) ([]domain.InvoiceListItem, error)
	CountPages(ctx context.Context, query string) (int, error)
}

// InvoiceService runs the invoice form mutations.
type InvoiceService struct {
	repo    InvoiceStore
	views   cache.ViewCache
	metrics *metrics.Recorder
	now     func() time.Time
}

// Option configures an InvoiceService.
type Option func(*InvoiceService)

// WithClock overrides the clock used for the invoice date.
func WithClock(now func() time.Time) Option {
	return func(s *InvoiceService) { s.now = now }
}

// NewInvoiceService wires the store and view cache. A nil views disables
// caching.
func NewInvoiceService(repo InvoiceStore, views cache.ViewCache, rec *metrics.Recorder, opts ...Option) *InvoiceService {
	if views == nil {
		views = cache.Noop{}
	}
	s := &InvoiceService{repo: repo, views: views, metrics: rec, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *InvoiceService) Create(ctx context.Context, form url.Values) action.Result {
	res := s.create(ctx, form)
	s.metrics.Mutation("invoice", "create", res.Kind.String())
	return res
}

func (s *InvoiceService) create(ctx context.Context, form url.Values) action.Result {
	f, errs := parseInvoice(form)
	if errs != nil {
		return action.Invalid(errs, MsgCreateInvalid)
	}

	date := domain.Today(s.now()).Format(domain.DateLayout)
	id, err := s.repo.Create(ctx, f, date)
	if err != nil {
		logging.New(ctx).Error("create_invoice", err)
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return action.Invalid(validation.FieldErrors{"customerId": {MsgSelectCustomer}}, MsgCreateFailed)
		}
		return action.Failed(MsgCreateFailed)
	}

	logging.New(ctx).Infof("create_invoice", "invoice_id=%s amount=%d", id, f.AmountCents)
	s.invalidate(ctx, "create_invoice")
	return action.Redirect(ListingPath)
}

func (s *InvoiceService) Update(ctx context.Context, id string, form url.Values) action.Result {
	res := s.update(ctx, id, form)
	s.metrics.Mutation("invoice", "update", res.Kind.String())
	return res
}

func (s *InvoiceService) update(ctx context.Context, id string, form url.Values) action.Result {
	f, errs := parseInvoice(form)
	if errs != nil {
		return action.Invalid(errs, MsgUpdateInvalid)
	}
	if _, err := uuid.Parse(id); err != nil {
		return action.NotFound(MsgNotFound)
	}

	if err := s.repo.Update(ctx, id, f); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return action.NotFound(MsgNotFound)
		case errors.Is(err, domain.ErrCustomerNotFound):
			logging.New(ctx).Error("update_invoice", err)
			return action.Invalid(validation.FieldErrors{"customerId": {MsgSelectCustomer}}, MsgUpdateFailed)
		default:
			logging.New(ctx).Error("update_invoice", err)
			return action.Failed(MsgUpdateFailed)
		}
	}

	s.invalidate(ctx, "update_invoice")
	return action.Redirect(ListingPath)
}

// Delete removes the invoice and invalidates the listing. The caller stays
// on the current page.
func (s *InvoiceService) Delete(ctx context.Context, id string) action.Result {
	res := s.delete(ctx, id)
	s.metrics.Mutation("invoice", "delete", res.Kind.String())
	return res
}

func (s *InvoiceService) delete(ctx context.Context, id string) action.Result {
	if _, err := uuid.Parse(id); err != nil {
		return action.NotFound(MsgNotFound)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return action.NotFound(MsgNotFound)
		}
		logging.New(ctx).Error("delete_invoice", err)
		return action.Failed(MsgDeleteFailed)
	}

	s.invalidate(ctx, "delete_invoice")
	return action.Done()
}

func (s *InvoiceService) List(ctx context.Context, query string, page int) (*domain.InvoicePage, error) {
	log := logging.New(ctx)
	if page < 1 {
		page = 1
	}
	query = strings.TrimSpace(query)
	variant := url.Values{"query": {query}, "page": {strconv.Itoa(page)}}.Encode()

	body, slot, err := s.views.Lookup(ctx, ListingPath, variant)
	if err != nil {
		log.Warnf("list_invoices", "view cache lookup error=%v", err)
	}
	if body != nil {
		var cached domain.InvoicePage
		if err := json.Unmarshal(body, &cached); err == nil {
			s.metrics.CacheLookup(ListingPath, true)
			return &cached, nil
		}
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

	out := &domain.InvoicePage{Invoices: items, Page: page, TotalPages: pages}
	if encoded, err := json.Marshal(out); err == nil {
		if err := s.views.Store(ctx, slot, encoded); err != nil {
			log.Warnf("list_invoices", "view cache store error=%v", err)
		}
	}
	return out, nil
}

// invalidate drops the listing and the landing page, whose cards and latest
// invoices are computed from the same rows.
func (s *InvoiceService) invalidate(ctx context.Context, op string) {
	for _, path := range []string{ListingPath, overview.Path} {
		if err := s.views.InvalidatePath(ctx, path); err != nil {
			logging.New(ctx).Warnf(op, "invalidate path=%s error=%v", path, err)
		}
	}
}

func parseInvoice(form url.Values) (domain.InvoiceFields, validation.FieldErrors) {
	rec, errs := invoiceSchema.Validate(form)
	if errs != nil {
		return domain.InvoiceFields{}, errs
	}
	cents, err := domain.ToCents(rec["amount"])
	if err != nil || cents <= 0 {
		return domain.InvoiceFields{}, validation.FieldErrors{"amount": {MsgAmount}}
	}
	return domain.InvoiceFields{
		CustomerID:  rec["customerId"],
		AmountCents: cents,
		Status:      rec["status"],
	}, nil
}
