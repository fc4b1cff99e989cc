package service

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextdash/dashboard-backend/internal/action"
	"github.com/nextdash/dashboard-backend/internal/cache"
	"github.com/nextdash/dashboard-backend/internal/invoices/domain"
	"github.com/nextdash/dashboard-backend/internal/invoices/repository"
	"github.com/nextdash/dashboard-backend/internal/metrics"
	"github.com/nextdash/dashboard-backend/internal/overview"
)

const (
	customerC1 = "3958dc9e-712f-4377-85e9-fec4b6a6442a"
	invoiceI1  = "cc27c14a-0acf-4f4a-a6c9-d45682c144b9"
)

type createCall struct {
	fields domain.InvoiceFields
	date   string
}

type fakeStore struct {
	created   []createCall
	updated   map[string]domain.InvoiceFields
	deleted   []string
	createErr error
	updateErr error
	deleteErr error
	listCalls int
}

func (f *fakeStore) Create(_ context.Context, in domain.InvoiceFields, date string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, createCall{in, date})
	return invoiceI1, nil
}

func (f *fakeStore) Update(_ context.Context, id string, in domain.InvoiceFields) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.updated == nil {
		f.updated = map[string]domain.InvoiceFields{}
	}
	f.updated[id] = in
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) ListFiltered(context.Context, string, int) ([]domain.InvoiceListItem, error) {
	f.listCalls++
	return []domain.InvoiceListItem{{ID: invoiceI1, Amount: 1234, Status: domain.StatusPaid}}, nil
}

func (f *fakeStore) CountPages(context.Context, string) (int, error) { return 1, nil }

func setupService(t *testing.T) (*InvoiceService, *fakeStore, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	store := &fakeStore{}
	now := func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) }
	svc := NewInvoiceService(store, cache.NewRedisCache(client, time.Minute), metrics.New(), WithClock(now))
	return svc, store, mr
}

func invoiceForm() url.Values {
	return url.Values{"customerId": {customerC1}, "amount": {"12.34"}, "status": {"pending"}}
}

func TestInvoiceService_Create(t *testing.T) {
	svc, store, mr := setupService(t)

	res := svc.Create(context.Background(), invoiceForm())

	require.Equal(t, action.KindRedirect, res.Kind)
	assert.Equal(t, ListingPath, res.Redirect)
	require.Len(t, store.created, 1)
	assert.Equal(t, domain.InvoiceFields{CustomerID: customerC1, AmountCents: 1234, Status: "pending"}, store.created[0].fields)
	assert.Equal(t, "2025-06-01", store.created[0].date)
	assert.True(t, mr.Exists("view:gen:"+ListingPath))
	assert.True(t, mr.Exists("view:gen:"+overview.Path))
}

func TestInvoiceService_Create_Validation(t *testing.T) {
	svc, store, _ := setupService(t)

	res := svc.Create(context.Background(), url.Values{"amount": {"0"}, "status": {"overdue"}})

	require.Equal(t, action.KindInvalid, res.Kind)
	assert.Equal(t, MsgCreateInvalid, res.State.Message)
	assert.Equal(t, []string{MsgSelectCustomer}, res.State.Errors["customerId"])
	assert.Equal(t, []string{MsgAmount}, res.State.Errors["amount"])
	assert.Equal(t, []string{MsgStatus}, res.State.Errors["status"])
	assert.Empty(t, store.created)

	form := invoiceForm()
	form.Set("amount", "0.001")
	res = svc.Create(context.Background(), form)
	require.Equal(t, action.KindInvalid, res.Kind)
	assert.Equal(t, []string{MsgAmount}, res.State.Errors["amount"])
}

func TestInvoiceService_Create_StoreErrors(t *testing.T) {
	t.Run("unknown customer", func(t *testing.T) {
		svc, store, _ := setupService(t)
		store.createErr = domain.ErrCustomerNotFound

		res := svc.Create(context.Background(), invoiceForm())
		require.Equal(t, action.KindInvalid, res.Kind)
		assert.Equal(t, MsgCreateFailed, res.State.Message)
		assert.Equal(t, []string{MsgSelectCustomer}, res.State.Errors["customerId"])
	})

	t.Run("generic failure", func(t *testing.T) {
		svc, store, mr := setupService(t)
		store.createErr = errors.New("password authentication failed for user dash")

		res := svc.Create(context.Background(), invoiceForm())
		require.Equal(t, action.KindFailed, res.Kind)
		assert.Equal(t, MsgCreateFailed, res.State.Message)
		assert.Empty(t, res.Redirect)
		assert.False(t, mr.Exists("view:gen:"+ListingPath))
		assert.False(t, mr.Exists("view:gen:"+overview.Path))
	})
}

func TestInvoiceService_Update(t *testing.T) {
	t.Run("persists", func(t *testing.T) {
		svc, store, _ := setupService(t)
		form := invoiceForm()
		form.Set("status", "paid")

		res := svc.Update(context.Background(), invoiceI1, form)
		require.Equal(t, action.KindRedirect, res.Kind)
		assert.Equal(t, "paid", store.updated[invoiceI1].Status)
	})

	t.Run("invalid", func(t *testing.T) {
		svc, _, _ := setupService(t)
		form := invoiceForm()
		form.Del("status")

		res := svc.Update(context.Background(), invoiceI1, form)
		require.Equal(t, action.KindInvalid, res.Kind)
		assert.Equal(t, MsgUpdateInvalid, res.State.Message)
	})

	t.Run("not found", func(t *testing.T) {
		svc, store, _ := setupService(t)
		store.updateErr = domain.ErrNotFound
		assert.Equal(t, action.KindNotFound, svc.Update(context.Background(), invoiceI1, invoiceForm()).Kind)
		assert.Equal(t, action.KindNotFound, svc.Update(context.Background(), "42", invoiceForm()).Kind)
	})

	t.Run("unknown customer", func(t *testing.T) {
		svc, store, mr := setupService(t)
		store.updateErr = domain.ErrCustomerNotFound

		res := svc.Update(context.Background(), invoiceI1, invoiceForm())
		require.Equal(t, action.KindInvalid, res.Kind)
		assert.Equal(t, MsgUpdateFailed, res.State.Message)
		assert.Equal(t, []string{MsgSelectCustomer}, res.State.Errors["customerId"])
		assert.False(t, mr.Exists("view:gen:"+ListingPath))
	})

	t.Run("store failure", func(t *testing.T) {
		svc, store, _ := setupService(t)
		store.updateErr = errors.New("timeout")
		res := svc.Update(context.Background(), invoiceI1, invoiceForm())
		require.Equal(t, action.KindFailed, res.Kind)
		assert.Equal(t, MsgUpdateFailed, res.State.Message)
	})
}

func TestInvoiceService_Update_MalformedCustomerID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewInvoiceService(repository.NewInvoiceRepository(db), nil, metrics.New())

	mock.ExpectExec(`UPDATE invoices`).
		WithArgs(invoiceI1, "c1", int64(1234), "pending").
		WillReturnError(&pq.Error{Code: "22P02", Message: `invalid input syntax for type uuid: "c1"`})

	form := invoiceForm()
	form.Set("customerId", "c1")
	res := svc.Update(context.Background(), invoiceI1, form)

	require.Equal(t, action.KindInvalid, res.Kind)
	assert.Equal(t, MsgUpdateFailed, res.State.Message)
	assert.Equal(t, []string{MsgSelectCustomer}, res.State.Errors["customerId"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceService_Delete(t *testing.T) {
	svc, store, mr := setupService(t)

	res := svc.Delete(context.Background(), invoiceI1)
	assert.Equal(t, action.KindDone, res.Kind)
	assert.Empty(t, res.Redirect)
	assert.Equal(t, []string{invoiceI1}, store.deleted)
	assert.True(t, mr.Exists("view:gen:"+ListingPath))

	store.deleteErr = domain.ErrNotFound
	assert.Equal(t, action.KindNotFound, svc.Delete(context.Background(), invoiceI1).Kind)

	store.deleteErr = errors.New("boom")
	res = svc.Delete(context.Background(), invoiceI1)
	assert.Equal(t, action.KindFailed, res.Kind)
	assert.Equal(t, MsgDeleteFailed, res.State.Message)
}

func TestInvoiceService_List_Cached(t *testing.T) {
	svc, store, _ := setupService(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		page, err := svc.List(ctx, "", 1)
		require.NoError(t, err)
		require.Len(t, page.Invoices, 1)
	}
	assert.Equal(t, 1, store.listCalls)

	require.Equal(t, action.KindDone, svc.Delete(ctx, invoiceI1).Kind)
	_, err := svc.List(ctx, "", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, store.listCalls)
}

func TestInvoiceService_MutationsRefreshOverview(t *testing.T) {
	svc, _, mr := setupService(t)
	ctx := context.Background()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	views := cache.NewRedisCache(client, time.Minute)

	counts := &countingOverviewStore{}
	dash := overview.NewService(counts, views, metrics.New())

	_, err := dash.Get(ctx)
	require.NoError(t, err)
	_, err = dash.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, counts.calls)

	require.Equal(t, action.KindRedirect, svc.Update(ctx, invoiceI1, invoiceForm()).Kind)
	_, err = dash.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts.calls)

	require.Equal(t, action.KindDone, svc.Delete(ctx, invoiceI1).Kind)
	_, err = dash.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, counts.calls)
}

type countingOverviewStore struct {
	calls int
}

func (c *countingOverviewStore) Cards(context.Context) (overview.Cards, error) {
	c.calls++
	return overview.Cards{NumberOfInvoices: c.calls}, nil
}

func (c *countingOverviewStore) Revenue(context.Context) ([]overview.Revenue, error) {
	return []overview.Revenue{}, nil
}

func (c *countingOverviewStore) LatestInvoices(context.Context) ([]overview.LatestInvoice, error) {
	return []overview.LatestInvoice{}, nil
}
