package overview

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Cards computes the summary figures in a single round trip.
func (r *Repo) Cards(ctx context.Context) (Cards, error) {
	const q = `
SELECT
    (SELECT COUNT(*) FROM invoices),
    (SELECT COUNT(*) FROM customers),
    COALESCE(SUM(CASE WHEN status = 'paid' THEN amount ELSE 0 END), 0),
    COALESCE(SUM(CASE WHEN status = 'pending' THEN amount ELSE 0 END), 0)
FROM invoices;
`
	var c Cards
	err := r.db.QueryRowContext(ctx, q).Scan(
		&c.NumberOfInvoices,
		&c.NumberOfCustomers,
		&c.TotalPaidInvoices,
		&c.TotalPendingInvoices,
	)
	if err != nil {
		return Cards{}, fmt.Errorf("card data: %w", err)
	}
	return c, nil
}

// Revenue returns the stored months in calendar order.
func (r *Repo) Revenue(ctx context.Context) ([]Revenue, error) {
	const q = `
SELECT month, revenue
FROM revenue
ORDER BY array_position($1::text[], month::text);
`
	rows, err := r.db.QueryContext(ctx, q, pq.Array(Months))
	if err != nil {
		return nil, fmt.Errorf("revenue: %w", err)
	}
	defer rows.Close()

	out := make([]Revenue, 0, len(Months))
	for rows.Next() {
		var m Revenue
		if err := rows.Scan(&m.Month, &m.Revenue); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// LatestInvoices returns the newest invoices by date.
func (r *Repo) LatestInvoices(ctx context.Context) ([]LatestInvoice, error) {
	const q = `
SELECT invoices.id, invoices.amount, customers.name, customers.email, COALESCE(customers.image_url, '')
FROM invoices
JOIN customers ON invoices.customer_id = customers.id
ORDER BY invoices.date DESC
LIMIT $1;
`
	rows, err := r.db.QueryContext(ctx, q, LatestLimit)
	if err != nil {
		return nil, fmt.Errorf("latest invoices: %w", err)
	}
	defer rows.Close()

	out := make([]LatestInvoice, 0, LatestLimit)
	for rows.Next() {
		var inv LatestInvoice
		if err := rows.Scan(&inv.ID, &inv.Amount, &inv.Name, &inv.Email, &inv.ImageURL); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}
