package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/nextdash/dashboard-backend/internal/invoices/domain"
	"github.com/nextdash/dashboard-backend/internal/storage/postgres"
)

type InvoiceRepository struct {
	db *sql.DB
}

func NewInvoiceRepository(db *sql.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Create inserts an invoice dated date (YYYY-MM-DD) and returns its id.
func (r *InvoiceRepository) Create(ctx context.Context, f domain.InvoiceFields, date string) (string, error) {
	const q = `
INSERT INTO invoices (customer_id, amount, status, date)
VALUES ($1, $2, $3, $4)
RETURNING id;
`
	var id string
	if err := r.db.QueryRowContext(ctx, q, f.CustomerID, f.AmountCents, f.Status, date).Scan(&id); err != nil {
		if postgres.IsForeignKeyViolation(err) || postgres.IsInvalidInput(err) {
			return "", fmt.Errorf("insert invoice: %w: %v", domain.ErrCustomerNotFound, err)
		}
		return "", fmt.Errorf("insert invoice: %w", err)
	}
	return id, nil
}

// Update rewrites customer, amount and status. The invoice date is kept.
func (r *InvoiceRepository) Update(ctx context.Context, id string, f domain.InvoiceFields) error {
	const q = `
UPDATE invoices
SET customer_id = $2, amount = $3, status = $4
WHERE id = $1;
`
	result, err := r.db.ExecContext(ctx, q, id, f.CustomerID, f.AmountCents, f.Status)
	if err != nil {
		// id is a parsed uuid by now, so a rejected uuid can only be customer_id.
		if postgres.IsForeignKeyViolation(err) || postgres.IsInvalidInput(err) {
			return fmt.Errorf("update invoice: %w: %v", domain.ErrCustomerNotFound, err)
		}
		return fmt.Errorf("update invoice: %w", err)
	}
	return expectOneRow(result)
}

func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1;`, id)
	if err != nil {
		if postgres.IsInvalidInput(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete invoice: %w", err)
	}
	return expectOneRow(result)
}

const filterSQL = `
FROM invoices i
JOIN customers c ON c.id = i.customer_id
WHERE c.name ILIKE $1
   OR c.email ILIKE $1
   OR i.amount::text ILIKE $1
   OR i.date::text ILIKE $1
   OR i.status ILIKE $1
`

// ListFiltered returns one page of invoices matching query, newest first.
func (r *InvoiceRepository) ListFiltered(ctx context.Context, query string, page int) ([]domain.InvoiceListItem, error) {
	if page < 1 {
		page = 1
	}
	q := `
SELECT i.id, i.amount, i.date, i.status, c.name, c.email, COALESCE(c.image_url, '')
` + filterSQL + `
ORDER BY i.date DESC, i.id
LIMIT $2 OFFSET $3;
`
	rows, err := r.db.QueryContext(ctx, q, "%"+query+"%", domain.ItemsPerPage, (page-1)*domain.ItemsPerPage)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	out := make([]domain.InvoiceListItem, 0, domain.ItemsPerPage)
	for rows.Next() {
		var it domain.InvoiceListItem
		if err := rows.Scan(&it.ID, &it.Amount, &it.Date, &it.Status, &it.Name, &it.Email, &it.ImageURL); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *InvoiceRepository) CountPages(ctx context.Context, query string) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) `+filterSQL, "%"+query+"%").Scan(&count); err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	return int(math.Ceil(float64(count) / float64(domain.ItemsPerPage))), nil
}

func expectOneRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
