package customers

import (
	"context"
	"database/sql"
	"fmt"
)

// Customer is the select-option view of a customer row.
type Customer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// List returns every customer ordered by name.
func (r *Repo) List(ctx context.Context) ([]Customer, error) {
	const q = `
SELECT id, name
FROM customers
ORDER BY name ASC;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	out := make([]Customer, 0, 16)
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
