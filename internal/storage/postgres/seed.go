package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// SeedCustomer is a customer row inserted by Seed.
type SeedCustomer struct {
	Name     string
	Email    string
	ImageURL string
}

// DefaultCustomers is the development data set loaded by `dashctl seed`.
var DefaultCustomers = []SeedCustomer{
	{Name: "Evil Rabbit", Email: "evil@rabbit.com", ImageURL: "/customers/evil-rabbit.png"},
	{Name: "Delba de Oliveira", Email: "delba@oliveira.com", ImageURL: "/customers/delba-de-oliveira.png"},
	{Name: "Lee Robinson", Email: "lee@robinson.com", ImageURL: "/customers/lee-robinson.png"},
	{Name: "Michael Novotny", Email: "michael@novotny.com", ImageURL: "/customers/michael-novotny.png"},
	{Name: "Amy Burns", Email: "amy@burns.com", ImageURL: "/customers/amy-burns.png"},
	{Name: "Balazs Orban", Email: "balazs@orban.com", ImageURL: "/customers/balazs-orban.png"},
}

// Seed inserts customers that are not present yet and returns how many rows were added.
func Seed(ctx context.Context, db *sql.DB, customers []SeedCustomer) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	const q = `
INSERT INTO customers (name, email, image_url)
VALUES ($1, $2, NULLIF($3, ''))
ON CONFLICT (email) DO NOTHING;
`
	added := 0
	for _, c := range customers {
		res, err := tx.ExecContext(ctx, q, c.Name, c.Email, c.ImageURL)
		if err != nil {
			return 0, fmt.Errorf("seed customer %s: %w", c.Email, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		added += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return added, nil
}

// SeedRevenueMonth is one bar of the overview revenue chart, in whole dollars.
type SeedRevenueMonth struct {
	Month   string
	Revenue int
}

var DefaultRevenue = []SeedRevenueMonth{
	{"Jan", 2000}, {"Feb", 1800}, {"Mar", 2200}, {"Apr", 2500},
	{"May", 2300}, {"Jun", 3200}, {"Jul", 3500}, {"Aug", 3700},
	{"Sep", 2500}, {"Oct", 2800}, {"Nov", 3000}, {"Dec", 4800},
}

// SeedRevenue inserts the months that are missing. Existing months keep
// their figure.
func SeedRevenue(ctx context.Context, db *sql.DB, months []SeedRevenueMonth) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	const q = `
INSERT INTO revenue (month, revenue)
VALUES ($1, $2)
ON CONFLICT (month) DO NOTHING;
`
	added := 0
	for _, m := range months {
		res, err := tx.ExecContext(ctx, q, m.Month, m.Revenue)
		if err != nil {
			return 0, fmt.Errorf("seed revenue %s: %w", m.Month, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		added += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return added, nil
}
