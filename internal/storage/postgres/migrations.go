package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate applies the schema in order. Every statement is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	migrations := []struct {
		name string
		sql  string
	}{
		{"extensions", migrationExtensions},
		{"customers", migrationCustomers},
		{"invoices", migrationInvoices},
		{"projects", migrationProjects},
		{"project_images", migrationProjectImages},
		{"revenue", migrationRevenue},
	}

	for _, m := range migrations {
		if _, err := db.ExecContext(ctx, m.sql); err != nil {
			return fmt.Errorf("migration %s: %w", m.name, err)
		}
	}

	return nil
}

const migrationExtensions = `
CREATE EXTENSION IF NOT EXISTS pgcrypto;
`

const migrationCustomers = `
CREATE TABLE IF NOT EXISTS customers (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    name VARCHAR(255) NOT NULL,
    email VARCHAR(255) UNIQUE NOT NULL,
    image_url TEXT
);
`

const migrationInvoices = `
CREATE TABLE IF NOT EXISTS invoices (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    customer_id UUID NOT NULL REFERENCES customers(id),
    amount INTEGER NOT NULL,
    status VARCHAR(255) NOT NULL,
    date DATE NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_invoices_customer ON invoices(customer_id);
`

const migrationProjects = `
CREATE TABLE IF NOT EXISTS projects (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    customer_id UUID NOT NULL REFERENCES customers(id),
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_at DATE NOT NULL,
    updated_at DATE NOT NULL,
    image_url TEXT
);

CREATE INDEX IF NOT EXISTS idx_projects_customer ON projects(customer_id);
CREATE INDEX IF NOT EXISTS idx_projects_updated ON projects(updated_at DESC);
`

const migrationProjectImages = `
CREATE TABLE IF NOT EXISTS project_images (
    project_id UUID NOT NULL REFERENCES projects(id),
    image_url TEXT NOT NULL,
    position INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_project_images_project ON project_images(project_id, position);
`

const migrationRevenue = `
CREATE TABLE IF NOT EXISTS revenue (
    month VARCHAR(4) NOT NULL UNIQUE,
    revenue INTEGER NOT NULL
);
`
