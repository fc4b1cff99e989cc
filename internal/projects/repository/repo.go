package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/lib/pq"

	"github.com/nextdash/dashboard-backend/internal/projects/domain"
	"github.com/nextdash/dashboard-backend/internal/storage/postgres"
)

// ProjectRepository provides persistence operations for projects
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const insertProjectSQL = `
INSERT INTO projects (customer_id, title, description, created_at, updated_at, image_url)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id;
`

const insertProjectImagesSQL = `
INSERT INTO project_images (project_id, image_url, position)
SELECT $1::uuid, u.url, u.ord - 1
FROM unnest($2::text[]) WITH ORDINALITY AS u(url, ord);
`

// Create inserts the project row and its image rows in one transaction and
// returns the generated id. Nothing is written unless every insert succeeds.
func (r *ProjectRepository) Create(ctx context.Context, in domain.NewProject) (string, error) {
	stamp := in.Stamp.Format(domain.DateLayout)
	primary, ok := in.PrimaryImageURL()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin create project: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var id string
	err = tx.QueryRowContext(ctx, insertProjectSQL,
		in.CustomerID, in.Title, in.Description, stamp, stamp,
		sql.NullString{String: primary, Valid: ok},
	).Scan(&id)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) || postgres.IsInvalidInput(err) {
			return "", fmt.Errorf("insert project: %w: %v", domain.ErrCustomerNotFound, err)
		}
		return "", fmt.Errorf("insert project: %w", err)
	}

	if len(in.ImageURLs) > 0 && id != "" {
		res, err := tx.ExecContext(ctx, insertProjectImagesSQL, id, pq.Array(in.ImageURLs))
		if err != nil {
			return "", fmt.Errorf("insert project images: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return "", fmt.Errorf("insert project images: %w", err)
		}
		if int(n) != len(in.ImageURLs) {
			return "", fmt.Errorf("insert project images: wrote %d of %d rows", n, len(in.ImageURLs))
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit create project: %w", err)
	}
	return id, nil
}

// Update rewrites the editable columns and bumps updated_at.
func (r *ProjectRepository) Update(ctx context.Context, id string, f domain.ProjectFields, stamp string) error {
	const q = `
UPDATE projects
SET customer_id = $2, title = $3, description = $4, updated_at = $5
WHERE id = $1;
`
	result, err := r.db.ExecContext(ctx, q, id, f.CustomerID, f.Title, f.Description, stamp)
	if err != nil {
		// id is a parsed uuid by now, so a rejected uuid can only be customer_id.
		if postgres.IsForeignKeyViolation(err) || postgres.IsInvalidInput(err) {
			return fmt.Errorf("update project: %w: %v", domain.ErrCustomerNotFound, err)
		}
		return fmt.Errorf("update project: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID returns the project with its images in submission order.
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.ProjectDetail, error) {
	const q = `
SELECT id, customer_id, title, description, created_at, updated_at, COALESCE(image_url, '')
FROM projects
WHERE id = $1;
`
	var p domain.ProjectDetail
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&p.ID, &p.CustomerID, &p.Title, &p.Description, &p.CreatedAt, &p.UpdatedAt, &p.ImageURL,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || postgres.IsInvalidInput(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}

	const qi = `
SELECT project_id, image_url, position
FROM project_images
WHERE project_id = $1
ORDER BY position;
`
	rows, err := r.db.QueryContext(ctx, qi, id)
	if err != nil {
		return nil, fmt.Errorf("get project images: %w", err)
	}
	defer rows.Close()

	p.Images = make([]domain.ProjectImage, 0, 4)
	for rows.Next() {
		var img domain.ProjectImage
		if err := rows.Scan(&img.ProjectID, &img.ImageURL, &img.Position); err != nil {
			return nil, err
		}
		p.Images = append(p.Images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &p, nil
}

const filterSQL = `
FROM projects p
JOIN customers c ON c.id = p.customer_id
WHERE p.title ILIKE $1 OR p.description ILIKE $1 OR c.name ILIKE $1
`

// ListFiltered returns one page of projects matching query, most recently updated first.
func (r *ProjectRepository) ListFiltered(ctx context.Context, query string, page int) ([]domain.ProjectListItem, error) {
	if page < 1 {
		page = 1
	}
	q := `
SELECT p.id, p.title, p.description, p.updated_at, COALESCE(p.image_url, ''), c.name
` + filterSQL + `
ORDER BY p.updated_at DESC, p.title
LIMIT $2 OFFSET $3;
`
	offset := (page - 1) * domain.ItemsPerPage
	rows, err := r.db.QueryContext(ctx, q, likePattern(query), domain.ItemsPerPage, offset)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ProjectListItem, 0, domain.ItemsPerPage)
	for rows.Next() {
		var p domain.ProjectListItem
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.UpdatedAt, &p.ImageURL, &p.CustomerName); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CountPages returns how many listing pages query produces.
func (r *ProjectRepository) CountPages(ctx context.Context, query string) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) `+filterSQL, likePattern(query)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return int(math.Ceil(float64(count) / float64(domain.ItemsPerPage))), nil
}

func likePattern(query string) string {
	return "%" + query + "%"
}
