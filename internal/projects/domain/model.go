package domain

import "time"

// ItemsPerPage is the listing page size.
const ItemsPerPage = 6

// DateLayout is the calendar-date form stored in created_at / updated_at.
const DateLayout = "2006-01-02"

// Project is the aggregate root; its images are owned ProjectImage rows.
type Project struct {
	ID          string    `json:"id"`
	CustomerID  string    `json:"customer_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	// ImageURL is a copy of the first image, kept on the row for listings.
	ImageURL string `json:"image_url,omitempty"`
}

type ProjectImage struct {
	ProjectID string `json:"project_id"`
	ImageURL  string `json:"image_url"`
	Position  int    `json:"position"`
}

// ProjectDetail is the edit-screen view of a project.
type ProjectDetail struct {
	Project
	Images []ProjectImage `json:"images"`
}

// ProjectFields are the user-editable columns.
type ProjectFields struct {
	CustomerID  string
	Title       string
	Description string
}

// NewProject is everything the store needs to create a project and its images.
type NewProject struct {
	ProjectFields
	// Stamp is written to both created_at and updated_at.
	Stamp     time.Time
	ImageURLs []string
}

// PrimaryImageURL returns the first image in submission order.
func (n NewProject) PrimaryImageURL() (string, bool) {
	if len(n.ImageURLs) == 0 {
		return "", false
	}
	return n.ImageURLs[0], true
}

// ProjectListItem is one card of the project listing.
type ProjectListItem struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	UpdatedAt    time.Time `json:"updated_at"`
	ImageURL     string    `json:"image_url,omitempty"`
	CustomerName string    `json:"customer_name"`
}

// ProjectPage is a page of the listing plus the total page count for pagination.
type ProjectPage struct {
	Projects   []ProjectListItem `json:"projects"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
}

// Today truncates t to its UTC calendar date.
func Today(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
