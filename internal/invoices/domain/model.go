package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ItemsPerPage is the listing page size.
const ItemsPerPage = 6

// DateLayout is the calendar-date form stored in the date column.
const DateLayout = "2006-01-02"

const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

// Invoice amounts are whole cents.
type Invoice struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	Amount     int64     `json:"amount"`
	Status     string    `json:"status"`
	Date       time.Time `json:"date"`
}

// InvoiceFields are the user-editable columns.
type InvoiceFields struct {
	CustomerID  string
	AmountCents int64
	Status      string
}

// InvoiceListItem is one row of the invoice table, joined with its customer.
type InvoiceListItem struct {
	ID       string    `json:"id"`
	Amount   int64     `json:"amount"`
	Date     time.Time `json:"date"`
	Status   string    `json:"status"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	ImageURL string    `json:"image_url,omitempty"`
}

type InvoicePage struct {
	Invoices   []InvoiceListItem `json:"invoices"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
}

// ToCents converts a decimal dollar amount such as "12.34" to cents, rounding
// to the nearest cent.
func ToCents(amount string) (int64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt64/100 {
		return 0, fmt.Errorf("amount %q out of range", amount)
	}
	return int64(math.Round(f * 100)), nil
}

// Today truncates t to its UTC calendar date.
func Today(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
