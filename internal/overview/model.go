// Package overview serves the dashboard landing page: summary cards, the
// monthly revenue chart and the most recent invoices.
package overview

// Path is the view-cache path of the landing page. Invoice mutations
// invalidate it along with the invoice listing.
const Path = "/dashboard"

// LatestLimit is how many invoices the landing page lists.
const LatestLimit = 5

// Months orders the revenue chart.
var Months = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Cards are the four summary figures. Totals are whole cents.
type Cards struct {
	NumberOfInvoices     int   `json:"number_of_invoices"`
	NumberOfCustomers    int   `json:"number_of_customers"`
	TotalPaidInvoices    int64 `json:"total_paid_invoices"`
	TotalPendingInvoices int64 `json:"total_pending_invoices"`
}

// Revenue is one chart bar in whole dollars.
type Revenue struct {
	Month   string `json:"month"`
	Revenue int    `json:"revenue"`
}

// LatestInvoice is a recent invoice joined with its customer. Amount is cents.
type LatestInvoice struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"image_url,omitempty"`
}

type Overview struct {
	Cards          Cards           `json:"cards"`
	Revenue        []Revenue       `json:"revenue"`
	LatestInvoices []LatestInvoice `json:"latest_invoices"`
}
