package customers

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/invoices"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/seed"
)

// ErrNotConfigured indicates the customers service dependency has not been provided.
var ErrNotConfigured = errors.New("customers service not configured")

// Service exposes the customers table.
type Service interface {
	// List returns customers whose name or email contains search, with invoice totals, ordered by name.
	List(ctx context.Context, search string) ([]Row, error)
	// Count returns the number of customers.
	Count(ctx context.Context) (int, error)
}

// Row is one line of the customers table. Amounts are in cents.
type Row struct {
	ID            string
	Name          string
	Email         string
	ImageURL      string
	TotalInvoices int
	TotalPending  int64
	TotalPaid     int64
}

// InvoiceSource exposes the current invoices for aggregation.
type InvoiceSource interface {
	Snapshot() []invoices.Invoice
}

// StaticService serves customers from the fixture and totals from the live invoice store.
type StaticService struct {
	customers []seed.Customer
	invoices  InvoiceSource
	latency   time.Duration
}

// NewStaticService returns a StaticService over ds.Customers.
func NewStaticService(ds seed.Dataset, source InvoiceSource, latency time.Duration) *StaticService {
	return &StaticService{
		customers: append([]seed.Customer(nil), ds.Customers...),
		invoices:  source,
		latency:   latency,
	}
}

// List implements Service.
func (s *StaticService) List(ctx context.Context, search string) ([]Row, error) {
	if err := seed.Wait(ctx, s.latency); err != nil {
		return nil, err
	}

	totals := make(map[string]*Row, len(s.customers))
	if s.invoices != nil {
		for _, inv := range s.invoices.Snapshot() {
			row, ok := totals[inv.CustomerID]
			if !ok {
				row = &Row{}
				totals[inv.CustomerID] = row
			}
			row.TotalInvoices++
			switch inv.Status {
			case invoices.StatusPaid:
				row.TotalPaid += inv.Amount
			case invoices.StatusPending:
				row.TotalPending += inv.Amount
			}
		}
	}

	needle := strings.ToLower(strings.TrimSpace(search))
	rows := make([]Row, 0, len(s.customers))
	for _, c := range s.customers {
		if needle != "" &&
			!strings.Contains(strings.ToLower(c.Name), needle) &&
			!strings.Contains(strings.ToLower(c.Email), needle) {
			continue
		}
		row := Row{ID: c.ID, Name: c.Name, Email: c.Email, ImageURL: c.ImageURL}
		if agg, ok := totals[c.ID]; ok {
			row.TotalInvoices = agg.TotalInvoices
			row.TotalPaid = agg.TotalPaid
			row.TotalPending = agg.TotalPending
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows, nil
}

// Count implements Service.
func (s *StaticService) Count(ctx context.Context) (int, error) {
	if err := seed.Wait(ctx, s.latency); err != nil {
		return 0, err
	}
	return len(s.customers), nil
}
