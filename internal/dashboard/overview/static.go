package overview

import (
	"context"
	"time"

	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/invoices"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/seed"
)

// CustomerCounter reports the number of customers.
type CustomerCounter interface {
	Count(ctx context.Context) (int, error)
}

// StaticService derives the overview from the in-memory providers.
type StaticService struct {
	Invoices  invoices.Service
	Customers CustomerCounter
	Monthly   []Revenue
	// Latency is added to the revenue fetch, the slowest panel.
	Latency time.Duration
}

// NewStaticService returns a StaticService using the fixture's revenue series.
func NewStaticService(ds seed.Dataset, inv invoices.Service, customers CustomerCounter, latency time.Duration) *StaticService {
	monthly := make([]Revenue, 0, len(ds.Revenue))
	for _, r := range ds.Revenue {
		monthly = append(monthly, Revenue{Month: r.Month, Revenue: r.Revenue})
	}
	return &StaticService{
		Invoices:  inv,
		Customers: customers,
		Monthly:   monthly,
		Latency:   latency,
	}
}

// FetchCards returns totals computed from the live invoice store.
func (s *StaticService) FetchCards(ctx context.Context) (Cards, error) {
	if s.Invoices == nil || s.Customers == nil {
		return Cards{}, ErrNotConfigured
	}
	totals, err := s.Invoices.Totals(ctx)
	if err != nil {
		return Cards{}, err
	}
	count, err := s.Customers.Count(ctx)
	if err != nil {
		return Cards{}, err
	}
	return Cards{
		NumberOfCustomers: count,
		NumberOfInvoices:  totals.Count,
		TotalPaid:         totals.Paid,
		TotalPending:      totals.Pending,
	}, nil
}

// FetchRevenue returns the configured revenue series.
func (s *StaticService) FetchRevenue(ctx context.Context) ([]Revenue, error) {
	if err := seed.Wait(ctx, s.Latency); err != nil {
		return nil, err
	}
	return append([]Revenue(nil), s.Monthly...), nil
}

// FetchLatestInvoices returns the newest invoices.
func (s *StaticService) FetchLatestInvoices(ctx context.Context, limit int) ([]invoices.Row, error) {
	if s.Invoices == nil {
		return nil, ErrNotConfigured
	}
	return s.Invoices.Latest(ctx, limit)
}
