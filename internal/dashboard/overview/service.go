package overview

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/invoices"
)

// ErrNotConfigured indicates the overview service dependency has not been provided.
var ErrNotConfigured = errors.New("overview service not configured")

// LatestInvoicesLimit is the number of rows in the latest invoices panel.
const LatestInvoicesLimit = 5

// Service exposes data retrieval for the dashboard overview panels.
type Service interface {
	// FetchCards returns the summary cards.
	FetchCards(ctx context.Context) (Cards, error)
	// FetchRevenue returns the monthly revenue series.
	FetchRevenue(ctx context.Context) ([]Revenue, error)
	// FetchLatestInvoices returns the most recent invoices.
	FetchLatestInvoices(ctx context.Context, limit int) ([]invoices.Row, error)
}

// Cards aggregates the headline numbers. Amounts are in cents.
type Cards struct {
	NumberOfCustomers int
	NumberOfInvoices  int
	TotalPaid         int64
	TotalPending      int64
}

// Revenue is one month of the revenue chart, in whole dollars.
type Revenue struct {
	Month   string
	Revenue int64
}

// Overview is everything the overview page renders.
type Overview struct {
	Cards   Cards
	Revenue []Revenue
	Latest  []invoices.Row
}

// Load fetches every panel concurrently. The first failure cancels the rest.
func Load(ctx context.Context, svc Service) (Overview, error) {
	if svc == nil {
		return Overview{}, ErrNotConfigured
	}
	var out Overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cards, err := svc.FetchCards(gctx)
		if err != nil {
			return fmt.Errorf("fetch cards: %w", err)
		}
		out.Cards = cards
		return nil
	})
	g.Go(func() error {
		revenue, err := svc.FetchRevenue(gctx)
		if err != nil {
			return fmt.Errorf("fetch revenue: %w", err)
		}
		out.Revenue = revenue
		return nil
	})
	g.Go(func() error {
		latest, err := svc.FetchLatestInvoices(gctx, LatestInvoicesLimit)
		if err != nil {
			return fmt.Errorf("fetch latest invoices: %w", err)
		}
		out.Latest = latest
		return nil
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	return out, nil
}

// YAxis returns the chart's y-axis labels from the top down and the top value.
// The top is the highest revenue rounded up to the next thousand.
func YAxis(revenue []Revenue) ([]string, int64) {
	var highest int64
	for _, month := range revenue {
		if month.Revenue > highest {
			highest = month.Revenue
		}
	}
	top := ((highest + 999) / 1000) * 1000
	labels := make([]string, 0, top/1000+1)
	for i := top; i >= 0; i -= 1000 {
		labels = append(labels, fmt.Sprintf("$%dK", i/1000))
	}
	return labels, top
}
