package invoices

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/seed"
)

var tracer = otel.Tracer("github.com/iamplus-mubina/acme-dashboard/internal/dashboard/invoices")

// StaticOption customises a StaticService.
type StaticOption func(*StaticService)

// WithLatency delays every call, honouring context cancellation.
func WithLatency(d time.Duration) StaticOption {
	return func(s *StaticService) { s.latency = d }
}

// WithClock overrides the clock used to date new invoices.
func WithClock(now func() time.Time) StaticOption {
	return func(s *StaticService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger for mutations.
func WithLogger(logger *zap.Logger) StaticOption {
	return func(s *StaticService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// StaticService keeps invoices in memory, seeded from the embedded fixture.
type StaticService struct {
	mu        sync.RWMutex
	invoices  map[string]Invoice
	customers map[string]seed.Customer
	order     []string

	latency time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

// NewStaticService returns a StaticService populated from ds.
func NewStaticService(ds seed.Dataset, opts ...StaticOption) *StaticService {
	s := &StaticService{
		invoices:  make(map[string]Invoice, len(ds.Invoices)),
		customers: make(map[string]seed.Customer, len(ds.Customers)),
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, c := range ds.Customers {
		s.customers[c.ID] = c
	}
	for _, raw := range ds.Invoices {
		date, err := time.Parse(seed.DateLayout, raw.Date)
		if err != nil {
			continue
		}
		s.invoices[raw.ID] = Invoice{
			ID:         raw.ID,
			CustomerID: raw.CustomerID,
			Amount:     raw.Amount,
			Status:     Status(raw.Status),
			Date:       date,
		}
		s.order = append(s.order, raw.ID)
	}
	return s
}

// List implements Service.
func (s *StaticService) List(ctx context.Context, query Query) (ListResult, error) {
	ctx, span := tracer.Start(ctx, "invoices.List")
	defer span.End()
	if err := seed.Wait(ctx, s.latency); err != nil {
		return ListResult{}, err
	}

	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	needle := strings.ToLower(strings.TrimSpace(query.Search))

	s.mu.RLock()
	rows := make([]Row, 0, len(s.invoices))
	for _, inv := range s.sortedLocked() {
		row := s.rowLocked(inv)
		if needle == "" || rowMatches(row, needle) {
			rows = append(rows, row)
		}
	}
	s.mu.RUnlock()

	total := len(rows)
	totalPages := (total + pageSize - 1) / pageSize
	page := query.Page
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	span.SetAttributes(attribute.Int("invoices.total", total), attribute.Int("invoices.page", page))
	return ListResult{
		Rows:       rows[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

// Get implements Service.
func (s *StaticService) Get(ctx context.Context, id string) (Invoice, error) {
	if err := seed.Wait(ctx, s.latency); err != nil {
		return Invoice{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.invoices[id]
	if !ok {
		return Invoice{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return inv, nil
}

// Create implements Service.
func (s *StaticService) Create(ctx context.Context, input Input) (Invoice, error) {
	ctx, span := tracer.Start(ctx, "invoices.Create")
	defer span.End()

	valid, err := validate(input, s.customerExists, MessageCreateFailed)
	if err != nil {
		return Invoice{}, err
	}
	if err := seed.Wait(ctx, s.latency); err != nil {
		return Invoice{}, err
	}

	now := s.now()
	inv := Invoice{
		ID:         strings.ToLower(ulid.Make().String()),
		CustomerID: valid.customerID,
		Amount:     valid.cents,
		Status:     valid.status,
		Date:       time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	}

	s.mu.Lock()
	s.invoices[inv.ID] = inv
	s.order = append(s.order, inv.ID)
	s.mu.Unlock()

	span.SetAttributes(attribute.String("invoice.id", inv.ID))
	s.logger.Info("invoice created", zap.String("invoice_id", inv.ID), zap.String("customer_id", inv.CustomerID), zap.Int64("amount", inv.Amount))
	return inv, nil
}

// Update implements Service.
func (s *StaticService) Update(ctx context.Context, id string, input Input) (Invoice, error) {
	ctx, span := tracer.Start(ctx, "invoices.Update", trace.WithAttributes(attribute.String("invoice.id", id)))
	defer span.End()

	valid, err := validate(input, s.customerExists, MessageUpdateFailed)
	if err != nil {
		return Invoice{}, err
	}
	if err := seed.Wait(ctx, s.latency); err != nil {
		return Invoice{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[id]
	if !ok {
		return Invoice{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	inv.CustomerID = valid.customerID
	inv.Amount = valid.cents
	inv.Status = valid.status
	s.invoices[id] = inv

	s.logger.Info("invoice updated", zap.String("invoice_id", id), zap.String("status", string(inv.Status)))
	return inv, nil
}

// Delete implements Service.
func (s *StaticService) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "invoices.Delete", trace.WithAttributes(attribute.String("invoice.id", id)))
	defer span.End()
	if err := seed.Wait(ctx, s.latency); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.invoices[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.invoices, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.logger.Info("invoice deleted", zap.String("invoice_id", id))
	return nil
}

// Latest implements Service.
func (s *StaticService) Latest(ctx context.Context, limit int) ([]Row, error) {
	if err := seed.Wait(ctx, s.latency); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	sorted := s.sortedLocked()
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	rows := make([]Row, 0, len(sorted))
	for _, inv := range sorted {
		rows = append(rows, s.rowLocked(inv))
	}
	return rows, nil
}

// Totals implements Service.
func (s *StaticService) Totals(ctx context.Context) (Totals, error) {
	if err := seed.Wait(ctx, s.latency); err != nil {
		return Totals{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	totals := Totals{Count: len(s.invoices)}
	for _, inv := range s.invoices {
		switch inv.Status {
		case StatusPaid:
			totals.Paid += inv.Amount
		case StatusPending:
			totals.Pending += inv.Amount
		}
	}
	return totals, nil
}

// CustomerOptions implements Service.
func (s *StaticService) CustomerOptions(ctx context.Context) ([]CustomerOption, error) {
	if err := seed.Wait(ctx, s.latency); err != nil {
		return nil, err
	}
	options := make([]CustomerOption, 0, len(s.customers))
	for _, c := range s.customers {
		options = append(options, CustomerOption{ID: c.ID, Name: c.Name})
	}
	sort.Slice(options, func(i, j int) bool { return options[i].Name < options[j].Name })
	return options, nil
}

// Snapshot returns a copy of every stored invoice in insertion order.
func (s *StaticService) Snapshot() []Invoice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Invoice, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.invoices[id])
	}
	return out
}

func (s *StaticService) customerExists(id string) bool {
	_, ok := s.customers[id]
	return ok
}

// sortedLocked orders invoices by date descending, then by id for stability.
func (s *StaticService) sortedLocked() []Invoice {
	out := make([]Invoice, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.invoices[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *StaticService) rowLocked(inv Invoice) Row {
	c := s.customers[inv.CustomerID]
	return Row{
		ID:       inv.ID,
		Customer: c.Name,
		Email:    c.Email,
		ImageURL: c.ImageURL,
		Amount:   inv.Amount,
		Status:   inv.Status,
		Date:     inv.Date,
	}
}

func rowMatches(row Row, needle string) bool {
	haystack := []string{
		row.Customer,
		row.Email,
		string(row.Status),
		row.Date.Format(seed.DateLayout),
		strconv.FormatInt(row.Amount, 10),
		strconv.FormatFloat(float64(row.Amount)/100, 'f', 2, 64),
	}
	for _, value := range haystack {
		if strings.Contains(strings.ToLower(value), needle) {
			return true
		}
	}
	return false
}
