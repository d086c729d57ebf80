package invoices

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/seed"
)

func newTestService(t *testing.T, opts ...StaticOption) *StaticService {
	t.Helper()
	ds, err := seed.Load()
	require.NoError(t, err)
	return NewStaticService(ds, opts...)
}

func TestStaticServiceListPaginates(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.List(ctx, Query{})
	require.NoError(t, err)
	require.Equal(t, 15, first.TotalItems)
	require.Equal(t, 3, first.TotalPages)
	require.Equal(t, 6, first.PageSize)
	require.Len(t, first.Rows, 6)
	require.Equal(t, "Emil Kowalski", first.Rows[0].Customer, "newest invoice first")

	last, err := svc.List(ctx, Query{Page: 3})
	require.NoError(t, err)
	require.Len(t, last.Rows, 3)

	clamped, err := svc.List(ctx, Query{Page: 99})
	require.NoError(t, err)
	require.Equal(t, 3, clamped.Page)
}

func TestStaticServiceListSearches(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	cases := map[string]int{
		"jared":      2,
		"OLIVEIRA":   2,
		"pending":    4,
		"2024-01":    4,
		"947.77":     1,
		"nothing-xy": 0,
	}
	for search, want := range cases {
		res, err := svc.List(ctx, Query{Search: search})
		require.NoError(t, err)
		require.Equal(t, want, res.TotalItems, "search %q", search)
	}

	empty, err := svc.List(ctx, Query{Search: "nothing-xy"})
	require.NoError(t, err)
	require.Equal(t, 0, empty.TotalPages)
	require.Empty(t, empty.Rows)
}

func TestStaticServiceCreateValidates(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	_, err := svc.Create(context.Background(), Input{CustomerID: "", Amount: "0", Status: "overdue"})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "Missing Fields. Failed to Create Invoice.", validationErr.Message)
	require.Equal(t, []string{"Please select a customer."}, validationErr.Fields["customerId"])
	require.Equal(t, []string{"Please enter an amount greater than $0."}, validationErr.Fields["amount"])
	require.Equal(t, []string{"Please select an invoice status."}, validationErr.Fields["status"])

	_, err = svc.Create(context.Background(), Input{CustomerID: "42", Amount: "abc", Status: "paid"})
	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, validationErr.Fields, "customerId")
	require.Contains(t, validationErr.Fields, "amount")
	require.NotContains(t, validationErr.Fields, "status")
}

func TestStaticServiceCreateStoresCents(t *testing.T) {
	t.Parallel()

	today := time.Date(2024, 3, 9, 15, 30, 0, 0, time.UTC)
	svc := newTestService(t, WithClock(func() time.Time { return today }))
	ctx := context.Background()

	inv, err := svc.Create(ctx, Input{CustomerID: "3", Amount: "12.34", Status: "pending"})
	require.NoError(t, err)
	require.EqualValues(t, 1234, inv.Amount)
	require.Equal(t, "2024-03-09", inv.Date.Format(seed.DateLayout))
	require.Len(t, inv.ID, 26)
	require.Equal(t, "12.34", inv.AmountDollars())

	got, err := svc.Get(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, inv, got)

	totals, err := svc.Totals(ctx)
	require.NoError(t, err)
	require.Equal(t, 16, totals.Count)

	latest, err := svc.Latest(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, inv.ID, latest[0].ID)
	require.Equal(t, "Lee Robinson", latest[0].Customer)
}

func TestStaticServiceUpdateAndDelete(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	updated, err := svc.Update(ctx, "2", Input{CustomerID: "5", Amount: "448", Status: "paid"})
	require.NoError(t, err)
	require.Equal(t, StatusPaid, updated.Status)
	require.EqualValues(t, 44800, updated.Amount)
	require.Equal(t, "5", updated.CustomerID)

	_, err = svc.Update(ctx, "missing", Input{CustomerID: "5", Amount: "1", Status: "paid"})
	require.True(t, errors.Is(err, ErrNotFound))

	var validationErr *ValidationError
	_, err = svc.Update(ctx, "2", Input{})
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, MessageUpdateFailed, validationErr.Message)

	require.NoError(t, svc.Delete(ctx, "2"))
	_, err = svc.Get(ctx, "2")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, "2"), ErrNotFound)
	require.Len(t, svc.Snapshot(), 14)
}

func TestStaticServiceTotals(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	totals, err := svc.Totals(context.Background())
	require.NoError(t, err)
	require.Equal(t, 15, totals.Count)
	require.EqualValues(t, 173263, totals.Paid)
	require.EqualValues(t, 168471, totals.Pending)
}

func TestStaticServiceLatencyHonoursContext(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, WithLatency(time.Hour))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := svc.List(ctx, Query{})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStaticServiceCustomerOptionsSorted(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	options, err := svc.CustomerOptions(context.Background())
	require.NoError(t, err)
	require.Len(t, options, 8)
	require.Equal(t, "Amy Burns", options[0].Name)
}
