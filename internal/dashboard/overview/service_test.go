package overview

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/customers"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/invoices"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/seed"
)

func newStatic(t *testing.T, latency time.Duration) *StaticService {
	t.Helper()
	ds, err := seed.Load()
	require.NoError(t, err)
	inv := invoices.NewStaticService(ds)
	return NewStaticService(ds, inv, customers.NewStaticService(ds, inv, 0), latency)
}

func TestLoadCollectsAllPanels(t *testing.T) {
	t.Parallel()

	ov, err := Load(context.Background(), newStatic(t, 0))
	require.NoError(t, err)
	require.Equal(t, Cards{NumberOfCustomers: 8, NumberOfInvoices: 15, TotalPaid: 173263, TotalPending: 168471}, ov.Cards)
	require.Len(t, ov.Revenue, 12)
	require.Len(t, ov.Latest, LatestInvoicesLimit)
	require.Equal(t, "Emil Kowalski", ov.Latest[0].Customer)
	require.Equal(t, "Disha de Oliveira", ov.Latest[4].Customer)
}

type failingService struct {
	*StaticService
}

func (failingService) FetchCards(context.Context) (Cards, error) {
	return Cards{}, errors.New("database unavailable")
}

func TestLoadFailsWhenAnyPanelFails(t *testing.T) {
	t.Parallel()

	svc := failingService{StaticService: newStatic(t, time.Hour)}
	start := time.Now()
	_, err := Load(context.Background(), svc)
	require.ErrorContains(t, err, "fetch cards")
	require.Less(t, time.Since(start), time.Second, "slow panels must be cancelled")

	_, err = Load(context.Background(), nil)
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestYAxis(t *testing.T) {
	t.Parallel()

	labels, top := YAxis([]Revenue{{Month: "Jan", Revenue: 2000}, {Month: "Dec", Revenue: 4800}})
	require.EqualValues(t, 5000, top)
	require.Equal(t, []string{"$5K", "$4K", "$3K", "$2K", "$1K", "$0K"}, labels)

	labels, top = YAxis(nil)
	require.Zero(t, top)
	require.Equal(t, []string{"$0K"}, labels)
}
