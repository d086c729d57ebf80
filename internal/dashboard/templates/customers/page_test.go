package customers

import (
	"bytes"
	"context"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	appcustomers "github.com/iamplus-mubina/acme-dashboard/internal/dashboard/customers"
)

func TestTableRendersTotals(t *testing.T) {
	t.Parallel()

	data := BuildPageData("", []appcustomers.Row{
		{ID: "7", Name: "Amy Burns", Email: "amy@burns.com", TotalInvoices: 2, TotalPending: 1250, TotalPaid: 110636},
		{ID: "8", Name: "Balazs Orban", Email: "balazs@orban.com"},
	})

	var buf bytes.Buffer
	require.NoError(t, Table(data).Render(context.Background(), &buf))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)

	rows := doc.Find("#customers-table tr[data-customer-id]")
	require.Equal(t, 2, rows.Length())

	amy := rows.First()
	require.Equal(t, "7", amy.AttrOr("data-customer-id", ""))
	require.Equal(t, "AB", amy.Find(`span[aria-hidden="true"]`).Text())
	require.Equal(t, "2", amy.Find("[data-total-invoices]").Text())
	require.Equal(t, "$12.50", amy.Find("[data-total-pending]").Text())
	require.Equal(t, "$1,106.36", amy.Find("[data-total-paid]").Text())

	require.Equal(t, "$0.00", rows.Last().Find("[data-total-paid]").Text())
	require.Equal(t, 0, doc.Find("[data-empty]").Length())
}

func TestTableEmptyState(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Table(BuildPageData("nobody", nil)).Render(context.Background(), &buf))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)

	require.Equal(t, "No customers found.", doc.Find("[data-empty]").Text())
}
