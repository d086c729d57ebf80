package customers

import (
	"context"

	"github.com/a-h/templ"

	appcustomers "github.com/iamplus-mubina/acme-dashboard/internal/dashboard/customers"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/templates/helpers"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/templates/layout"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/templates/partials"
)

// TableID is the element swapped by search requests.
const TableID = "customers-table"

// ListPath is the customers listing URL.
const ListPath = "/dashboard/customers"

// PageData represents the customers table.
type PageData struct {
	Title string
	Query string
	Rows  []RowView
}

// RowView is one customer row with invoice totals.
type RowView struct {
	ID            string
	Name          string
	Email         string
	Initials      string
	TotalInvoices string
	TotalPending  string
	TotalPaid     string
}

// BuildPageData prepares the customers table for rendering.
func BuildPageData(query string, rows []appcustomers.Row) PageData {
	views := make([]RowView, 0, len(rows))
	for _, row := range rows {
		views = append(views, RowView{
			ID:            row.ID,
			Name:          row.Name,
			Email:         row.Email,
			Initials:      helpers.Initials(row.Name),
			TotalInvoices: helpers.Number(row.TotalInvoices),
			TotalPending:  helpers.Currency(row.TotalPending),
			TotalPaid:     helpers.Currency(row.TotalPaid),
		})
	}
	return PageData{Title: "Customers", Query: query, Rows: views}
}

// Index renders the customers page.
func Index(data PageData) templ.Component {
	return layout.Dashboard(data.Title, helpers.Component(func(ctx context.Context, h *helpers.HTML) {
		h.Raw(`<div class="w-full"><h1 class="mb-8 text-xl md:text-2xl">`)
		h.Text(data.Title)
		h.Raw(`</h1>`)
		h.Render(ctx, partials.Search(ListPath, "Search customers...", data.Query, TableID))
		h.Render(ctx, Table(data))
		h.Raw(`</div>`)
	}))
}

// Table renders the customers table alone.
func Table(data PageData) templ.Component {
	return helpers.Component(func(ctx context.Context, h *helpers.HTML) {
		h.Raw(`<div class="mt-6 flow-root"`)
		h.Attr("id", TableID)
		h.Raw(`><table class="hidden min-w-full rounded-md text-gray-900 md:table"><thead class="rounded-md bg-gray-50 text-left text-sm font-normal"><tr>`)
		h.Raw(`<th scope="col" class="px-4 py-5 font-medium sm:pl-6">Name</th><th scope="col" class="px-3 py-5 font-medium">Email</th><th scope="col" class="px-3 py-5 font-medium">Total Invoices</th><th scope="col" class="px-3 py-5 font-medium">Total Pending</th><th scope="col" class="px-4 py-5 font-medium">Total Paid</th>`)
		h.Raw(`</tr></thead><tbody class="divide-y divide-gray-200 text-gray-900">`)
		for _, row := range data.Rows {
			h.Raw(`<tr class="group"`)
			h.Attr("data-customer-id", row.ID)
			h.Raw(`><td class="whitespace-nowrap bg-white py-5 pl-4 pr-3 text-sm sm:pl-6"><div class="flex items-center gap-3"><span class="flex h-7 w-7 items-center justify-center rounded-full bg-gray-100 text-xs" aria-hidden="true">`)
			h.Text(row.Initials)
			h.Raw(`</span><p data-name>`)
			h.Text(row.Name)
			h.Raw(`</p></div></td><td class="whitespace-nowrap bg-white px-4 py-5 text-sm">`)
			h.Text(row.Email)
			h.Raw(`</td><td class="whitespace-nowrap bg-white px-4 py-5 text-sm" data-total-invoices>`)
			h.Text(row.TotalInvoices)
			h.Raw(`</td><td class="whitespace-nowrap bg-white px-4 py-5 text-sm" data-total-pending>`)
			h.Text(row.TotalPending)
			h.Raw(`</td><td class="whitespace-nowrap bg-white px-4 py-5 text-sm" data-total-paid>`)
			h.Text(row.TotalPaid)
			h.Raw(`</td></tr>`)
		}
		h.Raw(`</tbody></table>`)
		if len(data.Rows) == 0 {
			h.Raw(`<p class="py-6 text-center text-sm text-gray-500" data-empty>No customers found.</p>`)
		}
		h.Raw(`</div>`)
	})
}
