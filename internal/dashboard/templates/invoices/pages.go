package invoices

import (
	"context"

	"github.com/a-h/templ"

	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/templates/helpers"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/templates/layout"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/templates/partials"
)

// List renders the invoices listing page.
func List(data ListPageData) templ.Component {
	return layout.Dashboard(data.Title, helpers.Component(func(ctx context.Context, h *helpers.HTML) {
		h.Raw(`<div class="w-full"><div class="flex w-full items-center justify-between"><h1 class="text-2xl">`)
		h.Text(data.Title)
		h.Raw(`</h1></div><div class="mt-4 flex items-center justify-between gap-2 md:mt-8">`)
		h.Render(ctx, partials.Search(ListPath, "Search invoices...", data.Query, TableID))
		h.Raw(`<a href="/dashboard/invoices/create" class="flex h-10 items-center rounded-lg bg-blue-600 px-4 text-sm font-medium text-white transition-colors hover:bg-blue-500" data-create-invoice>Create Invoice</a>`)
		h.Raw(`</div>`)
		h.Render(ctx, Table(data))
		h.Raw(`</div>`)
	}))
}

// Table renders the results and pagination; search requests swap it alone.
func Table(data ListPageData) templ.Component {
	return helpers.Component(func(ctx context.Context, h *helpers.HTML) {
		h.Raw(`<div class="mt-6 flow-root"`)
		h.Attr("id", TableID)
		h.Raw(`><table class="hidden min-w-full text-gray-900 md:table"><thead class="text-left text-sm font-normal"><tr>`)
		h.Raw(`<th scope="col" class="px-4 py-5 font-medium sm:pl-6">Customer</th><th scope="col" class="px-3 py-5 font-medium">Email</th><th scope="col" class="px-3 py-5 font-medium">Amount</th><th scope="col" class="px-3 py-5 font-medium">Date</th><th scope="col" class="px-3 py-5 font-medium">Status</th><th scope="col" class="relative py-3 pl-6 pr-3"><span class="sr-only">Edit</span></th>`)
		h.Raw(`</tr></thead><tbody class="bg-white">`)
		for _, row := range data.Rows {
			h.Raw(`<tr class="w-full border-b py-3 text-sm last-of-type:border-none"`)
			h.Attr("data-invoice-id", row.ID)
			h.Raw(`><td class="whitespace-nowrap py-3 pl-6 pr-3"><div class="flex items-center gap-3"><span class="flex h-7 w-7 items-center justify-center rounded-full bg-gray-100 text-xs" aria-hidden="true">`)
			h.Text(row.Initials)
			h.Raw(`</span><p data-name>`)
			for _, seg := range row.NameSegs {
				if seg.Match {
					h.Raw(`<mark>`)
					h.Text(seg.Text)
					h.Raw(`</mark>`)
					continue
				}
				h.Text(seg.Text)
			}
			h.Raw(`</p></div></td><td class="whitespace-nowrap px-3 py-3" data-email>`)
			h.Text(row.Email)
			h.Raw(`</td><td class="whitespace-nowrap px-3 py-3" data-amount>`)
			h.Text(row.Amount)
			h.Raw(`</td><td class="whitespace-nowrap px-3 py-3" data-date>`)
			h.Text(row.Date)
			h.Raw(`</td><td class="whitespace-nowrap px-3 py-3"><span data-status`)
			h.Attr("class", helpers.BadgeClass(row.Status))
			h.Raw(`>`)
			h.Text(helpers.StatusLabel(row.Status))
			h.Raw(`</span></td><td class="whitespace-nowrap py-3 pl-6 pr-3"><div class="flex justify-end gap-3">`)
			h.Raw(`<a class="rounded-md border p-2 hover:bg-gray-100" data-edit-invoice`)
			h.URL("href", row.EditURL)
			h.Raw(`>Edit</a><form method="post" data-delete-invoice`)
			h.URL("action", row.DeleteURL)
			h.Raw(`>`)
			h.Render(ctx, partials.CSRFField())
			h.Raw(`<button type="submit" class="rounded-md border p-2 hover:bg-gray-100">Delete</button></form></div></td></tr>`)
		}
		h.Raw(`</tbody></table>`)
		if len(data.Rows) == 0 {
			h.Raw(`<p class="py-6 text-center text-sm text-gray-500" data-empty>No invoices found.</p>`)
		}
		h.Raw(`<div class="mt-5 flex w-full justify-center">`)
		h.Render(ctx, partials.Pagination(ListPath, data.RawQuery, data.Page, data.TotalPages))
		h.Raw(`</div></div>`)
	})
}

// Form renders the create or edit invoice page.
func Form(data FormPageData) templ.Component {
	return layout.Dashboard(data.Title, helpers.Component(func(ctx context.Context, h *helpers.HTML) {
		h.Render(ctx, partials.Breadcrumbs([]partials.Breadcrumb{
			{Label: "Invoices", Href: ListPath},
			{Label: data.Crumb, Href: data.CrumbHref},
		}))
		h.Raw(`<form method="post" data-invoice-form`)
		h.URL("action", data.Action)
		h.Raw(`>`)
		h.Render(ctx, partials.CSRFField())
		h.Raw(`<div class="rounded-md bg-gray-50 p-4 md:p-6">`)

		h.Raw(`<div class="mb-4"><label for="customer" class="mb-2 block text-sm font-medium">Choose customer</label>`)
		h.Raw(`<select id="customer" name="customerId" class="peer block w-full cursor-pointer rounded-md border border-gray-200 py-2 pl-10 text-sm outline-2" aria-describedby="customer-error">`)
		h.Raw(`<option value=""`)
		if data.CustomerID == "" {
			h.Raw(` selected`)
		}
		h.Raw(` disabled>Select a customer</option>`)
		for _, c := range data.Customers {
			h.Raw(`<option`)
			h.Attr("value", c.ID)
			if c.ID == data.CustomerID {
				h.Raw(` selected`)
			}
			h.Raw(`>`)
			h.Text(c.Name)
			h.Raw(`</option>`)
		}
		h.Raw(`</select>`)
		h.Render(ctx, partials.FieldErrors("customer-error", data.Errors["customerId"]))
		h.Raw(`</div>`)

		h.Raw(`<div class="mb-4"><label for="amount" class="mb-2 block text-sm font-medium">Choose an amount</label>`)
		h.Raw(`<input id="amount" name="amount" type="number" step="0.01" placeholder="Enter USD amount" class="peer block w-full rounded-md border border-gray-200 py-2 pl-10 text-sm outline-2 placeholder:text-gray-500" aria-describedby="amount-error"`)
		h.Attr("value", data.Amount)
		h.Raw(`>`)
		h.Render(ctx, partials.FieldErrors("amount-error", data.Errors["amount"]))
		h.Raw(`</div>`)

		h.Raw(`<fieldset aria-describedby="status-error"><legend class="mb-2 block text-sm font-medium">Set the invoice status</legend><div class="rounded-md border border-gray-200 bg-white px-[14px] py-3"><div class="flex gap-4">`)
		for _, option := range []string{"pending", "paid"} {
			h.Raw(`<div class="flex items-center"><input name="status" type="radio" class="h-4 w-4 cursor-pointer border-gray-300 bg-gray-100 text-gray-600"`)
			h.Attr("id", option)
			h.Attr("value", option)
			if data.Status == option {
				h.Raw(` checked`)
			}
			h.Raw(`><label class="ml-2 flex cursor-pointer items-center gap-1.5 rounded-full px-3 py-1.5 text-xs font-medium"`)
			h.Attr("for", option)
			h.Raw(`>`)
			h.Text(helpers.StatusLabel(option))
			h.Raw(`</label></div>`)
		}
		h.Raw(`</div></div>`)
		h.Render(ctx, partials.FieldErrors("status-error", data.Errors["status"]))
		h.Raw(`</fieldset>`)

		h.Raw(`<div aria-live="polite" aria-atomic="true" data-form-message>`)
		if data.Message != "" {
			h.Raw(`<p class="mt-2 text-sm text-red-500">`)
			h.Text(data.Message)
			h.Raw(`</p>`)
		}
		h.Raw(`</div></div>`)

		h.Raw(`<div class="mt-6 flex justify-end gap-4"><a class="flex h-10 items-center rounded-lg bg-gray-100 px-4 text-sm font-medium text-gray-600 transition-colors hover:bg-gray-200"`)
		h.URL("href", ListPath)
		h.Raw(`>Cancel</a><button type="submit" class="flex h-10 items-center rounded-lg bg-blue-500 px-4 text-sm font-medium text-white transition-colors hover:bg-blue-400">`)
		h.Text(data.Submit)
		h.Raw(`</button></div></form>`)
	}))
}
