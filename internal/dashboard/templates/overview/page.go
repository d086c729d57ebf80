package overview

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/templates/helpers"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/templates/layout"
)

// Index renders the overview page inside the dashboard chrome.
func Index(data PageData) templ.Component {
	return layout.Dashboard(data.Title, Content(data))
}

// Content renders the overview panels.
func Content(data PageData) templ.Component {
	return helpers.Component(func(ctx context.Context, h *helpers.HTML) {
		h.Raw(`<h1 class="mb-4 text-xl md:text-2xl">`)
		h.Text(data.Title)
		h.Raw(`</h1><div class="grid gap-6 sm:grid-cols-2 lg:grid-cols-4">`)
		for _, card := range data.Cards {
			h.Raw(`<div class="rounded-xl bg-gray-50 p-2 shadow-sm"`)
			h.Attr("data-card", card.Key)
			h.Raw(`><h3 class="ml-2 text-sm font-medium">`)
			h.Text(card.Title)
			h.Raw(`</h3><p class="truncate rounded-xl bg-white px-4 py-8 text-center text-2xl" data-card-value>`)
			h.Text(card.Value)
			h.Raw(`</p></div>`)
		}
		h.Raw(`</div><div class="mt-6 grid grid-cols-1 gap-6 md:grid-cols-4 lg:grid-cols-8">`)
		renderChart(ctx, h, data.Chart)
		renderLatest(ctx, h, data.Latest)
		h.Raw(`</div>`)
	})
}

func renderChart(_ context.Context, h *helpers.HTML, chart ChartView) {
	h.Raw(`<section class="w-full md:col-span-4" data-revenue-chart><h2 class="mb-4 text-xl md:text-2xl">Recent Revenue</h2>`)
	if len(chart.Bars) == 0 {
		h.Raw(`<p class="mt-4 text-gray-400">No data available.</p></section>`)
		return
	}
	h.Raw(`<div class="rounded-xl bg-gray-50 p-4"><div class="mt-0 grid grid-cols-13 items-end gap-2 rounded-md bg-white p-4 md:gap-4">`)
	h.Raw(`<div class="mb-6 flex h-[350px] flex-col justify-between text-sm text-gray-400" data-y-axis>`)
	for _, label := range chart.YLabels {
		h.Raw(`<p>`)
		h.Text(label)
		h.Raw(`</p>`)
	}
	h.Raw(`</div>`)
	for _, bar := range chart.Bars {
		h.Raw(`<div class="flex flex-col items-center gap-2" data-bar>`)
		h.Raw(`<div class="w-full rounded-md bg-blue-300"`)
		h.Attr("style", "height: "+strconv.FormatInt(bar.HeightPercent*350/100, 10)+"px")
		h.Attr("title", bar.Revenue)
		h.Raw(`></div><p class="-rotate-90 text-sm text-gray-400 sm:rotate-0">`)
		h.Text(bar.Month)
		h.Raw(`</p></div>`)
	}
	h.Raw(`</div><div class="flex items-center pb-2 pt-6"><h3 class="ml-2 text-sm text-gray-500">Last 12 months</h3></div></div></section>`)
}

func renderLatest(_ context.Context, h *helpers.HTML, rows []LatestInvoiceView) {
	h.Raw(`<section class="flex w-full flex-col md:col-span-4" data-latest-invoices><h2 class="mb-4 text-xl md:text-2xl">Latest Invoices</h2>`)
	h.Raw(`<div class="flex grow flex-col justify-between rounded-xl bg-gray-50 p-4"><div class="bg-white px-6">`)
	for i, row := range rows {
		class := "flex flex-row items-center justify-between py-4"
		if i != 0 {
			class += " border-t"
		}
		h.Raw(`<div`)
		h.Attr("class", class)
		h.Attr("data-invoice-id", row.ID)
		h.Raw(`><div class="flex items-center"><span class="mr-4 flex h-8 w-8 items-center justify-center rounded-full bg-gray-100 text-xs" aria-hidden="true">`)
		h.Text(row.Initials)
		h.Raw(`</span><div class="min-w-0"><p class="truncate text-sm font-semibold md:text-base" data-name>`)
		h.Text(row.Name)
		h.Raw(`</p><p class="hidden text-sm text-gray-500 sm:block">`)
		h.Text(row.Email)
		h.Raw(`</p></div></div><p class="truncate text-sm font-medium md:text-base" data-amount>`)
		h.Text(row.Amount)
		h.Raw(`</p></div>`)
	}
	h.Raw(`</div><div class="flex items-center pb-2 pt-6"><h3 class="ml-2 text-sm text-gray-500">Updated just now</h3></div></div></section>`)
}
