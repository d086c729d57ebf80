package partials

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/templates/helpers"
)

// Search renders the GET search box for a listing. Typing refreshes target via htmx.
func Search(action, placeholder, value, target string) templ.Component {
	return helpers.Component(func(ctx context.Context, h *helpers.HTML) {
		h.Raw(`<form class="relative flex flex-1 flex-shrink-0" method="get" role="search" data-search-form`)
		h.URL("action", action)
		h.URL("hx-get", action)
		h.Attr("hx-target", "#"+target)
		h.Raw(` hx-select="#` + templ.EscapeString(target) + `" hx-swap="outerHTML" hx-push-url="true" hx-trigger="input changed delay:300ms from:input[name=query], submit">`)
		h.Raw(`<label for="search" class="sr-only">Search</label>`)
		h.Raw(`<input id="search" name="query" type="search" class="peer block w-full rounded-md border border-gray-200 py-[9px] pl-10 text-sm outline-2 placeholder:text-gray-500"`)
		h.Attr("placeholder", placeholder)
		h.Attr("value", value)
		h.Raw(`></form>`)
	})
}

// Pagination renders page links for the current listing URL.
func Pagination(path, rawQuery string, current, total int) templ.Component {
	return helpers.Component(func(ctx context.Context, h *helpers.HTML) {
		if total <= 1 {
			return
		}
		h.Raw(`<nav class="inline-flex" aria-label="Pagination" data-pagination>`)
		if current > 1 {
			h.Raw(`<a class="mr-2 flex h-10 w-10 items-center justify-center rounded-md border" rel="prev" data-page-prev`)
			h.URL("href", helpers.PageURL(path, rawQuery, current-1))
			h.Raw(`>&larr;</a>`)
		}
		for _, item := range helpers.Pagination(current, total) {
			switch {
			case item.Ellipsis:
				h.Raw(`<span class="flex h-10 w-10 items-center justify-center text-gray-300">...</span>`)
			case item.Current:
				h.Raw(`<span class="z-10 flex h-10 w-10 items-center justify-center border border-blue-600 bg-blue-600 text-white" aria-current="page">`)
				h.Text(strconv.Itoa(item.Page))
				h.Raw(`</span>`)
			default:
				h.Raw(`<a class="flex h-10 w-10 items-center justify-center border hover:bg-gray-100" data-page-link`)
				h.URL("href", helpers.PageURL(path, rawQuery, item.Page))
				h.Raw(`>`)
				h.Text(strconv.Itoa(item.Page))
				h.Raw(`</a>`)
			}
		}
		if current < total {
			h.Raw(`<a class="ml-2 flex h-10 w-10 items-center justify-center rounded-md border" rel="next" data-page-next`)
			h.URL("href", helpers.PageURL(path, rawQuery, current+1))
			h.Raw(`>&rarr;</a>`)
		}
		h.Raw(`</nav>`)
	})
}
