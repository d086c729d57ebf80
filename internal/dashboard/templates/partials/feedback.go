package partials

import (
	"context"

	"github.com/a-h/templ"

	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/templates/helpers"
)

// ErrorPanel replaces a page or panel whose data could not be loaded.
// retryURL reloads the same page.
func ErrorPanel(retryURL string) templ.Component {
	return helpers.Component(func(ctx context.Context, h *helpers.HTML) {
		h.Raw(`<section class="flex h-full flex-col items-center justify-center" data-error-panel role="alert">`)
		h.Raw(`<h2 class="text-center">Something went wrong!</h2>`)
		h.Raw(`<a class="mt-4 rounded-md bg-blue-500 px-4 py-2 text-sm text-white transition-colors hover:bg-blue-400" data-error-retry`)
		h.URL("href", retryURL)
		h.Raw(`>Try again</a></section>`)
	})
}

// NotFound is shown when a requested record does not exist.
func NotFound(message, backHref string) templ.Component {
	return helpers.Component(func(ctx context.Context, h *helpers.HTML) {
		h.Raw(`<section class="flex h-full flex-col items-center justify-center gap-2" data-not-found>`)
		h.Raw(`<h2 class="text-xl font-semibold">404 Not Found</h2><p>`)
		h.Text(message)
		h.Raw(`</p><a class="mt-4 rounded-md bg-blue-500 px-4 py-2 text-sm text-white transition-colors hover:bg-blue-400"`)
		h.URL("href", backHref)
		h.Raw(`>Go Back</a></section>`)
	})
}

// FieldErrors renders the messages for one form field under the given element id.
func FieldErrors(id string, messages []string) templ.Component {
	return helpers.Component(func(ctx context.Context, h *helpers.HTML) {
		h.Raw(`<div aria-live="polite" aria-atomic="true"`)
		h.Attr("id", id)
		h.Raw(`>`)
		for _, msg := range messages {
			h.Raw(`<p class="mt-2 text-sm text-red-500">`)
			h.Text(msg)
			h.Raw(`</p>`)
		}
		h.Raw(`</div>`)
	})
}

// Breadcrumb is one step of the breadcrumb trail. The last step is the current page.
type Breadcrumb struct {
	Label string
	Href  string
}

// Breadcrumbs renders the trail above form pages.
func Breadcrumbs(items []Breadcrumb) templ.Component {
	return helpers.Component(func(ctx context.Context, h *helpers.HTML) {
		h.Raw(`<nav aria-label="Breadcrumb" class="mb-6 block"><ol class="flex text-xl md:text-2xl">`)
		for i, item := range items {
			last := i == len(items)-1
			if last {
				h.Raw(`<li aria-current="page" class="text-gray-900">`)
			} else {
				h.Raw(`<li class="text-gray-500">`)
			}
			h.Raw(`<a`)
			h.URL("href", item.Href)
			h.Raw(`>`)
			h.Text(item.Label)
			h.Raw(`</a>`)
			if !last {
				h.Raw(`<span class="mx-3 inline-block">/</span>`)
			}
			h.Raw(`</li>`)
		}
		h.Raw(`</ol></nav>`)
	})
}
