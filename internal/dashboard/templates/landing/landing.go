package landing

import (
	"context"

	"github.com/a-h/templ"

	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/templates/helpers"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/templates/layout"
)

// Page renders the public landing page.
func Page() templ.Component {
	return layout.Base("Welcome", helpers.Component(func(ctx context.Context, h *helpers.HTML) {
		h.Raw(`<main class="flex min-h-screen flex-col p-6">`)
		h.Raw(`<div class="flex h-20 shrink-0 items-end rounded-lg bg-blue-500 p-4 md:h-52"><span class="text-4xl font-semibold text-white">Acme</span></div>`)
		h.Raw(`<div class="mt-4 flex grow flex-col gap-4 md:flex-row"><div class="flex flex-col justify-center gap-6 rounded-lg bg-gray-50 px-6 py-10 md:w-2/5 md:px-20">`)
		h.Raw(`<p class="text-xl text-gray-800 md:text-3xl md:leading-normal"><strong>Welcome to Acme.</strong> This is the example invoice dashboard.</p>`)
		h.Raw(`<a href="/login" class="flex items-center gap-5 self-start rounded-lg bg-blue-500 px-6 py-3 text-sm font-medium text-white transition-colors hover:bg-blue-400 md:text-base" data-login-link>Log in</a>`)
		h.Raw(`</div></div></main>`)
	}))
}
