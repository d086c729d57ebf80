package partials

import (
	"context"

	"github.com/a-h/templ"

	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/httpserver/middleware"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/templates/helpers"
)

// NavLink is one entry of the side navigation.
type NavLink struct {
	Key   string
	Label string
	Href  string
	// Prefix highlights the link for nested pages too.
	Prefix bool
}

// NavLinks lists the dashboard sections.
var NavLinks = []NavLink{
	{Key: "home", Label: "Home", Href: "/dashboard"},
	{Key: "invoices", Label: "Invoices", Href: "/dashboard/invoices", Prefix: true},
	{Key: "customers", Label: "Customers", Href: "/dashboard/customers", Prefix: true},
}

// LogoutPath receives the sign out form.
const LogoutPath = "/dashboard/logout"

// SideNav renders the navigation column with the sign out form.
func SideNav() templ.Component {
	return helpers.Component(func(ctx context.Context, h *helpers.HTML) {
		h.Raw(`<nav class="flex h-full flex-col px-3 py-4 md:px-2" data-side-nav>`)
		h.Raw(`<a class="mb-2 flex h-20 items-end justify-start rounded-md bg-blue-600 p-4 md:h-40" href="/">`)
		h.Raw(`<span class="text-3xl font-semibold text-white">Acme</span></a>`)
		h.Render(ctx, EnvironmentBadge())
		h.Raw(`<div class="flex grow flex-row justify-between space-x-2 md:flex-col md:space-x-0 md:space-y-2">`)
		for _, link := range NavLinks {
			active := helpers.NavActive(ctx, link.Href, link.Prefix)
			h.Raw(`<a`)
			h.URL("href", link.Href)
			h.Attr("class", helpers.NavClass(active))
			h.Attr("data-nav-item", link.Key)
			if active {
				h.Raw(` aria-current="page"`)
			}
			h.Raw(`>`)
			h.Text(link.Label)
			h.Raw(`</a>`)
		}
		h.Raw(`<div class="hidden h-auto w-full grow rounded-md bg-gray-50 md:block"></div>`)
		if user, ok := middleware.UserFromContext(ctx); ok {
			h.Raw(`<p class="px-3 text-xs text-gray-500" data-nav-user>`)
			h.Text(user.Name)
			h.Raw(`</p>`)
		}
		h.Raw(`<form method="post" data-logout-form`)
		h.URL("action", LogoutPath)
		h.Raw(`>`)
		h.Render(ctx, CSRFField())
		h.Raw(`<button type="submit" class="flex h-[48px] w-full grow items-center justify-center gap-2 rounded-md bg-gray-50 p-3 text-sm font-medium hover:bg-sky-100 hover:text-blue-600 md:flex-none md:justify-start md:p-2 md:px-3">Sign Out</button>`)
		h.Raw(`</form></div></nav>`)
	})
}

// EnvironmentBadge marks non-production deployments.
func EnvironmentBadge() templ.Component {
	return helpers.Component(func(ctx context.Context, h *helpers.HTML) {
		label := middleware.EnvironmentFromContext(ctx)
		if label == "Production" {
			return
		}
		h.Raw(`<div class="mb-2 rounded-md bg-amber-100 px-3 py-1 text-xs font-semibold text-amber-700" data-environment-badge`)
		h.Attr("title", label)
		h.Raw(`><span aria-hidden="true">`)
		h.Text(middleware.EnvironmentBadge(label))
		h.Raw(`</span><span class="sr-only">`)
		h.Text(label)
		h.Raw(` environment</span></div>`)
	})
}

// CSRFField renders the hidden double-submit token input.
func CSRFField() templ.Component {
	return helpers.Component(func(ctx context.Context, h *helpers.HTML) {
		h.Raw(`<input type="hidden"`)
		h.Attr("name", middleware.CSRFFormField)
		h.Attr("value", middleware.CSRFTokenFromContext(ctx))
		h.Raw(`>`)
	})
}
