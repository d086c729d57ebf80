package auth

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/templates/helpers"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/templates/layout"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/templates/partials"
)

// FormID is the element htmx swaps when the form is re-rendered.
const FormID = "login-form"

// LoginPage renders the full login screen.
func LoginPage(data LoginPageData) templ.Component {
	return layout.Base("Login", helpers.Component(func(ctx context.Context, h *helpers.HTML) {
		h.Raw(`<main class="flex items-center justify-center md:h-screen"><div class="relative mx-auto flex w-full max-w-[400px] flex-col space-y-2.5 p-4 md:-mt-32">`)
		h.Raw(`<div class="flex h-20 w-full items-end rounded-lg bg-blue-500 p-3 md:h-36"><span class="w-32 text-3xl font-semibold text-white md:w-36">Acme</span></div>`)
		h.Render(ctx, LoginForm(data))
		h.Raw(`</div></main>`)
	}))
}

// LoginForm renders the form alone; htmx submissions receive it as the response.
func LoginForm(data LoginPageData) templ.Component {
	return helpers.Component(func(ctx context.Context, h *helpers.HTML) {
		loginPath := data.LoginPath
		if loginPath == "" {
			loginPath = "/login"
		}
		status := data.status()

		h.Raw(`<form method="post" class="space-y-3" hx-swap="outerHTML" hx-disabled-elt="#login-form fieldset"`)
		h.Attr("id", FormID)
		h.URL("action", loginPath)
		h.URL("hx-post", loginPath)
		h.Attr("data-status", status)
		if status == StatusSuccess && data.Redirect != "" {
			h.Attr("data-login-redirect", data.Redirect)
			h.Attr("data-login-redirect-delay", strconv.FormatInt(data.RedirectDelayMS, 10))
		}
		h.Raw(`><div class="flex-1 rounded-lg bg-gray-50 px-6 pb-4 pt-8">`)
		h.Raw(`<h1 class="mb-3 text-2xl">Please log in to continue.</h1>`)

		h.Raw(`<fieldset class="w-full"`)
		if status == StatusSuccess {
			h.Raw(` disabled`)
		}
		h.Raw(`>`)
		h.Raw(`<label class="mb-3 mt-5 block text-xs font-medium text-gray-900" for="email">Email</label>`)
		h.Raw(`<input class="peer block w-full rounded-md border border-gray-200 py-[9px] pl-10 text-sm outline-2 placeholder:text-gray-500" id="email" type="email" name="email" placeholder="Enter your email address" required aria-describedby="email-error"`)
		h.Attr("value", data.Email)
		h.Raw(`>`)
		h.Render(ctx, partials.FieldErrors("email-error", data.fieldErrors("email")))

		h.Raw(`<label class="mb-3 mt-5 block text-xs font-medium text-gray-900" for="password">Password</label>`)
		h.Raw(`<input class="peer block w-full rounded-md border border-gray-200 py-[9px] pl-10 text-sm outline-2 placeholder:text-gray-500" id="password" type="password" name="password" placeholder="Enter password" required minlength="6" aria-describedby="password-error">`)
		h.Render(ctx, partials.FieldErrors("password-error", data.fieldErrors("password")))

		h.Raw(`<input type="hidden" name="callbackUrl"`)
		h.Attr("value", data.CallbackURL)
		h.Raw(`><input type="hidden" name="csrf_token"`)
		h.Attr("value", data.CSRFToken)
		h.Raw(`>`)
		h.Raw(`<button type="submit" class="mt-4 flex h-10 w-full items-center justify-center rounded-lg bg-blue-500 px-4 text-sm font-medium text-white transition-colors hover:bg-blue-400 aria-disabled:cursor-not-allowed aria-disabled:opacity-50" data-login-submit>Log in</button>`)
		h.Raw(`</fieldset>`)

		h.Raw(`<div class="flex h-8 items-end space-x-1" aria-live="polite" aria-atomic="true" data-form-message>`)
		switch {
		case status == StatusError && data.Message != "":
			h.Raw(`<p class="text-sm text-red-500" role="alert">`)
			h.Text(data.Message)
			h.Raw(`</p>`)
		case status == StatusSuccess:
			h.Raw(`<p class="text-sm text-green-600">Signed in. Redirecting...</p>`)
		}
		h.Raw(`</div></div></form>`)
	})
}
