package ui

import (
	"context"
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/customers"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/invoices"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/overview"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/templates/landing"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/templates/layout"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/templates/partials"
	"github.com/iamplus-mubina/acme-dashboard/internal/platform/requestctx"
)

// Dependencies collects external services required by the UI handlers.
type Dependencies struct {
	OverviewService  overview.Service
	InvoicesService  invoices.Service
	CustomersService customers.Service
	PageSize         int
}

// Handlers exposes HTTP handlers for dashboard pages and fragments.
type Handlers struct {
	overview  overview.Service
	invoices  invoices.Service
	customers customers.Service
	pageSize  int
}

// NewHandlers wires the UI handler set. Missing services surface as error panels.
func NewHandlers(deps Dependencies) *Handlers {
	pageSize := deps.PageSize
	if pageSize <= 0 {
		pageSize = invoices.DefaultPageSize
	}
	return &Handlers{
		overview:  deps.OverviewService,
		invoices:  deps.InvoicesService,
		customers: deps.CustomersService,
		pageSize:  pageSize,
	}
}

// Landing renders the public home page.
func (h *Handlers) Landing(w http.ResponseWriter, r *http.Request) {
	templ.Handler(landing.Page()).ServeHTTP(w, r)
}

// NotFound renders the dashboard 404 page.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	renderNotFound(w, r, "Could not find the requested page.", "/dashboard")
}

func renderNotFound(w http.ResponseWriter, r *http.Request, message, backHref string) {
	page := layout.Dashboard("Not Found", partials.NotFound(message, backHref))
	templ.Handler(page, templ.WithStatus(http.StatusNotFound)).ServeHTTP(w, r)
}

// renderError logs a provider failure and replaces the page with the error panel.
func renderError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	if errors.Is(err, context.Canceled) {
		return
	}
	requestctx.Logger(r.Context()).Error(msg, zap.Error(err))
	page := layout.Dashboard("Error", partials.ErrorPanel(currentURL(r)))
	templ.Handler(page, templ.WithStatus(http.StatusInternalServerError)).ServeHTTP(w, r)
}

func render(w http.ResponseWriter, r *http.Request, component templ.Component, status int) {
	if status == 0 {
		status = http.StatusOK
	}
	templ.Handler(component, templ.WithStatus(status)).ServeHTTP(w, r)
}
