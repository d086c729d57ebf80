package ui

import (
	"net/http"

	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/customers"
	custommw "github.com/iamplus-mubina/acme-dashboard/internal/dashboard/httpserver/middleware"
	customerstpl "github.com/iamplus-mubina/acme-dashboard/internal/dashboard/templates/customers"
)

// CustomersPage renders the customers table, filtered by the `query` parameter.
func (h *Handlers) CustomersPage(w http.ResponseWriter, r *http.Request) {
	if h.customers == nil {
		renderError(w, r, customers.ErrNotConfigured, "customers: service missing")
		return
	}
	query := searchQuery(r)
	rows, err := h.customers.List(r.Context(), query)
	if err != nil {
		renderError(w, r, err, "customers: list failed")
		return
	}

	data := customerstpl.BuildPageData(query, rows)
	if custommw.WantsFragment(r.Context(), customerstpl.TableID) {
		render(w, r, customerstpl.Table(data), http.StatusOK)
		return
	}
	render(w, r, customerstpl.Index(data), http.StatusOK)
}
