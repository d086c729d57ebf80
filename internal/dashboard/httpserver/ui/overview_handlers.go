package ui

import (
	"net/http"

	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/overview"
	overviewtpl "github.com/iamplus-mubina/acme-dashboard/internal/dashboard/templates/overview"
)

// Overview renders the dashboard home with cards, revenue and latest invoices.
func (h *Handlers) Overview(w http.ResponseWriter, r *http.Request) {
	data, err := overview.Load(r.Context(), h.overview)
	if err != nil {
		renderError(w, r, err, "overview: load failed")
		return
	}
	render(w, r, overviewtpl.Index(overviewtpl.BuildPageData(data)), http.StatusOK)
}
