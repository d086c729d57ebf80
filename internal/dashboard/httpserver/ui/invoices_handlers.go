package ui

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	custommw "github.com/iamplus-mubina/acme-dashboard/internal/dashboard/httpserver/middleware"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/invoices"
	invoicestpl "github.com/iamplus-mubina/acme-dashboard/internal/dashboard/templates/invoices"
	"github.com/iamplus-mubina/acme-dashboard/internal/platform/requestctx"
)

const invoiceNotFoundMessage = "Could not find the requested invoice."

// InvoicesPage renders the invoices listing. htmx search requests targeting the
// table receive only the table fragment.
func (h *Handlers) InvoicesPage(w http.ResponseWriter, r *http.Request) {
	if h.invoices == nil {
		renderError(w, r, invoices.ErrNotConfigured, "invoices: service missing")
		return
	}
	query := searchQuery(r)
	result, err := h.invoices.List(r.Context(), invoices.Query{
		Search:   query,
		Page:     pageParam(r),
		PageSize: h.pageSize,
	})
	if err != nil {
		renderError(w, r, err, "invoices: list failed")
		return
	}

	data := invoicestpl.BuildListPageData(query, r.URL.RawQuery, result)
	if custommw.WantsFragment(r.Context(), invoicestpl.TableID) {
		render(w, r, invoicestpl.Table(data), http.StatusOK)
		return
	}
	render(w, r, invoicestpl.List(data), http.StatusOK)
}

// InvoiceCreateForm renders an empty create form.
func (h *Handlers) InvoiceCreateForm(w http.ResponseWriter, r *http.Request) {
	if h.invoices == nil {
		renderError(w, r, invoices.ErrNotConfigured, "invoices: service missing")
		return
	}
	options, err := h.invoices.CustomerOptions(r.Context())
	if err != nil {
		renderError(w, r, err, "invoices: customer options failed")
		return
	}
	render(w, r, invoicestpl.Form(invoicestpl.NewCreateForm(options)), http.StatusOK)
}

// InvoiceCreate stores a new invoice and returns to the listing.
func (h *Handlers) InvoiceCreate(w http.ResponseWriter, r *http.Request) {
	if h.invoices == nil {
		renderError(w, r, invoices.ErrNotConfigured, "invoices: service missing")
		return
	}
	input := invoiceInput(r)
	_, err := h.invoices.Create(r.Context(), input)
	var verr *invoices.ValidationError
	switch {
	case errors.As(err, &verr):
		h.rerenderForm(w, r, invoicestpl.NewCreateForm(nil), input, verr)
		return
	case err != nil:
		renderError(w, r, err, "invoices: create failed")
		return
	}
	http.Redirect(w, r, invoicestpl.ListPath, http.StatusSeeOther)
}

// InvoiceEditForm renders the edit form for the invoice in the URL.
func (h *Handlers) InvoiceEditForm(w http.ResponseWriter, r *http.Request) {
	if h.invoices == nil {
		renderError(w, r, invoices.ErrNotConfigured, "invoices: service missing")
		return
	}
	inv, err := h.invoices.Get(r.Context(), chi.URLParam(r, "invoiceID"))
	if errors.Is(err, invoices.ErrNotFound) {
		renderNotFound(w, r, invoiceNotFoundMessage, invoicestpl.ListPath)
		return
	}
	if err != nil {
		renderError(w, r, err, "invoices: get failed")
		return
	}
	options, err := h.invoices.CustomerOptions(r.Context())
	if err != nil {
		renderError(w, r, err, "invoices: customer options failed")
		return
	}
	render(w, r, invoicestpl.Form(invoicestpl.NewEditForm(inv, options)), http.StatusOK)
}

// InvoiceUpdate replaces customer, amount and status of the invoice in the URL.
func (h *Handlers) InvoiceUpdate(w http.ResponseWriter, r *http.Request) {
	if h.invoices == nil {
		renderError(w, r, invoices.ErrNotConfigured, "invoices: service missing")
		return
	}
	id := chi.URLParam(r, "invoiceID")
	input := invoiceInput(r)
	_, err := h.invoices.Update(r.Context(), id, input)
	var verr *invoices.ValidationError
	switch {
	case errors.As(err, &verr):
		h.rerenderForm(w, r, invoicestpl.NewEditForm(invoices.Invoice{ID: id}, nil), input, verr)
		return
	case errors.Is(err, invoices.ErrNotFound):
		renderNotFound(w, r, invoiceNotFoundMessage, invoicestpl.ListPath)
		return
	case err != nil:
		renderError(w, r, err, "invoices: update failed")
		return
	}
	http.Redirect(w, r, invoicestpl.ListPath, http.StatusSeeOther)
}

// InvoiceDelete removes the invoice in the URL.
func (h *Handlers) InvoiceDelete(w http.ResponseWriter, r *http.Request) {
	if h.invoices == nil {
		renderError(w, r, invoices.ErrNotConfigured, "invoices: service missing")
		return
	}
	err := h.invoices.Delete(r.Context(), chi.URLParam(r, "invoiceID"))
	if errors.Is(err, invoices.ErrNotFound) {
		renderNotFound(w, r, invoiceNotFoundMessage, invoicestpl.ListPath)
		return
	}
	if err != nil {
		renderError(w, r, err, "invoices: delete failed")
		return
	}
	http.Redirect(w, r, invoicestpl.ListPath, http.StatusSeeOther)
}

func (h *Handlers) rerenderForm(w http.ResponseWriter, r *http.Request, form invoicestpl.FormPageData, input invoices.Input, verr *invoices.ValidationError) {
	options, err := h.invoices.CustomerOptions(r.Context())
	if err != nil {
		renderError(w, r, err, "invoices: customer options failed")
		return
	}
	requestctx.Logger(r.Context()).Info("invoice form rejected", zap.Int("invalid_fields", len(verr.Fields)))
	form.Customers = options
	render(w, r, invoicestpl.Form(form.WithInput(input, verr)), http.StatusUnprocessableEntity)
}

func invoiceInput(r *http.Request) invoices.Input {
	return invoices.Input{
		CustomerID: r.PostFormValue("customerId"),
		Amount:     r.PostFormValue("amount"),
		Status:     r.PostFormValue("status"),
	}
}
