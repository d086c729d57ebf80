package invoices

import (
	appinvoices "github.com/iamplus-mubina/acme-dashboard/internal/dashboard/invoices"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/templates/helpers"
)

// TableID is the element swapped by search requests.
const TableID = "invoices-table"

// ListPath is the invoices listing URL.
const ListPath = "/dashboard/invoices"

// ListPageData represents the invoices listing.
type ListPageData struct {
	Title      string
	Query      string
	RawQuery   string
	Rows       []RowView
	Page       int
	TotalPages int
	TotalItems int
}

// RowView is one invoice row.
type RowView struct {
	ID        string
	Name      string
	Email     string
	Initials  string
	Amount    string
	Date      string
	Status    string
	NameSegs  []helpers.HighlightSegment
	EditURL   string
	DeleteURL string
}

// BuildListPageData prepares the listing for rendering.
func BuildListPageData(query, rawQuery string, result appinvoices.ListResult) ListPageData {
	rows := make([]RowView, 0, len(result.Rows))
	for _, row := range result.Rows {
		rows = append(rows, RowView{
			ID:        row.ID,
			Name:      row.Customer,
			Email:     row.Email,
			Initials:  helpers.Initials(row.Customer),
			Amount:    helpers.Currency(row.Amount),
			Date:      helpers.Date(row.Date),
			Status:    string(row.Status),
			NameSegs:  helpers.HighlightSegments(row.Customer, query),
			EditURL:   EditURL(row.ID),
			DeleteURL: ListPath + "/" + row.ID + "/delete",
		})
	}
	return ListPageData{
		Title:      "Invoices",
		Query:      query,
		RawQuery:   rawQuery,
		Rows:       rows,
		Page:       result.Page,
		TotalPages: result.TotalPages,
		TotalItems: result.TotalItems,
	}
}

// EditURL links to the edit form of an invoice.
func EditURL(id string) string {
	return ListPath + "/" + id + "/edit"
}

// FormPageData represents the create and edit forms.
type FormPageData struct {
	Title      string
	Action     string
	Submit     string
	Crumb      string
	CrumbHref  string
	Customers  []appinvoices.CustomerOption
	CustomerID string
	Amount     string
	Status     string
	Message    string
	Errors     map[string][]string
}

// NewCreateForm prepares an empty create form.
func NewCreateForm(customers []appinvoices.CustomerOption) FormPageData {
	return FormPageData{
		Title:     "Create Invoice",
		Action:    ListPath + "/create",
		Submit:    "Create Invoice",
		Crumb:     "Create Invoice",
		CrumbHref: ListPath + "/create",
		Customers: customers,
	}
}

// NewEditForm prepares the edit form populated from inv. Amounts are shown in dollars.
func NewEditForm(inv appinvoices.Invoice, customers []appinvoices.CustomerOption) FormPageData {
	return FormPageData{
		Title:      "Edit Invoice",
		Action:     EditURL(inv.ID),
		Submit:     "Edit Invoice",
		Crumb:      "Edit Invoice",
		CrumbHref:  EditURL(inv.ID),
		Customers:  customers,
		CustomerID: inv.CustomerID,
		Amount:     inv.AmountDollars(),
		Status:     string(inv.Status),
	}
}

// WithInput echoes a rejected submission back into the form.
func (d FormPageData) WithInput(input appinvoices.Input, verr *appinvoices.ValidationError) FormPageData {
	d.CustomerID = input.CustomerID
	d.Amount = input.Amount
	d.Status = input.Status
	if verr != nil {
		d.Message = verr.Message
		d.Errors = verr.Fields
	}
	return d
}
