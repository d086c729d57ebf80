package overview

import (
	appoverview "github.com/iamplus-mubina/acme-dashboard/internal/dashboard/overview"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/templates/helpers"
)

// PageData represents the overview SSR payload.
type PageData struct {
	Title  string
	Cards  []CardView
	Chart  ChartView
	Latest []LatestInvoiceView
}

// CardView is one summary card.
type CardView struct {
	Key   string
	Title string
	Value string
}

// ChartView is the revenue bar chart.
type ChartView struct {
	YLabels []string
	Bars    []BarView
}

// BarView is one month of the chart. HeightPercent is relative to the top label.
type BarView struct {
	Month         string
	Revenue       string
	HeightPercent int64
}

// LatestInvoiceView is one row of the latest invoices panel.
type LatestInvoiceView struct {
	ID       string
	Name     string
	Email    string
	Initials string
	Amount   string
}

// BuildPageData prepares the template payload for SSR rendering.
func BuildPageData(ov appoverview.Overview) PageData {
	return PageData{
		Title:  "Dashboard",
		Cards:  cardViews(ov.Cards),
		Chart:  chartView(ov.Revenue),
		Latest: latestViews(ov),
	}
}

func cardViews(cards appoverview.Cards) []CardView {
	return []CardView{
		{Key: "collected", Title: "Collected", Value: helpers.Currency(cards.TotalPaid)},
		{Key: "pending", Title: "Pending", Value: helpers.Currency(cards.TotalPending)},
		{Key: "invoices", Title: "Total Invoices", Value: helpers.Number(cards.NumberOfInvoices)},
		{Key: "customers", Title: "Total Customers", Value: helpers.Number(cards.NumberOfCustomers)},
	}
}

func chartView(revenue []appoverview.Revenue) ChartView {
	labels, top := appoverview.YAxis(revenue)
	bars := make([]BarView, 0, len(revenue))
	for _, month := range revenue {
		var height int64
		if top > 0 {
			height = month.Revenue * 100 / top
		}
		bars = append(bars, BarView{
			Month:         month.Month,
			Revenue:       helpers.Currency(month.Revenue * 100),
			HeightPercent: height,
		})
	}
	return ChartView{YLabels: labels, Bars: bars}
}

func latestViews(ov appoverview.Overview) []LatestInvoiceView {
	rows := make([]LatestInvoiceView, 0, len(ov.Latest))
	for _, row := range ov.Latest {
		rows = append(rows, LatestInvoiceView{
			ID:       row.ID,
			Name:     row.Customer,
			Email:    row.Email,
			Initials: helpers.Initials(row.Customer),
			Amount:   helpers.Currency(row.Amount),
		})
	}
	return rows
}
