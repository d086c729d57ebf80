package invoices

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Service exposes invoice management for the dashboard UI.
type Service interface {
	// List returns one page of invoices matching the query, newest first.
	List(ctx context.Context, query Query) (ListResult, error)
	// Get returns a single invoice for the edit form.
	Get(ctx context.Context, id string) (Invoice, error)
	// Create validates the input and stores a new invoice dated today.
	Create(ctx context.Context, input Input) (Invoice, error)
	// Update validates the input and replaces customer, amount and status.
	Update(ctx context.Context, id string, input Input) (Invoice, error)
	// Delete removes an invoice.
	Delete(ctx context.Context, id string) error
	// Latest returns the most recent invoices joined with their customer.
	Latest(ctx context.Context, limit int) ([]Row, error)
	// Totals aggregates counts and amounts across all invoices.
	Totals(ctx context.Context) (Totals, error)
	// CustomerOptions lists customers selectable on the invoice forms.
	CustomerOptions(ctx context.Context) ([]CustomerOption, error)
}

// Status is the payment state of an invoice.
type Status string

const (
	// StatusPending indicates the invoice is awaiting payment.
	StatusPending Status = "pending"
	// StatusPaid indicates the invoice was paid.
	StatusPaid Status = "paid"
)

// DefaultPageSize is the number of invoices per list page.
const DefaultPageSize = 6

const (
	msgSelectCustomer = "Please select a customer."
	msgAmount         = "Please enter an amount greater than $0."
	msgSelectStatus   = "Please select an invoice status."
	// MessageCreateFailed is shown above an invalid create form.
	MessageCreateFailed = "Missing Fields. Failed to Create Invoice."
	// MessageUpdateFailed is shown above an invalid edit form.
	MessageUpdateFailed = "Missing Fields. Failed to Update Invoice."
)

var (
	// ErrNotFound is returned when an invoice does not exist.
	ErrNotFound = errors.New("invoice not found")
	// ErrNotConfigured indicates the invoice service dependency has not been provided.
	ErrNotConfigured = errors.New("invoice service not configured")
)

// Invoice is a stored invoice. Amount is in cents.
type Invoice struct {
	ID         string
	CustomerID string
	Amount     int64
	Status     Status
	Date       time.Time
}

// AmountDollars renders the amount as a plain decimal for form inputs.
func (i Invoice) AmountDollars() string {
	return strconv.FormatFloat(float64(i.Amount)/100, 'f', 2, 64)
}

// Row is an invoice joined with its customer for tables.
type Row struct {
	ID       string
	Customer string
	Email    string
	ImageURL string
	Amount   int64
	Status   Status
	Date     time.Time
}

// Query captures search and pagination arguments.
type Query struct {
	Search   string
	Page     int
	PageSize int
}

// ListResult is one page of invoices.
type ListResult struct {
	Rows       []Row
	Page       int
	PageSize   int
	TotalItems int
	TotalPages int
}

// Totals aggregates the invoice table.
type Totals struct {
	Count   int
	Paid    int64
	Pending int64
}

// CustomerOption is a selectable customer.
type CustomerOption struct {
	ID   string
	Name string
}

// Input is the raw form submission for create and update.
type Input struct {
	CustomerID string
	Amount     string
	Status     string
}

// ValidationError reports field-level problems with an Input.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	return fmt.Sprintf("invoice validation failed: %s", strings.Join(fields, ", "))
}

type validInput struct {
	customerID string
	cents      int64
	status     Status
}

// validate checks the input against the known customers and converts dollars to cents.
func validate(input Input, customerExists func(string) bool, message string) (validInput, error) {
	fields := map[string][]string{}

	customerID := strings.TrimSpace(input.CustomerID)
	if customerID == "" || (customerExists != nil && !customerExists(customerID)) {
		fields["customerId"] = append(fields["customerId"], msgSelectCustomer)
	}

	var cents int64
	dollars, err := strconv.ParseFloat(strings.TrimSpace(input.Amount), 64)
	if err != nil || math.IsNaN(dollars) || math.IsInf(dollars, 0) || dollars <= 0 {
		fields["amount"] = append(fields["amount"], msgAmount)
	} else {
		cents = int64(math.Round(dollars * 100))
		if cents <= 0 {
			fields["amount"] = append(fields["amount"], msgAmount)
		}
	}

	status := Status(strings.TrimSpace(input.Status))
	if status != StatusPending && status != StatusPaid {
		fields["status"] = append(fields["status"], msgSelectStatus)
	}

	if len(fields) > 0 {
		return validInput{}, &ValidationError{Message: message, Fields: fields}
	}
	return validInput{customerID: customerID, cents: cents, status: status}, nil
}
