// Package seed loads the embedded demo dataset backing the in-memory providers.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed fixture.yaml
var fixture []byte

// DateLayout is the storage format of invoice dates.
const DateLayout = "2006-01-02"

// User is a sign-in account.
type User struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// Customer is a billed party.
type Customer struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	ImageURL string `yaml:"image_url,omitempty"`
}

// Invoice is a stored invoice; Amount is in cents.
type Invoice struct {
	ID         string `yaml:"id"`
	CustomerID string `yaml:"customer_id"`
	Amount     int64  `yaml:"amount"`
	Status     string `yaml:"status"`
	Date       string `yaml:"date"`
}

// Revenue is one month of the revenue chart.
type Revenue struct {
	Month   string `yaml:"month"`
	Revenue int64  `yaml:"revenue"`
}

// Dataset is the full fixture.
type Dataset struct {
	Users     []User     `yaml:"users"`
	Customers []Customer `yaml:"customers"`
	Invoices  []Invoice  `yaml:"invoices"`
	Revenue   []Revenue  `yaml:"revenue"`
}

// Load decodes and validates the embedded fixture.
func Load() (Dataset, error) {
	return Parse(fixture)
}

// MustLoad is Load for static initialisation; it panics on a broken fixture.
func MustLoad() Dataset {
	ds, err := Load()
	if err != nil {
		panic(err)
	}
	return ds
}

// Parse decodes and validates a YAML dataset.
func Parse(raw []byte) (Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		return Dataset{}, fmt.Errorf("seed: decode fixture: %w", err)
	}
	if err := ds.validate(); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

func (ds Dataset) validate() error {
	customers := make(map[string]struct{}, len(ds.Customers))
	for _, c := range ds.Customers {
		if c.ID == "" || c.Name == "" {
			return fmt.Errorf("seed: customer %q is missing id or name", c.ID)
		}
		if _, dup := customers[c.ID]; dup {
			return fmt.Errorf("seed: duplicate customer id %q", c.ID)
		}
		customers[c.ID] = struct{}{}
	}
	invoices := make(map[string]struct{}, len(ds.Invoices))
	for _, inv := range ds.Invoices {
		if _, dup := invoices[inv.ID]; dup || inv.ID == "" {
			return fmt.Errorf("seed: invalid or duplicate invoice id %q", inv.ID)
		}
		invoices[inv.ID] = struct{}{}
		if _, ok := customers[inv.CustomerID]; !ok {
			return fmt.Errorf("seed: invoice %s references unknown customer %q", inv.ID, inv.CustomerID)
		}
		if inv.Status != "pending" && inv.Status != "paid" {
			return fmt.Errorf("seed: invoice %s has invalid status %q", inv.ID, inv.Status)
		}
		if inv.Amount < 0 {
			return fmt.Errorf("seed: invoice %s has negative amount", inv.ID)
		}
		if _, err := time.Parse(DateLayout, inv.Date); err != nil {
			return fmt.Errorf("seed: invoice %s date: %w", inv.ID, err)
		}
	}
	return nil
}

// Wait simulates backend latency, returning early with ctx.Err() on cancellation.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
