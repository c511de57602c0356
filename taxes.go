package billomat

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TaxRate is a tax rate configured for the account.
type TaxRate struct {
	ID        int             `json:"id"`
	Created   *time.Time      `json:"created,omitempty"`
	AccountID *int            `json:"account_id,omitempty"`
	Name      string          `json:"name"`
	Rate      decimal.Decimal `json:"rate"`
	IsDefault bool            `json:"is_default"`
}

func hydrateTaxRate(r record) TaxRate {
	return TaxRate{
		ID:        r.intOr("id", 0),
		Created:   r.timePtr("created"),
		AccountID: r.intPtr("account_id"),
		Name:      r.stringOr("name", ""),
		Rate:      r.decimalOr("rate"),
		IsDefault: r.boolOr("is_default", false),
	}
}

// TaxRateCreate describes a tax rate for create and update. Every field is
// always sent.
type TaxRateCreate struct {
	Name      string
	Rate      decimal.Decimal
	IsDefault bool
}

func (c *TaxRateCreate) payload() payload {
	p := payload{}
	p.putString("name", c.Name)
	p.putDecimal("rate", c.Rate)
	p.putBool("is_default", c.IsDefault)
	return p
}

// CreateOptions returns the writable fields of t.
func (t TaxRate) CreateOptions() *TaxRateCreate {
	return &TaxRateCreate{Name: t.Name, Rate: t.Rate, IsDefault: t.IsDefault}
}

// List returns the account's tax rates. query may add paging parameters.
func (s TaxesService) List(ctx context.Context, query Query) ([]TaxRate, error) {
	return s.res.list(ctx, query)
}

// Get returns the tax rate with id, or nil if it does not exist.
func (s TaxesService) Get(ctx context.Context, id int) (*TaxRate, error) {
	return s.res.get(ctx, id)
}

// Create adds a tax rate.
func (s TaxesService) Create(ctx context.Context, c *TaxRateCreate) (*TaxRate, error) {
	if c == nil {
		c = &TaxRateCreate{}
	}
	return s.res.create(ctx, c.payload())
}

// Update replaces the tax rate's fields with c.
func (s TaxesService) Update(ctx context.Context, id int, c *TaxRateCreate) (*TaxRate, error) {
	if c == nil {
		c = &TaxRateCreate{}
	}
	return s.res.update(ctx, id, c.payload())
}

// Delete removes the tax rate.
func (s TaxesService) Delete(ctx context.Context, id int) error {
	return s.res.remove(ctx, id)
}
