package billomat

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceItem is one line of an invoice.
type InvoiceItem struct {
	ID                  int              `json:"id"`
	Created             *time.Time       `json:"created,omitempty"`
	InvoiceID           int              `json:"invoice_id"`
	ArticleID           *int             `json:"article_id,omitempty"`
	Position            *int             `json:"position,omitempty"`
	Unit                *string          `json:"unit,omitempty"`
	Quantity            decimal.Decimal  `json:"quantity"`
	UnitPrice           decimal.Decimal  `json:"unit_price"`
	TaxName             *string          `json:"tax_name,omitempty"`
	TaxRate             *decimal.Decimal `json:"tax_rate,omitempty"`
	TaxChangedManually  *bool            `json:"tax_changed_manually,omitempty"`
	Title               *string          `json:"title,omitempty"`
	Description         *string          `json:"description,omitempty"`
	Reduction           *string          `json:"reduction,omitempty"`
	Type                InvoiceItemType  `json:"type,omitempty"`
	TotalGross          *decimal.Decimal `json:"total_gross,omitempty"`
	TotalNet            *decimal.Decimal `json:"total_net,omitempty"`
	TotalGrossUnreduced *decimal.Decimal `json:"total_gross_unreduced,omitempty"`
	TotalNetUnreduced   *decimal.Decimal `json:"total_net_unreduced,omitempty"`
}

func hydrateInvoiceItem(r record) InvoiceItem {
	return InvoiceItem{
		ID:                  r.intOr("id", 0),
		Created:             r.timePtr("created"),
		InvoiceID:           r.intOr("invoice_id", 0),
		ArticleID:           r.intPtr("article_id"),
		Position:            r.intPtr("position"),
		Unit:                r.stringPtr("unit"),
		Quantity:            r.decimalOr("quantity"),
		UnitPrice:           r.decimalOr("unit_price"),
		TaxName:             r.stringPtr("tax_name"),
		TaxRate:             r.decimalPtr("tax_rate"),
		TaxChangedManually:  r.boolPtr("tax_changed_manually"),
		Title:               r.stringPtr("title"),
		Description:         r.stringPtr("description"),
		Reduction:           r.stringPtr("reduction"),
		Type:                enumOf(r, "type", InvoiceItemTypes),
		TotalGross:          r.decimalPtr("total_gross"),
		TotalNet:            r.decimalPtr("total_net"),
		TotalGrossUnreduced: r.decimalPtr("total_gross_unreduced"),
		TotalNetUnreduced:   r.decimalPtr("total_net_unreduced"),
	}
}

// InvoiceItemCreate describes a line item for create and update. Quantity
// and UnitPrice are always sent.
type InvoiceItemCreate struct {
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	ArticleID   *int
	Position    *int
	Unit        *string
	Title       *string
	Description *string
	TaxName     *string
	TaxRate     *decimal.Decimal
	Reduction   *string
	Type        InvoiceItemType
}

// NewInvoiceItemCreate starts a line item of quantity units at unitPrice.
func NewInvoiceItemCreate(quantity, unitPrice decimal.Decimal) *InvoiceItemCreate {
	return &InvoiceItemCreate{Quantity: quantity, UnitPrice: unitPrice}
}

func (c *InvoiceItemCreate) payload() payload {
	p := payload{}
	p.putDecimal("quantity", c.Quantity)
	p.putDecimal("unit_price", c.UnitPrice)
	p.setInt("article_id", c.ArticleID)
	p.setInt("position", c.Position)
	p.setString("unit", c.Unit)
	p.setString("title", c.Title)
	p.setString("description", c.Description)
	p.setString("tax_name", c.TaxName)
	p.setDecimal("tax_rate", c.TaxRate)
	p.setString("reduction", c.Reduction)
	setEnum(p, "type", c.Type)
	return p
}

// CreateOptions returns the writable fields of it, for re-posting or update.
func (it InvoiceItem) CreateOptions() *InvoiceItemCreate {
	return &InvoiceItemCreate{
		Quantity:    it.Quantity,
		UnitPrice:   it.UnitPrice,
		ArticleID:   copyPtr(it.ArticleID),
		Position:    copyPtr(it.Position),
		Unit:        copyPtr(it.Unit),
		Title:       copyPtr(it.Title),
		Description: copyPtr(it.Description),
		TaxName:     copyPtr(it.TaxName),
		TaxRate:     copyPtr(it.TaxRate),
		Reduction:   copyPtr(it.Reduction),
		Type:        it.Type,
	}
}

// List returns the items of invoiceID. query may add paging parameters.
func (s InvoiceItemsService) List(ctx context.Context, invoiceID int, query Query) ([]InvoiceItem, error) {
	return s.res.list(ctx, Query{"invoice_id": invoiceID}.merge(query))
}

// Get returns the item with id, or nil if it does not exist.
func (s InvoiceItemsService) Get(ctx context.Context, id int) (*InvoiceItem, error) {
	return s.res.get(ctx, id)
}

// Create appends an item to invoiceID.
func (s InvoiceItemsService) Create(ctx context.Context, invoiceID int, c *InvoiceItemCreate) (*InvoiceItem, error) {
	if c == nil {
		c = &InvoiceItemCreate{}
	}
	p := c.payload()
	p.putInt("invoice_id", invoiceID)
	return s.res.create(ctx, p)
}

// Update replaces the writable fields of item id with c.
func (s InvoiceItemsService) Update(ctx context.Context, id int, c *InvoiceItemCreate) (*InvoiceItem, error) {
	if c == nil {
		c = &InvoiceItemCreate{}
	}
	return s.res.update(ctx, id, c.payload())
}

// Delete removes the item.
func (s InvoiceItemsService) Delete(ctx context.Context, id int) error {
	return s.res.remove(ctx, id)
}
