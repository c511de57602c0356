package billomat

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// InvoicePayment is a payment booked against an invoice.
type InvoicePayment struct {
	ID        int                `json:"id"`
	Created   *time.Time         `json:"created,omitempty"`
	InvoiceID int                `json:"invoice_id"`
	UserID    *int               `json:"user_id,omitempty"`
	Date      *time.Time         `json:"date,omitempty"`
	Amount    decimal.Decimal    `json:"amount"`
	Type      InvoicePaymentType `json:"type,omitempty"`
	Comment   *string            `json:"comment,omitempty"`
}

func hydrateInvoicePayment(r record) InvoicePayment {
	return InvoicePayment{
		ID:        r.intOr("id", 0),
		Created:   r.timePtr("created"),
		InvoiceID: r.intOr("invoice_id", 0),
		UserID:    r.intPtr("user_id"),
		Date:      r.datePtr("date"),
		Amount:    r.decimalOr("amount"),
		Type:      enumOf(r, "type", InvoicePaymentTypes),
		Comment:   r.stringPtr("comment"),
	}
}

// InvoicePaymentCreate books a payment. InvoiceID, Amount and
// MarkInvoiceAsPaid are always sent.
type InvoicePaymentCreate struct {
	InvoiceID          int
	Amount             decimal.Decimal
	MarkInvoiceAsPaid  bool
	Date               *time.Time
	Comment            *string
	TransactionPurpose *string
	Type               InvoicePaymentType
}

// NewInvoicePaymentCreate starts a payment of amount on invoiceID.
func NewInvoicePaymentCreate(invoiceID int, amount decimal.Decimal) *InvoicePaymentCreate {
	return &InvoicePaymentCreate{InvoiceID: invoiceID, Amount: amount}
}

func (c *InvoicePaymentCreate) payload() payload {
	p := payload{}
	p.putInt("invoice_id", c.InvoiceID)
	p.putDecimal("amount", c.Amount)
	p.putBool("mark_invoice_as_paid", c.MarkInvoiceAsPaid)
	p.setDate("date", c.Date)
	p.setString("comment", c.Comment)
	p.setString("transaction_purpose", c.TransactionPurpose)
	setEnum(p, "type", c.Type)
	return p
}

// InvoicePaymentListOptions filters GET /invoice-payments.
type InvoicePaymentListOptions struct {
	Paging

	InvoiceID *int
	From      *time.Time
	To        *time.Time
	Type      []InvoicePaymentType
	UserID    *int
	OrderBy   *string
	Extra     Query
}

func (o *InvoicePaymentListOptions) query() Query {
	q := Query{}
	if o == nil {
		return q
	}
	o.Paging.apply(q)
	q["invoice_id"] = o.InvoiceID
	q["from"] = o.From
	q["to"] = o.To
	q["type"] = o.Type
	q["user_id"] = o.UserID
	q["order_by"] = o.OrderBy
	return q.merge(o.Extra)
}

// List returns the payments matching opts.
func (s InvoicePaymentsService) List(ctx context.Context, opts *InvoicePaymentListOptions) ([]InvoicePayment, error) {
	return s.res.list(ctx, opts.query())
}

// Get returns the payment with id, or nil if it does not exist.
func (s InvoicePaymentsService) Get(ctx context.Context, id int) (*InvoicePayment, error) {
	return s.res.get(ctx, id)
}

// Create books a payment.
func (s InvoicePaymentsService) Create(ctx context.Context, c *InvoicePaymentCreate) (*InvoicePayment, error) {
	if c == nil {
		c = &InvoicePaymentCreate{}
	}
	return s.res.create(ctx, c.payload())
}

// Delete removes the payment.
func (s InvoicePaymentsService) Delete(ctx context.Context, id int) error {
	return s.res.remove(ctx, id)
}
