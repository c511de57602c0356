package billomat

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a Billomat invoice together with its tax breakdown and, when
// Billomat embeds them, its line items.
type Invoice struct {
	ID                  int              `json:"id"`
	Created             *time.Time       `json:"created,omitempty"`
	ClientID            int              `json:"client_id"`
	ContactID           *int             `json:"contact_id,omitempty"`
	InvoiceNumber       *string          `json:"invoice_number,omitempty"`
	Number              *int             `json:"number,omitempty"`
	NumberPre           *string          `json:"number_pre,omitempty"`
	NumberLength        *int             `json:"number_length,omitempty"`
	Status              InvoiceStatus    `json:"status,omitempty"`
	Date                *time.Time       `json:"date,omitempty"`
	SupplyDate          *string          `json:"supply_date,omitempty"`
	SupplyDateType      SupplyDateType   `json:"supply_date_type,omitempty"`
	DueDate             *time.Time       `json:"due_date,omitempty"`
	DueDays             *int             `json:"due_days,omitempty"`
	Address             *string          `json:"address,omitempty"`
	DiscountRate        *decimal.Decimal `json:"discount_rate,omitempty"`
	DiscountDate        *time.Time       `json:"discount_date,omitempty"`
	DiscountDays        *int             `json:"discount_days,omitempty"`
	DiscountAmount      *decimal.Decimal `json:"discount_amount,omitempty"`
	Title               *string          `json:"title,omitempty"`
	Label               *string          `json:"label,omitempty"`
	Intro               *string          `json:"intro,omitempty"`
	Note                *string          `json:"note,omitempty"`
	Reduction           *string          `json:"reduction,omitempty"`
	NetGross            NetGross         `json:"net_gross,omitempty"`
	CurrencyCode        *string          `json:"currency_code,omitempty"`
	Quote               *decimal.Decimal `json:"quote,omitempty"`
	PaymentTypes        *string          `json:"payment_types,omitempty"`
	TotalGross          *decimal.Decimal `json:"total_gross,omitempty"`
	TotalNet            *decimal.Decimal `json:"total_net,omitempty"`
	TotalGrossUnreduced *decimal.Decimal `json:"total_gross_unreduced,omitempty"`
	TotalNetUnreduced   *decimal.Decimal `json:"total_net_unreduced,omitempty"`
	PaidAmount          *decimal.Decimal `json:"paid_amount,omitempty"`
	OpenAmount          *decimal.Decimal `json:"open_amount,omitempty"`
	InvoiceID           *int             `json:"invoice_id,omitempty"`
	OfferID             *int             `json:"offer_id,omitempty"`
	ConfirmationID      *int             `json:"confirmation_id,omitempty"`
	RecurringID         *int             `json:"recurring_id,omitempty"`
	TemplateID          *int             `json:"template_id,omitempty"`
	Taxes               []InvoiceTax     `json:"taxes"`
	Items               []InvoiceItem    `json:"items"`
}

// InvoiceTax is one line of an invoice's tax breakdown.
type InvoiceTax struct {
	Name        string           `json:"name"`
	Rate        decimal.Decimal  `json:"rate"`
	Amount      decimal.Decimal  `json:"amount"`
	AmountNet   *decimal.Decimal `json:"amount_net,omitempty"`
	AmountGross *decimal.Decimal `json:"amount_gross,omitempty"`
}

func hydrateInvoice(r record) Invoice {
	return Invoice{
		ID:                  r.intOr("id", 0),
		Created:             r.timePtr("created"),
		ClientID:            r.intOr("client_id", 0),
		ContactID:           r.intPtr("contact_id"),
		InvoiceNumber:       r.stringPtr("invoice_number"),
		Number:              r.intPtr("number"),
		NumberPre:           r.stringPtr("number_pre"),
		NumberLength:        r.intPtr("number_length"),
		Status:              enumOf(r, "status", InvoiceStatuses),
		Date:                r.datePtr("date"),
		SupplyDate:          r.stringPtr("supply_date"),
		SupplyDateType:      enumOf(r, "supply_date_type", SupplyDateTypes),
		DueDate:             r.datePtr("due_date"),
		DueDays:             r.intPtr("due_days"),
		Address:             r.stringPtr("address"),
		DiscountRate:        r.decimalPtr("discount_rate"),
		DiscountDate:        r.datePtr("discount_date"),
		DiscountDays:        r.intPtr("discount_days"),
		DiscountAmount:      r.decimalPtr("discount_amount"),
		Title:               r.stringPtr("title"),
		Label:               r.stringPtr("label"),
		Intro:               r.stringPtr("intro"),
		Note:                r.stringPtr("note"),
		Reduction:           r.stringPtr("reduction"),
		NetGross:            enumOf(r, "net_gross", NetGrossValues),
		CurrencyCode:        r.stringPtr("currency_code"),
		Quote:               r.decimalPtr("quote"),
		PaymentTypes:        r.stringPtr("payment_types"),
		TotalGross:          r.decimalPtr("total_gross"),
		TotalNet:            r.decimalPtr("total_net"),
		TotalGrossUnreduced: r.decimalPtr("total_gross_unreduced"),
		TotalNetUnreduced:   r.decimalPtr("total_net_unreduced"),
		PaidAmount:          r.decimalPtr("paid_amount"),
		OpenAmount:          r.decimalPtr("open_amount"),
		InvoiceID:           r.intPtr("invoice_id"),
		OfferID:             r.intPtr("offer_id"),
		ConfirmationID:      r.intPtr("confirmation_id"),
		RecurringID:         r.intPtr("recurring_id"),
		TemplateID:          r.intPtr("template_id"),
		Taxes:               hydrateAll(collection(r, "taxes", "tax"), hydrateInvoiceTax),
		Items:               hydrateAll(collection(r, "invoice-items", "invoice-item"), hydrateInvoiceItem),
	}
}

func hydrateInvoiceTax(r record) InvoiceTax {
	return InvoiceTax{
		Name:        r.stringOr("name", ""),
		Rate:        r.decimalOr("rate"),
		Amount:      r.decimalOr("amount"),
		AmountNet:   r.decimalPtr("amount_net"),
		AmountGross: r.decimalPtr("amount_gross"),
	}
}

// InvoiceFields are the writable invoice fields shared by create and update.
type InvoiceFields struct {
	ContactID      *int
	Address        *string
	Date           *time.Time
	SupplyDate     *string
	SupplyDateType SupplyDateType
	DueDays        *int
	DueDate        *time.Time
	DiscountRate   *decimal.Decimal
	DiscountDays   *int
	Title          *string
	Label          *string
	Intro          *string
	Note           *string
	Reduction      *string
	CurrencyCode   *string
	NetGross       NetGross
	Quote          *decimal.Decimal
	PaymentTypes   *string
}

func (f InvoiceFields) fill(p payload) {
	p.setInt("contact_id", f.ContactID)
	p.setString("address", f.Address)
	p.setDate("date", f.Date)
	p.setString("supply_date", f.SupplyDate)
	setEnum(p, "supply_date_type", f.SupplyDateType)
	p.setInt("due_days", f.DueDays)
	p.setDate("due_date", f.DueDate)
	p.setDecimal("discount_rate", f.DiscountRate)
	p.setInt("discount_days", f.DiscountDays)
	p.setString("title", f.Title)
	p.setString("label", f.Label)
	p.setString("intro", f.Intro)
	p.setString("note", f.Note)
	p.setString("reduction", f.Reduction)
	p.setString("currency_code", f.CurrencyCode)
	setEnum(p, "net_gross", f.NetGross)
	p.setDecimal("quote", f.Quote)
	p.setString("payment_types", f.PaymentTypes)
}

// InvoiceCreate holds the fields for a new draft invoice. ClientID is always
// sent. Items, when present, are created together with the invoice.
type InvoiceCreate struct {
	InvoiceFields

	ClientID       int
	NumberPre      *string
	Number         *int
	NumberLength   *int
	DiscountDate   *time.Time
	InvoiceID      *int
	OfferID        *int
	ConfirmationID *int
	RecurringID    *int
	FreeTextID     *int
	TemplateID     *int
	Items          []*InvoiceItemCreate
}

// NewInvoiceCreate starts a create request for an invoice to clientID.
func NewInvoiceCreate(clientID int) *InvoiceCreate {
	return &InvoiceCreate{ClientID: clientID}
}

func (c *InvoiceCreate) payload() payload {
	p := payload{}
	c.fill(p)
	p.putInt("client_id", c.ClientID)
	p.setString("number_pre", c.NumberPre)
	p.setInt("number", c.Number)
	p.setInt("number_length", c.NumberLength)
	p.setDate("discount_date", c.DiscountDate)
	p.setInt("invoice_id", c.InvoiceID)
	p.setInt("offer_id", c.OfferID)
	p.setInt("confirmation_id", c.ConfirmationID)
	p.setInt("recurring_id", c.RecurringID)
	p.setInt("free_text_id", c.FreeTextID)
	p.setInt("template_id", c.TemplateID)
	if len(c.Items) > 0 {
		items := make([]payload, 0, len(c.Items))
		for _, item := range c.Items {
			if item != nil {
				items = append(items, item.payload())
			}
		}
		p["invoice-items"] = map[string]any{"invoice-item": items}
	}
	return p
}

// InvoiceUpdate changes only the fields that are set. Billomat accepts most
// of them on drafts only.
type InvoiceUpdate struct {
	InvoiceFields
}

func (u *InvoiceUpdate) payload() payload {
	p := payload{}
	u.fill(p)
	return p
}

// UpdateOptions returns an update carrying every writable field inv has set.
func (inv Invoice) UpdateOptions() *InvoiceUpdate {
	return &InvoiceUpdate{InvoiceFields{
		ContactID:      copyPtr(inv.ContactID),
		Address:        copyPtr(inv.Address),
		Date:           copyPtr(inv.Date),
		SupplyDate:     copyPtr(inv.SupplyDate),
		SupplyDateType: inv.SupplyDateType,
		DueDays:        copyPtr(inv.DueDays),
		DueDate:        copyPtr(inv.DueDate),
		DiscountRate:   copyPtr(inv.DiscountRate),
		DiscountDays:   copyPtr(inv.DiscountDays),
		Title:          copyPtr(inv.Title),
		Label:          copyPtr(inv.Label),
		Intro:          copyPtr(inv.Intro),
		Note:           copyPtr(inv.Note),
		Reduction:      copyPtr(inv.Reduction),
		CurrencyCode:   copyPtr(inv.CurrencyCode),
		NetGross:       inv.NetGross,
		Quote:          copyPtr(inv.Quote),
		PaymentTypes:   copyPtr(inv.PaymentTypes),
	}}
}

// InvoiceListOptions filters GET /invoices.
type InvoiceListOptions struct {
	Paging

	ClientID      *int
	ContactID     *int
	InvoiceNumber *string
	Status        []InvoiceStatus
	PaymentType   []InvoicePaymentType
	From          *time.Time
	To            *time.Time
	Label         *string
	Intro         *string
	Note          *string
	Tags          *string
	ArticleID     *int
	OrderBy       *string
	Extra         Query
}

func (o *InvoiceListOptions) query() Query {
	q := Query{}
	if o == nil {
		return q
	}
	o.Paging.apply(q)
	q["client_id"] = o.ClientID
	q["contact_id"] = o.ContactID
	q["invoice_number"] = o.InvoiceNumber
	q["status"] = o.Status
	q["payment_type"] = o.PaymentType
	q["from"] = o.From
	q["to"] = o.To
	q["label"] = o.Label
	q["intro"] = o.Intro
	q["note"] = o.Note
	q["tags"] = o.Tags
	q["article_id"] = o.ArticleID
	q["order_by"] = o.OrderBy
	return q.merge(o.Extra)
}

// InvoicePDF is the rendered document of a completed invoice.
type InvoicePDF struct {
	ID         int        `json:"id"`
	InvoiceID  int        `json:"invoice_id"`
	Created    *time.Time `json:"created,omitempty"`
	Filename   string     `json:"filename"`
	MimeType   string     `json:"mimetype"`
	FileSize   *int       `json:"filesize,omitempty"`
	Base64File string     `json:"base64file,omitempty"`
}

// Binary decodes the embedded file. Invalid base64 yields an empty slice.
func (p InvoicePDF) Binary() []byte {
	data, err := base64.StdEncoding.DecodeString(p.Base64File)
	if err != nil {
		return []byte{}
	}
	return data
}

func hydrateInvoicePDF(r record) InvoicePDF {
	return InvoicePDF{
		ID:         r.intOr("id", 0),
		InvoiceID:  r.intOr("invoice_id", 0),
		Created:    r.timePtr("created"),
		Filename:   r.stringOr("filename", ""),
		MimeType:   r.stringOr("mimetype", "application/pdf"),
		FileSize:   r.intPtr("filesize"),
		Base64File: r.stringOr("base64file", ""),
	}
}

// List returns the invoices matching opts.
func (s InvoicesService) List(ctx context.Context, opts *InvoiceListOptions) ([]Invoice, error) {
	return s.res.list(ctx, opts.query())
}

// Get returns the invoice with id, or nil if it does not exist.
func (s InvoicesService) Get(ctx context.Context, id int) (*Invoice, error) {
	return s.res.get(ctx, id)
}

// Create adds a draft invoice.
func (s InvoicesService) Create(ctx context.Context, c *InvoiceCreate) (*Invoice, error) {
	if c == nil {
		c = &InvoiceCreate{}
	}
	return s.res.create(ctx, c.payload())
}

// Update changes the fields set in u.
func (s InvoicesService) Update(ctx context.Context, id int, u *InvoiceUpdate) (*Invoice, error) {
	if u == nil {
		u = &InvoiceUpdate{}
	}
	return s.res.update(ctx, id, u.payload())
}

// Complete closes a draft, assigning its number and rendering the PDF with
// templateID or the account's default template when nil.
func (s InvoicesService) Complete(ctx context.Context, id int, templateID *int) error {
	p := payload{}
	p.setInt("template_id", templateID)
	return s.res.client.putEmpty(ctx, s.res.itemPath(id)+"/complete", wrap("invoice", p))
}

// Delete removes the invoice. Billomat only allows this for drafts.
func (s InvoicesService) Delete(ctx context.Context, id int) error {
	return s.res.remove(ctx, id)
}

// PDF returns the rendered document with its file embedded as base64, or nil
// when the invoice does not exist. An empty typ selects the regular rendition.
func (s InvoicesService) PDF(ctx context.Context, id int, typ InvoicePDFType) (*InvoicePDF, error) {
	path := s.res.itemPath(id) + "/pdf"
	q := Query{}
	queryEnum(q, "type", typ)
	body, err := s.res.client.getJSONOrNil(ctx, "get "+path, path, q)
	if err != nil || body == nil {
		return nil, err
	}
	rec, ok := single(body, "pdf")
	if !ok {
		return nil, &UnexpectedResponseError{Op: "get " + path, Key: "pdf"}
	}
	pdf := hydrateInvoicePDF(rec)
	return &pdf, nil
}

// DownloadPDF returns the raw PDF bytes.
func (s InvoicesService) DownloadPDF(ctx context.Context, id int, typ InvoicePDFType) ([]byte, error) {
	q := Query{"format": "pdf"}
	queryEnum(q, "type", typ)
	return s.res.client.getRaw(ctx, s.res.itemPath(id)+"/pdf", q)
}
