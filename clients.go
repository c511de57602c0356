package billomat

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ClientRecord is a Billomat client (customer). The name avoids a clash with
// the API Client.
type ClientRecord struct {
	ID                   int              `json:"id"`
	Created              *time.Time       `json:"created,omitempty"`
	Name                 string           `json:"name"`
	ClientNumber         *string          `json:"client_number,omitempty"`
	Street               *string          `json:"street,omitempty"`
	Zip                  *string          `json:"zip,omitempty"`
	City                 *string          `json:"city,omitempty"`
	State                *string          `json:"state,omitempty"`
	CountryCode          *string          `json:"country_code,omitempty"`
	FirstName            *string          `json:"first_name,omitempty"`
	LastName             *string          `json:"last_name,omitempty"`
	Salutation           *string          `json:"salutation,omitempty"`
	Email                *string          `json:"email,omitempty"`
	Phone                *string          `json:"phone,omitempty"`
	Fax                  *string          `json:"fax,omitempty"`
	Mobile               *string          `json:"mobile,omitempty"`
	WWW                  *string          `json:"www,omitempty"`
	Note                 *string          `json:"note,omitempty"`
	Locale               *string          `json:"locale,omitempty"`
	TaxNumber            *string          `json:"tax_number,omitempty"`
	VatNumber            *string          `json:"vat_number,omitempty"`
	TaxRule              *string          `json:"tax_rule,omitempty"`
	NetGross             NetGross         `json:"net_gross,omitempty"`
	CurrencyCode         *string          `json:"currency_code,omitempty"`
	DebitorAccountNumber *int             `json:"debitor_account_number,omitempty"`
	PriceGroup           *int             `json:"price_group,omitempty"`
	Archived             *bool            `json:"archived,omitempty"`
	DunningRun           *bool            `json:"dunning_run,omitempty"`
	Reduction            *decimal.Decimal `json:"reduction,omitempty"`
	DiscountRate         *decimal.Decimal `json:"discount_rate,omitempty"`
	DiscountDays         *decimal.Decimal `json:"discount_days,omitempty"`
	DueDays              *int             `json:"due_days,omitempty"`
	ReminderDueDays      *int             `json:"reminder_due_days,omitempty"`
	OfferValidityDays    *int             `json:"offer_validity_days,omitempty"`
}

// DisplayName is the company name, falling back to the contact person.
func (c ClientRecord) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	var first, last string
	if c.FirstName != nil {
		first = *c.FirstName
	}
	if c.LastName != nil {
		last = *c.LastName
	}
	switch {
	case first != "" && last != "":
		return first + " " + last
	case last != "":
		return last
	default:
		return first
	}
}

func hydrateClient(r record) ClientRecord {
	return ClientRecord{
		ID:                   r.intOr("id", 0),
		Created:              r.timePtr("created"),
		Name:                 r.stringOr("name", ""),
		ClientNumber:         r.stringPtr("client_number"),
		Street:               r.stringPtr("street"),
		Zip:                  r.stringPtr("zip"),
		City:                 r.stringPtr("city"),
		State:                r.stringPtr("state"),
		CountryCode:          r.stringPtr("country_code"),
		FirstName:            r.stringPtr("first_name"),
		LastName:             r.stringPtr("last_name"),
		Salutation:           r.stringPtr("salutation"),
		Email:                r.stringPtr("email"),
		Phone:                r.stringPtr("phone"),
		Fax:                  r.stringPtr("fax"),
		Mobile:               r.stringPtr("mobile"),
		WWW:                  r.stringPtr("www"),
		Note:                 r.stringPtr("note"),
		Locale:               r.stringPtr("locale"),
		TaxNumber:            r.stringPtr("tax_number"),
		VatNumber:            r.stringPtr("vat_number"),
		TaxRule:              r.stringPtr("tax_rule"),
		NetGross:             enumOf(r, "net_gross", NetGrossValues),
		CurrencyCode:         r.stringPtr("currency_code"),
		DebitorAccountNumber: r.intPtr("debitor_account_number"),
		PriceGroup:           r.intPtr("price_group"),
		Archived:             r.boolPtr("archived"),
		DunningRun:           r.boolPtr("dunning_run"),
		Reduction:            r.decimalPtr("reduction"),
		DiscountRate:         r.decimalPtr("discount_rate"),
		DiscountDays:         r.decimalPtr("discount_days"),
		DueDays:              r.intPtr("due_days"),
		ReminderDueDays:      r.intPtr("reminder_due_days"),
		OfferValidityDays:    r.intPtr("offer_validity_days"),
	}
}

// ClientFields are the writable client fields shared by create and update.
type ClientFields struct {
	Name                 *string
	ClientNumber         *string
	Street               *string
	Zip                  *string
	City                 *string
	State                *string
	CountryCode          *string
	FirstName            *string
	LastName             *string
	Salutation           *string
	Email                *string
	Phone                *string
	Fax                  *string
	Mobile               *string
	WWW                  *string
	Note                 *string
	Locale               *string
	TaxNumber            *string
	VatNumber            *string
	TaxRule              *string
	NetGross             NetGross
	CurrencyCode         *string
	DebitorAccountNumber *int
	PriceGroup           *int
	Reduction            *decimal.Decimal
	DiscountRate         *decimal.Decimal
	DiscountDays         *decimal.Decimal
	DueDays              *int
	ReminderDueDays      *int
	OfferValidityDays    *int
}

func (f ClientFields) fill(p payload) {
	p.setString("name", f.Name)
	p.setString("client_number", f.ClientNumber)
	p.setString("street", f.Street)
	p.setString("zip", f.Zip)
	p.setString("city", f.City)
	p.setString("state", f.State)
	p.setString("country_code", f.CountryCode)
	p.setString("first_name", f.FirstName)
	p.setString("last_name", f.LastName)
	p.setString("salutation", f.Salutation)
	p.setString("email", f.Email)
	p.setString("phone", f.Phone)
	p.setString("fax", f.Fax)
	p.setString("mobile", f.Mobile)
	p.setString("www", f.WWW)
	p.setString("note", f.Note)
	p.setString("locale", f.Locale)
	p.setString("tax_number", f.TaxNumber)
	p.setString("vat_number", f.VatNumber)
	p.setString("tax_rule", f.TaxRule)
	setEnum(p, "net_gross", f.NetGross)
	p.setString("currency_code", f.CurrencyCode)
	p.setInt("debitor_account_number", f.DebitorAccountNumber)
	p.setInt("price_group", f.PriceGroup)
	p.setDecimal("reduction", f.Reduction)
	p.setDecimal("discount_rate", f.DiscountRate)
	p.setDecimal("discount_days", f.DiscountDays)
	p.setInt("due_days", f.DueDays)
	p.setInt("reminder_due_days", f.ReminderDueDays)
	p.setInt("offer_validity_days", f.OfferValidityDays)
}

// ClientCreate holds the fields for a new client. DunningRun is always sent
// so Billomat never falls back to its own default.
type ClientCreate struct {
	ClientFields

	NumberPre             *string
	Number                *int
	NumberLength          *int
	BankAccountNumber     *string
	BankAccountOwner      *string
	BankNumber            *string
	BankName              *string
	BankSwift             *string
	BankIBAN              *string
	SepaMandate           *string
	SepaMandateDate       *time.Time
	DefaultPaymentTypes   *string
	DiscountRateType      ValueType
	DiscountDaysType      ValueType
	DueDaysType           ValueType
	ReminderDueDaysType   ValueType
	OfferValidityDaysType ValueType
	DunningRun            bool
}

// NewClientCreate starts a create request for a client called name.
func NewClientCreate(name string) *ClientCreate {
	c := &ClientCreate{}
	c.Name = &name
	return c
}

func (c *ClientCreate) payload() payload {
	p := payload{}
	c.fill(p)
	p.setString("number_pre", c.NumberPre)
	p.setInt("number", c.Number)
	p.setInt("number_length", c.NumberLength)
	p.setString("bank_account_number", c.BankAccountNumber)
	p.setString("bank_account_owner", c.BankAccountOwner)
	p.setString("bank_number", c.BankNumber)
	p.setString("bank_name", c.BankName)
	p.setString("bank_swift", c.BankSwift)
	p.setString("bank_iban", c.BankIBAN)
	p.setString("sepa_mandate", c.SepaMandate)
	p.setDate("sepa_mandate_date", c.SepaMandateDate)
	p.setString("default_payment_types", c.DefaultPaymentTypes)
	setEnum(p, "discount_rate_type", c.DiscountRateType)
	setEnum(p, "discount_days_type", c.DiscountDaysType)
	setEnum(p, "due_days_type", c.DueDaysType)
	setEnum(p, "reminder_due_days_type", c.ReminderDueDaysType)
	setEnum(p, "offer_validity_days_type", c.OfferValidityDaysType)
	p.putBool("dunning_run", c.DunningRun)
	return p
}

// ClientUpdate changes only the fields that are set.
type ClientUpdate struct {
	ClientFields

	Archived   *bool
	DunningRun *bool
}

func (u *ClientUpdate) payload() payload {
	p := payload{}
	u.fill(p)
	p.setBool("archived", u.Archived)
	p.setBool("dunning_run", u.DunningRun)
	return p
}

// UpdateOptions returns an update carrying every field c has set.
func (c ClientRecord) UpdateOptions() *ClientUpdate {
	u := &ClientUpdate{
		Archived:   copyPtr(c.Archived),
		DunningRun: copyPtr(c.DunningRun),
	}
	if c.Name != "" {
		u.Name = Ptr(c.Name)
	}
	u.ClientNumber = copyPtr(c.ClientNumber)
	u.Street = copyPtr(c.Street)
	u.Zip = copyPtr(c.Zip)
	u.City = copyPtr(c.City)
	u.State = copyPtr(c.State)
	u.CountryCode = copyPtr(c.CountryCode)
	u.FirstName = copyPtr(c.FirstName)
	u.LastName = copyPtr(c.LastName)
	u.Salutation = copyPtr(c.Salutation)
	u.Email = copyPtr(c.Email)
	u.Phone = copyPtr(c.Phone)
	u.Fax = copyPtr(c.Fax)
	u.Mobile = copyPtr(c.Mobile)
	u.WWW = copyPtr(c.WWW)
	u.Note = copyPtr(c.Note)
	u.Locale = copyPtr(c.Locale)
	u.TaxNumber = copyPtr(c.TaxNumber)
	u.VatNumber = copyPtr(c.VatNumber)
	u.TaxRule = copyPtr(c.TaxRule)
	u.NetGross = c.NetGross
	u.CurrencyCode = copyPtr(c.CurrencyCode)
	u.DebitorAccountNumber = copyPtr(c.DebitorAccountNumber)
	u.PriceGroup = copyPtr(c.PriceGroup)
	u.Reduction = copyPtr(c.Reduction)
	u.DiscountRate = copyPtr(c.DiscountRate)
	u.DiscountDays = copyPtr(c.DiscountDays)
	u.DueDays = copyPtr(c.DueDays)
	u.ReminderDueDays = copyPtr(c.ReminderDueDays)
	u.OfferValidityDays = copyPtr(c.OfferValidityDays)
	return u
}

// ClientListOptions filters GET /clients.
type ClientListOptions struct {
	Paging

	Name         *string
	ClientNumber *string
	Email        *string
	FirstName    *string
	LastName     *string
	CountryCode  *string
	Note         *string
	InvoiceID    *int
	Tags         *string
	OrderBy      *string
	Extra        Query
}

func (o *ClientListOptions) query() Query {
	q := Query{}
	if o == nil {
		return q
	}
	o.Paging.apply(q)
	q["name"] = o.Name
	q["client_number"] = o.ClientNumber
	q["email"] = o.Email
	q["first_name"] = o.FirstName
	q["last_name"] = o.LastName
	q["country_code"] = o.CountryCode
	q["note"] = o.Note
	q["invoice_id"] = o.InvoiceID
	q["tags"] = o.Tags
	q["order_by"] = o.OrderBy
	return q.merge(o.Extra)
}

// List returns the clients matching opts. A nil opts lists everything on the
// first page.
func (s ClientsService) List(ctx context.Context, opts *ClientListOptions) ([]ClientRecord, error) {
	return s.res.list(ctx, opts.query())
}

// Get returns the client with id, or nil if it does not exist.
func (s ClientsService) Get(ctx context.Context, id int) (*ClientRecord, error) {
	return s.res.get(ctx, id)
}

// Myself returns the client record of the account owner.
func (s ClientsService) Myself(ctx context.Context) (*ClientRecord, error) {
	return s.res.getAt(ctx, "clients/myself", nil)
}

// Create adds a new client.
func (s ClientsService) Create(ctx context.Context, c *ClientCreate) (*ClientRecord, error) {
	if c == nil {
		c = &ClientCreate{}
	}
	return s.res.create(ctx, c.payload())
}

// Update changes the fields set in u.
func (s ClientsService) Update(ctx context.Context, id int, u *ClientUpdate) (*ClientRecord, error) {
	if u == nil {
		u = &ClientUpdate{}
	}
	return s.res.update(ctx, id, u.payload())
}

// Delete removes the client.
func (s ClientsService) Delete(ctx context.Context, id int) error {
	return s.res.remove(ctx, id)
}
