package billomat

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Settings are the account-wide defaults (GET/PUT /settings).
type Settings struct {
	Created            *time.Time       `json:"created,omitempty"`
	Updated            *time.Time       `json:"updated,omitempty"`
	BgColor            *string          `json:"bgcolor,omitempty"`
	Color1             *string          `json:"color1,omitempty"`
	Color2             *string          `json:"color2,omitempty"`
	Color3             *string          `json:"color3,omitempty"`
	CurrencyCode       *string          `json:"currency_code,omitempty"`
	Locale             *string          `json:"locale,omitempty"`
	NetGross           NetGross         `json:"net_gross,omitempty"`
	SepaCreditorID     *string          `json:"sepa_creditor_id,omitempty"`
	NumberRangeMode    NumberRangeMode  `json:"number_range_mode,omitempty"`
	ArticleNumbers     DocumentSettings `json:"article"`
	PriceGroups        map[int]string   `json:"price_groups"`
	Clients            DocumentSettings `json:"client"`
	Invoices           DocumentSettings `json:"invoice"`
	Offers             DocumentSettings `json:"offer"`
	Confirmations      DocumentSettings `json:"confirmation"`
	CreditNotes        DocumentSettings `json:"credit_note"`
	DeliveryNotes      DocumentSettings `json:"delivery_note"`
	DueDays            *int             `json:"due_days,omitempty"`
	DiscountRate       *decimal.Decimal `json:"discount_rate,omitempty"`
	DiscountDays       *int             `json:"discount_days,omitempty"`
	OfferValidityDays  *int             `json:"offer_validity_days,omitempty"`
	ReminderFilename   *string          `json:"reminder_filename,omitempty"`
	ReminderDueDays    *int             `json:"reminder_due_days,omitempty"`
	LetterLabel        *string          `json:"letter_label,omitempty"`
	LetterIntro        *string          `json:"letter_intro,omitempty"`
	LetterFilename     *string          `json:"letter_filename,omitempty"`
	TemplateEngine     TemplateEngine   `json:"template_engine,omitempty"`
	PrintVersion       *bool            `json:"print_version,omitempty"`
	DefaultEmailSender *string          `json:"default_email_sender,omitempty"`
	BccAddresses       []string         `json:"bcc_addresses"`
	Taxation           *string          `json:"taxation,omitempty"`
}

// DocumentSettings are the numbering and text defaults of one document kind.
// Kinds without texts (clients, articles) leave those fields nil.
type DocumentSettings struct {
	NumberPre    *string `json:"number_pre,omitempty"`
	NumberLength *int    `json:"number_length,omitempty"`
	NumberNext   *int    `json:"number_next,omitempty"`
	Label        *string `json:"label,omitempty"`
	Intro        *string `json:"intro,omitempty"`
	Note         *string `json:"note,omitempty"`
	Filename     *string `json:"filename,omitempty"`
}

func hydrateDocumentSettings(r record, prefix string) DocumentSettings {
	return DocumentSettings{
		NumberPre:    r.stringPtr(prefix + "_number_pre"),
		NumberLength: r.intPtr(prefix + "_number_length"),
		NumberNext:   r.intPtr(prefix + "_number_next"),
		Label:        r.stringPtr(prefix + "_label"),
		Intro:        r.stringPtr(prefix + "_intro"),
		Note:         r.stringPtr(prefix + "_note"),
		Filename:     r.stringPtr(prefix + "_filename"),
	}
}

var priceGroupKey = regexp.MustCompile(`^price_group(\d+)$`)

func hydrateSettings(r record) Settings {
	return Settings{
		Created:            r.timePtr("created"),
		Updated:            r.timePtr("updated"),
		BgColor:            r.stringPtr("bgcolor"),
		Color1:             r.stringPtr("color1"),
		Color2:             r.stringPtr("color2"),
		Color3:             r.stringPtr("color3"),
		CurrencyCode:       r.stringPtr("currency_code"),
		Locale:             r.stringPtr("locale"),
		NetGross:           enumOf(r, "net_gross", NetGrossValues),
		SepaCreditorID:     r.stringPtr("sepa_creditor_id"),
		NumberRangeMode:    enumOf(r, "number_range_mode", NumberRangeModes),
		ArticleNumbers:     hydrateDocumentSettings(r, "article"),
		PriceGroups:        priceGroups(r),
		Clients:            hydrateDocumentSettings(r, "client"),
		Invoices:           hydrateDocumentSettings(r, "invoice"),
		Offers:             hydrateDocumentSettings(r, "offer"),
		Confirmations:      hydrateDocumentSettings(r, "confirmation"),
		CreditNotes:        hydrateDocumentSettings(r, "credit_note"),
		DeliveryNotes:      hydrateDocumentSettings(r, "delivery_note"),
		DueDays:            r.intPtr("due_days"),
		DiscountRate:       r.decimalPtr("discount_rate"),
		DiscountDays:       r.intPtr("discount_days"),
		OfferValidityDays:  r.intPtr("offer_validity_days"),
		ReminderFilename:   r.stringPtr("reminder_filename"),
		ReminderDueDays:    r.intPtr("reminder_due_days"),
		LetterLabel:        r.stringPtr("letter_label"),
		LetterIntro:        r.stringPtr("letter_intro"),
		LetterFilename:     r.stringPtr("letter_filename"),
		TemplateEngine:     enumOf(r, "template_engine", TemplateEngines),
		PrintVersion:       r.boolPtr("print_version"),
		DefaultEmailSender: r.stringPtr("default_email_sender"),
		BccAddresses:       bccAddresses(r["bcc_addresses"]),
		Taxation:           r.stringPtr("taxation"),
	}
}

// priceGroups gathers the price_groupN keys into N -> name.
func priceGroups(r record) map[int]string {
	out := map[int]string{}
	for k, v := range r {
		m := priceGroupKey.FindStringSubmatch(k)
		if m == nil {
			continue
		}
		name, ok := v.(string)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		out[n] = name
	}
	return out
}

// PriceGroupNumbers returns the configured price group numbers in order.
func (s Settings) PriceGroupNumbers() []int {
	out := make([]int, 0, len(s.PriceGroups))
	for n := range s.PriceGroups {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// bccAddresses accepts a comma separated string or {"bcc_address": x} where
// x is a string or a list of strings.
func bccAddresses(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case string:
		for _, part := range strings.Split(t, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
	case map[string]any:
		switch inner := t["bcc_address"].(type) {
		case string:
			if s := strings.TrimSpace(inner); s != "" {
				out = append(out, s)
			}
		case []any:
			for _, item := range inner {
				if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
					out = append(out, strings.TrimSpace(s))
				}
			}
		}
	}
	return out
}

// SettingsUpdate changes only the fields that are set.
type SettingsUpdate struct {
	BgColor             *string
	Color1              *string
	Color2              *string
	Color3              *string
	CurrencyCode        *string
	Locale              *string
	NetGross            NetGross
	SepaCreditorID      *string
	NumberRangeMode     NumberRangeMode
	ArticleNumberPre    *string
	ArticleNumberLength *int
	ClientNumberPre     *string
	ClientNumberLength  *int
	InvoiceNumberPre    *string
	InvoiceNumberLength *int
	InvoiceLabel        *string
	InvoiceIntro        *string
	InvoiceNote         *string
	InvoiceFilename     *string
	OfferNumberPre      *string
	OfferNumberLength   *int
	OfferValidityDays   *int
	DueDays             *int
	DiscountRate        *decimal.Decimal
	DiscountDays        *int
	ReminderDueDays     *int
	PrintVersion        *bool
	DefaultEmailSender  *string
}

func (u *SettingsUpdate) payload() payload {
	p := payload{}
	p.setString("bgcolor", u.BgColor)
	p.setString("color1", u.Color1)
	p.setString("color2", u.Color2)
	p.setString("color3", u.Color3)
	p.setString("currency_code", u.CurrencyCode)
	p.setString("locale", u.Locale)
	setEnum(p, "net_gross", u.NetGross)
	p.setString("sepa_creditor_id", u.SepaCreditorID)
	setEnum(p, "number_range_mode", u.NumberRangeMode)
	p.setString("article_number_pre", u.ArticleNumberPre)
	p.setInt("article_number_length", u.ArticleNumberLength)
	p.setString("client_number_pre", u.ClientNumberPre)
	p.setInt("client_number_length", u.ClientNumberLength)
	p.setString("invoice_number_pre", u.InvoiceNumberPre)
	p.setInt("invoice_number_length", u.InvoiceNumberLength)
	p.setString("invoice_label", u.InvoiceLabel)
	p.setString("invoice_intro", u.InvoiceIntro)
	p.setString("invoice_note", u.InvoiceNote)
	p.setString("invoice_filename", u.InvoiceFilename)
	p.setString("offer_number_pre", u.OfferNumberPre)
	p.setInt("offer_number_length", u.OfferNumberLength)
	p.setInt("offer_validity_days", u.OfferValidityDays)
	p.setInt("due_days", u.DueDays)
	p.setDecimal("discount_rate", u.DiscountRate)
	p.setInt("discount_days", u.DiscountDays)
	p.setInt("reminder_due_days", u.ReminderDueDays)
	p.setBool("print_version", u.PrintVersion)
	p.setString("default_email_sender", u.DefaultEmailSender)
	return p
}

// Get returns the account settings.
func (s SettingsService) Get(ctx context.Context) (*Settings, error) {
	body, err := s.client.getJSON(ctx, "get settings", "settings", nil)
	if err != nil {
		return nil, err
	}
	return settingsFrom("get settings", body)
}

// Update changes the settings set in u.
func (s SettingsService) Update(ctx context.Context, u *SettingsUpdate) (*Settings, error) {
	if u == nil {
		u = &SettingsUpdate{}
	}
	body, err := s.client.putJSON(ctx, "update settings", "settings", wrap("settings", u.payload()))
	if err != nil {
		return nil, err
	}
	return settingsFrom("update settings", body)
}

func settingsFrom(op string, body map[string]any) (*Settings, error) {
	rec, ok := single(body, "settings")
	if !ok {
		return nil, &UnexpectedResponseError{Op: op, Key: "settings"}
	}
	st := hydrateSettings(rec)
	return &st, nil
}
