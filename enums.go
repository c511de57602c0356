package billomat

// Enumerations mirror Billomat's wire strings exactly. Each ParseX function is
// total: values Billomat adds later come back as the empty (unset) value.

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft    InvoiceStatus = "DRAFT"
	InvoiceStatusOpen     InvoiceStatus = "OPEN"
	InvoiceStatusOverdue  InvoiceStatus = "OVERDUE"
	InvoiceStatusPaid     InvoiceStatus = "PAID"
	InvoiceStatusCanceled InvoiceStatus = "CANCELED"
)

// InvoiceStatuses lists every known status.
var InvoiceStatuses = []InvoiceStatus{
	InvoiceStatusDraft, InvoiceStatusOpen, InvoiceStatusOverdue, InvoiceStatusPaid, InvoiceStatusCanceled,
}

// ParseInvoiceStatus returns the status for s, or "" when s is unknown.
func ParseInvoiceStatus(s string) InvoiceStatus { return parseEnum(s, InvoiceStatuses) }

// Label is the name Billomat's German UI shows for the status.
func (s InvoiceStatus) Label() string {
	switch s {
	case InvoiceStatusDraft:
		return "Entwurf"
	case InvoiceStatusOpen:
		return "Offen"
	case InvoiceStatusOverdue:
		return "Überfällig"
	case InvoiceStatusPaid:
		return "Bezahlt"
	case InvoiceStatusCanceled:
		return "Storniert"
	default:
		return ""
	}
}

// InvoicePaymentType is how a payment was made.
type InvoicePaymentType string

const (
	PaymentTypeInvoiceCorrection InvoicePaymentType = "INVOICE_CORRECTION"
	PaymentTypeCreditNote        InvoicePaymentType = "CREDIT_NOTE"
	PaymentTypeBankCard          InvoicePaymentType = "BANK_CARD"
	PaymentTypeBankTransfer      InvoicePaymentType = "BANK_TRANSFER"
	PaymentTypeDebit             InvoicePaymentType = "DEBIT"
	PaymentTypeCash              InvoicePaymentType = "CASH"
	PaymentTypeCheck             InvoicePaymentType = "CHECK"
	PaymentTypePayPal            InvoicePaymentType = "PAYPAL"
	PaymentTypeCreditCard        InvoicePaymentType = "CREDIT_CARD"
	PaymentTypeCoupon            InvoicePaymentType = "COUPON"
	PaymentTypeMisc              InvoicePaymentType = "MISC"
)

var InvoicePaymentTypes = []InvoicePaymentType{
	PaymentTypeInvoiceCorrection, PaymentTypeCreditNote, PaymentTypeBankCard, PaymentTypeBankTransfer,
	PaymentTypeDebit, PaymentTypeCash, PaymentTypeCheck, PaymentTypePayPal, PaymentTypeCreditCard,
	PaymentTypeCoupon, PaymentTypeMisc,
}

func ParseInvoicePaymentType(s string) InvoicePaymentType { return parseEnum(s, InvoicePaymentTypes) }

// InvoiceItemType distinguishes goods from services on a line item.
type InvoiceItemType string

const (
	InvoiceItemTypeProduct InvoiceItemType = "PRODUCT"
	InvoiceItemTypeService InvoiceItemType = "SERVICE"
)

var InvoiceItemTypes = []InvoiceItemType{InvoiceItemTypeProduct, InvoiceItemTypeService}

func ParseInvoiceItemType(s string) InvoiceItemType { return parseEnum(s, InvoiceItemTypes) }

// InvoicePDFType selects the rendition of an invoice PDF.
type InvoicePDFType string

const (
	InvoicePDFSigned InvoicePDFType = "signed"
	InvoicePDFPrint  InvoicePDFType = "print"
)

var InvoicePDFTypes = []InvoicePDFType{InvoicePDFSigned, InvoicePDFPrint}

func ParseInvoicePDFType(s string) InvoicePDFType { return parseEnum(s, InvoicePDFTypes) }

// NetGross says whether prices are entered net or gross.
type NetGross string

const (
	NetGrossNet      NetGross = "NET"
	NetGrossGross    NetGross = "GROSS"
	NetGrossSettings NetGross = "SETTINGS"
)

var NetGrossValues = []NetGross{NetGrossNet, NetGrossGross, NetGrossSettings}

func ParseNetGross(s string) NetGross { return parseEnum(s, NetGrossValues) }

// NumberRangeMode controls whether number prefixes share one counter.
type NumberRangeMode string

const (
	NumberRangeIgnorePrefix   NumberRangeMode = "IGNORE_PREFIX"
	NumberRangeConsiderPrefix NumberRangeMode = "CONSIDER_PREFIX"
)

var NumberRangeModes = []NumberRangeMode{NumberRangeIgnorePrefix, NumberRangeConsiderPrefix}

func ParseNumberRangeMode(s string) NumberRangeMode { return parseEnum(s, NumberRangeModes) }

// SupplyDateType qualifies an invoice's supply date field.
type SupplyDateType string

const (
	SupplyDate   SupplyDateType = "SUPPLY_DATE"
	DeliveryDate SupplyDateType = "DELIVERY_DATE"
	SupplyText   SupplyDateType = "SUPPLY_TEXT"
	DeliveryText SupplyDateType = "DELIVERY_TEXT"
)

var SupplyDateTypes = []SupplyDateType{SupplyDate, DeliveryDate, SupplyText, DeliveryText}

func ParseSupplyDateType(s string) SupplyDateType { return parseEnum(s, SupplyDateTypes) }

// TemplateDocumentType is the kind of document a template renders.
type TemplateDocumentType string

const (
	TemplateForInvoice      TemplateDocumentType = "INVOICE"
	TemplateForOffer        TemplateDocumentType = "OFFER"
	TemplateForConfirmation TemplateDocumentType = "CONFIRMATION"
	TemplateForReminder     TemplateDocumentType = "REMINDER"
	TemplateForDeliveryNote TemplateDocumentType = "DELIVERY_NOTE"
	TemplateForCreditNote   TemplateDocumentType = "CREDIT_NOTE"
	TemplateForLetter       TemplateDocumentType = "LETTER"
)

var TemplateDocumentTypes = []TemplateDocumentType{
	TemplateForInvoice, TemplateForOffer, TemplateForConfirmation, TemplateForReminder,
	TemplateForDeliveryNote, TemplateForCreditNote, TemplateForLetter,
}

func ParseTemplateDocumentType(s string) TemplateDocumentType {
	return parseEnum(s, TemplateDocumentTypes)
}

// TemplateEngine is the renderer configured for the account.
type TemplateEngine string

const TemplateEngineDefault TemplateEngine = "DEFAULT"

var TemplateEngines = []TemplateEngine{TemplateEngineDefault}

func ParseTemplateEngine(s string) TemplateEngine { return parseEnum(s, TemplateEngines) }

// TemplateFormat is the file format of an uploaded template.
type TemplateFormat string

const (
	TemplateFormatDoc  TemplateFormat = "doc"
	TemplateFormatDocx TemplateFormat = "docx"
	TemplateFormatRTF  TemplateFormat = "rtf"
)

var TemplateFormats = []TemplateFormat{TemplateFormatDoc, TemplateFormatDocx, TemplateFormatRTF}

func ParseTemplateFormat(s string) TemplateFormat { return parseEnum(s, TemplateFormats) }

// TemplateThumbFormat is the image format of a template preview.
type TemplateThumbFormat string

const (
	ThumbPNG TemplateThumbFormat = "png"
	ThumbGIF TemplateThumbFormat = "gif"
	ThumbJPG TemplateThumbFormat = "jpg"
)

var TemplateThumbFormats = []TemplateThumbFormat{ThumbPNG, ThumbGIF, ThumbJPG}

func ParseTemplateThumbFormat(s string) TemplateThumbFormat {
	return parseEnum(s, TemplateThumbFormats)
}

// TemplateType says whether a template was built in the editor or uploaded.
type TemplateType string

const (
	TemplateTypeDefined  TemplateType = "DEFINED"
	TemplateTypeUploaded TemplateType = "UPLOADED"
)

var TemplateTypes = []TemplateType{TemplateTypeDefined, TemplateTypeUploaded}

func ParseTemplateType(s string) TemplateType { return parseEnum(s, TemplateTypes) }

// ValueType marks whether a client term uses account settings or its own value.
type ValueType string

const (
	ValueTypeSettings ValueType = "SETTINGS"
	ValueTypeAbsolute ValueType = "ABSOLUTE"
	ValueTypeRelative ValueType = "RELATIVE"
)

var ValueTypes = []ValueType{ValueTypeSettings, ValueTypeAbsolute, ValueTypeRelative}

func ParseValueType(s string) ValueType { return parseEnum(s, ValueTypes) }

func parseEnum[E ~string](s string, known []E) E {
	for _, k := range known {
		if string(k) == s {
			return k
		}
	}
	return ""
}

// enumOf reads key from r and parses it with known.
func enumOf[E ~string](r record, key string, known []E) E {
	s := r.stringPtr(key)
	if s == nil {
		return ""
	}
	return parseEnum(*s, known)
}

// EnumStrings converts an enum list to plain strings.
func EnumStrings[E ~string](values []E) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
