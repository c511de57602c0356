package billomat

// Service accessors group Client methods by resource. Services are cheap
// values; call the accessor wherever one is needed.

type ClientsService struct{ res resource[ClientRecord] }

type InvoicesService struct{ res resource[Invoice] }

type InvoiceItemsService struct{ res resource[InvoiceItem] }

type InvoicePaymentsService struct{ res resource[InvoicePayment] }

type TaxesService struct{ res resource[TaxRate] }

type TemplatesService struct{ res resource[Template] }

type SettingsService struct{ client *Client }

func (c *Client) Clients() ClientsService {
	return ClientsService{resource[ClientRecord]{
		client: c, path: "clients", plural: "clients", singular: "client", hydrate: hydrateClient,
	}}
}

func (c *Client) Invoices() InvoicesService {
	return InvoicesService{resource[Invoice]{
		client: c, path: "invoices", plural: "invoices", singular: "invoice", hydrate: hydrateInvoice,
	}}
}

func (c *Client) InvoiceItems() InvoiceItemsService {
	return InvoiceItemsService{resource[InvoiceItem]{
		client: c, path: "invoice-items", plural: "invoice-items", singular: "invoice-item", hydrate: hydrateInvoiceItem,
	}}
}

func (c *Client) InvoicePayments() InvoicePaymentsService {
	return InvoicePaymentsService{resource[InvoicePayment]{
		client: c, path: "invoice-payments", plural: "invoice-payments", singular: "invoice-payment", hydrate: hydrateInvoicePayment,
	}}
}

func (c *Client) Taxes() TaxesService {
	return TaxesService{resource[TaxRate]{
		client: c, path: "taxes", plural: "taxes", singular: "tax", hydrate: hydrateTaxRate,
	}}
}

func (c *Client) Templates() TemplatesService {
	return TemplatesService{resource[Template]{
		client: c, path: "templates", plural: "templates", singular: "template", hydrate: hydrateTemplate,
	}}
}

func (c *Client) Settings() SettingsService {
	return SettingsService{client: c}
}
