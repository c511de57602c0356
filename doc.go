// Package billomat is a typed client for the Billomat invoicing API.
//
// A Client is built from a Billomat ID and API key and exposes one service
// per resource:
//
//	c, err := billomat.New("mycompany", apiKey)
//	if err != nil {
//		return err
//	}
//	invoices, err := c.Invoices().List(ctx, &billomat.InvoiceListOptions{
//		Status: []billomat.InvoiceStatus{billomat.InvoiceStatusOpen},
//	})
//
// Every call performs exactly one HTTP request. Get methods return (nil, nil)
// when the record does not exist; every other failure is one of the error
// types in errors.go and can be told apart with errors.As or the IsX helpers.
//
// Read models use pointers for optional fields, so a nil pointer means
// Billomat did not send the field. Create and update structs follow the same
// rule on the way out: nil fields are left out of the request body and
// Billomat applies its own defaults.
package billomat
