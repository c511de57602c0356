package billomat

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListInvoicePayments(t *testing.T) {
	var rawQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		writeJSON(w, http.StatusOK, `{"invoice-payments":{"invoice-payment":[
			{"id":1,"invoice_id":9,"date":"2024-04-02","amount":"50.00","type":"BANK_TRANSFER","comment":"Teilzahlung"},
			{"id":2,"invoice_id":9,"date":"","amount":"69","type":"CRYPTO"}
		]}}`)
	})

	payments, err := c.InvoicePayments().List(context.Background(), &InvoicePaymentListOptions{
		InvoiceID: Ptr(9),
		Type:      []InvoicePaymentType{PaymentTypeBankTransfer, PaymentTypeCash},
	})
	require.NoError(t, err)
	assert.Equal(t, "invoice_id=9&type%5B%5D=BANK_TRANSFER&type%5B%5D=CASH", rawQuery)

	require.Len(t, payments, 2)
	assert.Equal(t, PaymentTypeBankTransfer, payments[0].Type)
	assert.Equal(t, "Teilzahlung", *payments[0].Comment)
	assert.True(t, decimal.NewFromInt(50).Equal(payments[0].Amount))
	assert.Nil(t, payments[1].Date)
	assert.Equal(t, InvoicePaymentType(""), payments[1].Type)
}

func TestCreateInvoicePayment_AlwaysSentFields(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body = readBody(t, r)
		writeJSON(w, http.StatusCreated, `{"invoice-payment":{"id":3,"invoice_id":9,"amount":"10"}}`)
	})

	p, err := c.InvoicePayments().Create(context.Background(), NewInvoicePaymentCreate(9, decimal.NewFromInt(10)))
	require.NoError(t, err)
	assert.Equal(t, 3, p.ID)
	assert.Equal(t, map[string]any{
		"invoice_id":           float64(9),
		"amount":               float64(10),
		"mark_invoice_as_paid": float64(0),
	}, inner(t, body, "invoice-payment"))
}

func TestCreateInvoicePayment_Optional(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body = readBody(t, r)
		writeJSON(w, http.StatusCreated, `{"invoice-payment":{"id":4}}`)
	})

	create := NewInvoicePaymentCreate(9, decimal.RequireFromString("119.00"))
	create.MarkInvoiceAsPaid = true
	create.Date = Ptr(time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC))
	create.Type = PaymentTypePayPal

	_, err := c.InvoicePayments().Create(context.Background(), create)
	require.NoError(t, err)
	fields := inner(t, body, "invoice-payment")
	assert.Equal(t, float64(1), fields["mark_invoice_as_paid"])
	assert.Equal(t, "2024-04-02", fields["date"])
	assert.Equal(t, "PAYPAL", fields["type"])
	assert.NotContains(t, fields, "comment")
}

func TestGetInvoicePayment_Missing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{}`)
	})

	p, err := c.InvoicePayments().Get(context.Background(), 1)
	assert.NoError(t, err)
	assert.Nil(t, p)

	assert.True(t, IsNotFoundError(c.InvoicePayments().Delete(context.Background(), 1)))
}
