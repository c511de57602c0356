package billomat

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListInvoiceItems(t *testing.T) {
	var rawQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/invoice-items" {
			t.Errorf("Expected path /api/invoice-items, got %s", r.URL.Path)
		}
		rawQuery = r.URL.RawQuery
		writeJSON(w, http.StatusOK, `{"invoice-items":{"invoice-item":{"id":"4","invoice_id":"42","quantity":"1.5","unit_price":"80","tax_rate":"19","tax_changed_manually":"0"}}}`)
	})

	items, err := c.InvoiceItems().List(context.Background(), 42, Query{"per_page": 100})
	require.NoError(t, err)
	assert.Equal(t, "invoice_id=42&per_page=100", rawQuery)

	require.Len(t, items, 1)
	item := items[0]
	assert.Equal(t, 4, item.ID)
	assert.Equal(t, 42, item.InvoiceID)
	assert.True(t, decimal.RequireFromString("1.5").Equal(item.Quantity))
	assert.True(t, decimal.NewFromInt(80).Equal(item.UnitPrice))
	assert.False(t, *item.TaxChangedManually)
	assert.Nil(t, item.Title)
}

func TestCreateInvoiceItem_InjectsInvoiceID(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body = readBody(t, r)
		writeJSON(w, http.StatusCreated, `{"invoice-item":{"id":"5","invoice_id":"42","quantity":"0","unit_price":"0"}}`)
	})

	item, err := c.InvoiceItems().Create(context.Background(), 42, NewInvoiceItemCreate(decimal.Zero, decimal.Zero))
	require.NoError(t, err)
	assert.Equal(t, 5, item.ID)
	assert.Equal(t, map[string]any{
		"invoice_id": float64(42),
		"quantity":   float64(0),
		"unit_price": float64(0),
	}, inner(t, body, "invoice-item"))
}

func TestUpdateInvoiceItem_RoundTrip(t *testing.T) {
	src := `{"id":6,"invoice_id":1,"quantity":"2","unit_price":"12.5","title":"Beratung","unit":"h","type":"SERVICE","total_net":"25"}`
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			body = readBody(t, r)
		}
		writeJSON(w, http.StatusOK, `{"invoice-item":`+src+`}`)
	})

	item, err := c.InvoiceItems().Get(context.Background(), 6)
	require.NoError(t, err)
	_, err = c.InvoiceItems().Update(context.Background(), item.ID, item.CreateOptions())
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"quantity":   float64(2),
		"unit_price": 12.5,
		"title":      "Beratung",
		"unit":       "h",
		"type":       "SERVICE",
	}, inner(t, body, "invoice-item"))
}

func TestDeleteInvoiceItem_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"errors":{"error":"Invoice item not found"}}`)
	})

	err := c.InvoiceItems().Delete(context.Background(), 1)
	assert.True(t, IsNotFoundError(err))
	assert.Contains(t, err.Error(), "Invoice item not found")
}
