package cmd

import (
	"encoding/base64"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const invoicesPage = `{"invoices":{"@total":"2","invoice":[
	{"id":"1001","client_id":"1","invoice_number":"RE1001","date":"2024-03-01","due_date":"2024-03-15","status":"OPEN","total_gross":"119.00","total_net":"100.00","open_amount":"119.00","currency_code":"EUR"},
	{"id":"1002","client_id":"3","invoice_number":"RE1002","date":"2024-03-02","status":"PAID","total_gross":"59.50","currency_code":"EUR"}
]}}`

func TestInvoicesListCommand(t *testing.T) {
	var log requestLog
	handler := newRouteHandler().
		On("GET", "/api/invoices", log.capture(jsonResponse(200, invoicesPage)))
	setupTestEnvWithHandler(t, handler)

	out, _, err := runCmd(t, "invoices", "list", "--status", "open,overdue", "--from", "2024-03-01")
	require.NoError(t, err)

	assert.Contains(t, out, "RE1001")
	assert.Contains(t, out, "Offen")
	assert.Contains(t, out, "Bezahlt")
	assert.Contains(t, out, "119.00")

	reqs := log.all()
	require.Len(t, reqs, 1)
	q, err := url.ParseQuery(reqs[0].Query)
	require.NoError(t, err)
	assert.Equal(t, []string{"OPEN", "OVERDUE"}, q["status[]"])
	assert.Equal(t, "2024-03-01", q.Get("from"))
}

func TestInvoicesListCommand_InvalidStatus(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler().
		On("GET", "/api/invoices", jsonResponse(200, invoicesPage)))

	_, errOut, err := runCmd(t, "invoices", "list", "--status", "bogus")
	require.Error(t, err)
	assert.Contains(t, errOut, "for --status")
}

func TestInvoicesListCommand_ByClientName(t *testing.T) {
	var log requestLog
	handler := newRouteHandler().
		On("GET", "/api/clients", jsonResponse(200, clientsPage)).
		On("GET", "/api/invoices", log.capture(jsonResponse(200, `{"invoices":{"invoice":[]}}`)))
	setupTestEnvWithHandler(t, handler)

	_, _, err := runCmd(t, "invoices", "list", "--client", "Acme GmbH", "-o", "json")
	require.NoError(t, err)

	reqs := log.all()
	require.Len(t, reqs, 1)
	q, _ := url.ParseQuery(reqs[0].Query)
	assert.Equal(t, "1", q.Get("client_id"))
}

func TestInvoicesListCommand_JQ(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler().
		On("GET", "/api/invoices", jsonResponse(200, invoicesPage)))

	out, _, err := runCmd(t, "invoices", "list", "--jq", ".items[0].invoice_number")
	require.NoError(t, err)
	assert.Contains(t, out, "RE1001")
}

func TestInvoicesGetCommand(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/invoices/1001", jsonResponse(200, `{"invoice":{
			"id":"1001","client_id":"1","invoice_number":"RE1001","status":"DRAFT",
			"total_net":"100.00","total_gross":"119.00","currency_code":"EUR",
			"taxes":{"tax":{"name":"MwSt","rate":"19","amount":"19.00"}},
			"invoice-items":{"invoice-item":[{"id":"1","position":"1","title":"Consulting","quantity":"2","unit_price":"50","tax_rate":"19","total_net":"100.00"}]}
		}}`))
	setupTestEnvWithHandler(t, handler)

	out, _, err := runCmd(t, "invoices", "get", "1001")
	require.NoError(t, err)
	assert.Contains(t, out, "Invoice 1001 (RE1001) - Entwurf")
	assert.Contains(t, out, "Gross: 119.00 EUR")
}

func TestInvoicesGetCommand_InvalidID(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	_, _, err := runCmd(t, "invoices", "get", "abc")
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
}

func TestInvoicesCreateCommand(t *testing.T) {
	var log requestLog
	handler := newRouteHandler().
		On("POST", "/api/invoices", log.capture(jsonResponse(201, `{"invoice":{"id":"1003","client_id":"42","status":"DRAFT","total_gross":"178.50"}}`)))
	setupTestEnvWithHandler(t, handler)

	out, _, err := runCmd(t, "invoices", "create",
		"--client", "42",
		"--title", "Project X",
		"--date", "2024-04-01",
		"--item", "2;49,50;Consulting;19",
		"--item", "1;80;Support;;h",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Created draft invoice 1003: 178.50")

	reqs := log.all()
	require.Len(t, reqs, 1)
	inv := reqs[0].Body["invoice"].(map[string]any)
	assert.EqualValues(t, 42, inv["client_id"])
	assert.Equal(t, "Project X", inv["title"])
	assert.Equal(t, "2024-04-01", inv["date"])

	items := inv["invoice-items"].(map[string]any)["invoice-item"].([]any)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.EqualValues(t, 49.5, first["unit_price"])
	assert.EqualValues(t, 19, first["tax_rate"])
	second := items[1].(map[string]any)
	assert.Equal(t, "h", second["unit"])
	_, hasTax := second["tax_rate"]
	assert.False(t, hasTax)
}

func TestInvoicesCreateCommand_BadItem(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	_, errOut, err := runCmd(t, "invoices", "create", "--client", "1", "--item", "two;10;x")
	require.Error(t, err)
	assert.Contains(t, errOut, `invalid --item "two;10;x": quantity: invalid value "two"`)
	assert.Equal(t, exitUsage, ExitCode(err))
}

func TestInvoicesCreateCommand_RequiresClient(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	_, _, err := runCmd(t, "invoices", "create")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client")
}

func TestInvoicesUpdateCommand(t *testing.T) {
	var log requestLog
	handler := newRouteHandler().
		On("PUT", "/api/invoices/1001", log.capture(jsonResponse(200, `{"invoice":{"id":"1001"}}`)))
	setupTestEnvWithHandler(t, handler)

	_, _, err := runCmd(t, "invoices", "update", "1001", "--label", "Q2", "--due-days", "30")
	require.NoError(t, err)

	inv := log.all()[0].Body["invoice"].(map[string]any)
	assert.Equal(t, "Q2", inv["label"])
	assert.EqualValues(t, 30, inv["due_days"])
	assert.Len(t, inv, 2)
}

func TestInvoicesCompleteCommand(t *testing.T) {
	var log requestLog
	handler := newRouteHandler().
		On("PUT", "/api/invoices/1001/complete", log.capture(jsonResponse(200, ``)))
	setupTestEnvWithHandler(t, handler)

	out, _, err := runCmd(t, "invoices", "complete", "1001", "--template-id", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Completed invoice 1001")

	reqs := log.all()
	require.Len(t, reqs, 1)
	assert.EqualValues(t, 7, reqs[0].Body["invoice"].(map[string]any)["template_id"])
}

func TestInvoicesCompleteCommand_Bulk(t *testing.T) {
	var log requestLog
	ok := log.capture(jsonResponse(200, ``))
	handler := newRouteHandler().
		On("PUT", "/api/invoices/1/complete", ok).
		On("PUT", "/api/invoices/2/complete", ok).
		On("PUT", "/api/invoices/3/complete", ok)
	setupTestEnvWithHandler(t, handler)

	out, _, err := runCmd(t, "invoices", "complete", "--ids", "1,2,3", "-o", "json")
	require.NoError(t, err)

	summary := decodeObject(t, out)
	assert.EqualValues(t, 3, summary["success_count"])
	assert.Len(t, log.all(), 3)
}

func TestInvoicesCompleteCommand_ArgsAndIDs(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	_, errOut, err := runCmd(t, "invoices", "complete", "1", "--ids", "2,3")
	require.Error(t, err)
	assert.Contains(t, errOut, "pass exactly one invoice ID or --ids")
}

func TestInvoicesDeleteCommand_DryRunJSON(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	out, _, err := runCmd(t, "invoices", "delete", "1001", "--dry-run", "-o", "json")
	require.NoError(t, err)

	preview := decodeObject(t, out)
	assert.Equal(t, true, preview["dry_run"])
	assert.Equal(t, "delete", preview["operation"])
	assert.NotEmpty(t, preview["warnings"])
}

func TestInvoicesPDFCommand(t *testing.T) {
	pdf := []byte("%PDF-1.4 test")
	handler := newRouteHandler().
		On("GET", "/api/invoices/1001/pdf", jsonResponse(200, `{"pdf":{"id":"5","invoice_id":"1001","filename":"RE1001.pdf","mimetype":"application/pdf","base64file":"`+base64.StdEncoding.EncodeToString(pdf)+`"}}`))
	setupTestEnvWithHandler(t, handler)

	target := filepath.Join(t.TempDir(), "out.pdf")
	out, _, err := runCmd(t, "invoices", "pdf", "1001", "-f", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Saved invoice PDF 1001")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, pdf, data)
}

func TestInvoicesPDFCommand_RawToStdout(t *testing.T) {
	var log requestLog
	handler := newRouteHandler().
		On("GET", "/api/invoices/1001/pdf", log.capture(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF raw"))
		}))
	setupTestEnvWithHandler(t, handler)

	out, _, err := runCmd(t, "invoices", "pdf", "1001", "--raw", "--type", "print", "-f", "-")
	require.NoError(t, err)
	assert.Equal(t, "%PDF raw", out)

	q, _ := url.ParseQuery(log.all()[0].Query)
	assert.Equal(t, "pdf", q.Get("format"))
	assert.Equal(t, "print", q.Get("type"))
}

func TestParseItemFlag(t *testing.T) {
	item, err := parseItemFlag("3;80;Support;7%;h")
	require.NoError(t, err)
	assert.Equal(t, "3", item.Quantity.String())
	assert.Equal(t, "80", item.UnitPrice.String())
	assert.Equal(t, "Support", *item.Title)
	assert.Equal(t, "7", item.TaxRate.String())
	assert.Equal(t, "h", *item.Unit)

	tests := map[string]string{
		"1;2":         "expected 3 to 5 fields, got 2",
		"1;2;3;4;5;6": "expected 3 to 5 fields, got 6",
		"x;1;t":       "quantity: invalid value",
		"1;y;t":       "unit price: invalid value",
		"1;1;t;z":     "tax rate: invalid value",
	}
	for bad, want := range tests {
		_, err := parseItemFlag(bad)
		assert.ErrorContains(t, err, `invalid --item "`+bad+`"`, bad)
		assert.ErrorContains(t, err, want, bad)
		assert.ErrorContains(t, err, "QTY;UNIT_PRICE;TITLE", bad)
	}
}
