package cmd

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justpilot/billomat-go"
	"github.com/justpilot/billomat-go/internal/config"
	"github.com/justpilot/billomat-go/internal/outfmt"
)

// pagedTaxes serves total tax rates split into pages of per_page.
func pagedTaxes(total int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		body := `{"taxes":{"tax":[`
		first := (page-1)*perPage + 1
		for i := first; i < first+perPage && i <= total; i++ {
			if i > first {
				body += ","
			}
			body += `{"id":"` + strconv.Itoa(i) + `","name":"Tax ` + strconv.Itoa(i) + `","rate":"19"}`
		}
		body += `]}}`
		jsonResponse(http.StatusOK, body)(w, r)
	}
}

func TestListCommand_SinglePageByDefault(t *testing.T) {
	var log requestLog
	setupTestEnvWithHandler(t, newRouteHandler().On("GET", "/api/taxes", log.capture(pagedTaxes(5))))

	out, _, err := runCmd(t, "taxes", "list", "--per-page", "2", "-o", "json")
	require.NoError(t, err)
	assert.Len(t, decodeItems(t, out), 2)
	require.Len(t, log.all(), 1)
	assert.Equal(t, "page=1&per_page=2", log.all()[0].Query)
}

func TestListCommand_AllStopsOnShortPage(t *testing.T) {
	var log requestLog
	setupTestEnvWithHandler(t, newRouteHandler().On("GET", "/api/taxes", log.capture(pagedTaxes(5))))

	out, _, err := runCmd(t, "taxes", "list", "--all", "--per-page", "2", "-o", "json")
	require.NoError(t, err)
	items := decodeItems(t, out)
	require.Len(t, items, 5)
	assert.EqualValues(t, 5, items[4]["id"])
	assert.Len(t, log.all(), 3)
}

func TestListCommand_AllHonorsMaxPages(t *testing.T) {
	var log requestLog
	setupTestEnvWithHandler(t, newRouteHandler().On("GET", "/api/taxes", log.capture(pagedTaxes(10))))

	out, _, err := runCmd(t, "taxes", "list", "--all", "--per-page", "2", "--max-pages", "2", "-o", "json")
	require.NoError(t, err)
	assert.Len(t, decodeItems(t, out), 4)
	assert.Len(t, log.all(), 2)
}

func TestListCommand_StartPage(t *testing.T) {
	var log requestLog
	setupTestEnvWithHandler(t, newRouteHandler().On("GET", "/api/taxes", log.capture(pagedTaxes(5))))

	out, _, err := runCmd(t, "taxes", "list", "--page", "3", "--limit", "2", "-o", "json")
	require.NoError(t, err)
	items := decodeItems(t, out)
	require.Len(t, items, 1)
	assert.EqualValues(t, 5, items[0]["id"])
	assert.Equal(t, "page=3&per_page=2", log.all()[0].Query)
}

func TestListCommand_RejectsBadPaging(t *testing.T) {
	var log requestLog
	setupTestEnvWithHandler(t, newRouteHandler().On("GET", "/api/taxes", log.capture(pagedTaxes(1))))

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--per-page", "0"}, "--per-page must be between 1 and 1000"},
		{[]string{"--limit", "1001"}, "--per-page must be between 1 and 1000"},
		{[]string{"--page", "0"}, "--page must be at least 1"},
		{[]string{"--all", "--max-pages", "0"}, "--max-pages must be at least 1"},
	}
	for _, tt := range tests {
		_, _, err := runCmd(t, append([]string{"taxes", "list"}, tt.args...)...)
		assert.ErrorContains(t, err, tt.want, tt.args)
	}
	assert.Empty(t, log.all(), "validation happens before any request")
}

func TestListCommand_EmptyMessageOnStderr(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler().
		On("GET", "/api/taxes", jsonResponse(200, `{"taxes":{"@total":"0"}}`)))

	out, errOut, err := runCmd(t, "taxes", "list")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "No tax rates found")

	out, _, err = runCmd(t, "taxes", "list", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, out)
}

func TestListCommand_PrepareRunsBeforeClient(t *testing.T) {
	// No test env: resolving a client would fail with missing credentials.
	t.Setenv(config.EnvBillomatID, "")
	t.Setenv(config.EnvAPIKey, "")
	fetched := false
	cmd := NewListCommand(ListConfig[billomat.TaxRate]{
		Use: "list",
		Prepare: func(*cobra.Command, []string) error {
			return errors.New("--from must be before --to")
		},
		Fetch: func(context.Context, *billomat.Client, []string, billomat.Paging) ([]billomat.TaxRate, error) {
			fetched = true
			return nil, nil
		},
	})
	c, _, errOut := testCommand(t, outfmt.Text, "")
	cmd.SetContext(c.Context())
	cmd.SetErr(errOut)
	require.NoError(t, cmd.ParseFlags(nil))

	err := cmd.RunE(cmd, nil)
	assert.ErrorContains(t, err, "--from must be before --to")
	assert.False(t, fetched)
	assert.Contains(t, errOut.String(), "--from must be before --to")
}
