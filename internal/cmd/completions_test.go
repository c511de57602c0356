package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionsTaxes(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler().
		On("GET", "/api/taxes", jsonResponse(200, taxesList)))

	out, _, err := runCmd(t, "completions", "taxes", "-o", "json")
	require.NoError(t, err)

	var payload struct {
		Items []CompletionItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Len(t, payload.Items, 2)
	assert.Equal(t, CompletionItem{Value: "1", Label: "MwSt 19%", Description: "19%"}, payload.Items[0])
}

func TestCompletionsEmptyJSON(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler().
		On("GET", "/api/templates", jsonResponse(200, `{"templates":{"@total":"0"}}`)))

	out, _, err := runCmd(t, "completions", "templates", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, out)
}

func TestCompletionsStatusesNeedNoCredentials(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())
	keychainOnly(t)
	useSharedKeyring(t)

	out, _, err := runCmd(t, "completions", "statuses")
	require.NoError(t, err)
	assert.Contains(t, out, "PAID")
	assert.Contains(t, out, "Bezahlt")
}

func TestCompletionsEmpty(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler().
		On("GET", "/api/templates", jsonResponse(200, `{"templates":{"@total":"0"}}`)))

	out, errOut, err := runCmd(t, "completions", "templates")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "No values found")
}

func TestShellCompletionOffersTemplateNames(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler().
		On("GET", "/api/templates", jsonResponse(200, templatesList)))

	out, _, err := runCmd(t, cobraCompleteCmd, "templates", "thumb", "")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Contains(t, lines, "12\tInvoice 2024")
	assert.Contains(t, lines, "13\tOffer classic")
}

func TestShellCompletionStopsAfterFirstArg(t *testing.T) {
	var log requestLog
	setupTestEnvWithHandler(t, newRouteHandler().
		On("GET", "/api/taxes", log.capture(jsonResponse(200, taxesList))))

	_, _, err := runCmd(t, cobraCompleteCmd, "taxes", "get", "1", "")
	require.NoError(t, err)
	assert.Empty(t, log.all())
}

const cobraCompleteCmd = "__complete"
