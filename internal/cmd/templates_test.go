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

const templatesList = `{"templates":{"template":[
	{"id":"12","name":"Invoice 2024","type":"INVOICE","template_type":"DEFAULT","format":"docx","is_default":"1"},
	{"id":"13","name":"Offer classic","type":"OFFER","format":"rtf","is_default":"0"}
]}}`

func TestTemplatesListCommand(t *testing.T) {
	var log requestLog
	setupTestEnvWithHandler(t, newRouteHandler().
		On("GET", "/api/templates", log.capture(jsonResponse(200, templatesList))))

	out, _, err := runCmd(t, "templates", "list", "--type", "inv")
	require.NoError(t, err)
	assert.Contains(t, out, "Invoice 2024")
	assert.Contains(t, out, "docx")

	q, _ := url.ParseQuery(log.all()[0].Query)
	assert.Equal(t, "INVOICE", q.Get("type"))
}

func TestTemplatesListCommand_InvalidType(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	_, errOut, err := runCmd(t, "templates", "list", "--type", "poster")
	require.Error(t, err)
	assert.Contains(t, errOut, "for --type")
}

func TestTemplatesCreateCommand_FromFile(t *testing.T) {
	var log requestLog
	setupTestEnvWithHandler(t, newRouteHandler().
		On("POST", "/api/templates", log.capture(jsonResponse(201, `{"template":{"id":"14","name":"Reminder","type":"REMINDER","format":"rtf"}}`))))

	path := filepath.Join(t.TempDir(), "reminder.RTF")
	content := []byte(`{\rtf1 hello}`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	out, _, err := runCmd(t, "templates", "create", "--type", "reminder", "--name", "Reminder", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Created template 14: Reminder")

	body := log.all()[0].Body["template"].(map[string]any)
	assert.Equal(t, "REMINDER", body["type"])
	assert.Equal(t, "rtf", body["format"])
	assert.Equal(t, base64.StdEncoding.EncodeToString(content), body["base64file"])
	_, hasDefault := body["is_default"]
	assert.False(t, hasDefault)
}

func TestTemplatesCreateCommand_UnknownExtension(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	path := filepath.Join(t.TempDir(), "layout.odt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	_, errOut, err := runCmd(t, "templates", "create", "--type", "INVOICE", "--file", path)
	require.Error(t, err)
	assert.Contains(t, errOut, "pass --format")
}

func TestTemplatesUpdateCommand_ByName(t *testing.T) {
	var log requestLog
	handler := newRouteHandler().
		On("GET", "/api/templates", jsonResponse(200, templatesList)).
		On("PUT", "/api/templates/13", log.capture(jsonResponse(200, `{"template":{"id":"13","name":"Offer classic","is_default":"1"}}`)))
	setupTestEnvWithHandler(t, handler)

	_, _, err := runCmd(t, "templates", "update", "offer classic", "--default")
	require.NoError(t, err)

	body := log.all()[0].Body["template"].(map[string]any)
	assert.EqualValues(t, 1, body["is_default"])
	assert.NotContains(t, body, "name")
}

func TestTemplatesThumbCommand_WritesFile(t *testing.T) {
	var log requestLog
	png := []byte("\x89PNG fake")
	setupTestEnvWithHandler(t, newRouteHandler().
		On("GET", "/api/templates/12/thumb", log.capture(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(png)
		})))

	target := filepath.Join(t.TempDir(), "preview.png")
	out, _, err := runCmd(t, "templates", "thumb", "12", "--file", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Saved template preview 12")

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, png, got)

	q, _ := url.ParseQuery(log.all()[0].Query)
	assert.Equal(t, "png", q.Get("format"))
}

func TestTemplatesThumbCommand_Stdout(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler().
		On("GET", "/api/templates/12/thumb", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("jpg:" + r.URL.Query().Get("format")))
		}))

	out, _, err := runCmd(t, "templates", "thumb", "12", "--format", "jpg", "-f", "-")
	require.NoError(t, err)
	assert.Equal(t, "jpg:jpg", out)
}

func TestTemplatesDeleteCommand_Declined(t *testing.T) {
	var log requestLog
	setupTestEnvWithHandler(t, newRouteHandler().
		On("DELETE", "/api/templates/12", log.capture(jsonResponse(200, ``))))

	_, errOut, err := runCmdWithInput(t, "n\n", "templates", "delete", "12")
	require.NoError(t, err)
	assert.Contains(t, errOut, "Cancelled.")
	assert.Empty(t, log.all())
}
