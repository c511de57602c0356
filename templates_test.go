package billomat

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTemplates(t *testing.T) {
	var rawQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		writeJSON(w, http.StatusOK, `{"templates":{"template":{"id":"2","type":"INVOICE","template_type":"UPLOADED","name":"Standard","format":"docx","is_default":"1"}}}`)
	})

	templates, err := c.Templates().List(context.Background(), &TemplateListOptions{Type: TemplateForInvoice})
	require.NoError(t, err)
	assert.Equal(t, "type=INVOICE", rawQuery)

	require.Len(t, templates, 1)
	tpl := templates[0]
	assert.Equal(t, TemplateForInvoice, tpl.Type)
	assert.Equal(t, TemplateTypeUploaded, tpl.TemplateType)
	assert.Equal(t, TemplateFormatDocx, tpl.Format)
	assert.True(t, *tpl.IsDefault)
}

func TestCreateTemplate_TypeAlwaysSent(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body = readBody(t, r)
		writeJSON(w, http.StatusCreated, `{"template":{"id":3,"type":"OFFER"}}`)
	})

	_, err := c.Templates().Create(context.Background(), &TemplateCreate{Type: TemplateForOffer})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"type": "OFFER"}, inner(t, body, "template"))
}

func TestUpdateTemplate_RoundTrip(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			body = readBody(t, r)
		}
		writeJSON(w, http.StatusOK, `{"template":{"id":3,"type":"OFFER","name":"Angebot","format":"pdf","is_default":"0"}}`)
	})

	tpl, err := c.Templates().Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, TemplateFormat(""), tpl.Format)

	_, err = c.Templates().Update(context.Background(), tpl.ID, tpl.UpdateOptions())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Angebot", "is_default": float64(0)}, inner(t, body, "template"))
}

func TestTemplateThumb(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/templates/3/thumb" {
			t.Errorf("Expected path /api/templates/3/thumb, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "image/"+r.URL.Query().Get("format"))
		_, _ = w.Write([]byte(r.URL.Query().Get("format")))
	})

	data, err := c.Templates().Thumb(context.Background(), 3, "")
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	data, err = c.Templates().Thumb(context.Background(), 3, ThumbGIF)
	require.NoError(t, err)
	assert.Equal(t, "gif", string(data))
}
