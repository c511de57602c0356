package billomat

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := New("", "key")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = New("acme", " ")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	c, err := New("acme", "key")
	require.NoError(t, err)
	assert.Equal(t, "https://acme.billomat.net/api/", c.BaseURL())
	assert.Equal(t, "acme", c.BillomatID())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"complete", Config{BillomatID: "a", APIKey: "k"}, false},
		{"with app pair", Config{BillomatID: "a", APIKey: "k", AppID: "i", AppSecret: "s"}, false},
		{"missing key", Config{BillomatID: "a"}, true},
		{"app id only", Config{BillomatID: "a", APIKey: "k", AppID: "i"}, true},
		{"secret only", Config{BillomatID: "a", APIKey: "k", AppSecret: "s"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigBaseURL(t *testing.T) {
	assert.Equal(t, "https://acme.billomat.net/api/", Config{BillomatID: "acme"}.BaseURL())
	assert.Equal(t, "http://localhost:8080/acme/", Config{BillomatID: "acme", BaseURLTemplate: "http://localhost:8080/%s"}.BaseURL())
	assert.Equal(t, "http://127.0.0.1/api/", Config{BillomatID: "acme", BaseURLTemplate: "http://127.0.0.1/api"}.BaseURL())
}

func TestSend_Headers(t *testing.T) {
	var got http.Header
	var path, rawQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		path = r.URL.Path
		rawQuery = r.URL.RawQuery
		writeJSON(w, http.StatusOK, `{}`)
	}, WithUserAgent("billomat-go-test"))

	_, err := c.getJSON(context.Background(), "test", "/clients", Query{"sort": "date+DESC", "name": "A B"})
	require.NoError(t, err)

	assert.Equal(t, "/api/clients", path)
	assert.Equal(t, "name=A%20B&sort=date+DESC", rawQuery)
	assert.Equal(t, "test-key", got.Get(DefaultAPIKeyHeader))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Empty(t, got.Get("Content-Type"))
	assert.Empty(t, got.Get("X-AppId"))
	assert.Empty(t, got.Get("X-AppSecret"))
	assert.Equal(t, "billomat-go-test", got.Get("User-Agent"))
}

func TestSend_AppCredentialsAndBody(t *testing.T) {
	var got http.Header
	var body []byte
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		body, _ = io.ReadAll(r.Body)
		writeJSON(w, http.StatusCreated, `{"client":{"id":1}}`)
	}, WithAppCredentials("app", "secret"), WithAPIKeyHeader("X-ApiKey"))

	_, err := c.postJSON(context.Background(), "test", "clients", wrap("client", payload{"name": "x"}))
	require.NoError(t, err)

	assert.Equal(t, "test-key", got.Get("X-ApiKey"))
	assert.Empty(t, got.Get(DefaultAPIKeyHeader))
	assert.Equal(t, "app", got.Get("X-AppId"))
	assert.Equal(t, "secret", got.Get("X-AppSecret"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.JSONEq(t, `{"client":{"name":"x"}}`, string(body))
}

func TestSend_HalfAppCredentialsNotSent(t *testing.T) {
	var got http.Header
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		writeJSON(w, http.StatusOK, `{}`)
	}, WithAppCredentials("app", ""))

	_, err := c.getJSON(context.Background(), "test", "clients", nil)
	require.NoError(t, err)
	assert.Empty(t, got.Get("X-AppId"))
}

func TestSend_Timeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		writeJSON(w, http.StatusOK, `{}`)
	}, WithTimeout(50*time.Millisecond))

	_, err := c.getJSON(context.Background(), "test", "clients", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
	assert.Equal(t, 0, StatusCode(err))
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) Do(r *http.Request) (*http.Response, error) { return f(r) }

func TestSend_CustomDoerAndTransportError(t *testing.T) {
	boom := errors.New("connection refused")
	c, err := New("acme", "key", WithHTTPClient(roundTripFunc(func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, "https://acme.billomat.net/api/taxes", r.URL.String())
		return nil, boom
	})))
	require.NoError(t, err)

	_, err = c.Taxes().List(context.Background(), nil)
	assert.ErrorIs(t, err, boom)
	assert.True(t, strings.HasPrefix(err.Error(), "request failed"))
}

func TestSend_LogsWhenLoggerSet(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{}`)
	}, WithLogger(logger))

	_, err := c.getJSON(context.Background(), "test", "settings", nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "request complete")
	assert.Contains(t, buf.String(), "path=settings")
	assert.Contains(t, buf.String(), "status=200")
}

func TestNewFromConfig(t *testing.T) {
	_, err := NewFromConfig(Config{BillomatID: "a", APIKey: "k", AppID: "only"})
	require.Error(t, err)

	c, err := NewFromConfig(Config{
		BillomatID:      "acme",
		APIKey:          "k",
		BaseURLTemplate: "http://localhost/%s/api/",
		Timeout:         time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost/acme/api/", c.BaseURL())
	assert.Equal(t, time.Second, c.timeout)
}
