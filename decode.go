package billomat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// decodeJSON turns a response into its top-level JSON object, or into one of
// the status errors when the status is not 2xx.
func decodeJSON(op string, resp *response) (map[string]any, error) {
	if !resp.ok() {
		return nil, statusError(resp)
	}
	body := bytes.TrimSpace(resp.Body)
	if len(body) == 0 {
		return map[string]any{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, &UnexpectedResponseError{Op: op, Err: fmt.Errorf("JSON decode failed: %w", err)}
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

func statusError(resp *response) error {
	return newStatusError(resp.StatusCode, errorMessage(resp.Body), string(resp.Body))
}

// errorMessage pulls the human-readable text out of an error body. Billomat
// sends {"errors":{"error":"..."}} with either a string or a list; other
// shapes fall back to top-level "error" or "message".
func errorMessage(body []byte) string {
	var parsed struct {
		Errors  any    `json:"errors"`
		Error   any    `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	if msgs := collectMessages(parsed.Errors); len(msgs) > 0 {
		return strings.Join(msgs, "; ")
	}
	if msgs := collectMessages(parsed.Error); len(msgs) > 0 {
		return strings.Join(msgs, "; ")
	}
	return parsed.Message
}

func collectMessages(v any) []string {
	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
	case []any:
		var out []string
		for _, item := range t {
			out = append(out, collectMessages(item)...)
		}
		return out
	case map[string]any:
		if inner, ok := t["error"]; ok {
			return collectMessages(inner)
		}
		if inner, ok := t["message"]; ok {
			return collectMessages(inner)
		}
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, query Query) (map[string]any, error) {
	resp, err := c.send(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	return decodeJSON(op, resp)
}

// getJSONOrNil is getJSON with 404 mapped to (nil, nil).
func (c *Client) getJSONOrNil(ctx context.Context, op, path string, query Query) (map[string]any, error) {
	resp, err := c.send(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	return decodeJSON(op, resp)
}

func (c *Client) postJSON(ctx context.Context, op, path string, body any) (map[string]any, error) {
	resp, err := c.send(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return nil, err
	}
	return decodeJSON(op, resp)
}

func (c *Client) putJSON(ctx context.Context, op, path string, body any) (map[string]any, error) {
	resp, err := c.send(ctx, http.MethodPut, path, nil, body)
	if err != nil {
		return nil, err
	}
	return decodeJSON(op, resp)
}

// putEmpty sends a PUT whose success response carries no body worth reading.
func (c *Client) putEmpty(ctx context.Context, path string, body any) error {
	resp, err := c.send(ctx, http.MethodPut, path, nil, body)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return statusError(resp)
	}
	return nil
}

func (c *Client) deleteVoid(ctx context.Context, path string) error {
	resp, err := c.send(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return statusError(resp)
	}
	return nil
}

// getRaw returns the body bytes of a binary endpoint without JSON decoding.
func (c *Client) getRaw(ctx context.Context, path string, query Query) ([]byte, error) {
	resp, err := c.send(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, statusError(resp)
	}
	return resp.Body, nil
}
