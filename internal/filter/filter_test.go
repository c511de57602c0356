package filter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invoicesFixture() []any {
	return []any{
		map[string]any{"id": 1, "invoice_number": "RE1001", "status": "PAID", "total_gross": "119.00"},
		map[string]any{"id": 2, "invoice_number": "RE1002", "status": "OPEN", "total_gross": "59.50"},
		map[string]any{"id": 3, "invoice_number": "", "status": "DRAFT", "total_gross": "0.00"},
	}
}

func TestApply_EmptyExpressionReturnsInput(t *testing.T) {
	data := map[string]any{"id": 7}
	result, err := Apply(data, "")
	require.NoError(t, err)
	assert.Equal(t, data, result)
}

func TestApply_SingleResultIsUnwrapped(t *testing.T) {
	result, err := Apply(map[string]any{"name": "Acme GmbH"}, ".name")
	require.NoError(t, err)
	assert.Equal(t, "Acme GmbH", result)
}

func TestApply_MultipleResults(t *testing.T) {
	result, err := Apply(invoicesFixture(), `.[] | select(.status != "DRAFT") | .invoice_number`)
	require.NoError(t, err)
	assert.Equal(t, []any{"RE1001", "RE1002"}, result)
}

func TestApply_InvalidExpression(t *testing.T) {
	_, err := Apply(invoicesFixture(), ".[")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "invalid filter expression"), err.Error())
}

func TestApply_RuntimeError(t *testing.T) {
	_, err := Apply("not-an-object", ".id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "filter error")
}

func TestApply_ShellEscapedNotEqual(t *testing.T) {
	// Zsh escapes != to \!= even in single quotes
	result, err := Apply(invoicesFixture(), `[.[] | select(.invoice_number \!= "")] | length`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != 2 {
		t.Errorf("expected 2 numbered invoices, got %v", result)
	}
}

func TestNormalizeExpression(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`select(.x \!= null)`, `select(.x != null)`},
		{`select(.x != null)`, `select(.x != null)`},
		{`.[] | select(.a \!= .b)`, `.[] | select(.a != .b)`},
		{`select(.status == "PAID")`, `select(.status == "PAID")`},
	}
	for _, tt := range tests {
		if got := NormalizeExpression(tt.input); got != tt.expected {
			t.Errorf("NormalizeExpression(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestApply_StatusLabel(t *testing.T) {
	result, err := Apply(invoicesFixture(), `[.[] | .status | status_label]`)
	require.NoError(t, err)
	assert.Equal(t, []any{"Bezahlt", "Offen", "Entwurf"}, result)

	result, err = Apply("SOMETHING_NEW", `status_label`)
	require.NoError(t, err)
	assert.Equal(t, "SOMETHING_NEW", result, "unknown statuses pass through")

	_, err = Apply(map[string]any{"status": 1}, `.status | status_label`)
	require.Error(t, err)
}

func TestApply_DecimalStringsConvertWithToNumber(t *testing.T) {
	result, err := Apply(invoicesFixture(), `[.[] | .total_gross | tonumber] | add`)
	require.NoError(t, err)
	assert.InDelta(t, 178.5, result, 0.0001)
}

func TestApplyFromJSON(t *testing.T) {
	jsonData := []byte(`{"name": "test", "id": 42}`)

	result, err := ApplyFromJSON(jsonData, "")
	require.NoError(t, err)
	m, ok := result.(map[string]any)
	require.True(t, ok, "expected map, got %T", result)
	assert.Equal(t, "test", m["name"])

	result, err = ApplyFromJSON(jsonData, ".name")
	require.NoError(t, err)
	assert.Equal(t, "test", result)

	_, err = ApplyFromJSON([]byte(`{invalid}`), ".name")
	assert.Error(t, err)
}

func TestApplyToJSON(t *testing.T) {
	raw := []byte(`{"id": 42}`)

	out, err := ApplyToJSON(raw, "")
	require.NoError(t, err)
	assert.Equal(t, raw, out)

	out, err = ApplyToJSON(raw, "{invoice: .id}")
	require.NoError(t, err)
	assert.JSONEq(t, `{"invoice": 42}`, string(out))
}

func TestApply_RootArrayQueryFallsBackToItems(t *testing.T) {
	data := map[string]any{
		"items": []any{
			map[string]any{"client": map[string]any{"id": 11}},
			map[string]any{"client": map[string]any{"id": 22}},
		},
		"meta": map[string]any{"total": 2},
	}

	result, err := Apply(data, `.[].client.id`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	values, ok := result.([]any)
	if !ok {
		t.Fatalf("expected []any result, got %T (%v)", result, result)
	}
	if len(values) != 2 || values[0] != 11 || values[1] != 22 {
		t.Fatalf("unexpected values: %v", values)
	}
}

func TestApply_RootArrayQueryWithoutItemsStillErrors(t *testing.T) {
	data := map[string]any{
		"invoices": []any{map[string]any{"id": 1}},
	}

	_, err := Apply(data, `.[].id`)
	if err == nil {
		t.Fatal("expected error for root-array query on non-items object")
	}
}
