package outfmt

import (
	"encoding/json"
	"reflect"
)

// ListKey is the key list output is wrapped under, so `--jq '.items[]'` works
// for every list command.
const ListKey = "items"

// ListEnvelope wraps items as {"items": [...]}. A nil slice becomes [].
func ListEnvelope[T any](items []T) map[string]any {
	if items == nil {
		items = []T{}
	}
	return map[string]any{ListKey: items}
}

// envelope wraps slices that reach the formatter unwrapped. Byte slices
// (PDF and thumbnail downloads) and non-slice values pass through.
func envelope(v any) any {
	if v == nil {
		return v
	}
	switch v.(type) {
	case []byte, json.RawMessage:
		return v
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return v
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return v
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return v
	}
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return map[string]any{ListKey: []any{}}
	}
	return map[string]any{ListKey: rv.Interface()}
}

// listItems returns the members of an envelope after it went through JSON
// normalization. Objects with keys besides "items" are not envelopes.
func listItems(v any) ([]any, bool) {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		return nil, false
	}
	items, ok := m[ListKey].([]any)
	return items, ok
}
