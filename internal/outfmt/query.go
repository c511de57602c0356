package outfmt

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/justpilot/billomat-go/internal/filter"
)

type (
	queryKey  struct{}
	fieldsKey struct{}
)

// WithQuery adds a jq query to the context
func WithQuery(ctx context.Context, query string) context.Context {
	return context.WithValue(ctx, queryKey{}, query)
}

// GetQuery retrieves the jq query from context
func GetQuery(ctx context.Context) string {
	if q, ok := ctx.Value(queryKey{}).(string); ok {
		return q
	}
	return ""
}

// WithFields adds a field projection to the context.
func WithFields(ctx context.Context, fields []string) context.Context {
	return context.WithValue(ctx, fieldsKey{}, fields)
}

// GetFields retrieves the field projection from context
func GetFields(ctx context.Context) []string {
	if f, ok := ctx.Value(fieldsKey{}).([]string); ok {
		return f
	}
	return nil
}

// ParseFields splits a comma separated --fields value.
func ParseFields(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// WriteJSONFiltered writes JSON with optional jq filtering.
// Uses pretty-printed output by default; pass compact=true for single-line output.
func WriteJSONFiltered(w io.Writer, v any, query string, compact bool) error {
	result, err := ApplyQuery(v, query)
	if err != nil {
		return err
	}
	return WriteJSONMaybeCompact(w, result, compact)
}

// ApplyQuery applies a jq query to structured data and returns the filtered
// value in its generic JSON form.
func ApplyQuery(v any, query string) (any, error) {
	return applyPipeline(v, nil, query)
}

// applyPipeline normalizes v, projects fields and then runs query.
func applyPipeline(v any, fields []string, query string) (any, error) {
	v = envelope(v)

	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		generic = selectFields(generic, fields)
	}
	if query == "" {
		return generic, nil
	}
	return filter.Apply(generic, query)
}

// selectFields keeps only the named keys. Lists wrapped as {"items": [...]}
// are projected item by item.
func selectFields(v any, fields []string) any {
	switch typed := v.(type) {
	case map[string]any:
		if items, ok := listItems(typed); ok {
			projected := make([]any, 0, len(items))
			for _, item := range items {
				projected = append(projected, selectFields(item, fields))
			}
			return map[string]any{ListKey: projected}
		}
		out := make(map[string]any, len(fields))
		for _, f := range fields {
			if val, ok := typed[f]; ok {
				out[f] = val
			}
		}
		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, selectFields(item, fields))
		}
		return out
	default:
		return v
	}
}
