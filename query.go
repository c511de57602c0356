package billomat

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Query holds query-string parameters. Values may be scalars, booleans,
// slices, or nil. Nil scalars are omitted, booleans become 1/0, and slices
// are sent as repeated key[]=value pairs.
type Query map[string]any

// Set stores value under key and returns q for chaining.
func (q Query) Set(key string, value any) Query {
	q[key] = value
	return q
}

// merge returns a copy of q with the entries of other layered on top.
func (q Query) merge(other Query) Query {
	out := make(Query, len(q)+len(other))
	for k, v := range q {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Encode renders the query string. Keys are sorted so the output is stable.
//
// Billomat ignores sort fields such as "date+DESC" when the plus is escaped,
// so every %2B produced by the encoder is turned back into a literal "+".
func (q Query) Encode() string {
	if len(q) == 0 {
		return ""
	}
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		v := q[k]
		if isNil(v) {
			continue
		}
		if items, ok := sliceValues(v); ok {
			for _, item := range items {
				if isNil(item) {
					continue
				}
				parts = append(parts, rawURLEncode(k+"[]")+"="+rawURLEncode(scalarString(item)))
			}
			continue
		}
		parts = append(parts, rawURLEncode(k)+"="+rawURLEncode(scalarString(v)))
	}
	return strings.ReplaceAll(strings.Join(parts, "&"), "%2B", "+")
}

// rawURLEncode percent-encodes everything except the RFC 3986 unreserved set.
// Spaces become %20 rather than "+".
func rawURLEncode(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	}
	return false
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		if t {
			return "1"
		}
		return "0"
	case *bool:
		return scalarString(*t)
	case *string:
		return *t
	case *int:
		return strconv.Itoa(*t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case decimal.Decimal:
		return t.String()
	case time.Time:
		return t.Format(dateLayout)
	case *time.Time:
		return t.Format(dateLayout)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

// sliceValues flattens any slice or array (except []byte) into []any.
func sliceValues(v any) ([]any, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
