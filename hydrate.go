package billomat

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	dateLayout,
}

// record is one resource's worth of loosely typed fields. Every accessor is
// total: missing, null, empty or uncoercible values come back as unset.
type record map[string]any

func asRecord(v any) (record, bool) {
	m, ok := v.(map[string]any)
	return record(m), ok
}

func (r record) raw(key string) (any, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return nil, false
	}
	if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
		return nil, false
	}
	return v, true
}

func (r record) intPtr(key string) *int {
	v, ok := r.raw(key)
	if !ok {
		return nil
	}
	n, ok := coerceInt(v)
	if !ok {
		return nil
	}
	return &n
}

func (r record) intOr(key string, def int) int {
	if p := r.intPtr(key); p != nil {
		return *p
	}
	return def
}

func (r record) stringPtr(key string) *string {
	v, ok := r.raw(key)
	if !ok {
		return nil
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case json.Number:
		s = t.String()
	case bool:
		s = strconv.FormatBool(t)
	default:
		return nil
	}
	return &s
}

func (r record) stringOr(key, def string) string {
	if p := r.stringPtr(key); p != nil {
		return *p
	}
	return def
}

func (r record) decimalPtr(key string) *decimal.Decimal {
	v, ok := r.raw(key)
	if !ok {
		return nil
	}
	d, ok := coerceDecimal(v)
	if !ok {
		return nil
	}
	return &d
}

func (r record) decimalOr(key string) decimal.Decimal {
	if p := r.decimalPtr(key); p != nil {
		return *p
	}
	return decimal.Zero
}

func (r record) boolPtr(key string) *bool {
	v, ok := r.raw(key)
	if !ok {
		return nil
	}
	b, ok := coerceBool(v)
	if !ok {
		return nil
	}
	return &b
}

func (r record) boolOr(key string, def bool) bool {
	if p := r.boolPtr(key); p != nil {
		return *p
	}
	return def
}

func (r record) timePtr(key string) *time.Time {
	s := r.stringPtr(key)
	if s == nil {
		return nil
	}
	t, ok := parseTime(*s)
	if !ok {
		return nil
	}
	return &t
}

// datePtr is timePtr truncated to the calendar day.
func (r record) datePtr(key string) *time.Time {
	t := r.timePtr(key)
	if t == nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

func (r record) nested(key string) record {
	if m, ok := asRecord(r[key]); ok {
		return m
	}
	return nil
}

func coerceInt(v any) (int, bool) {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n), true
		}
		if f, err := t.Float64(); err == nil && wholeInt(f) {
			return int(f), true
		}
	case float64:
		if wholeInt(t) {
			return int(t), true
		}
	case int:
		return t, true
	case string:
		s := strings.TrimSpace(t)
		if n, err := strconv.Atoi(s); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && wholeInt(f) {
			return int(f), true
		}
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// wholeInt reports whether f is integral and converts to int without
// overflow. MaxInt itself rounds up to 2^63 as a float64, so the upper bound
// is exclusive.
func wholeInt(f float64) bool {
	return f == math.Trunc(f) && f >= math.MinInt && f < math.MaxInt
}

func coerceDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(t), true
	case int:
		return decimal.NewFromInt(int64(t)), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		return d, err == nil
	}
	return decimal.Decimal{}, false
}

func coerceBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case json.Number:
		switch t.String() {
		case "1":
			return true, true
		case "0":
			return false, true
		}
	case float64:
		switch t {
		case 1:
			return true, true
		case 0:
			return false, true
		}
	case int:
		switch t {
		case 1:
			return true, true
		case 0:
			return false, true
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "1", "true", "yes", "on":
			return true, true
		case "0", "false", "no", "off":
			return false, true
		}
	}
	return false, false
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// listOf normalizes Billomat's collection shape. A collection of one comes
// back as a bare object instead of a one-element array; null and empty
// values mean no members.
func listOf(v any) []record {
	switch t := v.(type) {
	case map[string]any:
		if len(t) == 0 {
			return nil
		}
		return []record{record(t)}
	case []any:
		out := make([]record, 0, len(t))
		for _, item := range t {
			if m, ok := asRecord(item); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}

// collection reads body[plural][singular] through listOf.
func collection(body map[string]any, plural, singular string) []record {
	wrapper, ok := body[plural].(map[string]any)
	if !ok {
		return nil
	}
	return listOf(wrapper[singular])
}

// single reads body[key] as a record.
func single(body map[string]any, key string) (record, bool) {
	return asRecord(body[key])
}

// hydrateAll maps fn over recs, always returning a non-nil slice.
func hydrateAll[T any](recs []record, fn func(record) T) []T {
	out := make([]T, 0, len(recs))
	for _, r := range recs {
		out = append(out, fn(r))
	}
	return out
}
