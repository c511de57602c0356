package billomat

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// payload is the wire form of an option struct. The set helpers drop nil
// values so Billomat applies its own defaults for anything the caller left
// unset; fields that must always be sent use the plain put helpers.
type payload map[string]any

func (p payload) putInt(key string, v int) { p[key] = v }

func (p payload) putString(key, v string) { p[key] = v }

func (p payload) putDecimal(key string, v decimal.Decimal) { p[key] = json.Number(v.String()) }

func (p payload) putBool(key string, v bool) { p[key] = boolInt(v) }

func (p payload) setInt(key string, v *int) {
	if v != nil {
		p[key] = *v
	}
}

func (p payload) setString(key string, v *string) {
	if v != nil {
		p[key] = *v
	}
}

func (p payload) setDecimal(key string, v *decimal.Decimal) {
	if v != nil {
		p.putDecimal(key, *v)
	}
}

func (p payload) setBool(key string, v *bool) {
	if v != nil {
		p.putBool(key, *v)
	}
}

func (p payload) setDate(key string, v *time.Time) {
	if v != nil {
		p[key] = v.Format(dateLayout)
	}
}

// setEnum writes enum values; the empty value means unset.
func setEnum[E ~string](p payload, key string, v E) {
	if v != "" {
		p[key] = string(v)
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// wrap nests a payload under its resource key: {"client": {...}}.
func wrap(key string, p payload) map[string]any {
	if p == nil {
		p = payload{}
	}
	return map[string]any{key: p}
}

// Ptr returns a pointer to v. Handy for filling option structs.
func Ptr[T any](v T) *T { return &v }

// copyPtr returns a fresh pointer holding the same value, or nil.
func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
