package billomat

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestQueryEncode(t *testing.T) {
	date := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	var nilInt *int

	tests := []struct {
		name  string
		query Query
		want  string
	}{
		{"empty", Query{}, ""},
		{"plus kept literal", Query{"sort": "date+DESC"}, "sort=date+DESC"},
		{"space percent encoded", Query{"name": "Acme GmbH"}, "name=Acme%20GmbH"},
		{"reserved characters", Query{"q": "a&b=c/d"}, "q=a%26b%3Dc%2Fd"},
		{"unreserved untouched", Query{"q": "A-z_0.9~"}, "q=A-z_0.9~"},
		{"bool true", Query{"archived": true}, "archived=1"},
		{"bool false", Query{"archived": false}, "archived=0"},
		{"bool pointer", Query{"archived": Ptr(true)}, "archived=1"},
		{"nil scalar omitted", Query{"client_id": nilInt, "page": 2}, "page=2"},
		{"untyped nil omitted", Query{"x": nil}, ""},
		{"slice repeated", Query{"status": []string{"OPEN", "PAID"}}, "status%5B%5D=OPEN&status%5B%5D=PAID"},
		{"enum slice", Query{"status": []InvoiceStatus{InvoiceStatusOverdue}}, "status%5B%5D=OVERDUE"},
		{"slice skips nil", Query{"id": []any{1, nil, 3}}, "id%5B%5D=1&id%5B%5D=3"},
		{"empty slice", Query{"id": []int{}}, ""},
		{"decimal", Query{"amount": decimal.RequireFromString("12.50")}, "amount=12.5"},
		{"date", Query{"from": date}, "from=2024-03-05"},
		{"date pointer", Query{"to": &date}, "to=2024-03-05"},
		{"sorted keys", Query{"b": "2", "a": "1", "c": "3"}, "a=1&b=2&c=3"},
		{"utf8", Query{"city": "Köln"}, "city=K%C3%B6ln"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.query.Encode())
		})
	}
}

func TestQueryMergeDoesNotMutate(t *testing.T) {
	base := Query{"invoice_id": 1}
	merged := base.merge(Query{"per_page": 10})

	assert.Len(t, base, 1)
	assert.Equal(t, Query{"invoice_id": 1, "per_page": 10}, merged)
	assert.Equal(t, Query{"invoice_id": 1}, base.merge(nil))
}

func TestQuerySetChains(t *testing.T) {
	q := Query{}.Set("a", 1).Set("b", "x y")
	assert.Equal(t, "a=1&b=x%20y", q.Encode())
}
