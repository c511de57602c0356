package resolve_test

import (
	"errors"
	"testing"

	"github.com/justpilot/billomat-go/internal/resolve"
)

func TestFuzzyMatch_ExactHit(t *testing.T) {
	items := []resolve.Named{
		{ID: 1, Name: "Acme GmbH"},
		{ID: 2, Name: "Beispiel AG"},
	}
	id, err := resolve.FuzzyMatch("Acme GmbH", items)
	if err != nil {
		t.Fatal(err)
	}
	if id != 1 {
		t.Fatalf("expected ID 1, got %d", id)
	}
}

func TestFuzzyMatch_PartialHit(t *testing.T) {
	items := []resolve.Named{
		{ID: 1, Name: "Acme GmbH"},
		{ID: 2, Name: "Beispiel AG"},
	}
	id, err := resolve.FuzzyMatch("acm", items)
	if err != nil {
		t.Fatal(err)
	}
	if id != 1 {
		t.Fatalf("expected ID 1, got %d", id)
	}
}

func TestFuzzyMatch_CaseInsensitive(t *testing.T) {
	items := []resolve.Named{
		{ID: 1, Name: "Acme GmbH"},
	}
	id, err := resolve.FuzzyMatch("ACME", items)
	if err != nil {
		t.Fatal(err)
	}
	if id != 1 {
		t.Fatalf("expected ID 1, got %d", id)
	}
}

func TestFuzzyMatch_NoMatch(t *testing.T) {
	items := []resolve.Named{
		{ID: 1, Name: "Acme GmbH"},
	}
	_, err := resolve.FuzzyMatch("xyz", items)
	if err == nil {
		t.Fatal("expected error for no match")
	}
}

func TestFuzzyMatch_Ambiguous(t *testing.T) {
	items := []resolve.Named{
		{ID: 1, Name: "Muster DE"},
		{ID: 2, Name: "Muster AT"},
	}
	_, err := resolve.FuzzyMatch("muster", items)
	if err == nil {
		t.Fatal("expected ambiguity error")
	}
	var ae *resolve.AmbiguousError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AmbiguousError, got %T: %v", err, err)
	}
	if len(ae.Matches) == 0 {
		t.Fatalf("expected candidates in ambiguity error: %+v", ae)
	}
}

func TestFuzzyMatch_PrefersExactOverFuzzy(t *testing.T) {
	items := []resolve.Named{
		{ID: 1, Name: "Beispiel"},
		{ID: 2, Name: "Beispiel AG"},
	}
	id, err := resolve.FuzzyMatch("Beispiel", items)
	if err != nil {
		t.Fatal(err)
	}
	if id != 1 {
		t.Fatalf("expected exact match ID 1, got %d", id)
	}
}

func TestFuzzyMatch_EmptyQuery(t *testing.T) {
	items := []resolve.Named{{ID: 1, Name: "Acme GmbH"}}
	_, err := resolve.FuzzyMatch("", items)
	if err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestFuzzyMatch_EmptyItems(t *testing.T) {
	_, err := resolve.FuzzyMatch("acme", nil)
	if err == nil {
		t.Fatal("expected error for empty items")
	}
}

func TestFuzzyMatchAll_ReturnsRanked(t *testing.T) {
	items := []resolve.Named{
		{ID: 1, Name: "Acme GmbH"},
		{ID: 2, Name: "Beispiel AG"},
		{ID: 3, Name: "Schmidt & Söhne"},
	}
	matches := resolve.FuzzyMatchAll("s", items, 10)
	if len(matches) == 0 {
		t.Fatal("expected at least one match")
	}
	for _, m := range matches {
		if m.ID == 0 {
			t.Fatal("match should have non-zero ID")
		}
	}
}
