package checklist

import (
	"testing"

	"pgregory.net/rapid"
)

func TestCategoriesOrderedAndFixed(t *testing.T) {
	cats := Categories()
	if len(cats) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(cats))
	}
	if cats[0].Slug != "outside" || cats[1].Slug != "inside" {
		t.Fatalf("unexpected order: %v", cats)
	}
	if cats[0].StepCeiling != 18 {
		t.Errorf("outside ceiling = %d, want 18", cats[0].StepCeiling)
	}
	if cats[1].StepCeiling != 40 {
		t.Errorf("inside ceiling = %d, want 40", cats[1].StepCeiling)
	}
	for i := range cats {
		if cats[i].DisplayOrder != i+1 {
			t.Errorf("category %s display order = %d, want %d", cats[i].Slug, cats[i].DisplayOrder, i+1)
		}
	}
}

func TestCategoriesReturnsCopy(t *testing.T) {
	cats := Categories()
	cats[0].Slug = "mutated"
	if fresh := Categories(); fresh[0].Slug != "outside" {
		t.Fatal("Categories must not expose the registry for mutation")
	}
}

func TestLookup(t *testing.T) {
	if _, ok := Lookup("outside"); !ok {
		t.Error("outside should resolve")
	}
	if _, ok := Lookup("inside"); !ok {
		t.Error("inside should resolve")
	}
	if _, ok := Lookup("garden"); ok {
		t.Error("unknown slug must not resolve")
	}
	if _, ok := Lookup("outside:1"); ok {
		t.Error("Lookup must not accept unsanitized slugs")
	}
}

func TestSanitize(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"outside", "outside"},
		{"outside:1", "outside"},
		{"inside:17", "inside"},
		{"inside:", "inside"},
		{" outside:3", "outside"},
		{"garden", "garden"},
		{"", ""},
		{":4", ""},
	}
	for _, tc := range cases {
		if got := Sanitize(tc.raw); got != tc.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		raw := rapid.String().Draw(t, "raw")
		once := Sanitize(raw)
		if twice := Sanitize(once); twice != once {
			t.Fatalf("Sanitize not idempotent on %q: %q -> %q", raw, once, twice)
		}
	})
}

func TestCompletesAt(t *testing.T) {
	outside, _ := Lookup("outside")
	if got := outside.CompletesAt(10); got != 10 {
		t.Errorf("CompletesAt(10) = %d, want live item count", got)
	}
	if got := outside.CompletesAt(0); got != 18 {
		t.Errorf("CompletesAt(0) = %d, want ceiling when catalog empty", got)
	}
	if got := outside.CompletesAt(50); got != 18 {
		t.Errorf("CompletesAt(50) = %d, ceiling must cap the item count", got)
	}
}
