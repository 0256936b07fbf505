// Package checklist holds the fixed inspection category registry and the
// slug normalisation used at the UI boundary.
package checklist

import "strings"

// Category is one top-level checklist section. StepCeiling is a policy
// constant, not derived from the item catalog; it bounds accepted step
// indexes regardless of how many items the catalog currently holds.
type Category struct {
	Slug         string
	DisplayOrder int
	StepCeiling  int
}

var categories = []Category{
	{Slug: "outside", DisplayOrder: 1, StepCeiling: 18},
	{Slug: "inside", DisplayOrder: 2, StepCeiling: 40},
}

// Categories returns the registry in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Lookup resolves a sanitized slug to its category.
func Lookup(slug string) (Category, bool) {
	for _, category := range categories {
		if category.Slug == slug {
			return category, true
		}
	}
	return Category{}, false
}

// Sanitize strips the positional suffix the step UI sometimes appends to a
// category slug ("outside:1" -> "outside"). Unknown slugs pass through
// unchanged and are rejected by Lookup downstream.
func Sanitize(raw string) string {
	slug := strings.TrimSpace(raw)
	if i := strings.Index(slug, ":"); i >= 0 {
		return slug[:i]
	}
	return slug
}

// CompletesAt returns the step that finishes the category: the live item
// count when the catalog is populated, capped by the policy ceiling.
func (c Category) CompletesAt(itemCount int) int {
	if itemCount > 0 && itemCount < c.StepCeiling {
		return itemCount
	}
	return c.StepCeiling
}
