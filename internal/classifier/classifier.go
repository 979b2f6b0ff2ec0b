// Package classifier maps free-text product names to catalog categories via
// ordered keyword matching.
package classifier

import (
	"strings"

	"github.com/stylemate/catalog-scraper/internal/config"
	"github.com/stylemate/catalog-scraper/internal/types"
)

// Classifier assigns a category to a product name by testing its keyword
// rules in declaration order. The first rule with a substring match wins, so
// rule order is the tie-break when multiple categories would match.
type Classifier struct {
	rules    []config.CategoryRule
	fallback types.Category
}

// New creates a Classifier from an ordered rule table.
func New(rules []config.CategoryRule, fallback types.Category) *Classifier {
	return &Classifier{
		rules:    rules,
		fallback: fallback,
	}
}

// Classify returns the category for a product name. Matching is
// case-insensitive substring containment anywhere in the name. Returns the
// fallback category when no keyword matches or the name is empty.
func (c *Classifier) Classify(name string) types.Category {
	if name == "" {
		return c.fallback
	}
	lower := strings.ToLower(name)
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Category
			}
		}
	}
	return c.fallback
}
