// Package filter holds the category filter shared by the list views.
package filter

import "github.com/custodia-labs/lexa-cli/internal/core/domain"

// Category cycles through "all" and every document category.
type Category struct {
	index int // 0 means all categories
}

// Next advances to the following category, wrapping back to all.
func (c *Category) Next() {
	c.index = (c.index + 1) % (len(domain.Categories()) + 1)
}

// Reset returns the filter to all categories.
func (c *Category) Reset() {
	c.index = 0
}

// Current returns the selected category, or nil for all.
func (c *Category) Current() *domain.Category {
	if c.index == 0 {
		return nil
	}
	cat := domain.Categories()[c.index-1]
	return &cat
}

// Label names the selection for display.
func (c *Category) Label() string {
	if cur := c.Current(); cur != nil {
		return string(*cur)
	}
	return "ALL"
}
