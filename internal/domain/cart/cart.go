// Package cart holds the client-side shopping cart: an ordered list of
// product snapshots captured at add-time. The server never sees a cart; it
// only receives single-product checkout requests.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/dsoler/futurshop/internal/domain/catalog"
)

// Cart is an ordered sequence of product snapshots. Duplicates are allowed:
// adding the same product twice yields two entries. Entries are copies, so
// later catalog changes never alter a cart.
type Cart struct {
	entries []catalog.Product
}

// New builds a cart from previously persisted entries.
func New(entries []catalog.Product) *Cart {
	return &Cart{entries: entries}
}

// Add appends a snapshot of the product to the cart.
func (c *Cart) Add(p catalog.Product) {
	c.entries = append(c.entries, snapshot(p))
}

// AddFromCatalog looks up id in the given catalog snapshot and appends a copy
// when found. An unknown id is silently ignored, matching the storefront
// behavior of ignoring stale product references.
func (c *Cart) AddFromCatalog(products []catalog.Product, id string) bool {
	for i := range products {
		if products[i].ID == id {
			c.Add(products[i])
			return true
		}
	}
	return false
}

// Remove deletes the entry at index i. Out-of-range indices are a no-op, so
// removing from an empty cart never mutates state.
func (c *Cart) Remove(i int) {
	if i < 0 || i >= len(c.entries) {
		return
	}
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
}

// Total sums the price of every entry. An empty cart totals zero.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range c.entries {
		total = total.Add(c.entries[i].Price)
	}
	return total
}

// Count returns the number of entries, used for the cart badge.
func (c *Cart) Count() int {
	return len(c.entries)
}

// Entries returns a copy of the cart's contents in insertion order.
func (c *Cart) Entries() []catalog.Product {
	out := make([]catalog.Product, len(c.entries))
	copy(out, c.entries)
	return out
}

// snapshot deep-copies a product so cart entries stay detached from the
// catalog list they came from.
func snapshot(p catalog.Product) catalog.Product {
	images := make([]string, len(p.Images))
	copy(images, p.Images)
	p.Images = images
	return p
}
