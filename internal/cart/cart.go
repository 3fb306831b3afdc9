// Package cart holds the menu demo's selection state: a mapping from item id
// to quantity. Quantities never reach zero; removing the last unit deletes
// the entry. The type itself is not synchronized; callers serialize access.
package cart

import "sort"

type Cart struct {
	qty map[int64]int
}

// Line is one entry in stable (ascending id) order, for rendering.
type Line struct {
	ItemID   int64
	Quantity int
}

func New() *Cart {
	return &Cart{qty: make(map[int64]int)}
}

// FromQuantities restores a cart from a persisted quantity map, dropping
// anything that would violate the no-zero-entries invariant.
func FromQuantities(m map[int64]int) *Cart {
	c := New()
	for id, q := range m {
		if q > 0 {
			c.qty[id] = q
		}
	}
	return c
}

// Add increments the quantity for id, creating the entry at 1.
func (c *Cart) Add(id int64) {
	c.qty[id]++
}

// Remove decrements the quantity for id, deleting the entry when it would
// drop below 1. An absent id is a no-op, not an error.
func (c *Cart) Remove(id int64) {
	q, ok := c.qty[id]
	if !ok {
		return
	}
	if q <= 1 {
		delete(c.qty, id)
		return
	}
	c.qty[id] = q - 1
}

// Count is the sum of all quantities. Count()==0 exactly when the cart is
// empty.
func (c *Cart) Count() int {
	n := 0
	for _, q := range c.qty {
		n += q
	}
	return n
}

// Total sums quantity times unit price over the supplied catalog (item id ->
// MXN cents). Ids missing from the catalog are excluded from the sum.
func (c *Cart) Total(prices map[int64]int64) int64 {
	var total int64
	for id, q := range c.qty {
		if unit, ok := prices[id]; ok {
			total += int64(q) * unit
		}
	}
	return total
}

// CheckoutReady reports whether the cart meets the restaurant's minimum
// order. An empty cart is never ready.
func (c *Cart) CheckoutReady(minCents int64, prices map[int64]int64) bool {
	if len(c.qty) == 0 {
		return false
	}
	return c.Total(prices) >= minCents
}

func (c *Cart) Clear() {
	c.qty = make(map[int64]int)
}

// Lines returns the entries sorted by item id.
func (c *Cart) Lines() []Line {
	out := make([]Line, 0, len(c.qty))
	for id, q := range c.qty {
		out = append(out, Line{ItemID: id, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out
}

// Quantities copies the raw quantity map for persistence.
func (c *Cart) Quantities() map[int64]int {
	out := make(map[int64]int, len(c.qty))
	for id, q := range c.qty {
		out[id] = q
	}
	return out
}
