// Package cart models the shopping cart as a plain value: product id (as a
// string, the session key format) → requested quantity. The session only
// stores it; checkout receives it as an argument.
package cart

import (
	"sort"
	"strconv"

	"github.com/samber/lo"
	"github.com/shashiranjanraj/schoolbar/pkg/session"
)

const sessionKey = "cart"

type Cart map[string]int

func key(productID uint) string { return strconv.FormatUint(uint64(productID), 10) }

func (c Cart) Quantity(productID uint) int { return c[key(productID)] }

// Set stores qty for productID; qty ≤ 0 removes the line.
func (c Cart) Set(productID uint, qty int) {
	if qty <= 0 {
		delete(c, key(productID))
		return
	}
	c[key(productID)] = qty
}

func (c Cart) Remove(productID uint) { delete(c, key(productID)) }

func (c Cart) Empty() bool { return len(c) == 0 }

// Count is the total number of units.
func (c Cart) Count() int {
	return lo.Sum(lo.Values(map[string]int(c)))
}

// Item is one (product, quantity) pair.
type Item struct {
	ProductID uint
	Quantity  int
}

// Items returns the lines ordered by product id. Keys that are not valid
// ids are skipped.
func (c Cart) Items() []Item {
	items := make([]Item, 0, len(c))
	for k, qty := range c {
		id, err := strconv.ParseUint(k, 10, 64)
		if err != nil || id == 0 || qty <= 0 {
			continue
		}
		items = append(items, Item{ProductID: uint(id), Quantity: qty})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
	return items
}

// Clone returns an independent copy.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// FromSession reads the cart stored in s, or an empty one.
func FromSession(s *session.Session) Cart {
	out := Cart{}
	raw, ok := s.Get(sessionKey)
	if !ok {
		return out
	}
	switch m := raw.(type) {
	case Cart:
		return m.Clone()
	case map[string]int:
		return Cart(m).Clone()
	case map[string]interface{}:
		for k, v := range m {
			if f, ok := v.(float64); ok && f > 0 {
				out[k] = int(f)
			}
		}
	}
	return out
}

// Store writes c to s; an empty cart removes the key.
func Store(s *session.Session, c Cart) {
	if c.Empty() {
		s.Delete(sessionKey)
		return
	}
	s.Set(sessionKey, map[string]int(c.Clone()))
}

// Clear removes the cart from s.
func Clear(s *session.Session) { s.Delete(sessionKey) }
