package controllers

import (
	"fmt"

	"github.com/shashiranjanraj/schoolbar/app/services/cart"
	"github.com/shashiranjanraj/schoolbar/pkg/ctx"
	"gorm.io/gorm"
)

type CartController struct {
	cart *cart.Service
}

func NewCartController(db *gorm.DB) *CartController {
	return &CartController{cart: cart.NewService(db)}
}

// Show → GET /cart
func (h *CartController) Show(c *ctx.Context) {
	sum, err := h.cart.Summarize(c.Context(), cart.FromSession(c.Session()))
	if err != nil {
		fail(c, err, "/menu")
		return
	}
	c.Page(map[string]any{"items": sum.Lines, "total": sum.Total, "count": sum.Count})
}

// Add → POST /cart/add/{id}
func (h *CartController) Add(c *ctx.Context) {
	pid, ok := paramID(c, "/menu")
	if !ok {
		return
	}
	sess := c.Session()
	items := cart.FromSession(sess)

	p, err := h.cart.Add(c.Context(), items, pid)
	if err != nil {
		fail(c, err, "/menu")
		return
	}
	cart.Store(sess, items)
	c.Done("/menu", fmt.Sprintf("%s added to your cart.", p.Name), map[string]any{"cart_count": items.Count()})
}

// Remove → POST /cart/remove/{id}
func (h *CartController) Remove(c *ctx.Context) {
	pid, ok := paramID(c, "/cart")
	if !ok {
		return
	}
	sess := c.Session()
	items := cart.FromSession(sess)
	items.Remove(pid)
	cart.Store(sess, items)
	c.Done("/cart", "Item removed from your cart.", map[string]any{"cart_count": items.Count()})
}

type quantityInput struct {
	Quantity int `json:"quantity"`
}

// Update → POST /cart/update/{id}
func (h *CartController) Update(c *ctx.Context) {
	pid, ok := paramID(c, "/cart")
	if !ok {
		return
	}
	var in quantityInput
	if !bindInput(c, &in, "/cart") {
		return
	}

	sess := c.Session()
	items := cart.FromSession(sess)
	if err := h.cart.Update(c.Context(), items, pid, in.Quantity); err != nil {
		fail(c, err, "/cart")
		return
	}
	cart.Store(sess, items)
	c.Done("/cart", "Cart updated.", map[string]any{"cart_count": items.Count()})
}
