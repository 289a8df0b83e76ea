package controllers

import (
	"fmt"
	"strings"

	"github.com/shashiranjanraj/schoolbar/app/models"
	"github.com/shashiranjanraj/schoolbar/app/services/cart"
	"github.com/shashiranjanraj/schoolbar/app/services/checkout"
	"github.com/shashiranjanraj/schoolbar/app/services/orders"
	"github.com/shashiranjanraj/schoolbar/config"
	"github.com/shashiranjanraj/schoolbar/pkg/ctx"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderController struct {
	checkout *checkout.Service
	orders   *orders.Service
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{
		checkout: checkout.NewService(db, config.CheckoutMaxAttempts()),
		orders:   orders.NewService(db),
	}
}

// Checkout → POST /checkout
//
// Success clears the cart and lands on the order page; any failure goes
// back to the cart with the reason.
func (h *OrderController) Checkout(c *ctx.Context) {
	var form checkout.Form
	if !bindInput(c, &form, "/cart") {
		return
	}

	sess := c.Session()
	order, err := h.checkout.Place(c.Context(), c.UserID(), cart.FromSession(sess), form)
	if err != nil {
		fail(c, err, "/cart")
		return
	}
	cart.Clear(sess)
	c.Done(orderURL(order.ID), fmt.Sprintf("Order %s placed.", order.OrderNumber), order)
}

// Index → GET /orders
func (h *OrderController) Index(c *ctx.Context) {
	rows, err := h.orders.List(c.Context(), c.UserID())
	if err != nil {
		fail(c, err, "/")
		return
	}
	c.Page(map[string]any{"orders": rows})
}

// Show → GET /order/{id}
func (h *OrderController) Show(c *ctx.Context) {
	oid, ok := paramID(c, "/orders")
	if !ok {
		return
	}
	o, err := h.orders.Get(c.Context(), c.UserID(), models.Role(c.Role()), oid)
	if err != nil {
		fail(c, err, "/orders")
		return
	}
	c.Page(map[string]any{"order": o})
}

// Cancel → POST /order/{id}/cancel
func (h *OrderController) Cancel(c *ctx.Context) {
	oid, ok := paramID(c, "/orders")
	if !ok {
		return
	}
	o, err := h.orders.Cancel(c.Context(), c.UserID(), oid)
	if err != nil {
		fail(c, err, orderURL(oid))
		return
	}
	c.Done(orderURL(o.ID), fmt.Sprintf("Order %s cancelled.", o.OrderNumber), o)
}

type topUpInput struct {
	Amount string `json:"amount" validate:"required,money"`
}

// TopUp → POST /topup
func (h *OrderController) TopUp(c *ctx.Context) {
	var in topUpInput
	if !bindInput(c, &in, "/profile") {
		return
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(in.Amount))
	if err != nil {
		c.Invalid(map[string]string{"amount": "The amount must be a number."}, "/profile")
		return
	}
	t, err := h.orders.TopUp(c.Context(), c.UserID(), amount)
	if err != nil {
		fail(c, err, "/profile")
		return
	}
	c.Done("/profile", fmt.Sprintf("Balance topped up by %s.", t.Amount.StringFixed(2)), t)
}

// Transactions → GET /transactions
func (h *OrderController) Transactions(c *ctx.Context) {
	st, err := h.orders.Transactions(c.Context(), c.UserID())
	if err != nil {
		fail(c, err, "/profile")
		return
	}
	c.Page(map[string]any{"transactions": st.Transactions, "balance": st.Balance, "reconciled": st.Reconciled})
}
