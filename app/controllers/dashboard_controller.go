package controllers

import (
	"fmt"

	"github.com/shashiranjanraj/schoolbar/app/models"
	"github.com/shashiranjanraj/schoolbar/app/services/catalog"
	"github.com/shashiranjanraj/schoolbar/app/services/dashboard"
	"github.com/shashiranjanraj/schoolbar/app/services/orders"
	"github.com/shashiranjanraj/schoolbar/pkg/ctx"
	"gorm.io/gorm"
)

// DashboardController serves the staff area. Routes mount it behind
// rbac.Staff.
type DashboardController struct {
	dashboard *dashboard.Service
	catalog   *catalog.Service
	orders    *orders.Service
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{
		dashboard: dashboard.NewService(db),
		catalog:   catalog.NewService(db),
		orders:    orders.NewService(db),
	}
}

// Index → GET /dashboard
func (h *DashboardController) Index(c *ctx.Context) {
	st, err := h.dashboard.Stats(c.Context())
	if err != nil {
		fail(c, err, "/")
		return
	}
	c.Page(map[string]any{"stats": st})
}

// Products → GET /dashboard/products
func (h *DashboardController) Products(c *ctx.Context) {
	cat, err := h.dashboard.Products(c.Context())
	if err != nil {
		fail(c, err, "/dashboard")
		return
	}
	c.Page(map[string]any{"products": cat.Products, "categories": cat.Categories})
}

// CreateProduct → POST /dashboard/products
func (h *DashboardController) CreateProduct(c *ctx.Context) {
	var in dashboard.ProductInput
	if !bindInput(c, &in, "/dashboard/products") {
		return
	}
	p, err := h.dashboard.CreateProduct(c.Context(), c.UserID(), in)
	if err != nil {
		fail(c, err, "/dashboard/products")
		return
	}
	c.Done("/dashboard/products", fmt.Sprintf("Product %s created.", p.Name), p)
}

// UpdateProduct → POST /dashboard/products/{id}
func (h *DashboardController) UpdateProduct(c *ctx.Context) {
	pid, ok := paramID(c, "/dashboard/products")
	if !ok {
		return
	}
	var in dashboard.ProductInput
	if !bindInput(c, &in, "/dashboard/products") {
		return
	}
	p, err := h.dashboard.UpdateProduct(c.Context(), pid, in)
	if err != nil {
		fail(c, err, "/dashboard/products")
		return
	}
	c.Done("/dashboard/products", fmt.Sprintf("Product %s updated.", p.Name), p)
}

// CreateCategory → POST /dashboard/categories
func (h *DashboardController) CreateCategory(c *ctx.Context) {
	var in catalog.CategoryInput
	if !bindInput(c, &in, "/dashboard/products") {
		return
	}
	cat, err := h.catalog.CreateCategory(c.Context(), in)
	if err != nil {
		fail(c, err, "/dashboard/products")
		return
	}
	c.Done("/dashboard/products", fmt.Sprintf("Category %s created.", cat.Name), cat)
}

// Orders → GET /dashboard/orders?status=&page=
func (h *DashboardController) Orders(c *ctx.Context) {
	status := c.Query("status")
	rows, page, err := h.dashboard.Orders(c.Context(), status, c.QueryInt("page", 1))
	if err != nil {
		fail(c, err, "/dashboard")
		return
	}
	c.Page(map[string]any{
		"orders":         rows,
		"pagination":     page,
		"current_status": status,
		"status_choices": []models.OrderStatus{
			models.StatusPending, models.StatusConfirmed, models.StatusPreparing,
			models.StatusReady, models.StatusDelivered, models.StatusCancelled,
		},
	})
}

type statusInput struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus → POST /dashboard/orders/{id}/update-status
func (h *DashboardController) UpdateStatus(c *ctx.Context) {
	oid, ok := paramID(c, "/dashboard/orders")
	if !ok {
		return
	}
	var in statusInput
	if !bindInput(c, &in, "/dashboard/orders") {
		return
	}
	o, err := h.orders.UpdateStatus(c.Context(), c.UserID(), oid, models.OrderStatus(in.Status))
	if err != nil {
		fail(c, err, "/dashboard/orders")
		return
	}
	c.Done("/dashboard/orders", fmt.Sprintf("Order %s is now %s.", o.OrderNumber, o.Status), o)
}

// Stock → GET /dashboard/stock
func (h *DashboardController) Stock(c *ctx.Context) {
	v, err := h.dashboard.Stock(c.Context())
	if err != nil {
		fail(c, err, "/dashboard")
		return
	}
	c.Page(map[string]any{
		"low_stock_products": v.NeedingRestock,
		"all_products":       v.Products,
		"recent_movements":   v.Movements,
	})
}

// Move → POST /dashboard/stock/{id}
func (h *DashboardController) Move(c *ctx.Context) {
	pid, ok := paramID(c, "/dashboard/stock")
	if !ok {
		return
	}
	var in dashboard.MovementInput
	if !bindInput(c, &in, "/dashboard/stock") {
		return
	}
	mv, err := h.dashboard.Move(c.Context(), c.UserID(), pid, in)
	if err != nil {
		fail(c, err, "/dashboard/stock")
		return
	}
	c.Done("/dashboard/stock", fmt.Sprintf("Stock of %s is now %d.", mv.Product.Name, mv.Product.Stock), mv)
}
