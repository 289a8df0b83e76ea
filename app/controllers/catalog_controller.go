package controllers

import (
	"strconv"

	"github.com/shashiranjanraj/schoolbar/app/services/catalog"
	"github.com/shashiranjanraj/schoolbar/pkg/ctx"
	"gorm.io/gorm"
)

type CatalogController struct {
	catalog *catalog.Service
}

func NewCatalogController(db *gorm.DB) *CatalogController {
	return &CatalogController{catalog: catalog.NewService(db)}
}

// Home → GET /
func (h *CatalogController) Home(c *ctx.Context) {
	home, err := h.catalog.Home(c.Context())
	if err != nil {
		fail(c, err, "/menu")
		return
	}
	c.Page(map[string]any{"products": home.Products, "categories": home.Categories})
}

// Menu → GET /menu?category=&search=
func (h *CatalogController) Menu(c *ctx.Context) {
	var category uint
	if raw := c.Query("category"); raw != "" {
		if n, err := strconv.ParseUint(raw, 10, 64); err == nil {
			category = uint(n)
		}
	}

	menu, err := h.catalog.Menu(c.Context(), category, c.Query("search"))
	if err != nil {
		fail(c, err, "/")
		return
	}
	c.Page(map[string]any{
		"products":          menu.Products,
		"categories":        menu.Categories,
		"selected_category": menu.SelectedCategory,
		"search":            menu.Search,
	})
}

// Product → GET /product/{id}
func (h *CatalogController) Product(c *ctx.Context) {
	pid, ok := paramID(c, "/menu")
	if !ok {
		return
	}
	d, err := h.catalog.Product(c.Context(), pid)
	if err != nil {
		fail(c, err, "/menu")
		return
	}
	c.Page(map[string]any{"product": d.Product, "related_products": d.Related})
}
