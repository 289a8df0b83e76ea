package cart

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/shashiranjanraj/schoolbar/app/models"
	"github.com/shashiranjanraj/schoolbar/app/repositories"
	"github.com/shashiranjanraj/schoolbar/app/services"
	"github.com/shashiranjanraj/schoolbar/pkg/database"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Line is one priced cart row.
type Line struct {
	Product  models.Product  `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type Summary struct {
	Lines []Line          `json:"lines"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// Service checks cart edits against the catalog.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) product(ctx context.Context, id uint) (models.Product, error) {
	p, err := repositories.NewProductRepository(s.db.WithContext(ctx)).FindByID(id)
	if err != nil {
		if database.IsNotFound(err) {
			return p, services.NotFound("Product not found.")
		}
		return p, err
	}
	return p, nil
}

// Add puts one more unit of productID into c.
func (s *Service) Add(ctx context.Context, c Cart, productID uint) (models.Product, error) {
	p, err := s.product(ctx, productID)
	if err != nil {
		return p, err
	}
	if !p.Available || !p.InStock() {
		return p, services.InsufficientStock(fmt.Sprintf("%s is not available.", p.Name))
	}

	qty := c.Quantity(productID) + 1
	if qty > p.Stock {
		return p, services.InsufficientStock(fmt.Sprintf("Only %d %s left.", p.Stock, p.Name))
	}
	c.Set(productID, qty)
	return p, nil
}

// Update sets the quantity of productID; qty ≤ 0 removes the line.
func (s *Service) Update(ctx context.Context, c Cart, productID uint, qty int) error {
	if qty <= 0 {
		c.Remove(productID)
		return nil
	}
	p, err := s.product(ctx, productID)
	if err != nil {
		return err
	}
	if qty > p.Stock {
		return services.InsufficientStock(fmt.Sprintf("Only %d %s left.", p.Stock, p.Name))
	}
	c.Set(productID, qty)
	return nil
}

// Summarize prices c at current prices. Products that no longer exist are
// skipped.
func (s *Service) Summarize(ctx context.Context, c Cart) (Summary, error) {
	items := c.Items()
	ids := lo.Map(items, func(it Item, _ int) uint { return it.ProductID })

	products, err := repositories.NewProductRepository(s.db.WithContext(ctx)).FindMany(ids)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{Lines: []Line{}, Total: decimal.Zero}
	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			continue
		}
		sub := p.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		sum.Lines = append(sum.Lines, Line{Product: p, Quantity: it.Quantity, Subtotal: sub})
		sum.Total = sum.Total.Add(sub)
		sum.Count += it.Quantity
	}
	return sum, nil
}
