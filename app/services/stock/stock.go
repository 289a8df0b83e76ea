// Package stock is the only writer of Product.Stock. Every change is
// paired with a StockMovement row in the same atomic unit.
package stock

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/schoolbar/app/events"
	"github.com/shashiranjanraj/schoolbar/app/models"
	"github.com/shashiranjanraj/schoolbar/app/repositories"
	"github.com/shashiranjanraj/schoolbar/app/services"
	"github.com/shashiranjanraj/schoolbar/pkg/database"
	"github.com/shashiranjanraj/schoolbar/pkg/event"
	"github.com/shashiranjanraj/schoolbar/pkg/metrics"
	"gorm.io/gorm"
)

// Movement describes one stock change. For in and out, Quantity is the
// positive number of units; for adjustment it is the signed delta.
type Movement struct {
	ProductID uint
	Type      models.MovementType
	Quantity  int
	Reason    string
	OrderID   *uint
	ActorID   *uint
}

// Record applies m to the product and appends the movement. An out larger
// than the stock fails with services.ErrInsufficientStock and changes
// nothing, as does an adjustment that would leave stock negative.
//
// The returned movement carries the product as it is after the change.
// When db is already a transaction the caller owns the commit and must call
// NotifyLow once it succeeds.
func Record(ctx context.Context, db *gorm.DB, m Movement) (*models.StockMovement, error) {
	if err := validate(m); err != nil {
		return nil, err
	}

	row := &models.StockMovement{
		ProductID:   m.ProductID,
		Type:        m.Type,
		Quantity:    m.Quantity,
		Reason:      m.Reason,
		OrderID:     m.OrderID,
		CreatedByID: m.ActorID,
	}

	var after models.Product
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := repositories.NewProductRepository(tx)
		p, err := products.FindForUpdate(m.ProductID)
		if err != nil {
			if database.IsNotFound(err) {
				return services.NotFound("Product not found.")
			}
			return err
		}

		next := p.Stock + row.Delta()
		if next < 0 {
			return services.InsufficientStock(fmt.Sprintf("Insufficient stock for %s: %d available.", p.Name, p.Stock))
		}

		if err := repositories.NewLedgerRepository(tx).AddMovement(row); err != nil {
			return err
		}
		if err := products.SetStock(p.ID, next); err != nil {
			return err
		}
		p.Stock = next
		after = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.StockMovements.WithLabelValues(string(row.Type)).Inc()
	row.Product = &after
	if !inTransaction(db) {
		NotifyLow(ctx, *row)
	}
	return row, nil
}

// NotifyLow fires StockLow for every decreasing movement that left its
// product at or under the restock threshold.
func NotifyLow(ctx context.Context, moves ...models.StockMovement) {
	for _, m := range moves {
		if m.Product != nil && m.Delta() < 0 && m.Product.NeedsRestock() {
			event.Fire(events.StockLow, events.StockEvent{Ctx: ctx, Product: *m.Product})
		}
	}
}

func inTransaction(db *gorm.DB) bool {
	committer, ok := db.Statement.ConnPool.(gorm.TxCommitter)
	return ok && committer != nil
}

func validate(m Movement) error {
	switch m.Type {
	case models.MoveIn, models.MoveOut:
		if m.Quantity <= 0 {
			return services.Validation("Quantity must be at least 1.", map[string]string{"quantity": "must be at least 1"})
		}
	case models.MoveAdjustment:
		if m.Quantity == 0 {
			return services.Validation("An adjustment must change the stock.", map[string]string{"quantity": "must not be zero"})
		}
	default:
		return services.Validation(fmt.Sprintf("Unknown movement type %q.", m.Type), map[string]string{"type": "invalid"})
	}
	return nil
}

// Replay recomputes a product's stock from its movements, starting at
// initial. It equals Product.Stock for a consistent log.
func Replay(ctx context.Context, db *gorm.DB, productID uint, initial int) (int, error) {
	rows, err := repositories.NewLedgerRepository(db.WithContext(ctx)).Movements(productID)
	if err != nil {
		return 0, err
	}
	stock := initial
	for i := range rows {
		stock += rows[i].Delta()
	}
	return stock, nil
}
