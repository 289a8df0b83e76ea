// Package events names the domain events and registers the listeners that
// log them and keep the stock gauge current.
package events

import (
	"context"

	"github.com/shashiranjanraj/schoolbar/app/models"
	"github.com/shashiranjanraj/schoolbar/pkg/event"
	"github.com/shashiranjanraj/schoolbar/pkg/logger"
	"github.com/shashiranjanraj/schoolbar/pkg/metrics"
)

const (
	OrderPlaced    = "order.placed"
	OrderCancelled = "order.cancelled"
	StockLow       = "stock.low"
)

// OrderEvent is the payload of OrderPlaced and OrderCancelled.
type OrderEvent struct {
	Ctx   context.Context
	Order models.Order
}

// StockEvent is the payload of StockLow.
type StockEvent struct {
	Ctx     context.Context
	Product models.Product
}

// LowStockCounter reports how many products currently need restocking.
type LowStockCounter func() (int64, error)

// Register wires the default listeners. Call once at boot.
func Register(count LowStockCounter) {
	event.Listen(OrderPlaced, func(p interface{}) {
		e := p.(OrderEvent)
		logger.WithCtx(e.Ctx).Info("order placed",
			"order_number", e.Order.OrderNumber,
			"user_id", e.Order.UserID,
			"total", e.Order.TotalAmount.StringFixed(2),
			"payment_method", e.Order.PaymentMethod,
			"priority", e.Order.IsPriority,
		)
		refreshLowStock(e.Ctx, count)
	})

	event.Listen(OrderCancelled, func(p interface{}) {
		e := p.(OrderEvent)
		logger.WithCtx(e.Ctx).Info("order cancelled",
			"order_number", e.Order.OrderNumber,
			"user_id", e.Order.UserID,
			"total", e.Order.TotalAmount.StringFixed(2),
		)
		refreshLowStock(e.Ctx, count)
	})

	event.Listen(StockLow, func(p interface{}) {
		e := p.(StockEvent)
		logger.WithCtx(e.Ctx).Warn("product needs restock",
			"product_id", e.Product.ID,
			"product", e.Product.Name,
			"stock", e.Product.Stock,
			"min_stock", e.Product.MinStock,
		)
	})
}

func refreshLowStock(ctx context.Context, count LowStockCounter) {
	if count == nil {
		return
	}
	n, err := count()
	if err != nil {
		logger.WithCtx(ctx).Warn("low stock count failed", "error", err)
		return
	}
	metrics.LowStockProducts.Set(float64(n))
}
