// Package orders covers everything after checkout: reading orders,
// advancing their status, cancelling with compensations, and the balance
// operations a customer triggers directly (top-up, statement).
package orders

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/schoolbar/app/events"
	"github.com/shashiranjanraj/schoolbar/app/models"
	"github.com/shashiranjanraj/schoolbar/app/repositories"
	"github.com/shashiranjanraj/schoolbar/app/services"
	"github.com/shashiranjanraj/schoolbar/app/services/ledger"
	"github.com/shashiranjanraj/schoolbar/app/services/stock"
	"github.com/shashiranjanraj/schoolbar/config"
	"github.com/shashiranjanraj/schoolbar/pkg/database"
	"github.com/shashiranjanraj/schoolbar/pkg/event"
	"github.com/shashiranjanraj/schoolbar/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service struct {
	db       *gorm.DB
	topUpMin decimal.Decimal
	topUpMax decimal.Decimal
}

// NewService reads the top-up limits from config.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db, topUpMin: config.TopUpMin(), topUpMax: config.TopUpMax()}
}

// WithTopUpLimits returns a copy of s accepting top-ups in [min, max].
func (s *Service) WithTopUpLimits(min, max decimal.Decimal) *Service {
	c := *s
	c.topUpMin, c.topUpMax = min, max
	return &c
}

// List returns the user's orders, newest first.
func (s *Service) List(ctx context.Context, userID uint) ([]models.Order, error) {
	return repositories.NewOrderRepository(s.db.WithContext(ctx)).ForUser(userID, 0)
}

// Get loads an order for a viewer. Only the owner and staff may see it.
func (s *Service) Get(ctx context.Context, viewerID uint, viewerRole models.Role, orderID uint) (models.Order, error) {
	o, err := repositories.NewOrderRepository(s.db.WithContext(ctx)).FindWithItems(orderID)
	if err != nil {
		if database.IsNotFound(err) {
			return models.Order{}, services.NotFound("Order not found.")
		}
		return models.Order{}, err
	}
	if o.UserID != viewerID && !viewerRole.IsStaff() {
		return models.Order{}, services.PermissionDenied("You cannot view this order.")
	}
	return o, nil
}

// Cancel cancels the user's own order.
func (s *Service) Cancel(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	return s.cancel(ctx, orderID, userID, func(o *models.Order) error {
		if o.UserID != userID {
			return services.PermissionDenied("You can only cancel your own orders.")
		}
		return nil
	})
}

// cancel sets the order cancelled and compensates checkout in one atomic
// unit: every item goes back to stock through an in movement and a balance
// payment is refunded. check runs on the locked order before any write.
func (s *Service) cancel(ctx context.Context, orderID, actorID uint, check func(*models.Order) error) (*models.Order, error) {
	var order models.Order

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := repositories.NewOrderRepository(tx)

		var err error
		order, err = orders.FindForUpdate(orderID)
		if err != nil {
			if database.IsNotFound(err) {
				return services.NotFound("Order not found.")
			}
			return err
		}
		if check != nil {
			if err := check(&order); err != nil {
				return err
			}
		}
		if !order.Status.Cancellable() {
			return services.InvalidState(fmt.Sprintf("Order %s is %s and can no longer be cancelled.", order.OrderNumber, order.Status))
		}

		if err := orders.SetStatus(&order, models.StatusCancelled); err != nil {
			return err
		}

		for _, it := range order.Items {
			if _, err := stock.Record(ctx, tx, stock.Movement{
				ProductID: it.ProductID,
				Type:      models.MoveIn,
				Quantity:  it.Quantity,
				Reason:    "Cancelled order " + order.OrderNumber,
				OrderID:   &order.ID,
				ActorID:   &actorID,
			}); err != nil {
				return err
			}
		}

		if order.PaymentMethod == models.PayBalance && order.TotalAmount.IsPositive() {
			if _, err := ledger.Apply(ctx, tx, ledger.Entry{
				UserID:      order.UserID,
				Type:        models.TxRefund,
				Amount:      order.TotalAmount,
				OrderID:     &order.ID,
				Description: "Refund for order " + order.OrderNumber,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	event.Fire(events.OrderCancelled, events.OrderEvent{Ctx: ctx, Order: order})
	return &order, nil
}

// UpdateStatus moves an order forward along the live path. A request for
// cancelled goes through the cancellation flow with its compensations.
func (s *Service) UpdateStatus(ctx context.Context, actorID, orderID uint, next models.OrderStatus) (*models.Order, error) {
	if !next.Valid() {
		return nil, services.Validation(fmt.Sprintf("Unknown status %q.", next), map[string]string{"status": "invalid status"})
	}
	if next == models.StatusCancelled {
		return s.cancel(ctx, orderID, actorID, nil)
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := repositories.NewOrderRepository(tx)

		var err error
		order, err = orders.FindForUpdate(orderID)
		if err != nil {
			if database.IsNotFound(err) {
				return services.NotFound("Order not found.")
			}
			return err
		}
		if !order.Status.CanAdvanceTo(next) {
			return services.InvalidState(fmt.Sprintf("Order %s cannot move from %s to %s.", order.OrderNumber, order.Status, next))
		}
		return orders.SetStatus(&order, next)
	})
	if err != nil {
		return nil, err
	}

	logger.WithCtx(ctx).Info("order status updated",
		"order_number", order.OrderNumber, "status", order.Status, "actor_id", actorID)
	return &order, nil
}

// TopUp credits amount to the user's balance.
func (s *Service) TopUp(ctx context.Context, userID uint, amount decimal.Decimal) (*models.Transaction, error) {
	if !ledger.ValidAmount(amount) || amount.LessThan(s.topUpMin) || amount.GreaterThan(s.topUpMax) {
		msg := fmt.Sprintf("Top-up must be between %s and %s.", s.topUpMin.StringFixed(2), s.topUpMax.StringFixed(2))
		return nil, services.Validation(msg, map[string]string{"amount": msg})
	}

	t, err := ledger.Apply(ctx, s.db, ledger.Entry{
		UserID:      userID,
		Type:        models.TxTopUp,
		Amount:      amount,
		Description: "Balance top-up",
	})
	if err != nil {
		return nil, err
	}
	logger.WithCtx(ctx).Info("balance topped up", "user_id", userID, "amount", t.Amount.StringFixed(2))
	return t, nil
}

// Statement is a user's ledger with the stored and recomputed balance.
type Statement struct {
	Transactions []models.Transaction `json:"transactions"`
	Balance      decimal.Decimal      `json:"balance"`
	Reconciled   bool                 `json:"reconciled"`
}

func (s *Service) Transactions(ctx context.Context, userID uint) (Statement, error) {
	db := s.db.WithContext(ctx)
	user, err := repositories.NewUserRepository(db).FindByID(userID)
	if err != nil {
		if database.IsNotFound(err) {
			return Statement{}, services.NotFound("User not found.")
		}
		return Statement{}, err
	}
	rows, err := repositories.NewLedgerRepository(db).Transactions(userID, 0)
	if err != nil {
		return Statement{}, err
	}
	sum, err := ledger.Reconcile(ctx, s.db, userID)
	if err != nil {
		return Statement{}, err
	}
	if !sum.Equal(user.Balance) {
		logger.WithCtx(ctx).Error("ledger out of balance",
			"user_id", userID, "stored", user.Balance.StringFixed(2), "ledger", sum.StringFixed(2))
	}
	return Statement{Transactions: rows, Balance: user.Balance, Reconciled: sum.Equal(user.Balance)}, nil
}
