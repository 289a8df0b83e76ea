// Package checkout turns a cart into a persisted order. One attempt is one
// atomic unit: the order shell, its items, the stock out-movements, the
// total and the balance payment commit together or not at all. A collision
// on the generated order number rolls the attempt back and retries with a
// fresh number, within a fixed budget.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/shashiranjanraj/schoolbar/app/events"
	"github.com/shashiranjanraj/schoolbar/app/models"
	"github.com/shashiranjanraj/schoolbar/app/repositories"
	"github.com/shashiranjanraj/schoolbar/app/services"
	"github.com/shashiranjanraj/schoolbar/app/services/cart"
	"github.com/shashiranjanraj/schoolbar/app/services/ledger"
	"github.com/shashiranjanraj/schoolbar/app/services/ordernumber"
	"github.com/shashiranjanraj/schoolbar/app/services/stock"
	"github.com/shashiranjanraj/schoolbar/pkg/database"
	"github.com/shashiranjanraj/schoolbar/pkg/event"
	"github.com/shashiranjanraj/schoolbar/pkg/logger"
	"github.com/shashiranjanraj/schoolbar/pkg/metrics"
	"github.com/shashiranjanraj/schoolbar/pkg/retry"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const maxNotes = 500

// Form is the scheduling and payment input of a checkout.
type Form struct {
	ScheduledDate string `json:"scheduled_date" validate:"required,date"`
	ScheduledTime string `json:"scheduled_time" validate:"required,clock"`
	PaymentMethod string `json:"payment_method" validate:"required,in=balance|external"`
	Notes         string `json:"notes"          validate:"nullable,max=500"`
}

// Validate re-checks the form so callers that skip request binding get the
// same guarantees.
func (f Form) Validate() error {
	fields := map[string]string{}
	if _, err := time.Parse("2006-01-02", f.ScheduledDate); err != nil {
		fields["scheduled_date"] = "must be a date in YYYY-MM-DD format"
	}
	if t, err := time.Parse("15:04", f.ScheduledTime); err != nil || t.Format("15:04") != f.ScheduledTime {
		fields["scheduled_time"] = "must be a time in HH:MM format"
	}
	if !models.PaymentMethod(f.PaymentMethod).Valid() {
		fields["payment_method"] = "must be balance or external"
	}
	if utf8.RuneCountInString(f.Notes) > maxNotes {
		fields["notes"] = "must not exceed 500 characters"
	}
	if len(fields) > 0 {
		return services.Validation("Please correct the highlighted fields.", fields)
	}
	return nil
}

// errNumberTaken marks an attempt lost to an order_number collision.
var errNumberTaken = errors.New("checkout: order number taken")

type Service struct {
	db          *gorm.DB
	numbers     ordernumber.Generator
	maxAttempts int
	now         func() time.Time
}

type Option func(*Service)

// WithGenerator replaces the order-number source.
func WithGenerator(g ordernumber.Generator) Option { return func(s *Service) { s.numbers = g } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// NewService builds a checkout allowing maxAttempts tries per order.
func NewService(db *gorm.DB, maxAttempts int, opts ...Option) *Service {
	s := &Service{db: db, numbers: ordernumber.Random, maxAttempts: maxAttempts, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Place materializes c for userID. The caller clears the cart on success.
func (s *Service) Place(ctx context.Context, userID uint, c cart.Cart, f Form) (*models.Order, error) {
	log := logger.WithCtx(ctx)

	if err := f.Validate(); err != nil {
		return nil, s.finish(err)
	}
	items := c.Items()
	if len(items) == 0 {
		return nil, s.finish(services.Validation("Your cart is empty.", nil))
	}

	policy := retry.Policy{
		MaxAttempts: s.maxAttempts,
		IsConflict:  func(err error) bool { return errors.Is(err, errNumberTaken) },
		OnConflict: func(n int, err error) {
			metrics.OrderNumberConflicts.Inc()
			log.Warn("order number collision, retrying", "attempt", n, "user_id", userID)
		},
	}

	res, err := retry.Do(ctx, policy, func(ctx context.Context, _ int) (placed, error) {
		return s.attempt(ctx, userID, items, f)
	})
	if err != nil {
		if errors.Is(err, retry.ErrExhausted) {
			err = services.Conflict("We could not place your order right now, please try again later.", err)
		}
		return nil, s.finish(err)
	}

	s.finish(nil)
	stock.NotifyLow(ctx, res.moves...)
	event.Fire(events.OrderPlaced, events.OrderEvent{Ctx: ctx, Order: *res.order})
	return res.order, nil
}

// placed is the outcome of a committed attempt.
type placed struct {
	order *models.Order
	moves []models.StockMovement
}

// attempt runs one atomic unit with a brand-new Order value.
func (s *Service) attempt(ctx context.Context, userID uint, items []cart.Item, f Form) (placed, error) {
	var moves []models.StockMovement
	order := &models.Order{
		UserID:        userID,
		OrderNumber:   s.numbers(s.now()),
		Status:        models.StatusPending,
		PaymentMethod: models.PaymentMethod(f.PaymentMethod),
		ScheduledDate: f.ScheduledDate,
		ScheduledTime: f.ScheduledTime,
		Notes:         f.Notes,
		TotalAmount:   decimal.Zero,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := repositories.NewUserRepository(tx).FindForUpdate(userID)
		if err != nil {
			if database.IsNotFound(err) {
				return services.NotFound("User not found.")
			}
			return err
		}
		if !user.CanPlaceOrder() {
			return services.PermissionDenied("Your account cannot place orders at the moment.")
		}
		order.IsPriority = user.IsPriority()

		orders := repositories.NewOrderRepository(tx)
		if err := orders.Create(order); err != nil {
			if database.IsUniqueViolation(err) {
				return fmt.Errorf("%w: %s", errNumberTaken, order.OrderNumber)
			}
			return err
		}

		products := repositories.NewProductRepository(tx)
		for _, it := range items {
			p, err := products.FindForUpdate(it.ProductID)
			if err != nil {
				if database.IsNotFound(err) {
					return services.NotFound(fmt.Sprintf("Product %d no longer exists.", it.ProductID))
				}
				return err
			}
			if p.Stock < it.Quantity {
				return services.InsufficientStock(fmt.Sprintf("Insufficient stock for %s: %d available.", p.Name, p.Stock))
			}

			item := models.OrderItem{
				OrderID:   order.ID,
				ProductID: p.ID,
				Quantity:  it.Quantity,
				UnitPrice: p.Price,
				Subtotal:  p.Price.Mul(decimal.NewFromInt(int64(it.Quantity))),
			}
			if err := orders.CreateItem(&item); err != nil {
				return err
			}

			mv, err := stock.Record(ctx, tx, stock.Movement{
				ProductID: p.ID,
				Type:      models.MoveOut,
				Quantity:  it.Quantity,
				Reason:    "Order " + order.OrderNumber,
				OrderID:   &order.ID,
				ActorID:   &userID,
			})
			if err != nil {
				return err
			}
			moves = append(moves, *mv)

			order.Items = append(order.Items, item)
			order.TotalAmount = order.TotalAmount.Add(item.Subtotal)
		}

		if err := orders.SetTotal(order); err != nil {
			return err
		}

		if order.PaymentMethod == models.PayBalance {
			if user.Balance.LessThan(order.TotalAmount) {
				return services.InsufficientBalance(fmt.Sprintf(
					"Insufficient balance: %s available, %s required.",
					user.Balance.StringFixed(2), order.TotalAmount.StringFixed(2)))
			}
			if _, err := ledger.Apply(ctx, tx, ledger.Entry{
				UserID:      userID,
				Type:        models.TxPayment,
				Amount:      order.TotalAmount,
				OrderID:     &order.ID,
				Description: "Payment for order " + order.OrderNumber,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return placed{}, err
	}
	return placed{order: order, moves: moves}, nil
}

// finish counts the outcome and returns err unchanged.
func (s *Service) finish(err error) error {
	result := "committed"
	if err != nil {
		result = services.As(err).Kind.String()
	}
	metrics.CheckoutTotal.WithLabelValues(result).Inc()
	return err
}
