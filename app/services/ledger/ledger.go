// Package ledger keeps user balances in step with the append-only
// transaction log: every balance change is one Transaction row, written in
// the same atomic unit as the new balance.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/shashiranjanraj/schoolbar/app/models"
	"github.com/shashiranjanraj/schoolbar/app/repositories"
	"github.com/shashiranjanraj/schoolbar/app/services"
	"github.com/shashiranjanraj/schoolbar/pkg/database"
	"github.com/shashiranjanraj/schoolbar/pkg/logger"
	"github.com/shashiranjanraj/schoolbar/pkg/metrics"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Entry describes one balance change.
type Entry struct {
	UserID      uint
	Type        models.TransactionType
	Amount      decimal.Decimal
	OrderID     *uint
	Description string
}

// ValidAmount reports a positive value with at most two decimal places.
func ValidAmount(d decimal.Decimal) bool {
	return d.IsPositive() && d.Equal(d.Round(2))
}

// Apply records e and moves the user's balance by its signed amount.
// db may be a transaction; Apply then joins it through a savepoint.
//
// Apply never checks that the balance covers a payment; callers do.
func Apply(ctx context.Context, db *gorm.DB, e Entry) (*models.Transaction, error) {
	if !e.Type.Valid() {
		return nil, services.Validation(fmt.Sprintf("Unknown transaction type %q.", e.Type), nil)
	}
	if !ValidAmount(e.Amount) {
		return nil, services.Validation("Amount must be positive with at most two decimals.",
			map[string]string{"amount": "invalid amount"})
	}

	t := &models.Transaction{
		UserID:      e.UserID,
		Type:        e.Type,
		Amount:      e.Amount.Round(2),
		OrderID:     e.OrderID,
		Description: e.Description,
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repositories.NewUserRepository(tx)
		user, err := users.FindForUpdate(e.UserID)
		if err != nil {
			if database.IsNotFound(err) {
				return services.NotFound("User not found.")
			}
			return err
		}

		if err := repositories.NewLedgerRepository(tx).AddTransaction(t); err != nil {
			return err
		}
		return users.SetBalance(user.ID, user.Balance.Add(t.SignedAmount()))
	})
	if err != nil {
		return nil, err
	}

	metrics.LedgerEntries.WithLabelValues(string(t.Type)).Inc()
	logger.WithCtx(ctx).Debug("ledger entry",
		"user_id", t.UserID, "type", t.Type, "amount", t.Amount.StringFixed(2))
	return t, nil
}

// Reconcile sums the user's signed transactions. For a consistent ledger
// it equals the stored balance.
func Reconcile(ctx context.Context, db *gorm.DB, userID uint) (decimal.Decimal, error) {
	rows, err := repositories.NewLedgerRepository(db.WithContext(ctx)).Transactions(userID, 0)
	if err != nil {
		return decimal.Zero, err
	}
	return lo.Reduce(rows, func(sum decimal.Decimal, t models.Transaction, _ int) decimal.Decimal {
		return sum.Add(t.SignedAmount())
	}, decimal.Zero), nil
}

// ErrOutOfBalance is returned by Verify when the log and the stored balance
// disagree.
var ErrOutOfBalance = errors.New("ledger: balance does not match transactions")

// Verify compares the stored balance with Reconcile.
func Verify(ctx context.Context, db *gorm.DB, userID uint) error {
	user, err := repositories.NewUserRepository(db.WithContext(ctx)).FindByID(userID)
	if err != nil {
		return err
	}
	sum, err := Reconcile(ctx, db, userID)
	if err != nil {
		return err
	}
	if !sum.Equal(user.Balance) {
		return fmt.Errorf("%w: stored %s, ledger %s", ErrOutOfBalance, user.Balance.StringFixed(2), sum.StringFixed(2))
	}
	return nil
}
