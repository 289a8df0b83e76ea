package models

import "github.com/shopspring/decimal"

type TransactionType string

const (
	TxTopUp   TransactionType = "topup"
	TxPayment TransactionType = "payment"
	TxRefund  TransactionType = "refund"
)

func (t TransactionType) Valid() bool {
	return t == TxTopUp || t == TxPayment || t == TxRefund
}

// Sign is +1 for credits (top-up, refund) and -1 for payments.
func (t TransactionType) Sign() int32 {
	if t == TxPayment {
		return -1
	}
	return 1
}

// Transaction is an immutable balance entry. Amount is always positive;
// the type carries the sign.
type Transaction struct {
	Base
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	User        *User           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Type        TransactionType `gorm:"size:10;not null" json:"type"`
	Amount      decimal.Decimal `gorm:"type:decimal(8,2);not null" json:"amount"`
	OrderID     *uint           `gorm:"index" json:"order_id"`
	Order       *Order          `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Description string          `gorm:"size:255" json:"description"`
}

// SignedAmount is the entry's effect on the balance.
func (t *Transaction) SignedAmount() decimal.Decimal {
	return t.Amount.Mul(decimal.NewFromInt32(t.Type.Sign()))
}

type MovementType string

const (
	MoveIn         MovementType = "in"
	MoveOut        MovementType = "out"
	MoveAdjustment MovementType = "adjustment"
)

func (m MovementType) Valid() bool {
	return m == MoveIn || m == MoveOut || m == MoveAdjustment
}

// StockMovement is an append-only audit row. In and out quantities are
// positive; an adjustment quantity is the signed delta applied.
type StockMovement struct {
	Base
	ProductID   uint         `gorm:"not null;index" json:"product_id"`
	Product     *Product     `gorm:"constraint:OnDelete:CASCADE" json:"product,omitempty"`
	Type        MovementType `gorm:"size:20;not null" json:"type"`
	Quantity    int          `gorm:"not null" json:"quantity"`
	Reason      string       `gorm:"size:200" json:"reason"`
	OrderID     *uint        `gorm:"index" json:"order_id"`
	Order       *Order       `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	CreatedByID *uint        `gorm:"index" json:"created_by_id"`
	CreatedBy   *User        `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}

// Delta is the movement's signed effect on Product.Stock.
func (m *StockMovement) Delta() int {
	switch m.Type {
	case MoveOut:
		return -m.Quantity
	default:
		return m.Quantity
	}
}
