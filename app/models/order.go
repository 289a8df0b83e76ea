package models

import "github.com/shopspring/decimal"

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// statusFlow is the forward path of a live order.
var statusFlow = []OrderStatus{StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusDelivered}

func (s OrderStatus) Valid() bool {
	return s == StatusCancelled || s.rank() >= 0
}

func (s OrderStatus) rank() int {
	for i, st := range statusFlow {
		if st == s {
			return i
		}
	}
	return -1
}

// Terminal reports delivered and cancelled orders.
func (s OrderStatus) Terminal() bool { return s == StatusDelivered || s == StatusCancelled }

// Cancellable is the cancellation policy: an order can be cancelled until
// the kitchen starts preparing it.
func (s OrderStatus) Cancellable() bool { return s == StatusPending || s == StatusConfirmed }

// CanAdvanceTo reports a strictly forward move along the live path.
// Cancellation is not an advance; see Cancellable.
func (s OrderStatus) CanAdvanceTo(next OrderStatus) bool {
	from, to := s.rank(), next.rank()
	return from >= 0 && to > from
}

type PaymentMethod string

const (
	PayBalance  PaymentMethod = "balance"
	PayExternal PaymentMethod = "external"
)

func (m PaymentMethod) Valid() bool { return m == PayBalance || m == PayExternal }

type Order struct {
	Base
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	User          *User           `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	OrderNumber   string          `gorm:"size:20;uniqueIndex;not null" json:"order_number"`
	Status        OrderStatus     `gorm:"size:20;not null;index" json:"status"`
	PaymentMethod PaymentMethod   `gorm:"size:20;not null" json:"payment_method"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(8,2);not null;default:0" json:"total_amount"`
	ScheduledDate string          `gorm:"size:10;not null;index" json:"scheduled_date"`
	ScheduledTime string          `gorm:"size:5;not null" json:"scheduled_time"`
	Notes         string          `gorm:"type:text" json:"notes"`
	IsPriority    bool            `gorm:"not null" json:"is_priority"`
	Items         []OrderItem     `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

type OrderItem struct {
	Base
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Product   *Product        `json:"product,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"unit_price"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(8,2);not null" json:"subtotal"`
}
