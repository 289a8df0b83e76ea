package dashboard_test

import (
	"context"
	"testing"
	"time"

	"github.com/shashiranjanraj/schoolbar/app/models"
	"github.com/shashiranjanraj/schoolbar/app/services"
	"github.com/shashiranjanraj/schoolbar/app/services/cart"
	"github.com/shashiranjanraj/schoolbar/app/services/checkout"
	"github.com/shashiranjanraj/schoolbar/app/services/dashboard"
	"github.com/shashiranjanraj/schoolbar/app/services/orders"
	"github.com/shashiranjanraj/schoolbar/app/services/stock"
	"github.com/shashiranjanraj/schoolbar/internal/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func march2() time.Time { return time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC) }

func order(t *testing.T, db *gorm.DB, userID, productID uint, qty int, date string) *models.Order {
	t.Helper()
	c := cart.Cart{}
	c.Set(productID, qty)
	o, err := checkout.NewService(db, 3).Place(context.Background(), userID, c, checkout.Form{
		ScheduledDate: date, ScheduledTime: "12:00", PaymentMethod: "external",
	})
	require.NoError(t, err)
	return o
}

func TestStats(t *testing.T) {
	db := fixtures.DB(t)
	u := fixtures.User(t, db, models.RoleStudent, "")
	panino := fixtures.Product(t, db, "Panino", "3.50", 20)
	acqua := fixtures.Product(t, db, "Acqua", "0.80", 3)

	order(t, db, u.ID, panino.ID, 4, "2026-03-02")
	order(t, db, u.ID, acqua.ID, 1, "2026-03-02")
	gone := order(t, db, u.ID, panino.ID, 10, "2026-03-03")
	_, err := orders.NewService(db).Cancel(context.Background(), u.ID, gone.ID)
	require.NoError(t, err)

	st, err := dashboard.NewService(db).WithClock(march2).Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), st.TodayOrders)
	assert.Equal(t, int64(2), st.PendingOrders)
	assert.Equal(t, int64(1), st.LowStock, "acqua is at 2 with min 2")
	assert.Len(t, st.RecentOrders, 3)
	require.Len(t, st.TopProducts, 2)
	assert.Equal(t, "Panino", st.TopProducts[0].Name)
	assert.Equal(t, 4, st.TopProducts[0].Quantity, "cancelled orders do not count")
}

func TestCreateProductBooksInitialStock(t *testing.T) {
	db := fixtures.DB(t)
	staff := fixtures.User(t, db, models.RoleStaff, "")
	cat := fixtures.Category(t, db, "Dolci")
	svc := dashboard.NewService(db)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, staff.ID, dashboard.ProductInput{
		Name: "Cornetto", CategoryID: &cat.ID, Price: "1.30", MinStock: 3, Available: true, InitialStock: 12,
	})
	require.NoError(t, err)
	assert.Equal(t, 12, p.Stock)

	replayed, err := stock.Replay(ctx, db, p.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 12, replayed)

	missing := uint(999)
	bad := []dashboard.ProductInput{
		{Name: "", Price: "1.00"},
		{Name: "Free", Price: "0"},
		{Name: "Odd", Price: "1.005"},
		{Name: "Neg", Price: "1.00", MinStock: -1},
		{Name: "Lost", Price: "1.00", CategoryID: &missing},
	}
	for _, in := range bad {
		_, err := svc.CreateProduct(ctx, staff.ID, in)
		assert.ErrorIs(t, err, services.ErrValidation, in.Name)
	}
	assert.Equal(t, int64(1), fixtures.Count(t, db, &models.Product{}))
}

func TestUpdateProductLeavesStockAlone(t *testing.T) {
	db := fixtures.DB(t)
	p := fixtures.Product(t, db, "Panino", "3.50", 7)

	updated, err := dashboard.NewService(db).UpdateProduct(context.Background(), p.ID, dashboard.ProductInput{
		Name: "Panino grande", Price: "4.20", MinStock: 1, Available: false,
	})
	require.NoError(t, err)
	assert.Equal(t, "Panino grande", updated.Name)

	fixtures.Reload(t, db, &p, p.ID)
	assert.Equal(t, 7, p.Stock)
	assert.Equal(t, "4.20", p.Price.StringFixed(2))
	assert.False(t, p.Available)

	_, err = dashboard.NewService(db).UpdateProduct(context.Background(), 999, dashboard.ProductInput{Name: "x", Price: "1.00"})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestOrderBoardFilter(t *testing.T) {
	db := fixtures.DB(t)
	u := fixtures.User(t, db, models.RoleStudent, "")
	p := fixtures.Product(t, db, "Panino", "3.50", 20)
	first := order(t, db, u.ID, p.ID, 1, "2026-03-02")
	order(t, db, u.ID, p.ID, 1, "2026-03-02")
	_, err := orders.NewService(db).UpdateStatus(context.Background(), 1, first.ID, models.StatusConfirmed)
	require.NoError(t, err)

	svc := dashboard.NewService(db)
	rows, page, err := svc.Orders(context.Background(), "confirmed", 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, first.ID, rows[0].ID)
	assert.Equal(t, int64(1), page.Total)

	rows, page, err = svc.Orders(context.Background(), "", 1)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, 1, page.LastPage)

	_, _, err = svc.Orders(context.Background(), "lost", 1)
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestManualMovements(t *testing.T) {
	db := fixtures.DB(t)
	staff := fixtures.User(t, db, models.RoleStaff, "")
	p := fixtures.Product(t, db, "Acqua", "0.80", 5)
	svc := dashboard.NewService(db)
	ctx := context.Background()

	_, err := svc.Move(ctx, staff.ID, p.ID, dashboard.MovementInput{Type: "in", Quantity: 10, Reason: "delivery"})
	require.NoError(t, err)

	view, err := svc.Stock(ctx)
	require.NoError(t, err)
	assert.Empty(t, view.NeedingRestock, "15 is above min_stock")

	_, err = svc.Move(ctx, staff.ID, p.ID, dashboard.MovementInput{Type: "adjustment", Quantity: -13, Reason: "broken"})
	require.NoError(t, err)

	_, err = svc.Move(ctx, staff.ID, p.ID, dashboard.MovementInput{Type: "adjustment", Quantity: -3, Reason: "broken"})
	assert.ErrorIs(t, err, services.ErrInsufficientStock)
	_, err = svc.Move(ctx, staff.ID, p.ID, dashboard.MovementInput{Type: "out", Quantity: 1, Reason: "sale"})
	assert.ErrorIs(t, err, services.ErrValidation)
	_, err = svc.Move(ctx, staff.ID, p.ID, dashboard.MovementInput{Type: "in", Quantity: 1})
	assert.ErrorIs(t, err, services.ErrValidation)

	view, err = svc.Stock(ctx)
	require.NoError(t, err)
	require.Len(t, view.NeedingRestock, 1)
	assert.Equal(t, 2, view.NeedingRestock[0].Stock, "stock equal to min_stock needs a restock")
	assert.Len(t, view.Movements, 2)
	assert.Len(t, view.Products, 1)
}
