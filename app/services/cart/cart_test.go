package cart_test

import (
	"context"
	"testing"

	"github.com/shashiranjanraj/schoolbar/app/services"
	"github.com/shashiranjanraj/schoolbar/app/services/cart"
	"github.com/shashiranjanraj/schoolbar/internal/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartValue(t *testing.T) {
	c := cart.Cart{}
	c.Set(3, 2)
	c.Set(1, 1)
	c.Set(2, 0)
	c["junk"] = 4

	assert.Equal(t, []cart.Item{{ProductID: 1, Quantity: 1}, {ProductID: 3, Quantity: 2}}, c.Items())
	assert.Equal(t, 7, c.Count())

	c.Remove(3)
	assert.Equal(t, 0, c.Quantity(3))
}

func TestAddRespectsStock(t *testing.T) {
	db := fixtures.DB(t)
	svc := cart.NewService(db)
	p := fixtures.Product(t, db, "Pizzetta", "2.00", 2)
	ctx := context.Background()

	c := cart.Cart{}
	_, err := svc.Add(ctx, c, p.ID)
	require.NoError(t, err)
	_, err = svc.Add(ctx, c, p.ID)
	require.NoError(t, err)

	_, err = svc.Add(ctx, c, p.ID)
	assert.ErrorIs(t, err, services.ErrInsufficientStock)
	assert.Equal(t, 2, c.Quantity(p.ID))

	_, err = svc.Add(ctx, c, 999)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestUpdateAndSummarize(t *testing.T) {
	db := fixtures.DB(t)
	svc := cart.NewService(db)
	ctx := context.Background()
	a := fixtures.Product(t, db, "Panino", "3.50", 10)
	b := fixtures.Product(t, db, "Acqua", "0.80", 10)

	c := cart.Cart{}
	require.NoError(t, svc.Update(ctx, c, a.ID, 2))
	require.NoError(t, svc.Update(ctx, c, b.ID, 3))
	assert.ErrorIs(t, svc.Update(ctx, c, b.ID, 11), services.ErrInsufficientStock)
	c.Set(777, 1) // deleted product

	sum, err := svc.Summarize(ctx, c)
	require.NoError(t, err)
	require.Len(t, sum.Lines, 2)
	assert.Equal(t, "9.40", sum.Total.StringFixed(2))
	assert.Equal(t, 5, sum.Count)

	require.NoError(t, svc.Update(ctx, c, a.ID, 0))
	assert.Equal(t, 0, c.Quantity(a.ID))
}
