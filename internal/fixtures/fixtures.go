// Package fixtures builds migrated in-memory databases and seed rows for
// tests.
package fixtures

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/shashiranjanraj/schoolbar/app/models"
	"github.com/shashiranjanraj/schoolbar/app/services/ledger"
	"github.com/shashiranjanraj/schoolbar/database/migrations"
	"github.com/shashiranjanraj/schoolbar/pkg/cache"
	"github.com/shashiranjanraj/schoolbar/pkg/database"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var seq atomic.Int64

// DB returns a fresh migrated SQLite database private to t, and points the
// cache at a fresh memory store.
func DB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.OpenMemory(fmt.Sprintf("%s_%d", name, seq.Add(1)))
	require.NoError(t, err)
	require.NoError(t, migrations.Migrate(db))

	cache.Use(cache.NewMemoryStore())

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func Money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// User creates an active user of role. A non-empty balance is credited
// through the ledger so the transaction log stays reconciled.
func User(t *testing.T, db *gorm.DB, role models.Role, balance string) models.User {
	t.Helper()

	n := seq.Add(1)
	u := models.User{
		Username:     fmt.Sprintf("%s%d", role, n),
		Email:        fmt.Sprintf("%s%d@school.test", role, n),
		FirstName:    "Test",
		LastName:     strings.ToUpper(string(role[:1])) + string(role[1:]),
		PasswordHash: "x",
		Role:         role,
		IsStaff:      role.IsStaff(),
		Active:       true,
	}
	require.NoError(t, db.Create(&u).Error)

	if balance != "" && !Money(balance).IsZero() {
		_, err := ledger.Apply(context.Background(), db, ledger.Entry{
			UserID: u.ID, Type: models.TxTopUp, Amount: Money(balance), Description: "fixture",
		})
		require.NoError(t, err)
		require.NoError(t, db.First(&u, u.ID).Error)
	}
	return u
}

// Category creates an active category.
func Category(t *testing.T, db *gorm.DB, name string) models.Category {
	t.Helper()
	c := models.Category{Name: name, Active: true}
	require.NoError(t, db.Create(&c).Error)
	return c
}

// Product creates an available product with the given price and stock.
func Product(t *testing.T, db *gorm.DB, name, price string, stock int) models.Product {
	t.Helper()
	p := models.Product{Name: name, Price: Money(price), Stock: stock, MinStock: 2, Available: true}
	require.NoError(t, db.Create(&p).Error)
	return p
}

// Reload re-reads dest (a pointer to a model with an ID) from db.
func Reload(t *testing.T, db *gorm.DB, dest interface{}, id uint) {
	t.Helper()
	require.NoError(t, db.First(dest, id).Error)
}

// Count returns the number of rows of model.
func Count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
