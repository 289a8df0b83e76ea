package migrations

import (
	"testing"

	"github.com/shashiranjanraj/schoolbar/app/models"
	"github.com/shashiranjanraj/schoolbar/pkg/database"
	"github.com/shashiranjanraj/schoolbar/pkg/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateCreatesSchema(t *testing.T) {
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	for _, m := range []interface{}{
		&models.User{}, &models.StudentProfile{}, &models.TeacherProfile{}, &models.StaffProfile{},
		&models.Category{}, &models.Product{}, &models.Order{}, &models.OrderItem{},
		&models.Transaction{}, &models.StockMovement{},
	} {
		assert.True(t, db.Migrator().HasTable(m), "%T", m)
	}
}

func TestRollbackDropsLatestBatch(t *testing.T) {
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)

	r := migration.New(db, All()...)
	require.NoError(t, r.Run())
	require.NoError(t, r.Rollback())

	assert.False(t, db.Migrator().HasTable(&models.User{}))
	assert.False(t, db.Migrator().HasTable(&models.StockMovement{}))
}
