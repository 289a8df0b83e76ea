package migration

import (
	"testing"

	"github.com/shashiranjanraj/schoolbar/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type widget struct {
	ID   uint
	Name string
}

func createWidgets() Entry {
	return Entry{Name: "20260301000000_create_widgets", Migration: Func{
		UpFn:   func(db *gorm.DB) error { return db.AutoMigrate(&widget{}) },
		DownFn: func(db *gorm.DB) error { return db.Migrator().DropTable(&widget{}) },
	}}
}

func TestRunAndRollback(t *testing.T) {
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)

	r := New(db, createWidgets())
	require.NoError(t, r.Run())
	assert.True(t, db.Migrator().HasTable(&widget{}))

	status, err := r.Status()
	require.NoError(t, err)
	require.Len(t, status, 1)
	assert.True(t, status[0].Ran)
	assert.Equal(t, 1, status[0].Batch)

	require.NoError(t, r.Run(), "second run is a no-op")

	require.NoError(t, r.Rollback())
	assert.False(t, db.Migrator().HasTable(&widget{}))

	status, err = r.Status()
	require.NoError(t, err)
	assert.False(t, status[0].Ran)
}

func TestFailedMigrationIsNotRecorded(t *testing.T) {
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)

	broken := Entry{Name: "20260301000001_broken", Migration: Func{
		UpFn:   func(db *gorm.DB) error { return db.Exec("CREATE TABLE (").Error },
		DownFn: func(*gorm.DB) error { return nil },
	}}

	r := New(db, createWidgets(), broken)
	assert.Error(t, r.Run())

	status, err := r.Status()
	require.NoError(t, err)
	assert.True(t, status[0].Ran)
	assert.False(t, status[1].Ran)
}
