// Package migrations lists the schema history of the bar database in
// apply order.
package migrations

import (
	"github.com/shashiranjanraj/schoolbar/pkg/migration"
	"gorm.io/gorm"
)

// All returns every migration, oldest first.
func All() []migration.Entry {
	return []migration.Entry{
		createUsers(),
		createCatalog(),
		createOrders(),
		createLedgers(),
	}
}

// Migrate applies every pending migration to db.
func Migrate(db *gorm.DB) error {
	return migration.New(db, All()...).Run()
}
