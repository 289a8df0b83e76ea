// Package repositories wraps row access for the services. Every repository
// is bound to a *gorm.DB, which inside an atomic unit is the transaction
// handle, so reads and writes of one unit share it.
package repositories

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// forUpdate adds SELECT ... FOR UPDATE where the dialect supports it;
// SQLite's single writer covers the same read-then-write race.
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
