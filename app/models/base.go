// Package models holds the GORM models of the bar: users with their role
// profile, the catalog, orders and the two append-only ledgers (balance
// transactions and stock movements).
package models

import "time"

// Base replaces gorm.Model: rows are hard-deleted so unique columns never
// collide with soft-deleted ghosts.
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
