package models

import "github.com/shopspring/decimal"

type Category struct {
	Base
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Active      bool   `gorm:"not null;index" json:"active"`
}

// Product is the aggregate root for stock. Stock only changes through
// StockMovement rows written by the stock tracker.
type Product struct {
	Base
	Name        string          `gorm:"size:200;not null;index" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	CategoryID  *uint           `gorm:"index" json:"category_id"`
	Category    *Category       `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Price       decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"price"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	MinStock    int             `gorm:"not null" json:"min_stock"`
	Available   bool            `gorm:"not null;index" json:"available"`
}

func (p *Product) InStock() bool { return p.Stock > 0 }

// NeedsRestock is true once stock falls to the minimum threshold.
func (p *Product) NeedsRestock() bool { return p.Stock <= p.MinStock }
