package repositories

import (
	"github.com/shashiranjanraj/schoolbar/app/models"
	"gorm.io/gorm"
)

// LedgerRepository appends to and reads the two audit ledgers. It has no
// update or delete methods.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) AddTransaction(t *models.Transaction) error {
	return r.db.Omit("User", "Order").Create(t).Error
}

func (r *LedgerRepository) Transactions(userID uint, limit int) ([]models.Transaction, error) {
	q := r.db.Where("user_id = ?", userID).Order("created_at desc, id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []models.Transaction
	err := q.Find(&rows).Error
	return rows, err
}

func (r *LedgerRepository) TransactionsForOrder(orderID uint) ([]models.Transaction, error) {
	var rows []models.Transaction
	err := r.db.Where("order_id = ?", orderID).Order("id").Find(&rows).Error
	return rows, err
}

func (r *LedgerRepository) AddMovement(m *models.StockMovement) error {
	return r.db.Omit("Product", "Order", "CreatedBy").Create(m).Error
}

func (r *LedgerRepository) Movements(productID uint) ([]models.StockMovement, error) {
	var rows []models.StockMovement
	err := r.db.Where("product_id = ?", productID).Order("id").Find(&rows).Error
	return rows, err
}

func (r *LedgerRepository) MovementsForOrder(orderID uint) ([]models.StockMovement, error) {
	var rows []models.StockMovement
	err := r.db.Where("order_id = ?", orderID).Order("id").Find(&rows).Error
	return rows, err
}

func (r *LedgerRepository) RecentMovements(limit int) ([]models.StockMovement, error) {
	var rows []models.StockMovement
	err := r.db.Preload("Product").Order("created_at desc, id desc").Limit(limit).Find(&rows).Error
	return rows, err
}
