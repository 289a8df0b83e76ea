package repositories

import (
	"strings"

	"github.com/shashiranjanraj/schoolbar/app/models"
	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ProductFilter narrows the menu listing.
type ProductFilter struct {
	CategoryID    uint
	Search        string
	AvailableOnly bool
	Limit         int
}

func (r *ProductRepository) FindByID(id uint) (models.Product, error) {
	var p models.Product
	err := r.db.Preload("Category").First(&p, id).Error
	return p, err
}

// FindForUpdate locks the product row for the rest of the transaction.
func (r *ProductRepository) FindForUpdate(id uint) (models.Product, error) {
	var p models.Product
	err := forUpdate(r.db).First(&p, id).Error
	return p, err
}

// FindMany returns the products with ids, keyed by id.
func (r *ProductRepository) FindMany(ids []uint) (map[uint]models.Product, error) {
	out := make(map[uint]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Product
	if err := r.db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}

func (r *ProductRepository) List(f ProductFilter) ([]models.Product, error) {
	q := r.db.Preload("Category").Order("name")
	if f.AvailableOnly {
		q = q.Where("available = ?", true)
	}
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var rows []models.Product
	err := q.Find(&rows).Error
	return rows, err
}

// Related returns other available products of the same category.
func (r *ProductRepository) Related(p models.Product, limit int) ([]models.Product, error) {
	var rows []models.Product
	if p.CategoryID == nil {
		return rows, nil
	}
	err := r.db.Where("category_id = ? AND available = ? AND id <> ?", *p.CategoryID, true, p.ID).
		Order("name").Limit(limit).Find(&rows).Error
	return rows, err
}

// NeedingRestock lists products with stock at or under their minimum.
func (r *ProductRepository) NeedingRestock() ([]models.Product, error) {
	var rows []models.Product
	err := r.db.Where("stock <= min_stock").Order("stock").Find(&rows).Error
	return rows, err
}

func (r *ProductRepository) CountNeedingRestock() (int64, error) {
	var n int64
	err := r.db.Model(&models.Product{}).Where("stock <= min_stock").Count(&n).Error
	return n, err
}

func (r *ProductRepository) Create(p *models.Product) error {
	return r.db.Create(p).Error
}

// UpdateDetails writes the editable columns. Stock is deliberately absent:
// it only moves through stock movements.
func (r *ProductRepository) UpdateDetails(p *models.Product) error {
	return r.db.Model(p).Select("name", "description", "category_id", "price", "min_stock", "available").
		Updates(p).Error
}

func (r *ProductRepository) SetStock(id uint, stock int) error {
	return r.db.Model(&models.Product{}).Where("id = ?", id).Update("stock", stock).Error
}
