package repositories

import (
	"github.com/shashiranjanraj/schoolbar/app/models"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) FindByID(id uint) (models.Category, error) {
	var c models.Category
	err := r.db.First(&c, id).Error
	return c, err
}

// ActiveQuery is the base query for the active category list.
func (r *CategoryRepository) ActiveQuery() *gorm.DB {
	return r.db.Model(&models.Category{}).Where("active = ?", true).Order("name")
}

func (r *CategoryRepository) All() ([]models.Category, error) {
	var rows []models.Category
	err := r.db.Order("name").Find(&rows).Error
	return rows, err
}

func (r *CategoryRepository) Create(c *models.Category) error {
	return r.db.Create(c).Error
}
