package repositories

import (
	"fmt"

	"github.com/shashiranjanraj/schoolbar/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(id uint) (models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	return user, err
}

// FindWithProfile loads the user and every profile variant.
func (r *UserRepository) FindWithProfile(id uint) (models.User, error) {
	var user models.User
	err := r.db.Preload("Student").Preload("Teacher").Preload("Staff").First(&user, id).Error
	return user, err
}

// FindForUpdate locks the user row for the rest of the transaction.
func (r *UserRepository) FindForUpdate(id uint) (models.User, error) {
	var user models.User
	err := forUpdate(r.db).First(&user, id).Error
	return user, err
}

func (r *UserRepository) FindByUsername(username string) (models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	return user, err
}

func (r *UserRepository) Exists(column, value string) (bool, error) {
	var n int64
	err := r.db.Model(&models.User{}).Where(column+" = ?", value).Count(&n).Error
	return n > 0, err
}

func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// CreateProfile attaches the role profile p to the user.
func (r *UserRepository) CreateProfile(userID uint, p models.Profile) error {
	switch v := p.(type) {
	case *models.StudentProfile:
		v.UserID = userID
	case *models.TeacherProfile:
		v.UserID = userID
	case *models.StaffProfile:
		v.UserID = userID
	default:
		return fmt.Errorf("repositories: unknown profile %T", p)
	}
	return r.db.Create(p).Error
}

// SetBalance writes only the balance column.
func (r *UserRepository) SetBalance(id uint, balance decimal.Decimal) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("balance", balance).Error
}
