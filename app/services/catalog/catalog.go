// Package catalog serves the public menu and keeps the cached list of
// active categories fresh.
package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/shashiranjanraj/schoolbar/app/models"
	"github.com/shashiranjanraj/schoolbar/app/repositories"
	"github.com/shashiranjanraj/schoolbar/app/services"
	"github.com/shashiranjanraj/schoolbar/config"
	"github.com/shashiranjanraj/schoolbar/pkg/cache"
	"github.com/shashiranjanraj/schoolbar/pkg/database"
	"github.com/shashiranjanraj/schoolbar/pkg/orm"
	"gorm.io/gorm"
)

// CategoriesKey holds the active category list.
const CategoriesKey = "schoolbar:catalog:categories"

const (
	homeProducts    = 6
	relatedProducts = 4
)

type Service struct {
	db  *gorm.DB
	ttl time.Duration
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, ttl: config.CacheTTL()}
}

// Home is the landing page content.
type Home struct {
	Products   []models.Product  `json:"products"`
	Categories []models.Category `json:"categories"`
}

func (s *Service) Home(ctx context.Context) (Home, error) {
	products, err := repositories.NewProductRepository(s.db.WithContext(ctx)).
		List(repositories.ProductFilter{AvailableOnly: true, Limit: homeProducts})
	if err != nil {
		return Home{}, err
	}
	cats, err := s.Categories(ctx)
	if err != nil {
		return Home{}, err
	}
	return Home{Products: products, Categories: cats}, nil
}

// Categories returns the active categories, served from the cache.
func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	q := orm.New(repositories.NewCategoryRepository(s.db.WithContext(ctx)).ActiveQuery())
	if err := q.Cache(CategoriesKey, s.ttl, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// Menu is the filtered menu listing.
type Menu struct {
	Products         []models.Product  `json:"products"`
	Categories       []models.Category `json:"categories"`
	SelectedCategory uint              `json:"selected_category,omitempty"`
	Search           string            `json:"search,omitempty"`
}

func (s *Service) Menu(ctx context.Context, categoryID uint, search string) (Menu, error) {
	search = strings.TrimSpace(search)
	products, err := repositories.NewProductRepository(s.db.WithContext(ctx)).List(repositories.ProductFilter{
		CategoryID:    categoryID,
		Search:        search,
		AvailableOnly: true,
	})
	if err != nil {
		return Menu{}, err
	}
	cats, err := s.Categories(ctx)
	if err != nil {
		return Menu{}, err
	}
	return Menu{Products: products, Categories: cats, SelectedCategory: categoryID, Search: search}, nil
}

// Detail is one product with a few others from its category.
type Detail struct {
	Product models.Product   `json:"product"`
	Related []models.Product `json:"related"`
}

// Product returns an available product. Unavailable products are reported
// as missing.
func (s *Service) Product(ctx context.Context, id uint) (Detail, error) {
	products := repositories.NewProductRepository(s.db.WithContext(ctx))
	p, err := products.FindByID(id)
	if err != nil {
		if database.IsNotFound(err) {
			return Detail{}, services.NotFound("Product not found.")
		}
		return Detail{}, err
	}
	if !p.Available {
		return Detail{}, services.NotFound("Product not found.")
	}
	related, err := products.Related(p, relatedProducts)
	if err != nil {
		return Detail{}, err
	}
	return Detail{Product: p, Related: related}, nil
}

// CategoryInput is the dashboard form for a new category.
type CategoryInput struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"nullable"`
	Active      bool   `json:"active"`
}

func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	c := &models.Category{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Active:      in.Active,
	}
	if c.Name == "" {
		return nil, services.Validation("Category name is required.", map[string]string{"name": "is required"})
	}
	if err := repositories.NewCategoryRepository(s.db.WithContext(ctx)).Create(c); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, services.Validation("A category with this name already exists.",
				map[string]string{"name": "has already been taken"})
		}
		return nil, err
	}
	s.Forget()
	return c, nil
}

// AllCategories lists every category, active or not, for the dashboard.
func (s *Service) AllCategories(ctx context.Context) ([]models.Category, error) {
	return repositories.NewCategoryRepository(s.db.WithContext(ctx)).All()
}

// Forget drops the cached category list.
func (s *Service) Forget() { _ = cache.Forget(CategoriesKey) }
