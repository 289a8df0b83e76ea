// Package dashboard backs the staff pages: daily figures, product
// maintenance, the order board and manual stock movements.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shashiranjanraj/schoolbar/app/models"
	"github.com/shashiranjanraj/schoolbar/app/repositories"
	"github.com/shashiranjanraj/schoolbar/app/services"
	"github.com/shashiranjanraj/schoolbar/app/services/stock"
	"github.com/shashiranjanraj/schoolbar/pkg/database"
	"github.com/shashiranjanraj/schoolbar/pkg/logger"
	"github.com/shashiranjanraj/schoolbar/pkg/orm"
	"github.com/shashiranjanraj/schoolbar/pkg/validate"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	recentOrders    = 10
	topProducts     = 5
	recentMovements = 20
)

type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) *Service { return &Service{db: db, now: time.Now} }

// WithClock returns a copy of s that reads "today" from now.
func (s *Service) WithClock(now func() time.Time) *Service {
	c := *s
	c.now = now
	return &c
}

type Stats struct {
	TodayOrders   int64                     `json:"today_orders"`
	PendingOrders int64                     `json:"pending_orders"`
	LowStock      int64                     `json:"low_stock_products"`
	RecentOrders  []models.Order            `json:"recent_orders"`
	TopProducts   []repositories.TopProduct `json:"top_products"`
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	db := s.db.WithContext(ctx)
	orders := repositories.NewOrderRepository(db)

	var st Stats
	var err error
	if st.TodayOrders, err = orders.CountScheduledOn(s.now().Format("2006-01-02")); err != nil {
		return Stats{}, err
	}
	if st.PendingOrders, err = orders.CountByStatus(models.StatusPending, models.StatusConfirmed); err != nil {
		return Stats{}, err
	}
	if st.LowStock, err = repositories.NewProductRepository(db).CountNeedingRestock(); err != nil {
		return Stats{}, err
	}
	if st.RecentOrders, err = orders.Recent(recentOrders); err != nil {
		return Stats{}, err
	}
	if st.TopProducts, err = orders.TopProducts(topProducts); err != nil {
		return Stats{}, err
	}
	return st, nil
}

// ProductInput is the create and edit form. InitialStock only applies on
// create, where it is booked as an in movement.
type ProductInput struct {
	Name         string `json:"name"          validate:"required,max=200"`
	Description  string `json:"description"   validate:"nullable"`
	CategoryID   *uint  `json:"category_id"`
	Price        string `json:"price"         validate:"required,money"`
	MinStock     int    `json:"min_stock"     validate:"gte=0"`
	Available    bool   `json:"available"`
	InitialStock int    `json:"initial_stock" validate:"gte=0"`
}

func (s *Service) apply(tx *gorm.DB, in ProductInput, p *models.Product) error {
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return services.Validation("Please correct the highlighted fields.", errs)
	}
	if in.CategoryID != nil {
		if _, err := repositories.NewCategoryRepository(tx).FindByID(*in.CategoryID); err != nil {
			if database.IsNotFound(err) {
				return services.Validation("Unknown category.", map[string]string{"category_id": "does not exist"})
			}
			return err
		}
	}
	p.Name = strings.TrimSpace(in.Name)
	p.Description = strings.TrimSpace(in.Description)
	p.CategoryID = in.CategoryID
	p.Price = decimal.RequireFromString(strings.TrimSpace(in.Price))
	p.MinStock = in.MinStock
	p.Available = in.Available
	return nil
}

// CreateProduct adds a product with zero stock and books InitialStock
// through the stock tracker.
func (s *Service) CreateProduct(ctx context.Context, actorID uint, in ProductInput) (*models.Product, error) {
	p := &models.Product{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.apply(tx, in, p); err != nil {
			return err
		}
		if err := repositories.NewProductRepository(tx).Create(p); err != nil {
			return err
		}
		if in.InitialStock == 0 {
			return nil
		}
		mv, err := stock.Record(ctx, tx, stock.Movement{
			ProductID: p.ID,
			Type:      models.MoveIn,
			Quantity:  in.InitialStock,
			Reason:    "Initial stock",
			ActorID:   &actorID,
		})
		if err != nil {
			return err
		}
		p.Stock = mv.Product.Stock
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.WithCtx(ctx).Info("product created", "product_id", p.ID, "actor_id", actorID)
	return p, nil
}

// UpdateProduct edits the product details. Stock is left untouched.
func (s *Service) UpdateProduct(ctx context.Context, id uint, in ProductInput) (*models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := repositories.NewProductRepository(tx)
		var err error
		if p, err = products.FindForUpdate(id); err != nil {
			if database.IsNotFound(err) {
				return services.NotFound("Product not found.")
			}
			return err
		}
		if err := s.apply(tx, in, &p); err != nil {
			return err
		}
		return products.UpdateDetails(&p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

type Catalog struct {
	Products   []models.Product  `json:"products"`
	Categories []models.Category `json:"categories"`
}

// Products lists every product, available or not.
func (s *Service) Products(ctx context.Context) (Catalog, error) {
	db := s.db.WithContext(ctx)
	products, err := repositories.NewProductRepository(db).List(repositories.ProductFilter{})
	if err != nil {
		return Catalog{}, err
	}
	cats, err := repositories.NewCategoryRepository(db).All()
	if err != nil {
		return Catalog{}, err
	}
	return Catalog{Products: products, Categories: cats}, nil
}

// Orders pages the order board, optionally by status.
func (s *Service) Orders(ctx context.Context, status string, page int) ([]models.Order, orm.Pagination, error) {
	st := models.OrderStatus(status)
	if st != "" && !st.Valid() {
		return nil, orm.Pagination{}, services.Validation(fmt.Sprintf("Unknown status %q.", status), map[string]string{"status": "invalid status"})
	}
	return repositories.NewOrderRepository(s.db.WithContext(ctx)).Page(st, page, orm.DefaultPerPage)
}

type StockView struct {
	NeedingRestock []models.Product       `json:"needing_restock"`
	Products       []models.Product       `json:"products"`
	Movements      []models.StockMovement `json:"recent_movements"`
}

func (s *Service) Stock(ctx context.Context) (StockView, error) {
	db := s.db.WithContext(ctx)
	products := repositories.NewProductRepository(db)

	var v StockView
	var err error
	if v.NeedingRestock, err = products.NeedingRestock(); err != nil {
		return StockView{}, err
	}
	if v.Products, err = products.List(repositories.ProductFilter{}); err != nil {
		return StockView{}, err
	}
	if v.Movements, err = repositories.NewLedgerRepository(db).RecentMovements(recentMovements); err != nil {
		return StockView{}, err
	}
	return v, nil
}

// MovementInput is a manual stock change. Out movements are reserved for
// orders; a manual decrease is a negative adjustment.
type MovementInput struct {
	Type     string `json:"type"     validate:"required,in=in|adjustment"`
	Quantity int    `json:"quantity" validate:"required"`
	Reason   string `json:"reason"   validate:"required,max=200"`
}

func (s *Service) Move(ctx context.Context, actorID, productID uint, in MovementInput) (*models.StockMovement, error) {
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return nil, services.Validation("Please correct the highlighted fields.", errs)
	}
	mv, err := stock.Record(ctx, s.db, stock.Movement{
		ProductID: productID,
		Type:      models.MovementType(in.Type),
		Quantity:  in.Quantity,
		Reason:    strings.TrimSpace(in.Reason),
		ActorID:   &actorID,
	})
	if err != nil {
		return nil, err
	}
	logger.WithCtx(ctx).Info("manual stock movement",
		"product_id", productID, "type", mv.Type, "quantity", mv.Quantity, "actor_id", actorID)
	return mv, nil
}
