package repositories

import (
	"github.com/shashiranjanraj/schoolbar/app/models"
	"github.com/shashiranjanraj/schoolbar/pkg/orm"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(o *models.Order) error {
	return r.db.Omit("Items", "User").Create(o).Error
}

func (r *OrderRepository) CreateItem(item *models.OrderItem) error {
	return r.db.Omit("Product").Create(item).Error
}

// SetTotal and SetStatus update by id so loaded items are never re-saved.
func (r *OrderRepository) SetTotal(o *models.Order) error {
	return r.byID(o.ID).Update("total_amount", o.TotalAmount).Error
}

func (r *OrderRepository) SetStatus(o *models.Order, status models.OrderStatus) error {
	if err := r.byID(o.ID).Update("status", status).Error; err != nil {
		return err
	}
	o.Status = status
	return nil
}

func (r *OrderRepository) byID(id uint) *gorm.DB {
	return r.db.Model(&models.Order{}).Where("id = ?", id)
}

// FindWithItems loads the order with its items and their products.
func (r *OrderRepository) FindWithItems(id uint) (models.Order, error) {
	var o models.Order
	err := r.db.Preload("Items.Product").Preload("User").First(&o, id).Error
	return o, err
}

// FindForUpdate locks the order row and loads its items.
func (r *OrderRepository) FindForUpdate(id uint) (models.Order, error) {
	var o models.Order
	err := forUpdate(r.db).Preload("Items").First(&o, id).Error
	return o, err
}

func (r *OrderRepository) ForUser(userID uint, limit int) ([]models.Order, error) {
	q := r.db.Preload("Items.Product").Where("user_id = ?", userID).Order("created_at desc, id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []models.Order
	err := q.Find(&rows).Error
	return rows, err
}

// Page lists orders for the dashboard, optionally filtered by status.
func (r *OrderRepository) Page(status models.OrderStatus, page, perPage int) ([]models.Order, orm.Pagination, error) {
	q := orm.New(r.db).Model(&models.Order{}).Preload("User").Order("created_at desc, id desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var rows []models.Order
	p, err := q.Paginate(page, perPage, &rows)
	return rows, p, err
}

func (r *OrderRepository) Recent(limit int) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.Preload("User").Order("created_at desc, id desc").Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *OrderRepository) CountScheduledOn(date string) (int64, error) {
	var n int64
	err := r.db.Model(&models.Order{}).Where("scheduled_date = ?", date).Count(&n).Error
	return n, err
}

func (r *OrderRepository) CountByStatus(statuses ...models.OrderStatus) (int64, error) {
	var n int64
	err := r.db.Model(&models.Order{}).Where("status IN ?", statuses).Count(&n).Error
	return n, err
}

// TopProduct is one row of the best-sellers table.
type TopProduct struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

// TopProducts sums item quantities of non-cancelled orders per product.
func (r *OrderRepository) TopProducts(limit int) ([]TopProduct, error) {
	var rows []TopProduct
	err := r.db.Table("order_items").
		Select("order_items.product_id AS product_id, products.name AS name, SUM(order_items.quantity) AS quantity").
		Joins("JOIN products ON products.id = order_items.product_id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status <> ?", models.StatusCancelled).
		Group("order_items.product_id, products.name").
		Order("quantity desc").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
