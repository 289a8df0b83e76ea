// Package orm adds pagination and read-through caching on top of gorm.
package orm

import (
	"math"
	"time"

	"github.com/shashiranjanraj/schoolbar/pkg/cache"
	"gorm.io/gorm"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Pagination describes one page of a listing.
type Pagination struct {
	Page     int   `json:"page"`
	PerPage  int   `json:"per_page"`
	Total    int64 `json:"total"`
	LastPage int   `json:"last_page"`
}

// Query is an immutable query builder. Preloads are applied only when rows
// are fetched, never to the count of a pagination.
type Query struct {
	db       *gorm.DB
	preloads []string
}

func New(db *gorm.DB) *Query {
	return &Query{db: db}
}

func (q *Query) with(db *gorm.DB) *Query {
	return &Query{db: db, preloads: q.preloads}
}

// tx is a fresh statement copy so chained calls never touch q.db.
func (q *Query) tx() *gorm.DB {
	return q.db.Session(&gorm.Session{})
}

func (q *Query) Model(v interface{}) *Query {
	return q.with(q.tx().Model(v))
}

func (q *Query) Where(query interface{}, args ...interface{}) *Query {
	return q.with(q.tx().Where(query, args...))
}

func (q *Query) Order(v interface{}) *Query {
	return q.with(q.tx().Order(v))
}

func (q *Query) Preload(assoc string) *Query {
	return &Query{db: q.db, preloads: append(append([]string(nil), q.preloads...), assoc)}
}

func (q *Query) fetch() *gorm.DB {
	db := q.tx()
	for _, p := range q.preloads {
		db = db.Preload(p)
	}
	return db
}

func (q *Query) Get(dest interface{}) error {
	return q.fetch().Find(dest).Error
}

func (q *Query) First(dest interface{}) error {
	return q.fetch().First(dest).Error
}

// Paginate loads page into dest. page < 1 is treated as 1; perPage is
// clamped to [1, MaxPerPage].
func (q *Query) Paginate(page, perPage int, dest interface{}) (Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	var total int64
	if err := q.tx().Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	p := Pagination{
		Page:     page,
		PerPage:  perPage,
		Total:    total,
		LastPage: int(math.Max(1, math.Ceil(float64(total)/float64(perPage)))),
	}

	err := q.fetch().Offset((page - 1) * perPage).Limit(perPage).Find(dest).Error
	return p, err
}

// Cache serves dest from the cache under key, loading it from the
// database on a miss.
func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	if cache.Get(key, dest) {
		return nil
	}

	if err := q.fetch().Find(dest).Error; err != nil {
		return err
	}

	return cache.Set(key, dest, ttl)
}
