// Package orm is a thin chainable layer over *gorm.DB that adds
// context binding, not-found translation and page-window queries.
package orm

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/stockpile/pkg/apperr"
	"github.com/shashiranjanraj/stockpile/pkg/paginate"
)

type Query struct {
	db *gorm.DB
}

// New starts a query on db (which may be a transaction).
func New(db *gorm.DB) *Query {
	return &Query{db: db}
}

// Raw exposes the underlying *gorm.DB.
func (q *Query) Raw() *gorm.DB { return q.db }

func (q *Query) WithContext(ctx context.Context) *Query {
	return &Query{db: q.db.WithContext(ctx)}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query interface{}, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Joins(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Joins(query, args...)}
}

func (q *Query) Order(value interface{}) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

// First loads the first matching row. A missing row becomes apperr.NotFound
// carrying notFound as its message.
func (q *Query) First(dest interface{}, notFound string) error {
	err := q.db.First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Wrap(apperr.NotFound, err, "%s", notFound)
	}
	return err
}

func (q *Query) Count() (int64, error) {
	var n int64
	err := q.db.Count(&n).Error
	return n, err
}

// Paginate counts the matching rows and loads only the requested page into
// dest. The query must already carry an explicit order.
func (q *Query) Paginate(dest interface{}, page, pageSize int) (paginate.Meta, error) {
	if page <= 0 || pageSize <= 0 {
		return paginate.Meta{}, apperr.Invalidf(paginate.ErrInvalidMessage)
	}

	var total int64
	if err := q.db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return paginate.Meta{}, err
	}

	b, err := paginate.Window(int(total), page, pageSize)
	if err != nil {
		return paginate.Meta{}, err
	}

	meta := paginate.Meta{
		Page:       page,
		PageSize:   pageSize,
		TotalPages: b.TotalPages,
		TotalCount: int(total),
	}
	if b.Limit == 0 {
		return meta, nil
	}

	if err := q.db.Offset(b.Offset).Limit(b.Limit).Find(dest).Error; err != nil {
		return paginate.Meta{}, err
	}
	return meta, nil
}
