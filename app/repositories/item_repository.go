package repositories

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/stockpile/app/models"
	"github.com/shashiranjanraj/stockpile/pkg/orm"
	"github.com/shashiranjanraj/stockpile/pkg/paginate"
)

// ItemFilter narrows an item listing. Nil and empty fields do not filter.
type ItemFilter struct {
	CategoryID    *uint
	SubCategoryID *uint
	MinPrice      *int
	MaxPrice      *int
	Price         *int
	Qty           *int
	NameContains  string

	// ByPrice orders by price before id; Desc reverses the price order.
	ByPrice bool
	Desc    bool
}

func (f ItemFilter) apply(q *orm.Query) *orm.Query {
	q = q.Model(&models.Item{})
	if f.CategoryID != nil {
		q = q.Where("items.category_id = ?", *f.CategoryID)
	}
	if f.SubCategoryID != nil {
		q = q.Where("items.sub_category_id = ?", *f.SubCategoryID)
	}
	if f.MinPrice != nil {
		q = q.Where("items.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("items.price <= ?", *f.MaxPrice)
	}
	if f.Price != nil {
		q = q.Where("items.price = ?", *f.Price)
	}
	if f.NameContains != "" {
		q = q.Where("LOWER(items.name) LIKE ? ESCAPE '!'", "%"+escapeLike(strings.ToLower(f.NameContains))+"%")
	}
	if f.Qty != nil {
		q = q.Joins("JOIN stocks ON stocks.item_id = items.id").Where("stocks.qty_in_stock = ?", *f.Qty)
	}

	switch {
	case f.ByPrice && f.Desc:
		q = q.Order("items.price DESC").Order("items.id")
	case f.ByPrice:
		q = q.Order("items.price").Order("items.id")
	default:
		q = q.Order("items.id")
	}
	return q
}

type ItemRepository struct{ base }

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{base{db}}
}

func (r *ItemRepository) WithTx(tx *gorm.DB) *ItemRepository {
	return NewItemRepository(tx)
}

func (r *ItemRepository) FindBySlug(ctx context.Context, slug string) (models.Item, error) {
	var it models.Item
	err := r.q(ctx).Where("slug = ?", slug).First(&it, fmt.Sprintf("Item with slug %s Doesn't Exists", slug))
	return it, err
}

// FindBySKU reports ok=false when no item carries sku.
func (r *ItemRepository) FindBySKU(ctx context.Context, sku string) (models.Item, bool, error) {
	var out []models.Item
	if err := r.q(ctx).Where("sku = ?", sku).Get(&out); err != nil {
		return models.Item{}, false, err
	}
	if len(out) == 0 {
		return models.Item{}, false, nil
	}
	return out[0], true, nil
}

// IDsWhere returns the ids of items whose column is one of values.
func (r *ItemRepository) IDsWhere(ctx context.Context, column string, values []uint) ([]uint, error) {
	var ids []uint
	if len(values) == 0 {
		return ids, nil
	}
	err := r.db.WithContext(ctx).Model(&models.Item{}).Where(column+" IN ?", values).Pluck("id", &ids).Error
	return ids, err
}

func (r *ItemRepository) Create(ctx context.Context, it *models.Item) error {
	return r.db.WithContext(ctx).Create(it).Error
}

func (r *ItemRepository) Save(ctx context.Context, it *models.Item) error {
	return r.db.WithContext(ctx).Save(it).Error
}

func (r *ItemRepository) Delete(ctx context.Context, ids ...uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Item{}).Error
}

func (r *ItemRepository) Page(ctx context.Context, f ItemFilter, page, size int) ([]models.Item, paginate.Meta, error) {
	var out []models.Item
	meta, err := f.apply(r.q(ctx)).Paginate(&out, page, size)
	return out, meta, err
}

// StockFilter narrows a stock listing.
type StockFilter struct {
	MinQty *int
	MaxQty *int
	// ByQty orders by quantity before id; Desc reverses the quantity order.
	ByQty bool
	Desc  bool
}

func (f StockFilter) apply(q *orm.Query) *orm.Query {
	q = q.Model(&models.Stock{})
	if f.MinQty != nil {
		q = q.Where("qty_in_stock >= ?", *f.MinQty)
	}
	if f.MaxQty != nil {
		q = q.Where("qty_in_stock <= ?", *f.MaxQty)
	}
	switch {
	case f.ByQty && f.Desc:
		q = q.Order("qty_in_stock DESC").Order("id")
	case f.ByQty:
		q = q.Order("qty_in_stock").Order("id")
	default:
		q = q.Order("id")
	}
	return q
}

type StockRepository struct{ base }

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{base{db}}
}

func (r *StockRepository) WithTx(tx *gorm.DB) *StockRepository {
	return NewStockRepository(tx)
}

func (r *StockRepository) FindByItem(ctx context.Context, it models.Item) (models.Stock, error) {
	var s models.Stock
	err := r.q(ctx).Where("item_id = ?", it.ID).First(&s, fmt.Sprintf("Stock of the item with slug %s Doesn't Exists", it.Slug))
	return s, err
}

func (r *StockRepository) Create(ctx context.Context, s *models.Stock) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// SetQty overwrites the quantity and bumps last_updated.
func (r *StockRepository) SetQty(ctx context.Context, s *models.Stock, qty int) error {
	s.QtyInStock = qty
	return r.db.WithContext(ctx).Model(s).Update("qty_in_stock", qty).Error
}

// Decrement subtracts n only if at least n units are on hand. It reports
// false when the guard failed and nothing changed.
func (r *StockRepository) Decrement(ctx context.Context, stockID uint, n int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Stock{}).
		Where("id = ? AND qty_in_stock >= ?", stockID, n).
		Update("qty_in_stock", gorm.Expr("qty_in_stock - ?", n))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Increment returns n units to stock.
func (r *StockRepository) Increment(ctx context.Context, stockID uint, n int) error {
	return r.db.WithContext(ctx).
		Model(&models.Stock{}).
		Where("id = ?", stockID).
		Update("qty_in_stock", gorm.Expr("qty_in_stock + ?", n)).Error
}

func (r *StockRepository) Reload(ctx context.Context, s *models.Stock) error {
	return r.db.WithContext(ctx).First(s, s.ID).Error
}

func (r *StockRepository) DeleteByItems(ctx context.Context, itemIDs ...uint) error {
	if len(itemIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("item_id IN ?", itemIDs).Delete(&models.Stock{}).Error
}

func (r *StockRepository) Page(ctx context.Context, f StockFilter, page, size int) ([]models.Stock, paginate.Meta, error) {
	var out []models.Stock
	meta, err := f.apply(r.q(ctx)).Paginate(&out, page, size)
	return out, meta, err
}

// escapeLike lower-cases s and escapes LIKE wildcards with '!'.
func escapeLike(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(strings.ToLower(s))
}
