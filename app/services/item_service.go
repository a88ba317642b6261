package services

import (
	"context"
	"strconv"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/stockpile/app/models"
	"github.com/shashiranjanraj/stockpile/app/repositories"
	"github.com/shashiranjanraj/stockpile/pkg/apperr"
	"github.com/shashiranjanraj/stockpile/pkg/database"
	"github.com/shashiranjanraj/stockpile/pkg/hydrate"
	"github.com/shashiranjanraj/stockpile/pkg/resource"
)

// ItemInput creates an item, its stock row and, on first use, its category
// and sub-category (both given by name).
type ItemInput struct {
	Name        string `json:"name" validate:"required,max=50"`
	SKU         string `json:"sku" validate:"required,max=50"`
	Price       int    `json:"price" validate:"gte=0"`
	Description string `json:"description" validate:"max=1000"`
	Category    string `json:"category" validate:"required,max=50"`
	SubCategory string `json:"sub_category" validate:"required,max=50"`
	QtyInStock  int    `json:"qty_in_stock" validate:"gte=0"`
}

func (in ItemInput) check() error {
	if err := requireSlug("sku", in.SKU); err != nil {
		return err
	}
	if err := requireSlug("category", in.Category); err != nil {
		return err
	}
	return requireSlug("sub_category", in.SubCategory)
}

// ItemUpdate lists the fields an update may change. The slug is derived
// from sku and cannot be set directly.
type ItemUpdate struct {
	Name        *string `json:"name" validate:"omitnil,min=1,max=50"`
	SKU         *string `json:"sku" validate:"omitnil,min=1,max=50"`
	Price       *int    `json:"price" validate:"omitnil,gte=0"`
	Description *string `json:"description" validate:"omitnil,max=1000"`
}

// SearchParams are the raw query values of an item search. Empty values do
// not filter.
type SearchParams struct {
	Name        string
	Price       string
	Qty         string
	Category    string
	SubCategory string
}

type ItemService struct {
	db     *gorm.DB
	h      *hydrate.Hydrator
	items  *repositories.ItemRepository
	stocks *repositories.StockRepository
	cats   *repositories.CategoryRepository
	subs   *repositories.SubCategoryRepository
}

func NewItemService(db *gorm.DB, h *hydrate.Hydrator) *ItemService {
	return &ItemService{
		db:     db,
		h:      h,
		items:  repositories.NewItemRepository(db),
		stocks: repositories.NewStockRepository(db),
		cats:   repositories.NewCategoryRepository(db),
		subs:   repositories.NewSubCategoryRepository(db),
	}
}

func (s *ItemService) List(ctx context.Context, page, size int) (Listing, error) {
	return s.list(ctx, repositories.ItemFilter{}, page, size)
}

func (s *ItemService) Retrieve(ctx context.Context, itemSlug string) (resource.Record, error) {
	it, err := s.items.FindBySlug(ctx, itemSlug)
	if err != nil {
		return resource.Record{}, err
	}
	return presentOne(ctx, s.h, it)
}

func (s *ItemService) Create(ctx context.Context, in ItemInput) (resource.Record, error) {
	if err := in.check(); err != nil {
		return resource.Record{}, err
	}

	var it models.Item
	err := database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		it, _, err = createItem(ctx, tx, in)
		return err
	})
	if err != nil {
		return resource.Record{}, err
	}
	return presentOne(ctx, s.h, it)
}

// createItem resolves the category pair and inserts the item with its stock.
func createItem(ctx context.Context, tx *gorm.DB, in ItemInput) (models.Item, models.Stock, error) {
	c, sc, err := resolveCategories(ctx, tx, in.Category, in.SubCategory)
	if err != nil {
		return models.Item{}, models.Stock{}, err
	}

	it := models.Item{
		Name:          in.Name,
		SKU:           in.SKU,
		Price:         in.Price,
		Description:   in.Description,
		CategoryID:    c.ID,
		SubCategoryID: sc.ID,
	}
	if err := repositories.NewItemRepository(tx).Create(ctx, &it); err != nil {
		return models.Item{}, models.Stock{}, itemConflict(err, in.SKU)
	}

	st := models.Stock{ItemID: it.ID, QtyInStock: in.QtyInStock}
	if err := repositories.NewStockRepository(tx).Create(ctx, &st); err != nil {
		return models.Item{}, models.Stock{}, err
	}
	return it, st, nil
}

// resolveCategories gets or creates the category and its sub-category. A
// sub-category name already used under another category is a conflict.
func resolveCategories(ctx context.Context, tx *gorm.DB, category, subCategory string) (models.Category, models.SubCategory, error) {
	c, _, err := repositories.NewCategoryRepository(tx).FirstOrCreate(ctx, category)
	if err != nil {
		return models.Category{}, models.SubCategory{}, categoryConflict(err, category)
	}

	subs := repositories.NewSubCategoryRepository(tx)
	sc, ok, err := subs.FindByName(ctx, subCategory)
	if err != nil {
		return models.Category{}, models.SubCategory{}, err
	}
	if ok {
		if sc.CategoryID != c.ID {
			return models.Category{}, models.SubCategory{}, apperr.Conflictf(
				"SubCategory %s belongs to another category.", subCategory)
		}
		return c, sc, nil
	}

	sc = models.SubCategory{Name: subCategory, CategoryID: c.ID}
	if err := subs.Create(ctx, &sc); err != nil {
		return models.Category{}, models.SubCategory{}, subCategoryConflict(err, subCategory)
	}
	return c, sc, nil
}

func (s *ItemService) Update(ctx context.Context, itemSlug string, in ItemUpdate) (resource.Record, error) {
	if in.SKU != nil {
		if err := requireSlug("sku", *in.SKU); err != nil {
			return resource.Record{}, err
		}
	}

	var it models.Item
	err := database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		items := s.items.WithTx(tx)
		var err error
		if it, err = items.FindBySlug(ctx, itemSlug); err != nil {
			return err
		}
		if in.Name != nil {
			it.Name = *in.Name
		}
		if in.SKU != nil {
			it.SKU = *in.SKU
		}
		if in.Price != nil {
			it.Price = *in.Price
		}
		if in.Description != nil {
			it.Description = *in.Description
		}
		if err := items.Save(ctx, &it); err != nil {
			return itemConflict(err, it.SKU)
		}
		return nil
	})
	if err != nil {
		return resource.Record{}, err
	}
	return presentOne(ctx, s.h, it)
}

// Delete removes the item with its stock row and supply records.
func (s *ItemService) Delete(ctx context.Context, itemSlug string) error {
	return database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		it, err := s.items.WithTx(tx).FindBySlug(ctx, itemSlug)
		if err != nil {
			return err
		}
		return purgeItems(ctx, tx, []uint{it.ID})
	})
}

func (s *ItemService) ByCategory(ctx context.Context, categorySlug string, page, size int) (Listing, error) {
	c, err := s.cats.FindBySlug(ctx, categorySlug)
	if err != nil {
		return Listing{}, err
	}
	return s.list(ctx, repositories.ItemFilter{CategoryID: &c.ID}, page, size)
}

func (s *ItemService) BySubCategory(ctx context.Context, subSlug string, page, size int) (Listing, error) {
	sc, err := s.subs.FindBySlug(ctx, subSlug)
	if err != nil {
		return Listing{}, err
	}
	return s.list(ctx, repositories.ItemFilter{SubCategoryID: &sc.ID}, page, size)
}

func (s *ItemService) MinPrice(ctx context.Context, min, page, size int) (Listing, error) {
	return s.list(ctx, repositories.ItemFilter{MinPrice: &min, ByPrice: true}, page, size)
}

func (s *ItemService) MaxPrice(ctx context.Context, max, page, size int) (Listing, error) {
	return s.list(ctx, repositories.ItemFilter{MaxPrice: &max, ByPrice: true}, page, size)
}

// PriceRange lists items priced within [min, max], cheapest first unless desc.
func (s *ItemService) PriceRange(ctx context.Context, min, max int, desc bool, page, size int) (Listing, error) {
	return s.list(ctx, repositories.ItemFilter{MinPrice: &min, MaxPrice: &max, ByPrice: true, Desc: desc}, page, size)
}

// Search ANDs every non-empty parameter. Category names match
// case-insensitively and must exist.
func (s *ItemService) Search(ctx context.Context, p SearchParams, page, size int) (Listing, error) {
	f := repositories.ItemFilter{NameContains: p.Name}

	var err error
	if f.Price, err = optionalInt("price", p.Price); err != nil {
		return Listing{}, err
	}
	if f.Qty, err = optionalInt("qty", p.Qty); err != nil {
		return Listing{}, err
	}
	if p.Category != "" {
		c, err := s.cats.FindByNameFold(ctx, p.Category)
		if err != nil {
			return Listing{}, err
		}
		f.CategoryID = &c.ID
	}
	if p.SubCategory != "" {
		sc, err := s.subs.FindByNameFold(ctx, p.SubCategory)
		if err != nil {
			return Listing{}, err
		}
		f.SubCategoryID = &sc.ID
	}
	return s.list(ctx, f, page, size)
}

func (s *ItemService) list(ctx context.Context, f repositories.ItemFilter, page, size int) (Listing, error) {
	rows, meta, err := s.items.Page(ctx, f, page, size)
	if err != nil {
		return Listing{}, err
	}
	return present(ctx, s.h, rows, meta)
}

func optionalInt(name, raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperr.Invalidf("Invalid %s.", name)
	}
	return &n, nil
}

func itemConflict(err error, sku string) error {
	if repositories.IsDuplicate(err) {
		return apperr.Wrap(apperr.Conflict, err, "Item with sku %s already exists.", sku)
	}
	return err
}
