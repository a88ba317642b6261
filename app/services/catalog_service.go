package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/stockpile/app/models"
	"github.com/shashiranjanraj/stockpile/app/repositories"
	"github.com/shashiranjanraj/stockpile/pkg/apperr"
	"github.com/shashiranjanraj/stockpile/pkg/database"
	"github.com/shashiranjanraj/stockpile/pkg/hydrate"
	"github.com/shashiranjanraj/stockpile/pkg/resource"
	"github.com/shashiranjanraj/stockpile/pkg/slug"
)

// CategoryInput creates or renames a category.
type CategoryInput struct {
	Name string `json:"name" validate:"required,max=50"`
}

// SubCategoryInput creates a sub-category under a category given by name.
// The category is created when it does not exist yet.
type SubCategoryInput struct {
	Name     string `json:"name" validate:"required,max=50"`
	Category string `json:"category" validate:"required,max=50"`
}

// SubCategoryUpdate renames a sub-category or moves it to another category.
type SubCategoryUpdate struct {
	Name     *string `json:"name" validate:"omitnil,min=1,max=50"`
	Category *string `json:"category" validate:"omitnil,min=1,max=50"`
}

// CatalogService manages categories and sub-categories.
type CatalogService struct {
	db   *gorm.DB
	h    *hydrate.Hydrator
	cats *repositories.CategoryRepository
	subs *repositories.SubCategoryRepository
}

func NewCatalogService(db *gorm.DB, h *hydrate.Hydrator) *CatalogService {
	return &CatalogService{
		db:   db,
		h:    h,
		cats: repositories.NewCategoryRepository(db),
		subs: repositories.NewSubCategoryRepository(db),
	}
}

func (s *CatalogService) ListCategories(ctx context.Context, page, size int) (Listing, error) {
	rows, meta, err := s.cats.Page(ctx, page, size)
	if err != nil {
		return Listing{}, err
	}
	return present(ctx, s.h, rows, meta)
}

func (s *CatalogService) RetrieveCategory(ctx context.Context, categorySlug string) (resource.Record, error) {
	c, err := s.cats.FindBySlug(ctx, categorySlug)
	if err != nil {
		return resource.Record{}, err
	}
	return resource.New(c), nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (resource.Record, error) {
	if err := requireSlug("name", in.Name); err != nil {
		return resource.Record{}, err
	}
	c := models.Category{Name: in.Name}
	err := database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.cats.WithTx(tx).Create(ctx, &c); err != nil {
			return categoryConflict(err, in.Name)
		}
		return nil
	})
	if err != nil {
		return resource.Record{}, err
	}
	return resource.New(c), nil
}

// UpdateCategory renames a category; its slug follows the new name.
func (s *CatalogService) UpdateCategory(ctx context.Context, categorySlug string, in CategoryInput) (resource.Record, error) {
	if err := requireSlug("name", in.Name); err != nil {
		return resource.Record{}, err
	}
	var c models.Category
	err := database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		cats := s.cats.WithTx(tx)
		var err error
		if c, err = cats.FindBySlug(ctx, categorySlug); err != nil {
			return err
		}
		c.Name = in.Name
		if err := cats.Save(ctx, &c); err != nil {
			return categoryConflict(err, in.Name)
		}
		return nil
	})
	if err != nil {
		return resource.Record{}, err
	}
	return resource.New(c), nil
}

// DeleteCategory removes the category with its sub-categories, their items
// and everything hanging off those items.
func (s *CatalogService) DeleteCategory(ctx context.Context, categorySlug string) error {
	return database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		c, err := s.cats.WithTx(tx).FindBySlug(ctx, categorySlug)
		if err != nil {
			return err
		}

		subIDs, err := s.subs.WithTx(tx).IDsByCategory(ctx, c.ID)
		if err != nil {
			return err
		}

		items := repositories.NewItemRepository(tx)
		byCategory, err := items.IDsWhere(ctx, "category_id", []uint{c.ID})
		if err != nil {
			return err
		}
		bySub, err := items.IDsWhere(ctx, "sub_category_id", subIDs)
		if err != nil {
			return err
		}

		if err := purgeItems(ctx, tx, append(byCategory, bySub...)); err != nil {
			return err
		}
		if err := s.subs.WithTx(tx).Delete(ctx, subIDs...); err != nil {
			return err
		}
		return s.cats.WithTx(tx).Delete(ctx, c.ID)
	})
}

func (s *CatalogService) ListSubCategories(ctx context.Context, page, size int) (Listing, error) {
	rows, meta, err := s.subs.Page(ctx, page, size)
	if err != nil {
		return Listing{}, err
	}
	return present(ctx, s.h, rows, meta)
}

func (s *CatalogService) RetrieveSubCategory(ctx context.Context, subSlug string) (resource.Record, error) {
	sc, err := s.subs.FindBySlug(ctx, subSlug)
	if err != nil {
		return resource.Record{}, err
	}
	return presentOne(ctx, s.h, sc)
}

func (s *CatalogService) CreateSubCategory(ctx context.Context, in SubCategoryInput) (resource.Record, error) {
	if err := requireSlug("name", in.Name); err != nil {
		return resource.Record{}, err
	}
	if err := requireSlug("category", in.Category); err != nil {
		return resource.Record{}, err
	}
	var sc models.SubCategory
	err := database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		c, _, err := s.cats.WithTx(tx).FirstOrCreate(ctx, in.Category)
		if err != nil {
			return categoryConflict(err, in.Category)
		}
		sc = models.SubCategory{Name: in.Name, CategoryID: c.ID}
		if err := s.subs.WithTx(tx).Create(ctx, &sc); err != nil {
			return subCategoryConflict(err, in.Name)
		}
		return nil
	})
	if err != nil {
		return resource.Record{}, err
	}
	return presentOne(ctx, s.h, sc)
}

func (s *CatalogService) UpdateSubCategory(ctx context.Context, subSlug string, in SubCategoryUpdate) (resource.Record, error) {
	if in.Name != nil {
		if err := requireSlug("name", *in.Name); err != nil {
			return resource.Record{}, err
		}
	}
	if in.Category != nil {
		if err := requireSlug("category", *in.Category); err != nil {
			return resource.Record{}, err
		}
	}
	var sc models.SubCategory
	err := database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		subs := s.subs.WithTx(tx)
		var err error
		if sc, err = subs.FindBySlug(ctx, subSlug); err != nil {
			return err
		}

		if in.Category != nil {
			c, _, err := s.cats.WithTx(tx).FirstOrCreate(ctx, *in.Category)
			if err != nil {
				return categoryConflict(err, *in.Category)
			}
			if c.ID != sc.CategoryID {
				// Items follow their sub-category.
				err := tx.WithContext(ctx).Model(&models.Item{}).
					Where("sub_category_id = ?", sc.ID).
					Update("category_id", c.ID).Error
				if err != nil {
					return err
				}
				sc.CategoryID = c.ID
			}
		}
		if in.Name != nil {
			sc.Name = *in.Name
		}
		if err := subs.Save(ctx, &sc); err != nil {
			return subCategoryConflict(err, sc.Name)
		}
		return nil
	})
	if err != nil {
		return resource.Record{}, err
	}
	return presentOne(ctx, s.h, sc)
}

// DeleteSubCategory removes the sub-category and its items.
func (s *CatalogService) DeleteSubCategory(ctx context.Context, subSlug string) error {
	return database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		sc, err := s.subs.WithTx(tx).FindBySlug(ctx, subSlug)
		if err != nil {
			return err
		}
		ids, err := repositories.NewItemRepository(tx).IDsWhere(ctx, "sub_category_id", []uint{sc.ID})
		if err != nil {
			return err
		}
		if err := purgeItems(ctx, tx, ids); err != nil {
			return err
		}
		return s.subs.WithTx(tx).Delete(ctx, sc.ID)
	})
}

// purgeItems deletes items with their stock rows and supply records.
func purgeItems(ctx context.Context, tx *gorm.DB, ids []uint) error {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil
	}
	if err := repositories.NewSupplyRepository(tx).DeleteByItems(ctx, ids...); err != nil {
		return err
	}
	if err := repositories.NewStockRepository(tx).DeleteByItems(ctx, ids...); err != nil {
		return err
	}
	return repositories.NewItemRepository(tx).Delete(ctx, ids...)
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func categoryConflict(err error, name string) error {
	if repositories.IsDuplicate(err) {
		return apperr.Wrap(apperr.Conflict, err, "Category %s already exists (slug %s).", name, slug.Make(name))
	}
	return err
}

func subCategoryConflict(err error, name string) error {
	if repositories.IsDuplicate(err) {
		return apperr.Wrap(apperr.Conflict, err, "SubCategory %s already exists (slug %s).", name, slug.Make(name))
	}
	return err
}
