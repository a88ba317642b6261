package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/stockpile/app/models"
	"github.com/shashiranjanraj/stockpile/pkg/paginate"
)

type CategoryRepository struct{ base }

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{base{db}}
}

func (r *CategoryRepository) WithTx(tx *gorm.DB) *CategoryRepository {
	return NewCategoryRepository(tx)
}

func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (models.Category, error) {
	var c models.Category
	err := r.q(ctx).Where("slug = ?", slug).First(&c, fmt.Sprintf("Category with slug %s Doesn't Exists", slug))
	return c, err
}

// FindByNameFold matches name case-insensitively.
func (r *CategoryRepository) FindByNameFold(ctx context.Context, name string) (models.Category, error) {
	var c models.Category
	err := r.q(ctx).Where("LOWER(name) = LOWER(?)", name).First(&c, "Category does not exist")
	return c, err
}

// FirstOrCreate returns the category called name, creating it if needed.
func (r *CategoryRepository) FirstOrCreate(ctx context.Context, name string) (models.Category, bool, error) {
	var found []models.Category
	if err := r.q(ctx).Where("name = ?", name).Order("id").Get(&found); err != nil {
		return models.Category{}, false, err
	}
	if len(found) > 0 {
		return found[0], false, nil
	}
	c := models.Category{Name: name}
	if err := r.Create(ctx, &c); err != nil {
		return models.Category{}, false, err
	}
	return c, true, nil
}

func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CategoryRepository) Save(ctx context.Context, c *models.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CategoryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Category{}, id).Error
}

func (r *CategoryRepository) Page(ctx context.Context, page, size int) ([]models.Category, paginate.Meta, error) {
	var out []models.Category
	meta, err := r.q(ctx).Model(&models.Category{}).Order("id").Paginate(&out, page, size)
	return out, meta, err
}

type SubCategoryRepository struct{ base }

func NewSubCategoryRepository(db *gorm.DB) *SubCategoryRepository {
	return &SubCategoryRepository{base{db}}
}

func (r *SubCategoryRepository) WithTx(tx *gorm.DB) *SubCategoryRepository {
	return NewSubCategoryRepository(tx)
}

func (r *SubCategoryRepository) FindBySlug(ctx context.Context, slug string) (models.SubCategory, error) {
	var s models.SubCategory
	err := r.q(ctx).Where("slug = ?", slug).First(&s, fmt.Sprintf("SubCategory with slug %s Doesn't Exists", slug))
	return s, err
}

func (r *SubCategoryRepository) FindByNameFold(ctx context.Context, name string) (models.SubCategory, error) {
	var s models.SubCategory
	err := r.q(ctx).Where("LOWER(name) = LOWER(?)", name).First(&s, "SubCategory does not exist")
	return s, err
}

// FindByName matches name exactly; ok is false when there is none.
func (r *SubCategoryRepository) FindByName(ctx context.Context, name string) (models.SubCategory, bool, error) {
	var out []models.SubCategory
	if err := r.q(ctx).Where("name = ?", name).Order("id").Get(&out); err != nil {
		return models.SubCategory{}, false, err
	}
	if len(out) == 0 {
		return models.SubCategory{}, false, nil
	}
	return out[0], true, nil
}

func (r *SubCategoryRepository) IDsByCategory(ctx context.Context, categoryID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.SubCategory{}).Where("category_id = ?", categoryID).Pluck("id", &ids).Error
	return ids, err
}

func (r *SubCategoryRepository) Create(ctx context.Context, s *models.SubCategory) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SubCategoryRepository) Save(ctx context.Context, s *models.SubCategory) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *SubCategoryRepository) Delete(ctx context.Context, ids ...uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.SubCategory{}).Error
}

func (r *SubCategoryRepository) Page(ctx context.Context, page, size int) ([]models.SubCategory, paginate.Meta, error) {
	var out []models.SubCategory
	meta, err := r.q(ctx).Model(&models.SubCategory{}).Order("id").Paginate(&out, page, size)
	return out, meta, err
}
