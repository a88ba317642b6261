package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/stockpile/app/models"
	"github.com/shashiranjanraj/stockpile/pkg/paginate"
)

type SupplierRepository struct{ base }

func NewSupplierRepository(db *gorm.DB) *SupplierRepository {
	return &SupplierRepository{base{db}}
}

func (r *SupplierRepository) WithTx(tx *gorm.DB) *SupplierRepository {
	return NewSupplierRepository(tx)
}

func (r *SupplierRepository) FindByID(ctx context.Context, id uint) (models.Supplier, error) {
	var s models.Supplier
	err := r.q(ctx).Where("id = ?", id).First(&s, fmt.Sprintf("Supplier with id %d doesn't exist", id))
	return s, err
}

func (r *SupplierRepository) FindByEmail(ctx context.Context, email string) (models.Supplier, error) {
	var s models.Supplier
	err := r.q(ctx).Where("email = ?", email).First(&s, fmt.Sprintf("Supplier with email %s doesn't exist", email))
	return s, err
}

// FindByPhone returns the oldest supplier with phone; phones are not unique.
func (r *SupplierRepository) FindByPhone(ctx context.Context, phone string) (models.Supplier, error) {
	var s models.Supplier
	err := r.q(ctx).Where("phone = ?", phone).Order("id").First(&s, fmt.Sprintf("Supplier with phone %s doesn't exist", phone))
	return s, err
}

// FirstOrCreate looks the supplier up by email and creates it from s when
// missing. created reports which happened.
func (r *SupplierRepository) FirstOrCreate(ctx context.Context, s models.Supplier) (models.Supplier, bool, error) {
	var found []models.Supplier
	if err := r.q(ctx).Where("email = ?", s.Email).Get(&found); err != nil {
		return models.Supplier{}, false, err
	}
	if len(found) > 0 {
		return found[0], false, nil
	}
	return r.createOrFind(ctx, s)
}

// createOrFind inserts s under a savepoint. When a concurrent insert of the
// same email won, the winner's row is returned with created false.
func (r *SupplierRepository) createOrFind(ctx context.Context, s models.Supplier) (models.Supplier, bool, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&s).Error
	})
	if err == nil {
		return s, true, nil
	}
	if !IsDuplicate(err) {
		return models.Supplier{}, false, err
	}
	existing, ferr := r.FindByEmail(ctx, s.Email)
	if ferr != nil {
		return models.Supplier{}, false, fmt.Errorf("supplier %s: %w", s.Email, err)
	}
	return existing, false, nil
}

func (r *SupplierRepository) Save(ctx context.Context, s *models.Supplier) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *SupplierRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Supplier{}, id).Error
}

func (r *SupplierRepository) Page(ctx context.Context, page, size int) ([]models.Supplier, paginate.Meta, error) {
	var out []models.Supplier
	meta, err := r.q(ctx).Model(&models.Supplier{}).Order("id").Paginate(&out, page, size)
	return out, meta, err
}

type SupplyRepository struct{ base }

func NewSupplyRepository(db *gorm.DB) *SupplyRepository {
	return &SupplyRepository{base{db}}
}

func (r *SupplyRepository) WithTx(tx *gorm.DB) *SupplyRepository {
	return NewSupplyRepository(tx)
}

func (r *SupplyRepository) FindByID(ctx context.Context, id uint) (models.Supply, error) {
	var s models.Supply
	err := r.q(ctx).Where("id = ?", id).First(&s, fmt.Sprintf("Supply with id %d doesn't exist", id))
	return s, err
}

func (r *SupplyRepository) Create(ctx context.Context, s *models.Supply) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SupplyRepository) Save(ctx context.Context, s *models.Supply) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *SupplyRepository) DeleteByItems(ctx context.Context, itemIDs ...uint) error {
	if len(itemIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("item_id IN ?", itemIDs).Delete(&models.Supply{}).Error
}

func (r *SupplyRepository) DeleteBySupplier(ctx context.Context, supplierID uint) error {
	return r.db.WithContext(ctx).Where("supplier_id = ?", supplierID).Delete(&models.Supply{}).Error
}

// Page lists supplies, all or those of one item.
func (r *SupplyRepository) Page(ctx context.Context, itemID *uint, page, size int) ([]models.Supply, paginate.Meta, error) {
	q := r.q(ctx).Model(&models.Supply{})
	if itemID != nil {
		q = q.Where("item_id = ?", *itemID)
	}
	var out []models.Supply
	meta, err := q.Order("id").Paginate(&out, page, size)
	return out, meta, err
}
