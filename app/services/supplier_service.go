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
)

// SupplierUpdate lists the fields an update may change.
type SupplierUpdate struct {
	Name  *string `json:"name" validate:"omitnil,min=1,max=100"`
	Email *string `json:"email" validate:"omitnil,email,max=254"`
	Phone *string `json:"phone" validate:"omitnil,max=32"`
}

// SupplierLookup finds the supplier an operation applies to.
type SupplierLookup func(ctx context.Context, r *repositories.SupplierRepository) (models.Supplier, error)

// ByID, ByEmail and ByPhone are the supported supplier lookups.
func ByID(id uint) SupplierLookup {
	return func(ctx context.Context, r *repositories.SupplierRepository) (models.Supplier, error) {
		return r.FindByID(ctx, id)
	}
}

func ByEmail(email string) SupplierLookup {
	return func(ctx context.Context, r *repositories.SupplierRepository) (models.Supplier, error) {
		return r.FindByEmail(ctx, email)
	}
}

func ByPhone(phone string) SupplierLookup {
	return func(ctx context.Context, r *repositories.SupplierRepository) (models.Supplier, error) {
		return r.FindByPhone(ctx, phone)
	}
}

type SupplierService struct {
	db        *gorm.DB
	h         *hydrate.Hydrator
	suppliers *repositories.SupplierRepository
}

func NewSupplierService(db *gorm.DB, h *hydrate.Hydrator) *SupplierService {
	return &SupplierService{db: db, h: h, suppliers: repositories.NewSupplierRepository(db)}
}

func (s *SupplierService) List(ctx context.Context, page, size int) (Listing, error) {
	rows, meta, err := s.suppliers.Page(ctx, page, size)
	if err != nil {
		return Listing{}, err
	}
	return present(ctx, s.h, rows, meta)
}

func (s *SupplierService) Retrieve(ctx context.Context, find SupplierLookup) (resource.Record, error) {
	sup, err := find(ctx, s.suppliers)
	if err != nil {
		return resource.Record{}, err
	}
	return resource.New(sup), nil
}

func (s *SupplierService) Update(ctx context.Context, find SupplierLookup, in SupplierUpdate) (resource.Record, error) {
	var sup models.Supplier
	err := database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		repo := s.suppliers.WithTx(tx)
		var err error
		if sup, err = find(ctx, repo); err != nil {
			return err
		}
		if in.Name != nil {
			sup.Name = *in.Name
		}
		if in.Email != nil {
			sup.Email = *in.Email
		}
		if in.Phone != nil {
			sup.Phone = *in.Phone
		}
		if err := repo.Save(ctx, &sup); err != nil {
			if repositories.IsDuplicate(err) {
				return apperr.Wrap(apperr.Conflict, err, "Supplier with email %s already exists.", sup.Email)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return resource.Record{}, err
	}
	return resource.New(sup), nil
}

// Delete removes the supplier and its supply records. Stock is not restored.
func (s *SupplierService) Delete(ctx context.Context, find SupplierLookup) error {
	return database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		repo := s.suppliers.WithTx(tx)
		sup, err := find(ctx, repo)
		if err != nil {
			return err
		}
		if err := repositories.NewSupplyRepository(tx).DeleteBySupplier(ctx, sup.ID); err != nil {
			return err
		}
		return repo.Delete(ctx, sup.ID)
	})
}
