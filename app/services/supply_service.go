package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/stockpile/app/models"
	"github.com/shashiranjanraj/stockpile/app/repositories"
	"github.com/shashiranjanraj/stockpile/config"
	"github.com/shashiranjanraj/stockpile/pkg/apperr"
	"github.com/shashiranjanraj/stockpile/pkg/database"
	"github.com/shashiranjanraj/stockpile/pkg/hydrate"
	"github.com/shashiranjanraj/stockpile/pkg/logger"
	"github.com/shashiranjanraj/stockpile/pkg/metrics"
	"github.com/shashiranjanraj/stockpile/pkg/resource"
)

// SupplyInput names the supplier (keyed by email) and the units to take
// out of stock.
type SupplyInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email,max=254"`
	Phone       string `json:"phone" validate:"max=32"`
	QtySupplied int    `json:"qty_supplied" validate:"gte=0"`
}

// SupplyUpdate changes the quantity of a recorded supply.
type SupplyUpdate struct {
	QtySupplied *int `json:"qty_supplied" validate:"required,gte=0"`
}

// SupplyResult is what a recorded supply returns.
type SupplyResult struct {
	Supplier resource.Record
	Supply   resource.Record
	Stock    resource.Record
}

type SupplyService struct {
	db       *gorm.DB
	h        *hydrate.Hydrator
	policy   string
	items    *repositories.ItemRepository
	supplies *repositories.SupplyRepository
}

// NewSupplyService reads the supplier policy from config; see WithPolicy.
func NewSupplyService(db *gorm.DB, h *hydrate.Hydrator) *SupplyService {
	return &SupplyService{
		db:       db,
		h:        h,
		policy:   config.SupplierPolicy(),
		items:    repositories.NewItemRepository(db),
		supplies: repositories.NewSupplyRepository(db),
	}
}

// WithPolicy overrides what happens when the supplier email is already known.
func (s *SupplyService) WithPolicy(policy string) *SupplyService {
	cp := *s
	cp.policy = policy
	return &cp
}

func insufficient(requested, available int, item string) error {
	return apperr.New(apperr.Insufficient,
		"Sorry! you requested for %d quantity but in stock there is %d quantity of the %s item",
		requested, available, item)
}

// RecordSupply takes in.QtySupplied units of the item out of stock and
// records who received them. The whole operation is one transaction; on any
// failure nothing changes.
func (s *SupplyService) RecordSupply(ctx context.Context, itemSlug string, in SupplyInput) (SupplyResult, error) {
	var (
		it  models.Item
		sup models.Supplier
		row models.Supply
		st  models.Stock
	)
	err := database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		if it, err = s.items.WithTx(tx).FindBySlug(ctx, itemSlug); err != nil {
			return err
		}
		stocks := repositories.NewStockRepository(tx)
		if st, err = stocks.FindByItem(ctx, it); err != nil {
			return err
		}
		if st.QtyInStock < in.QtySupplied {
			return insufficient(in.QtySupplied, st.QtyInStock, it.Name)
		}

		var created bool
		sup, created, err = repositories.NewSupplierRepository(tx).FirstOrCreate(ctx, models.Supplier{
			Name:  in.Name,
			Email: in.Email,
			Phone: in.Phone,
		})
		if err != nil {
			return err
		}
		if !created && s.policy != config.SupplierPolicyReuse {
			return apperr.Conflictf("Supplier already exists.")
		}

		row = models.Supply{ItemID: it.ID, SupplierID: sup.ID, QtySupplied: in.QtySupplied}
		if err := s.supplies.WithTx(tx).Create(ctx, &row); err != nil {
			return err
		}

		ok, err := stocks.Decrement(ctx, st.ID, in.QtySupplied)
		if err != nil {
			return err
		}
		if !ok {
			// Another transaction took the units after our read.
			if err := stocks.Reload(ctx, &st); err != nil {
				return err
			}
			return insufficient(in.QtySupplied, st.QtyInStock, it.Name)
		}
		return stocks.Reload(ctx, &st)
	})
	s.observe(ctx, itemSlug, in.QtySupplied, err)
	if err != nil {
		return SupplyResult{}, err
	}
	stockChanged(ctx, it.ID, it.Slug, st.QtyInStock)

	out := SupplyResult{Supplier: resource.New(sup)}
	if out.Supply, err = presentOne(ctx, s.h, row); err != nil {
		return SupplyResult{}, err
	}
	if out.Stock, err = presentOne(ctx, s.h, st); err != nil {
		return SupplyResult{}, err
	}
	return out, nil
}

// UpdateSupply changes qty_supplied and moves the difference into or out of
// stock with the same guarded decrement as RecordSupply.
func (s *SupplyService) UpdateSupply(ctx context.Context, id uint, in SupplyUpdate) (resource.Record, error) {
	var (
		row models.Supply
		it  models.Item
		st  models.Stock
	)
	err := database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		supplies := s.supplies.WithTx(tx)
		var err error
		if row, err = supplies.FindByID(ctx, id); err != nil {
			return err
		}
		if err := tx.WithContext(ctx).First(&it, row.ItemID).Error; err != nil {
			return err
		}
		stocks := repositories.NewStockRepository(tx)
		if st, err = stocks.FindByItem(ctx, it); err != nil {
			return err
		}

		switch delta := *in.QtySupplied - row.QtySupplied; {
		case delta > 0:
			ok, err := stocks.Decrement(ctx, st.ID, delta)
			if err != nil {
				return err
			}
			if !ok {
				if err := stocks.Reload(ctx, &st); err != nil {
					return err
				}
				return insufficient(delta, st.QtyInStock, it.Name)
			}
		case delta < 0:
			if err := stocks.Increment(ctx, st.ID, -delta); err != nil {
				return err
			}
		}

		row.QtySupplied = *in.QtySupplied
		if err := supplies.Save(ctx, &row); err != nil {
			return err
		}
		return stocks.Reload(ctx, &st)
	})
	if err != nil {
		return resource.Record{}, err
	}
	stockChanged(ctx, it.ID, it.Slug, st.QtyInStock)
	return presentOne(ctx, s.h, row)
}

func (s *SupplyService) List(ctx context.Context, page, size int) (Listing, error) {
	return s.list(ctx, nil, page, size)
}

// ListForItem lists the supplies of one item.
func (s *SupplyService) ListForItem(ctx context.Context, itemSlug string, page, size int) (Listing, error) {
	it, err := s.items.FindBySlug(ctx, itemSlug)
	if err != nil {
		return Listing{}, err
	}
	return s.list(ctx, &it.ID, page, size)
}

func (s *SupplyService) Retrieve(ctx context.Context, id uint) (resource.Record, error) {
	row, err := s.supplies.FindByID(ctx, id)
	if err != nil {
		return resource.Record{}, err
	}
	return presentOne(ctx, s.h, row)
}

func (s *SupplyService) list(ctx context.Context, itemID *uint, page, size int) (Listing, error) {
	rows, meta, err := s.supplies.Page(ctx, itemID, page, size)
	if err != nil {
		return Listing{}, err
	}
	return present(ctx, s.h, rows, meta)
}

func (s *SupplyService) observe(ctx context.Context, itemSlug string, qty int, err error) {
	result := "ok"
	switch {
	case err == nil:
	case apperr.Is(err, apperr.Insufficient):
		result = "insufficient"
	case apperr.Is(err, apperr.Conflict):
		result = "conflict"
	case apperr.Is(err, apperr.NotFound):
		result = "not_found"
	default:
		result = "error"
	}
	metrics.RecordSupply(result, qty)
	logger.WithCtx(ctx).Info("supply transaction", "item", itemSlug, "qty", qty, "result", result)
}
