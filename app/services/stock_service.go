package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/stockpile/app/models"
	"github.com/shashiranjanraj/stockpile/app/repositories"
	"github.com/shashiranjanraj/stockpile/pkg/database"
	"github.com/shashiranjanraj/stockpile/pkg/hydrate"
	"github.com/shashiranjanraj/stockpile/pkg/resource"
)

// StockUpdate sets the on-hand quantity.
type StockUpdate struct {
	QtyInStock *int `json:"qty_in_stock" validate:"required,gte=0"`
}

type StockService struct {
	db     *gorm.DB
	h      *hydrate.Hydrator
	items  *repositories.ItemRepository
	stocks *repositories.StockRepository
}

func NewStockService(db *gorm.DB, h *hydrate.Hydrator) *StockService {
	return &StockService{
		db:     db,
		h:      h,
		items:  repositories.NewItemRepository(db),
		stocks: repositories.NewStockRepository(db),
	}
}

func (s *StockService) List(ctx context.Context, page, size int) (Listing, error) {
	return s.list(ctx, repositories.StockFilter{}, page, size)
}

func (s *StockService) Retrieve(ctx context.Context, itemSlug string) (resource.Record, error) {
	it, err := s.items.FindBySlug(ctx, itemSlug)
	if err != nil {
		return resource.Record{}, err
	}
	st, err := s.stocks.FindByItem(ctx, it)
	if err != nil {
		return resource.Record{}, err
	}
	return presentOne(ctx, s.h, st)
}

func (s *StockService) Update(ctx context.Context, itemSlug string, in StockUpdate) (resource.Record, error) {
	var (
		it models.Item
		st models.Stock
	)
	err := database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		if it, err = s.items.WithTx(tx).FindBySlug(ctx, itemSlug); err != nil {
			return err
		}
		stocks := s.stocks.WithTx(tx)
		if st, err = stocks.FindByItem(ctx, it); err != nil {
			return err
		}
		if err := stocks.SetQty(ctx, &st, *in.QtyInStock); err != nil {
			return err
		}
		return stocks.Reload(ctx, &st)
	})
	if err != nil {
		return resource.Record{}, err
	}
	stockChanged(ctx, it.ID, it.Slug, st.QtyInStock)
	return presentOne(ctx, s.h, st)
}

func (s *StockService) MinQty(ctx context.Context, min, page, size int) (Listing, error) {
	return s.list(ctx, repositories.StockFilter{MinQty: &min, ByQty: true}, page, size)
}

func (s *StockService) MaxQty(ctx context.Context, max, page, size int) (Listing, error) {
	return s.list(ctx, repositories.StockFilter{MaxQty: &max, ByQty: true}, page, size)
}

// QtyRange lists stock rows with quantity in [min, max], lowest first unless desc.
func (s *StockService) QtyRange(ctx context.Context, min, max int, desc bool, page, size int) (Listing, error) {
	return s.list(ctx, repositories.StockFilter{MinQty: &min, MaxQty: &max, ByQty: true, Desc: desc}, page, size)
}

func (s *StockService) list(ctx context.Context, f repositories.StockFilter, page, size int) (Listing, error) {
	rows, meta, err := s.stocks.Page(ctx, f, page, size)
	if err != nil {
		return Listing{}, err
	}
	return present(ctx, s.h, rows, meta)
}
