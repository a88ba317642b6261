package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/stockpile/app/repositories"
	"github.com/shashiranjanraj/stockpile/config"
	"github.com/shashiranjanraj/stockpile/pkg/database"
	"github.com/shashiranjanraj/stockpile/pkg/logger"
	"github.com/shashiranjanraj/stockpile/pkg/metrics"
	"github.com/shashiranjanraj/stockpile/pkg/slug"
	"github.com/shashiranjanraj/stockpile/pkg/storage"
	"github.com/shashiranjanraj/stockpile/pkg/workerpool"
)

// Catalog is the bulk-upload document:
//
//	{"items_categories": [{"category": "Tools", "sub_category": "Hammers",
//	  "items": [{"name": "Claw Hammer", "sku": "HM-100", "price": 25, "qty_in_stock": 5}]}]}
type Catalog struct {
	Groups []CatalogGroup `json:"items_categories"`
}

type CatalogGroup struct {
	Category    string        `json:"category"`
	SubCategory string        `json:"sub_category"`
	Items       []CatalogItem `json:"items"`
}

type CatalogItem struct {
	Name        string `json:"name"`
	SKU         string `json:"sku"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	QtyInStock  int    `json:"qty_in_stock"`
}

// ImportReport counts what an import did with each item.
type ImportReport struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

func (r ImportReport) String() string {
	return fmt.Sprintf("created=%d updated=%d skipped=%d failed=%d", r.Created, r.Updated, r.Skipped, r.Failed)
}

type ImportService struct {
	db      *gorm.DB
	workers int
}

func NewImportService(db *gorm.DB) *ImportService {
	return &ImportService{db: db, workers: config.ImportWorkers()}
}

// ImportFile reads a catalog document from disk and imports it.
func (s *ImportService) ImportFile(ctx context.Context, disk storage.Disk, path string) (ImportReport, error) {
	raw, err := disk.Get(ctx, path)
	if err != nil {
		return ImportReport{}, fmt.Errorf("import: read %s: %w", path, err)
	}
	var doc Catalog
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ImportReport{}, fmt.Errorf("import: decode %s: %w", path, err)
	}
	return s.Import(ctx, doc)
}

// Import upserts every item of doc by sku. Each item commits on its own, so
// one bad item does not undo the rest. Items without a sku are skipped.
//
// Groups sharing a category run in order on one worker; distinct categories
// run concurrently.
func (s *ImportService) Import(ctx context.Context, doc Catalog) (ImportReport, error) {
	var (
		mu  sync.Mutex
		rep ImportReport
	)
	count := func(outcome string) {
		mu.Lock()
		defer mu.Unlock()
		switch outcome {
		case "created":
			rep.Created++
		case "updated":
			rep.Updated++
		case "skipped":
			rep.Skipped++
		default:
			rep.Failed++
		}
		metrics.ItemsImported.WithLabelValues(outcome).Inc()
	}

	pool := workerpool.New(s.workers)
	var submitErr error
	for _, part := range partition(doc.Groups) {
		if submitErr = pool.Submit(ctx, func() { s.importGroups(ctx, part, count) }); submitErr != nil {
			break
		}
	}
	pool.Wait()
	if submitErr != nil {
		return rep, submitErr
	}
	if err := ctx.Err(); err != nil {
		return rep, err
	}

	logger.WithCtx(ctx).Info("import: done", "created", rep.Created, "updated", rep.Updated, "skipped", rep.Skipped, "failed", rep.Failed)
	return rep, nil
}

func (s *ImportService) importGroups(ctx context.Context, groups []CatalogGroup, count func(string)) {
	log := logger.WithCtx(ctx)
	for _, g := range groups {
		for _, ci := range g.Items {
			if ctx.Err() != nil {
				return
			}
			if ci.SKU == "" {
				log.Warn("import: item without sku skipped", "name", ci.Name, "category", g.Category)
				count("skipped")
				continue
			}

			created, err := s.upsert(ctx, ItemInput{
				Name:        ci.Name,
				SKU:         ci.SKU,
				Price:       ci.Price,
				Description: ci.Description,
				Category:    g.Category,
				SubCategory: g.SubCategory,
				QtyInStock:  ci.QtyInStock,
			})
			switch {
			case err != nil:
				log.Warn("import: item failed", "sku", ci.SKU, "error", err)
				count("failed")
			case created:
				count("created")
			default:
				count("updated")
			}
		}
	}
}

// partition groups the document by category slug, keeping document order.
func partition(groups []CatalogGroup) [][]CatalogGroup {
	index := map[string]int{}
	var out [][]CatalogGroup
	for _, g := range groups {
		key := slug.Make(g.Category)
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, nil)
		}
		out[i] = append(out[i], g)
	}
	return out
}

func (s *ImportService) upsert(ctx context.Context, in ItemInput) (bool, error) {
	if err := validate(in); err != nil {
		return false, err
	}
	if err := in.check(); err != nil {
		return false, err
	}

	var created bool
	err := database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		items := repositories.NewItemRepository(tx)
		it, ok, err := items.FindBySKU(ctx, in.SKU)
		if err != nil {
			return err
		}
		if !ok {
			created = true
			_, _, err := createItem(ctx, tx, in)
			return err
		}

		c, sc, err := resolveCategories(ctx, tx, in.Category, in.SubCategory)
		if err != nil {
			return err
		}
		it.Name = in.Name
		it.Price = in.Price
		it.Description = in.Description
		it.CategoryID = c.ID
		it.SubCategoryID = sc.ID
		if err := items.Save(ctx, &it); err != nil {
			return itemConflict(err, it.SKU)
		}

		stocks := repositories.NewStockRepository(tx)
		st, err := stocks.FindByItem(ctx, it)
		if err != nil {
			return err
		}
		return stocks.SetQty(ctx, &st, in.QtyInStock)
	})
	return created, err
}
