// Package services implements the inventory and user operations. Services
// own transactions and return serialized, hydrated records; controllers only
// translate HTTP.
package services

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/stockpile/pkg/apperr"
	"github.com/shashiranjanraj/stockpile/pkg/bind"
	"github.com/shashiranjanraj/stockpile/pkg/event"
	"github.com/shashiranjanraj/stockpile/pkg/hydrate"
	"github.com/shashiranjanraj/stockpile/pkg/paginate"
	"github.com/shashiranjanraj/stockpile/pkg/resource"
	"github.com/shashiranjanraj/stockpile/pkg/slug"
)

// EventStockChanged fires after a committed change to an item's stock with a
// StockLevel payload.
const EventStockChanged = "stock.changed"

// StockLevel is the payload of EventStockChanged.
type StockLevel struct {
	ItemID uint
	Item   string // item slug
	Qty    int
}

func stockChanged(ctx context.Context, itemID uint, item string, qty int) {
	event.Fire(ctx, EventStockChanged, StockLevel{ItemID: itemID, Item: item, Qty: qty})
}

// Listing is one page of serialized records.
type Listing struct {
	Meta    paginate.Meta
	Records []resource.Record
}

// NewHydrator registers the foreign keys each inventory record embeds.
func NewHydrator(db *gorm.DB, mode hydrate.Mode) *hydrate.Hydrator {
	var (
		categories    = hydrate.Relation{Field: "category", Resolver: hydrate.Table(db, "categories")}
		subCategories = hydrate.Relation{Field: "sub_category", Resolver: hydrate.Table(db, "sub_categories")}
		items         = hydrate.Relation{Field: "item", Resolver: hydrate.Table(db, "items")}
		suppliers     = hydrate.Relation{Field: "supplier", Resolver: hydrate.TableSlugged(db, "suppliers")}
	)
	return hydrate.New(mode).
		Register("inventory.item", categories, subCategories).
		Register("inventory.subcategory", categories).
		Register("inventory.stock", items).
		Register("inventory.supply", items, suppliers)
}

// present serializes and hydrates one page of models.
func present[T resource.Model](ctx context.Context, h *hydrate.Hydrator, rows []T, meta paginate.Meta) (Listing, error) {
	recs := resource.Collection(rows)
	if err := h.Hydrate(ctx, recs); err != nil {
		return Listing{}, err
	}
	return Listing{Meta: meta, Records: recs}, nil
}

// presentOne serializes and hydrates a single model.
func presentOne(ctx context.Context, h *hydrate.Hydrator, m resource.Model) (resource.Record, error) {
	return h.One(ctx, resource.New(m))
}

// validate runs struct validation for callers that bypass pkg/bind, such as
// the catalog import.
func validate(v any) error {
	fields := bind.Struct(v)
	if len(fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(fields))
	for f := range fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return apperr.Invalidf("%s: %s", names[0], fields[names[0]])
}

// requireSlug rejects values that normalize to an empty slug.
func requireSlug(field, v string) error {
	if slug.Make(v) == "" {
		return apperr.Invalidf("%s must contain at least one letter or digit.", field)
	}
	return nil
}
