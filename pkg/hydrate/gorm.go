package hydrate

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/stockpile/pkg/slug"
)

// Table resolves ids against a table with id, name and slug columns.
func Table(db *gorm.DB, table string) Resolver {
	return ResolverFunc(func(ctx context.Context, ids []uint) (map[uint]Summary, error) {
		var rows []Summary
		err := db.WithContext(ctx).
			Table(table).
			Select("id", "name", "slug").
			Where("id IN ?", ids).
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", table, err)
		}
		return index(rows), nil
	})
}

// TableSlugged resolves ids against a table without a slug column; the slug
// is derived from name.
func TableSlugged(db *gorm.DB, table string) Resolver {
	return ResolverFunc(func(ctx context.Context, ids []uint) (map[uint]Summary, error) {
		var rows []Summary
		err := db.WithContext(ctx).
			Table(table).
			Select("id", "name").
			Where("id IN ?", ids).
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", table, err)
		}
		for i := range rows {
			rows[i].Slug = slug.Make(rows[i].Name)
		}
		return index(rows), nil
	})
}

func index(rows []Summary) map[uint]Summary {
	out := make(map[uint]Summary, len(rows))
	for _, r := range rows {
		out[r.ID] = r
	}
	return out
}
