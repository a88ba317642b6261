package seeders

import (
	"context"
	_ "embed"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/stockpile/app/services"
	"github.com/shashiranjanraj/stockpile/pkg/logger"
)

//go:embed catalog.json
var sampleCatalog []byte

func init() {
	Register("catalog", SeedCatalog)
}

// SeedCatalog imports the bundled sample catalog. Running it again updates
// the same skus instead of duplicating them.
func SeedCatalog(ctx context.Context, db *gorm.DB) error {
	var doc services.Catalog
	if err := json.Unmarshal(sampleCatalog, &doc); err != nil {
		return err
	}
	rep, err := services.NewImportService(db).Import(ctx, doc)
	if err != nil {
		return err
	}
	logger.Info("seeders: catalog", "report", rep.String())
	return nil
}
