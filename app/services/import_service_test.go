package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/stockpile/app/services"
	"github.com/shashiranjanraj/stockpile/pkg/storage"
)

const catalogJSON = `{
  "items_categories": [
    {
      "category": "Tools",
      "sub_category": "Hammers",
      "items": [
        {"name": "Claw Hammer", "sku": "HM-100", "price": 25, "qty_in_stock": 5},
        {"name": "No Sku Hammer", "price": 9, "qty_in_stock": 1},
        {"name": "Broken Hammer", "sku": "HM-BAD", "price": -1, "qty_in_stock": 1}
      ]
    },
    {
      "category": "Garden",
      "sub_category": "Hoses",
      "items": [{"name": "Garden Hose", "sku": "GH-15", "price": 32, "qty_in_stock": 8}]
    }
  ]
}`

func TestImportFileUpsertsBySKU(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	disk := storage.NewLocalDisk(t.TempDir())
	require.NoError(t, disk.Put(ctx, "imports/catalog.json", []byte(catalogJSON)))

	imp := services.NewImportService(f.db)
	rep, err := imp.ImportFile(ctx, disk, "imports/catalog.json")
	require.NoError(t, err)
	assert.Equal(t, services.ImportReport{Created: 2, Skipped: 1, Failed: 1}, rep)
	assert.Equal(t, 5, f.qty(t, "hm-100"))

	_, err = f.supplies.RecordSupply(ctx, "hm-100", acme(2))
	require.NoError(t, err)

	rep, err = imp.ImportFile(ctx, disk, "imports/catalog.json")
	require.NoError(t, err)
	assert.Equal(t, services.ImportReport{Updated: 2, Skipped: 1, Failed: 1}, rep)
	assert.Equal(t, 5, f.qty(t, "hm-100"), "import resets stock to the document")
}

func TestImportFileMissing(t *testing.T) {
	f := setup(t)
	disk := storage.NewLocalDisk(t.TempDir())

	_, err := services.NewImportService(f.db).ImportFile(context.Background(), disk, "nope.json")
	assert.ErrorIs(t, err, storage.ErrNotExist)
}
