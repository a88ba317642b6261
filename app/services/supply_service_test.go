package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/stockpile/app/services"
	"github.com/shashiranjanraj/stockpile/pkg/apperr"
	"github.com/shashiranjanraj/stockpile/pkg/event"
	"github.com/shashiranjanraj/stockpile/pkg/hydrate"
)

func acme(qty int) services.SupplyInput {
	return services.SupplyInput{Name: "Acme", Email: "acme@example.com", Phone: "555-0100", QtySupplied: qty}
}

func TestRecordSupplyDecrementsStock(t *testing.T) {
	f := setup(t)
	f.item(t, "Claw Hammer", "HM-100", 25, 5, "Tools", "Hammers")

	res, err := f.supplies.RecordSupply(context.Background(), "hm-100", acme(3))
	require.NoError(t, err)

	assert.Equal(t, 2, f.qty(t, "hm-100"))
	assert.Equal(t, "inventory.supplier", res.Supplier.Model)
	assert.Equal(t, "acme@example.com", res.Supplier.Fields["email"])
	assert.Equal(t, 3, res.Supply.Fields["qty_supplied"])
	assert.Equal(t, hydrate.Summary{ID: 1, Name: "Claw Hammer", Slug: "hm-100"}, res.Supply.Fields["item"])
	assert.Equal(t, hydrate.Summary{ID: 1, Name: "Acme", Slug: "acme"}, res.Supply.Fields["supplier"])
	assert.Equal(t, 2, res.Stock.Fields["qty_in_stock"])
}

func TestRecordSupplyInsufficientChangesNothing(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.item(t, "Claw Hammer", "HM-100", 25, 5, "Tools", "Hammers")

	_, err := f.supplies.RecordSupply(ctx, "hm-100", acme(6))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Insufficient))
	assert.EqualError(t, err,
		"Sorry! you requested for 6 quantity but in stock there is 5 quantity of the Claw Hammer item")

	assert.Equal(t, 5, f.qty(t, "hm-100"))
	suppliers, err := f.supplier.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, suppliers.Meta.TotalCount)
	supplies, err := f.supplies.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, supplies.Meta.TotalCount)
}

func TestRecordSupplyWholeStock(t *testing.T) {
	f := setup(t)
	f.item(t, "Claw Hammer", "HM-100", 25, 5, "Tools", "Hammers")

	_, err := f.supplies.RecordSupply(context.Background(), "hm-100", acme(5))
	require.NoError(t, err)
	assert.Equal(t, 0, f.qty(t, "hm-100"))
}

func TestRecordSupplyUnknownItem(t *testing.T) {
	f := setup(t)
	_, err := f.supplies.RecordSupply(context.Background(), "nope", acme(1))
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestRecordSupplyKnownSupplier(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.item(t, "Claw Hammer", "HM-100", 25, 5, "Tools", "Hammers")
	_, err := f.supplies.RecordSupply(ctx, "hm-100", acme(1))
	require.NoError(t, err)

	_, err = f.supplies.RecordSupply(ctx, "hm-100", acme(1))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Conflict))
	assert.EqualError(t, err, "Supplier already exists.")
	assert.Equal(t, 4, f.qty(t, "hm-100"))

	res, err := f.supplies.WithPolicy("reuse").RecordSupply(ctx, "hm-100", acme(2))
	require.NoError(t, err)
	assert.Equal(t, 2, f.qty(t, "hm-100"))
	assert.Equal(t, uint(1), res.Supplier.PK)
}

func TestUpdateSupplyMovesDifference(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.item(t, "Claw Hammer", "HM-100", 25, 10, "Tools", "Hammers")
	res, err := f.supplies.RecordSupply(ctx, "hm-100", acme(4))
	require.NoError(t, err)
	id := res.Supply.PK

	up := func(n int) services.SupplyUpdate { return services.SupplyUpdate{QtySupplied: &n} }

	_, err = f.supplies.UpdateSupply(ctx, id, up(6))
	require.NoError(t, err)
	assert.Equal(t, 4, f.qty(t, "hm-100"))

	_, err = f.supplies.UpdateSupply(ctx, id, up(1))
	require.NoError(t, err)
	assert.Equal(t, 9, f.qty(t, "hm-100"))

	_, err = f.supplies.UpdateSupply(ctx, id, up(20))
	assert.True(t, apperr.Is(err, apperr.Insufficient))
	assert.Equal(t, 9, f.qty(t, "hm-100"))

	rec, err := f.supplies.Retrieve(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Fields["qty_supplied"])

	forItem, err := f.supplies.ListForItem(ctx, "hm-100", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, forItem.Meta.TotalCount)
}

func TestRecordSupplyFiresStockChanged(t *testing.T) {
	f := setup(t)
	t.Cleanup(event.Flush)
	f.item(t, "Claw Hammer", "HM-100", 25, 5, "Tools", "Hammers")

	var got []services.StockLevel
	event.Listen(services.EventStockChanged, func(_ context.Context, p any) {
		got = append(got, p.(services.StockLevel))
	})

	_, err := f.supplies.RecordSupply(context.Background(), "hm-100", acme(3))
	require.NoError(t, err)
	_, err = f.supplies.RecordSupply(context.Background(), "hm-100", acme(9))
	require.Error(t, err)

	assert.Equal(t, []services.StockLevel{{ItemID: 1, Item: "hm-100", Qty: 2}}, got)
}

func TestConcurrentSuppliesNeverOversell(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.item(t, "Claw Hammer", "HM-100", 25, 5, "Tools", "Hammers")

	const workers, each = 10, 2
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, short int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := services.SupplyInput{Name: fmt.Sprintf("Shop %d", i), Email: fmt.Sprintf("shop%d@example.com", i), QtySupplied: each}
			_, err := f.supplies.RecordSupply(ctx, "hm-100", in)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case apperr.Is(err, apperr.Insufficient):
				short++
			default:
				t.Errorf("supply %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, workers, ok+short)
	assert.Equal(t, 2, ok)
	left := f.qty(t, "hm-100")
	assert.GreaterOrEqual(t, left, 0)
	assert.Equal(t, 5-ok*each, left)

	supplies, err := f.supplies.List(ctx, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, ok, supplies.Meta.TotalCount)
}
