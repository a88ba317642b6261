package server

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/stockpile/app/services"
	"github.com/shashiranjanraj/stockpile/pkg/logger"
)

func TestLowStockAlert(t *testing.T) {
	var buf bytes.Buffer
	prev := logger.L
	logger.L = slog.New(slog.NewTextHandler(&buf, nil))
	t.Cleanup(func() { logger.L = prev })

	alert := lowStockAlert(5)
	ctx := context.Background()

	alert(ctx, services.StockLevel{ItemID: 1, Item: "hm-100", Qty: 6})
	alert(ctx, "not a stock level")
	assert.Empty(t, buf.String())

	alert(ctx, services.StockLevel{ItemID: 1, Item: "hm-100", Qty: 5})
	assert.Contains(t, buf.String(), "low stock")
	assert.Contains(t, buf.String(), "item=hm-100")
	assert.Contains(t, buf.String(), "qty=5")
}
