package controllers

import (
	"fmt"
	"net/http"

	"github.com/shashiranjanraj/stockpile/app/services"
	"github.com/shashiranjanraj/stockpile/pkg/ctx"
)

type StockController struct {
	stocks *services.StockService
}

func NewStockController(stocks *services.StockService) *StockController {
	return &StockController{stocks: stocks}
}

func (c *StockController) Index(x *ctx.Context) {
	list(x, "Successfully retrieved all stocks", "stocks", func(page, size int) (services.Listing, error) {
		return c.stocks.List(x.Context(), page, size)
	})
}

func (c *StockController) Show(x *ctx.Context) {
	itemSlug := x.Param("item_slug")
	rec, err := c.stocks.Retrieve(x.Context(), itemSlug)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Message(http.StatusOK, fmt.Sprintf("Successfully retrieved the stock of the item with slug %s", itemSlug), "stock", rec)
}

func (c *StockController) Update(x *ctx.Context) {
	var in services.StockUpdate
	if !x.BindJSON(&in) {
		return
	}
	itemSlug := x.Param("item_slug")
	rec, err := c.stocks.Update(x.Context(), itemSlug, in)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Message(http.StatusOK, fmt.Sprintf("Successfully updated the stock of the item with slug %s", itemSlug), "stock", rec)
}

func (c *StockController) QtyMinMax(x *ctx.Context) { c.qtyRange(x, "min", "max", false) }

func (c *StockController) QtyMaxMin(x *ctx.Context) { c.qtyRange(x, "max", "min", true) }

func (c *StockController) qtyRange(x *ctx.Context, first, second string, desc bool) {
	a, err := x.ParamInt(first)
	if err != nil {
		x.Fail(err)
		return
	}
	b, err := x.ParamInt(second)
	if err != nil {
		x.Fail(err)
		return
	}
	lo, hi := a, b
	if desc {
		lo, hi = b, a
	}
	msg := fmt.Sprintf("Successfully retrieved all stocks between quantity %d and %d", a, b)
	list(x, msg, "stocks", func(page, size int) (services.Listing, error) {
		return c.stocks.QtyRange(x.Context(), lo, hi, desc, page, size)
	})
}
