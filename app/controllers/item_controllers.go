package controllers

import (
	"fmt"
	"net/http"

	"github.com/shashiranjanraj/stockpile/app/services"
	"github.com/shashiranjanraj/stockpile/pkg/ctx"
)

type ItemController struct {
	items  *services.ItemService
	stocks *services.StockService
}

func NewItemController(items *services.ItemService, stocks *services.StockService) *ItemController {
	return &ItemController{items: items, stocks: stocks}
}

// Index handles GET /items.
func (c *ItemController) Index(x *ctx.Context) {
	list(x, "Successfully retrieved all items", "items", func(page, size int) (services.Listing, error) {
		return c.items.List(x.Context(), page, size)
	})
}

// Store handles POST /items/create.
func (c *ItemController) Store(x *ctx.Context) {
	var in services.ItemInput
	if !x.BindJSON(&in) {
		return
	}
	rec, err := c.items.Create(x.Context(), in)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Message(http.StatusCreated, "Successfully added the item", "item", rec)
}

func (c *ItemController) Show(x *ctx.Context) {
	itemSlug := x.Param("item_slug")
	rec, err := c.items.Retrieve(x.Context(), itemSlug)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Message(http.StatusOK, fmt.Sprintf("Successfully retrieved the item with slug %s", itemSlug), "item", rec)
}

func (c *ItemController) Update(x *ctx.Context) {
	var in services.ItemUpdate
	if !x.BindJSON(&in) {
		return
	}
	itemSlug := x.Param("item_slug")
	rec, err := c.items.Update(x.Context(), itemSlug, in)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Message(http.StatusOK, fmt.Sprintf("Successfully updated the item with slug %s.", itemSlug), "item", rec)
}

func (c *ItemController) Destroy(x *ctx.Context) {
	if err := c.items.Delete(x.Context(), x.Param("item_slug")); err != nil {
		x.Fail(err)
		return
	}
	x.NoContent()
}

func (c *ItemController) ByCategory(x *ctx.Context) {
	s := x.Param("category_slug")
	list(x, "Successfully retrieved all items of category "+s, "items", func(page, size int) (services.Listing, error) {
		return c.items.ByCategory(x.Context(), s, page, size)
	})
}

func (c *ItemController) BySubCategory(x *ctx.Context) {
	s := x.Param("sub_category_slug")
	list(x, "Successfully retrieved all items of sub-category "+s, "items", func(page, size int) (services.Listing, error) {
		return c.items.BySubCategory(x.Context(), s, page, size)
	})
}

func (c *ItemController) MinPrice(x *ctx.Context) {
	n, err := x.ParamInt("price")
	if err != nil {
		x.Fail(err)
		return
	}
	list(x, fmt.Sprintf("Successfully retrieved all items of min price %d", n), "items", func(page, size int) (services.Listing, error) {
		return c.items.MinPrice(x.Context(), n, page, size)
	})
}

func (c *ItemController) MaxPrice(x *ctx.Context) {
	n, err := x.ParamInt("price")
	if err != nil {
		x.Fail(err)
		return
	}
	list(x, fmt.Sprintf("Successfully retrieved all items of max price %d", n), "items", func(page, size int) (services.Listing, error) {
		return c.items.MaxPrice(x.Context(), n, page, size)
	})
}

// MinQty and MaxQty list stock rows, not items.
func (c *ItemController) MinQty(x *ctx.Context) {
	n, err := x.ParamInt("qty")
	if err != nil {
		x.Fail(err)
		return
	}
	list(x, fmt.Sprintf("Successfully retrieved all items of min qty %d", n), "stocks", func(page, size int) (services.Listing, error) {
		return c.stocks.MinQty(x.Context(), n, page, size)
	})
}

func (c *ItemController) MaxQty(x *ctx.Context) {
	n, err := x.ParamInt("qty")
	if err != nil {
		x.Fail(err)
		return
	}
	list(x, fmt.Sprintf("Successfully retrieved all items of max qty %d", n), "stocks", func(page, size int) (services.Listing, error) {
		return c.stocks.MaxQty(x.Context(), n, page, size)
	})
}

// PriceMinMax lists items priced within the bounds, cheapest first.
func (c *ItemController) PriceMinMax(x *ctx.Context) { c.priceRange(x, "min", "max", false) }

// PriceMaxMin lists the same range, most expensive first.
func (c *ItemController) PriceMaxMin(x *ctx.Context) { c.priceRange(x, "max", "min", true) }

func (c *ItemController) priceRange(x *ctx.Context, first, second string, desc bool) {
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
	msg := fmt.Sprintf("Successfully retrieved all items between price %d and %d", a, b)
	list(x, msg, "items", func(page, size int) (services.Listing, error) {
		return c.items.PriceRange(x.Context(), lo, hi, desc, page, size)
	})
}

// Search handles GET /items/search?name=&price=&qty=&category=&sub_category=.
func (c *ItemController) Search(x *ctx.Context) {
	p := services.SearchParams{
		Name:        x.Query("name"),
		Price:       x.Query("price"),
		Qty:         x.Query("qty"),
		Category:    x.Query("category"),
		SubCategory: x.Query("sub_category"),
	}
	list(x, "Successfully retrieved all items matching the search", "items", func(page, size int) (services.Listing, error) {
		return c.items.Search(x.Context(), p, page, size)
	})
}
