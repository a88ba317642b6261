package controllers

import (
	"fmt"
	"net/http"

	"github.com/shashiranjanraj/stockpile/app/services"
	"github.com/shashiranjanraj/stockpile/pkg/ctx"
	"github.com/shashiranjanraj/stockpile/pkg/response"
)

type SupplierController struct {
	suppliers *services.SupplierService
}

func NewSupplierController(suppliers *services.SupplierService) *SupplierController {
	return &SupplierController{suppliers: suppliers}
}

// lookup picks the supplier key from whichever route parameter is present.
func lookup(x *ctx.Context) (services.SupplierLookup, string, error) {
	if email := x.Param("email"); email != "" {
		return services.ByEmail(email), "email, " + email, nil
	}
	if phone := x.Param("phone"); phone != "" {
		return services.ByPhone(phone), "phone, " + phone, nil
	}
	id, err := x.ParamUint("id")
	if err != nil {
		return nil, "", err
	}
	return services.ByID(id), fmt.Sprintf("id, %d", id), nil
}

func (c *SupplierController) Index(x *ctx.Context) {
	list(x, "Successfully retrieved all suppliers", "suppliers", func(page, size int) (services.Listing, error) {
		return c.suppliers.List(x.Context(), page, size)
	})
}

func (c *SupplierController) Show(x *ctx.Context) {
	find, label, err := lookup(x)
	if err != nil {
		x.Fail(err)
		return
	}
	rec, err := c.suppliers.Retrieve(x.Context(), find)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Message(http.StatusOK, "Successfully retrieved the supplier with "+label, "supplier", rec)
}

func (c *SupplierController) Update(x *ctx.Context) {
	find, label, err := lookup(x)
	if err != nil {
		x.Fail(err)
		return
	}
	var in services.SupplierUpdate
	if !x.BindJSON(&in) {
		return
	}
	rec, err := c.suppliers.Update(x.Context(), find, in)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Message(http.StatusOK, "Successfully updated the supplier with "+label, "supplier", rec)
}

func (c *SupplierController) Destroy(x *ctx.Context) {
	find, _, err := lookup(x)
	if err != nil {
		x.Fail(err)
		return
	}
	if err := c.suppliers.Delete(x.Context(), find); err != nil {
		x.Fail(err)
		return
	}
	x.NoContent()
}

type SupplyController struct {
	supplies *services.SupplyService
}

func NewSupplyController(supplies *services.SupplyService) *SupplyController {
	return &SupplyController{supplies: supplies}
}

func (c *SupplyController) Index(x *ctx.Context) {
	list(x, "Successfully retrieved all supplies", "supplies", func(page, size int) (services.Listing, error) {
		return c.supplies.List(x.Context(), page, size)
	})
}

// Store records a supply of the item and takes the units out of stock.
func (c *SupplyController) Store(x *ctx.Context) {
	var in services.SupplyInput
	if !x.BindJSON(&in) {
		return
	}
	res, err := c.supplies.RecordSupply(x.Context(), x.Param("item_slug"), in)
	if err != nil {
		x.Fail(err)
		return
	}
	x.JSON(http.StatusCreated, response.Body{
		"message":  "Successfully created the supplier.",
		"supplier": res.Supplier,
		"supply":   res.Supply,
		"stock":    res.Stock,
	})
}

// ForItem lists the supplies of one item.
func (c *SupplyController) ForItem(x *ctx.Context) {
	itemSlug := x.Param("item_slug")
	msg := "Successfully retrieved all supplies of the item with slug " + itemSlug
	list(x, msg, "supplies", func(page, size int) (services.Listing, error) {
		return c.supplies.ListForItem(x.Context(), itemSlug, page, size)
	})
}

func (c *SupplyController) Update(x *ctx.Context) {
	id, err := x.ParamUint("id")
	if err != nil {
		x.Fail(err)
		return
	}
	var in services.SupplyUpdate
	if !x.BindJSON(&in) {
		return
	}
	rec, err := c.supplies.UpdateSupply(x.Context(), id, in)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Message(http.StatusOK, fmt.Sprintf("Successfully updated the supply with id, %d", id), "supply", rec)
}
