package controllers

import (
	"fmt"
	"net/http"

	"github.com/shashiranjanraj/stockpile/app/services"
	"github.com/shashiranjanraj/stockpile/pkg/ctx"
)

type CategoryController struct {
	catalog *services.CatalogService
}

func NewCategoryController(catalog *services.CatalogService) *CategoryController {
	return &CategoryController{catalog: catalog}
}

func (c *CategoryController) Index(x *ctx.Context) {
	list(x, "Successfully retrieved all categories", "categories", func(page, size int) (services.Listing, error) {
		return c.catalog.ListCategories(x.Context(), page, size)
	})
}

func (c *CategoryController) Store(x *ctx.Context) {
	var in services.CategoryInput
	if !x.BindJSON(&in) {
		return
	}
	rec, err := c.catalog.CreateCategory(x.Context(), in)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Message(http.StatusCreated, "Successfully added the category", "category", rec)
}

func (c *CategoryController) Show(x *ctx.Context) {
	s := x.Param("slug")
	rec, err := c.catalog.RetrieveCategory(x.Context(), s)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Message(http.StatusOK, fmt.Sprintf("Successfully retrieved the category with slug %s", s), "category", rec)
}

func (c *CategoryController) Update(x *ctx.Context) {
	var in services.CategoryInput
	if !x.BindJSON(&in) {
		return
	}
	s := x.Param("slug")
	rec, err := c.catalog.UpdateCategory(x.Context(), s, in)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Message(http.StatusOK, fmt.Sprintf("Successfully updated the category with slug %s.", s), "category", rec)
}

func (c *CategoryController) Destroy(x *ctx.Context) {
	if err := c.catalog.DeleteCategory(x.Context(), x.Param("slug")); err != nil {
		x.Fail(err)
		return
	}
	x.NoContent()
}

type SubCategoryController struct {
	catalog *services.CatalogService
}

func NewSubCategoryController(catalog *services.CatalogService) *SubCategoryController {
	return &SubCategoryController{catalog: catalog}
}

func (c *SubCategoryController) Index(x *ctx.Context) {
	list(x, "Successfully retrieved all sub-categories", "subcategories", func(page, size int) (services.Listing, error) {
		return c.catalog.ListSubCategories(x.Context(), page, size)
	})
}

func (c *SubCategoryController) Store(x *ctx.Context) {
	var in services.SubCategoryInput
	if !x.BindJSON(&in) {
		return
	}
	rec, err := c.catalog.CreateSubCategory(x.Context(), in)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Message(http.StatusCreated, "Successfully added the sub-category", "subcategory", rec)
}

func (c *SubCategoryController) Show(x *ctx.Context) {
	s := x.Param("slug")
	rec, err := c.catalog.RetrieveSubCategory(x.Context(), s)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Message(http.StatusOK, fmt.Sprintf("Successfully retrieved the sub-category with slug %s", s), "subcategory", rec)
}

func (c *SubCategoryController) Update(x *ctx.Context) {
	var in services.SubCategoryUpdate
	if !x.BindJSON(&in) {
		return
	}
	s := x.Param("slug")
	rec, err := c.catalog.UpdateSubCategory(x.Context(), s, in)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Message(http.StatusOK, fmt.Sprintf("Successfully updated the sub-category with slug %s.", s), "subcategory", rec)
}

func (c *SubCategoryController) Destroy(x *ctx.Context) {
	if err := c.catalog.DeleteSubCategory(x.Context(), x.Param("slug")); err != nil {
		x.Fail(err)
		return
	}
	x.NoContent()
}
