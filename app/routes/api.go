// Package routes mounts the inventory and user endpoints.
package routes

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/stockpile/app/controllers"
	"github.com/shashiranjanraj/stockpile/app/services"
	"github.com/shashiranjanraj/stockpile/config"
	"github.com/shashiranjanraj/stockpile/pkg/ctx"
	"github.com/shashiranjanraj/stockpile/pkg/hydrate"
	"github.com/shashiranjanraj/stockpile/pkg/middleware"
	"github.com/shashiranjanraj/stockpile/pkg/router"
)

// Options tunes the behaviour the routes are built with.
type Options struct {
	// RequireAuth puts every mutating inventory endpoint behind a token.
	RequireAuth    bool
	HydrateMode    hydrate.Mode
	SupplierPolicy string
}

// OptionsFromConfig reads Options from the environment.
func OptionsFromConfig() Options {
	return Options{
		RequireAuth:    config.InventoryRequireAuth(),
		HydrateMode:    hydrate.ParseMode(config.HydrateMode()),
		SupplierPolicy: config.SupplierPolicy(),
	}
}

func RegisterAPI(r *router.Router, db *gorm.DB, opts Options) {
	h := services.NewHydrator(db, opts.HydrateMode)
	var (
		authSvc   = services.NewAuthService(db)
		itemSvc   = services.NewItemService(db, h)
		stockSvc  = services.NewStockService(db, h)
		catalog   = services.NewCatalogService(db, h)
		supplySvc = services.NewSupplyService(db, h).WithPolicy(opts.SupplierPolicy)

		items         = controllers.NewItemController(itemSvc, stockSvc)
		categories    = controllers.NewCategoryController(catalog)
		subCategories = controllers.NewSubCategoryController(catalog)
		stocks        = controllers.NewStockController(stockSvc)
		suppliers     = controllers.NewSupplierController(services.NewSupplierService(db, h))
		supplies      = controllers.NewSupplyController(supplySvc)
		users         = controllers.NewAuthController(authSvc)
	)

	requireToken := middleware.Auth(authSvc)
	var guard []router.Middleware
	if opts.RequireAuth {
		guard = append(guard, requireToken)
	}

	g := r.Group("/items")
	g.Get("/", "items.index", ctx.Wrap(items.Index))
	g.Post("/create", "items.store", ctx.Wrap(items.Store), guard...)
	g.Get("/retrieve/{item_slug}", "items.show", ctx.Wrap(items.Show))
	g.Update("/update/{item_slug}", "items.update", ctx.Wrap(items.Update), guard...)
	g.Delete("/delete/{item_slug}", "items.destroy", ctx.Wrap(items.Destroy), guard...)
	g.Get("/category/{category_slug}", "items.by_category", ctx.Wrap(items.ByCategory))
	g.Get("/sub-category/{sub_category_slug}", "items.by_sub_category", ctx.Wrap(items.BySubCategory))
	g.Get("/min-price/{price:[0-9]+}", "items.min_price", ctx.Wrap(items.MinPrice))
	g.Get("/max-price/{price:[0-9]+}", "items.max_price", ctx.Wrap(items.MaxPrice))
	g.Get("/min-qty/{qty:[0-9]+}", "items.min_qty", ctx.Wrap(items.MinQty))
	g.Get("/max-qty/{qty:[0-9]+}", "items.max_qty", ctx.Wrap(items.MaxQty))
	g.Get("/price-min-max/{min:[0-9]+}/{max:[0-9]+}", "items.price_min_max", ctx.Wrap(items.PriceMinMax))
	g.Get("/price-max-min/{max:[0-9]+}/{min:[0-9]+}", "items.price_max_min", ctx.Wrap(items.PriceMaxMin))
	g.Get("/search", "items.search", ctx.Wrap(items.Search))

	g = r.Group("/categories")
	g.Get("/", "categories.index", ctx.Wrap(categories.Index))
	g.Post("/create", "categories.store", ctx.Wrap(categories.Store), guard...)
	g.Get("/retrieve/{slug}", "categories.show", ctx.Wrap(categories.Show))
	g.Update("/update/{slug}", "categories.update", ctx.Wrap(categories.Update), guard...)
	g.Delete("/delete/{slug}", "categories.destroy", ctx.Wrap(categories.Destroy), guard...)

	g = r.Group("/subcategories")
	g.Get("/", "subcategories.index", ctx.Wrap(subCategories.Index))
	g.Post("/create", "subcategories.store", ctx.Wrap(subCategories.Store), guard...)
	g.Get("/retrieve/{slug}", "subcategories.show", ctx.Wrap(subCategories.Show))
	g.Update("/update/{slug}", "subcategories.update", ctx.Wrap(subCategories.Update), guard...)
	g.Delete("/delete/{slug}", "subcategories.destroy", ctx.Wrap(subCategories.Destroy), guard...)

	g = r.Group("/stocks")
	g.Get("/", "stocks.index", ctx.Wrap(stocks.Index))
	g.Get("/retrieve/{item_slug}", "stocks.show", ctx.Wrap(stocks.Show))
	g.Update("/update/{item_slug}", "stocks.update", ctx.Wrap(stocks.Update), guard...)
	g.Get("/qty-range-min-max/{min:[0-9]+}/{max:[0-9]+}", "stocks.qty_min_max", ctx.Wrap(stocks.QtyMinMax))
	g.Get("/qty-range-max-min/{max:[0-9]+}/{min:[0-9]+}", "stocks.qty_max_min", ctx.Wrap(stocks.QtyMaxMin))

	g = r.Group("/suppliers")
	g.Get("/", "suppliers.index", ctx.Wrap(suppliers.Index))
	g.Get("/retrieve/{id:[0-9]+}", "suppliers.show", ctx.Wrap(suppliers.Show))
	g.Get("/email/{email}", "suppliers.show_by_email", ctx.Wrap(suppliers.Show))
	g.Get("/phone/{phone}", "suppliers.show_by_phone", ctx.Wrap(suppliers.Show))
	g.Update("/update/{id:[0-9]+}", "suppliers.update", ctx.Wrap(suppliers.Update), guard...)
	g.Update("/update/email/{email}", "suppliers.update_by_email", ctx.Wrap(suppliers.Update), guard...)
	g.Update("/update/phone/{phone}", "suppliers.update_by_phone", ctx.Wrap(suppliers.Update), guard...)
	g.Delete("/delete/{id:[0-9]+}", "suppliers.destroy", ctx.Wrap(suppliers.Destroy), guard...)
	g.Delete("/delete/email/{email}", "suppliers.destroy_by_email", ctx.Wrap(suppliers.Destroy), guard...)
	g.Delete("/delete/phone/{phone}", "suppliers.destroy_by_phone", ctx.Wrap(suppliers.Destroy), guard...)
	g.Post("/create/{item_slug}", "suppliers.store", ctx.Wrap(supplies.Store), guard...)

	g = r.Group("/supply")
	g.Get("/", "supply.index", ctx.Wrap(supplies.Index))
	g.Post("/create/{item_slug}", "supply.store", ctx.Wrap(supplies.Store), guard...)
	g.Get("/retrieve/{item_slug}", "supply.for_item", ctx.Wrap(supplies.ForItem))
	g.Update("/update/{id:[0-9]+}", "supply.update", ctx.Wrap(supplies.Update), guard...)

	g = r.Group("/users")
	g.Post("/register", "users.register", ctx.Wrap(users.Register))
	g.Post("/login", "users.login", ctx.Wrap(users.Login))
	authed := g.Group("", requireToken)
	authed.Get("/retrieve", "users.show", ctx.Wrap(users.Show))
	authed.Post("/logout", "users.logout", ctx.Wrap(users.Logout))
	authed.Update("/update", "users.update", ctx.Wrap(users.Update))
	authed.Delete("/delete", "users.destroy", ctx.Wrap(users.Destroy))
	authed.Post("/refresh-authkey", "users.refresh_key", ctx.Wrap(users.RefreshKey))
}
