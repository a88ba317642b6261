// Package kernel assembles the HTTP handler: global middleware, operational
// endpoints and the API routes.
package kernel

import (
	"context"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/stockpile/app/routes"
	"github.com/shashiranjanraj/stockpile/pkg/metrics"
	"github.com/shashiranjanraj/stockpile/pkg/middleware"
	"github.com/shashiranjanraj/stockpile/pkg/reqid"
	"github.com/shashiranjanraj/stockpile/pkg/response"
	"github.com/shashiranjanraj/stockpile/pkg/router"
)

// Options configures an HTTP kernel.
type Options struct {
	Routes routes.Options
	// Limiter rate-limits every request. Nil disables limiting.
	Limiter middleware.Limiter
}

type HTTPKernel struct {
	router *router.Router
}

// NewHTTPKernel builds the router around db.
func NewHTTPKernel(db *gorm.DB, opts Options) *HTTPKernel {
	r := router.New()

	// Outermost first.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	if opts.Limiter != nil {
		r.Use(middleware.RateLimit(opts.Limiter))
	}

	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/health", "health", health(db))

	routes.RegisterAPI(r, db, opts.Routes)

	return &HTTPKernel{router: r}
}

func (k *HTTPKernel) Handler() http.Handler { return k.router.Handler() }

// Routes lists every mounted method and path.
func (k *HTTPKernel) Routes() []router.RouteInfo { return k.router.Routes() }

// health reports whether the database answers a ping within two seconds.
func health(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			response.JSON(w, http.StatusServiceUnavailable, response.Body{"status": "unavailable", "database": err.Error()})
			return
		}
		response.JSON(w, http.StatusOK, response.Body{"status": "ok"})
	}
}
