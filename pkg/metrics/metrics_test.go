package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/stockpile/pkg/metrics"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(metrics.Middleware())
	r.Get("/items/retrieve/{item_slug}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, s := range []string{"hm-100", "sw-200"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/retrieve/"+s, nil))
	}

	got := testutil.ToFloat64(metrics.RequestTotal.WithLabelValues("GET", "/items/retrieve/{item_slug}", "418"))
	assert.Equal(t, float64(2), got)
}

func TestRecordSupply(t *testing.T) {
	before := testutil.ToFloat64(metrics.UnitsSupplied)

	metrics.RecordSupply("ok", 3)
	metrics.RecordSupply("insufficient", 10)

	assert.Equal(t, before+3, testutil.ToFloat64(metrics.UnitsSupplied))
	assert.GreaterOrEqual(t, testutil.ToFloat64(metrics.SupplyTransactions.WithLabelValues("insufficient")), float64(1))
}

func TestHandlerServesRegistry(t *testing.T) {
	metrics.RecordSupply("ok", 1)

	rec := httptest.NewRecorder()
	metrics.Handler()(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "stockpile_inventory_supply_transactions_total"))
}
