package routes_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/shashiranjanraj/stockpile/database/migrations"

	"github.com/shashiranjanraj/stockpile/app/routes"
	"github.com/shashiranjanraj/stockpile/config"
	"github.com/shashiranjanraj/stockpile/pkg/hydrate"
	"github.com/shashiranjanraj/stockpile/pkg/migration"
	"github.com/shashiranjanraj/stockpile/pkg/router"
	"github.com/shashiranjanraj/stockpile/pkg/testkit"
)

func newAPI(t *testing.T, opts routes.Options) http.Handler {
	t.Helper()
	db := testkit.OpenDB(t)
	require.NoError(t, migration.New(db).Quiet().Run())

	r := router.New()
	routes.RegisterAPI(r, db, opts)
	return r.Handler()
}

func TestFlows(t *testing.T) {
	testkit.RunDir(t, func(t *testing.T) http.Handler {
		return newAPI(t, routes.Options{
			HydrateMode:    hydrate.KeepUnresolved,
			SupplierPolicy: config.SupplierPolicyReject,
		})
	}, "testdata")
}

func TestRequireAuthGuardsMutations(t *testing.T) {
	h := newAPI(t, routes.Options{RequireAuth: true, SupplierPolicy: config.SupplierPolicyReject})

	body := `{"name":"Claw Hammer","sku":"HM-100","price":25,"category":"Tools","sub_category":"Hammers","qty_in_stock":5}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/items/create", strings.NewReader(body)))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Unauthorized AuthKey"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items?page=1&pagesize=10", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
