package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/stockpile/pkg/router"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func newRouter() *router.Router {
	r := router.New()
	items := r.Group("/items")
	items.Get("/", "items.list", ok)
	items.Post("/create", "items.create", ok)
	items.Update("/update/{item_slug}", "items.update", ok)
	items.Delete("/delete/{item_slug}", "items.delete", ok)
	items.Get("/min-price/{min_price:[0-9]+}", "items.min_price", ok)
	return r
}

func do(r *router.Router, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestTrailingSlashIsOptional(t *testing.T) {
	r := newRouter()
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/items").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/items/").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/items/create/").Code)
}

func TestMethodNotAllowedNamesAllowedMethods(t *testing.T) {
	r := newRouter()

	rec := do(r, http.MethodGet, "/items/create/")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.JSONEq(t, `{"error":"Request method GET not allowed, use POST"}`, rec.Body.String())

	rec = do(r, http.MethodPost, "/items/update/hm-100")
	assert.JSONEq(t, `{"error":"Request method POST not allowed, use PUT or PATCH"}`, rec.Body.String())
	assert.Equal(t, "PUT, PATCH", rec.Header().Get("Allow"))

	rec = do(r, http.MethodGet, "/items/delete/hm-100")
	assert.JSONEq(t, `{"error":"Request method GET not allowed, use DELETE"}`, rec.Body.String())
}

func TestNumericParamsOnlyMatchDigits(t *testing.T) {
	r := newRouter()
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/items/min-price/250").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/items/min-price/cheap").Code)
}

func TestNamedRoutesAndURL(t *testing.T) {
	r := newRouter()

	p, found := r.Path("items.update")
	require.True(t, found)
	assert.Equal(t, "/items/update/{item_slug}", p)

	u, err := r.URL("items.min_price", map[string]string{"min_price": "10"})
	require.NoError(t, err)
	assert.Equal(t, "/items/min-price/10", u)

	_, err = r.URL("items.update", nil)
	assert.Error(t, err)

	var updates int
	for _, ri := range r.Routes() {
		if ri.Name == "items.update" {
			updates++
		}
	}
	assert.Equal(t, 2, updates, "PUT and PATCH are listed separately")
}
