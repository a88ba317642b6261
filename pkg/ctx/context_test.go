package ctx_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/stockpile/pkg/apperr"
	appctx "github.com/shashiranjanraj/stockpile/pkg/ctx"
	"github.com/shashiranjanraj/stockpile/pkg/paginate"
)

func TestWrapAndJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	appctx.Wrap(func(c *appctx.Context) {
		c.JSON(http.StatusOK, map[string]any{"ok": true})
	})(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok":true`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestParamsThroughChi(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/items/price-min-max/{min_price}/{max_price}", appctx.Wrap(func(c *appctx.Context) {
		lo, err := c.ParamInt("min_price")
		if err != nil {
			t.Fatalf("min_price: %v", err)
		}
		hi, _ := c.ParamInt("max_price")
		c.JSON(http.StatusOK, map[string]int{"lo": lo, "hi": hi})
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/price-min-max/10/50", nil))

	if got := strings.TrimSpace(rec.Body.String()); got != `{"hi":50,"lo":10}` {
		t.Errorf("unexpected body: %s", got)
	}
}

func TestFailMapsKinds(t *testing.T) {
	rec := httptest.NewRecorder()
	appctx.Wrap(func(c *appctx.Context) {
		c.Fail(apperr.NotFoundf("Item with slug %s Doesn't Exists", "nope"))
	})(rec, httptest.NewRequest(http.MethodGet, "/items/retrieve/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error":"Item with slug nope Doesn't Exists"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestBindJSONWritesValidationError(t *testing.T) {
	type input struct {
		Name string `json:"name" validate:"required"`
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/categories/create", strings.NewReader(`{"name":""}`))
	called := false
	appctx.Wrap(func(c *appctx.Context) {
		var in input
		if !c.BindJSON(&in) {
			return
		}
		called = true
	})(rec, req)

	if called {
		t.Fatal("handler continued after a failed bind")
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"name":"This field is required."`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestPageRequest(t *testing.T) {
	rec := httptest.NewRecorder()
	appctx.Wrap(func(c *appctx.Context) {
		req, err := c.PageRequest()
		if err != nil {
			c.Fail(err)
			return
		}
		c.Page("Items retrieved", paginate.Meta{Page: req.Page, PageSize: req.PageSize}, "items", []string{})
	})(rec, httptest.NewRequest(http.MethodGet, "/items?page=0&pagesize=10", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid page or pagesize.") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}
