// Package ctx gives handlers a single request context with helpers for path
// and query parameters, body binding, pagination and the JSON responses in
// pkg/response.
//
//	func (c *ItemController) Retrieve(x *ctx.Context) {
//	    item, err := c.items.Retrieve(x.Context(), x.Param("item_slug"))
//	    if err != nil {
//	        x.Fail(err)
//	        return
//	    }
//	    x.Message(http.StatusOK, "Item retrieved", "item", item)
//	}
//
//	router.Get("/items/retrieve/{item_slug}", "items.retrieve", ctx.Wrap(c.Retrieve))
package ctx

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/stockpile/pkg/apperr"
	"github.com/shashiranjanraj/stockpile/pkg/bind"
	"github.com/shashiranjanraj/stockpile/pkg/logger"
	"github.com/shashiranjanraj/stockpile/pkg/paginate"
	"github.com/shashiranjanraj/stockpile/pkg/response"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	status int
}

var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// Param returns a URL path parameter.
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamInt returns a path parameter as a non-negative int.
func (c *Context) ParamInt(key string) (int, error) {
	n, err := strconv.Atoi(c.Param(key))
	if err != nil || n < 0 {
		return 0, apperr.Invalidf("Invalid %s.", key)
	}
	return n, nil
}

// ParamUint returns a path parameter as a positive id.
func (c *Context) ParamUint(key string) (uint, error) {
	n, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || n == 0 {
		return 0, apperr.Invalidf("Invalid %s.", key)
	}
	return uint(n), nil
}

// Query returns a trimmed query-string value, "" if absent.
func (c *Context) Query(key string) string {
	return strings.TrimSpace(c.R.URL.Query().Get(key))
}

// PageRequest parses the required page and pagesize query parameters.
func (c *Context) PageRequest() (paginate.Request, error) {
	return paginate.Params(c.R.URL.Query())
}

func (c *Context) Header(key string) string {
	return c.R.Header.Get(key)
}

func (c *Context) Method() string { return c.R.Method }

// Context returns the request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// BindJSON decodes and validates the body into dest. On failure it writes a
// 400 and returns false; the handler should return immediately.
//
//	var in services.ItemInput
//	if !x.BindJSON(&in) {
//	    return
//	}
func (c *Context) BindJSON(dest any) bool {
	fields, err := bind.JSON(c.R, dest)
	if err != nil {
		c.Fail(err)
		return false
	}
	if len(fields) > 0 {
		c.status = http.StatusBadRequest
		response.ValidationError(c.W, "Invalid data.", fields)
		return false
	}
	return true
}

// JSON writes v with status code.
func (c *Context) JSON(code int, v any) {
	c.status = code
	response.JSON(c.W, code, v)
}

// Message writes {"message": msg, key: data}.
func (c *Context) Message(code int, msg, key string, data any) {
	c.status = code
	response.Message(c.W, code, msg, key, data)
}

// Page writes a paginated list.
func (c *Context) Page(msg string, meta paginate.Meta, key string, data any) {
	c.status = http.StatusOK
	response.Page(c.W, msg, meta, key, data)
}

// Error writes {"error": msg}.
func (c *Context) Error(code int, msg string) {
	c.status = code
	response.Error(c.W, code, msg)
}

// Fail maps err to a status and writes it; see response.Fail.
func (c *Context) Fail(err error) {
	c.status = apperr.Status(err)
	response.Fail(c.W, c.R, err)
}

// NoContent writes an empty 204.
func (c *Context) NoContent() {
	c.status = http.StatusNoContent
	response.NoContent(c.W)
}

// Log returns the request-scoped logger.
func (c *Context) Log() *slog.Logger {
	return logger.WithCtx(c.R.Context())
}

// WrittenStatus returns the status written so far, or 0.
func (c *Context) WrittenStatus() int { return c.status }
