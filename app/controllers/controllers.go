// Package controllers translates HTTP requests into service calls and
// service results into the JSON bodies of pkg/response.
package controllers

import (
	"github.com/shashiranjanraj/stockpile/app/services"
	"github.com/shashiranjanraj/stockpile/pkg/ctx"
)

// list parses the required page parameters, runs fetch and writes the page
// under key.
func list(x *ctx.Context, msg, key string, fetch func(page, size int) (services.Listing, error)) {
	req, err := x.PageRequest()
	if err != nil {
		x.Fail(err)
		return
	}
	l, err := fetch(req.Page, req.PageSize)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Page(msg, l.Meta, key, l.Records)
}
