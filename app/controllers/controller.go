// Package controllers maps HTTP requests onto the domain services. Each
// action binds its input, calls one service method and answers through
// the ctx response helpers.
package controllers

import (
	"fmt"

	"github.com/shashiranjanraj/schoolbar/app/services"
	"github.com/shashiranjanraj/schoolbar/pkg/ctx"
	"github.com/shashiranjanraj/schoolbar/pkg/logger"
)

// fail reports err to the caller. Internal errors are logged and shown
// with a generic message.
func fail(c *ctx.Context, err error, redirect string) {
	e := services.As(err)
	if e.Kind == services.KindInternal {
		logger.WithCtx(c.Context()).Error("request failed", "path", c.R.URL.Path, "error", err)
	}
	if e.Kind == services.KindValidation && len(e.Fields) > 0 && c.WantsJSON() {
		c.Invalid(e.Fields, redirect)
		return
	}
	c.Fail(e.Kind.HTTPStatus(), e.Message, redirect)
}

// bindInput decodes the request into dest. It answers the request itself and
// returns false when the input is unusable.
func bindInput(c *ctx.Context, dest any, redirect string) bool {
	errs, err := c.Bind(dest)
	if err != nil {
		fail(c, services.Validation("The request could not be read.", nil), redirect)
		return false
	}
	if len(errs) > 0 {
		c.Invalid(errs, redirect)
		return false
	}
	return true
}

// paramID reads the numeric {id} path parameter, answering 404 when it is not
// one.
func paramID(c *ctx.Context, redirect string) (uint, bool) {
	v, ok := c.ParamUint("id")
	if !ok {
		fail(c, services.NotFound("Not found."), redirect)
	}
	return v, ok
}

func orderURL(id uint) string { return fmt.Sprintf("/order/%d", id) }
