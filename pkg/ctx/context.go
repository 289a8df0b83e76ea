// Package ctx gives handlers a single request context instead of the
// (http.ResponseWriter, *http.Request) pair.
//
//	func ShowOrder(c *ctx.Context) {
//	    id, ok := c.ParamUint("id")
//	    ...
//	    c.Success(order)
//	}
//
//	r.Get("/order/{id}", "orders.show", ctx.Wrap(ShowOrder))
//
// Every response helper agrees on one rule: API clients (Accept or
// Content-Type JSON, bearer token, XHR) get the JSON envelope; browser form
// posts get a flash message and a 303 redirect.
package ctx

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/schoolbar/pkg/bind"
	"github.com/shashiranjanraj/schoolbar/pkg/logger"
	"github.com/shashiranjanraj/schoolbar/pkg/middleware"
	"github.com/shashiranjanraj/schoolbar/pkg/response"
	"github.com/shashiranjanraj/schoolbar/pkg/session"
)

type HandlerFunc func(c *Context)

// Wrap adapts a HandlerFunc to net/http.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

type Context struct {
	W http.ResponseWriter
	R *http.Request

	mu    sync.RWMutex
	store map[string]any
}

var pool = sync.Pool{
	New: func() any { return &Context{store: make(map[string]any)} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	for k := range c.store {
		delete(c.store, k)
	}
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request ──────────────────────────────────────────────────────────────────

func (c *Context) Param(key string) string { return chi.URLParam(c.R, key) }

// ParamUint parses a numeric path parameter such as {id}.
func (c *Context) ParamUint(key string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func (c *Context) Query(key string) string { return strings.TrimSpace(c.R.URL.Query().Get(key)) }

// QueryInt returns the query value as an int, or def when absent or bad.
func (c *Context) QueryInt(key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return n
}

func (c *Context) Header(key string) string { return c.R.Header.Get(key) }

func (c *Context) Context() context.Context { return c.R.Context() }

// Bind decodes the body (JSON or form) into dest and validates it.
func (c *Context) Bind(dest any) (map[string]string, error) {
	return bind.Request(c.R, dest)
}

// WantsJSON reports whether the caller expects the JSON envelope rather
// than a redirect.
func (c *Context) WantsJSON() bool {
	h := c.R.Header
	return strings.Contains(h.Get("Accept"), "application/json") ||
		strings.HasPrefix(h.Get("Content-Type"), "application/json") ||
		strings.HasPrefix(h.Get("Authorization"), "Bearer ") ||
		strings.EqualFold(h.Get("X-Requested-With"), "XMLHttpRequest")
}

// ─── Identity and session ─────────────────────────────────────────────────────

func (c *Context) UserID() uint {
	id, _ := middleware.UserIDFromCtx(c.R)
	return id
}

func (c *Context) Role() string {
	role, _ := middleware.RoleFromCtx(c.R)
	return role
}

func (c *Context) Session() *session.Session { return session.FromCtx(c.R) }

// SaveSession persists pending session changes; failures are logged and
// the response carries on.
func (c *Context) SaveSession() {
	if err := c.Session().Save(c.W); err != nil {
		logger.WithCtx(c.Context()).Error("session save failed", "error", err)
	}
}

// ─── Per-request store ────────────────────────────────────────────────────────

func (c *Context) Set(key string, val any) {
	c.mu.Lock()
	c.store[key] = val
	c.mu.Unlock()
}

func (c *Context) Get(key string) (any, bool) {
	c.mu.RLock()
	v, ok := c.store[key]
	c.mu.RUnlock()
	return v, ok
}

// ─── Responses ────────────────────────────────────────────────────────────────

func (c *Context) JSON(code int, v any) { response.JSON(c.W, code, v) }

func (c *Context) Success(data any) { response.Success(c.W, data) }

func (c *Context) Created(data any) { response.Created(c.W, data) }

func (c *Context) Error(code int, message string) { response.Error(c.W, code, message) }

func (c *Context) NotFound(message string) { c.Error(http.StatusNotFound, message) }

// Page answers a GET with data plus any pending flash messages.
func (c *Context) Page(data map[string]any) {
	sess := c.Session()
	messages := map[string]any{}
	for _, kind := range []string{"success", "error"} {
		if msg, ok := sess.GetFlash(kind); ok {
			messages[kind] = msg
		}
	}
	if len(messages) > 0 {
		data["messages"] = messages
	}
	c.SaveSession()
	c.Success(data)
}

// Done reports a successful write: a 200 envelope for API clients, a
// success flash and redirect for browsers.
func (c *Context) Done(redirect, message string, data any) {
	if c.WantsJSON() {
		c.SaveSession()
		response.Message(c.W, message, data)
		return
	}
	c.Session().Flash("success", message)
	c.Redirect(redirect)
}

// Fail reports a rejected write with status for API clients, or an error
// flash and redirect for browsers.
func (c *Context) Fail(status int, message, redirect string) {
	if c.WantsJSON() {
		c.SaveSession()
		c.Error(status, message)
		return
	}
	c.Session().Flash("error", message)
	c.Redirect(redirect)
}

// Invalid reports field errors: 422 for API clients, the first message
// flashed for browsers.
func (c *Context) Invalid(errs map[string]string, redirect string) {
	if c.WantsJSON() {
		response.ValidationError(c.W, errs)
		return
	}
	c.Session().Flash("error", firstMessage(errs))
	c.Redirect(redirect)
}

// Redirect saves the session and sends 303 See Other.
func (c *Context) Redirect(url string) {
	c.SaveSession()
	http.Redirect(c.W, c.R, url, http.StatusSeeOther)
}

func firstMessage(errs map[string]string) string {
	best := ""
	for field := range errs {
		if best == "" || field < best {
			best = field
		}
	}
	return errs[best]
}
