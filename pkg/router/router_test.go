package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupPrefixAndMiddleware(t *testing.T) {
	r := New()
	var order []string
	mw := func(tag string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				order = append(order, tag)
				next.ServeHTTP(w, req)
			})
		}
	}

	dash := r.Group("/dashboard", mw("group"))
	dash.Post("/orders/{id}/update-status", "dashboard.orders.status", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, mw("route"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/dashboard/orders/5/update-status", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"group", "route"}, order)
}

func TestURL(t *testing.T) {
	r := New()
	r.Get("/order/{id}", "orders.show", func(http.ResponseWriter, *http.Request) {})

	url, err := r.URL("orders.show", map[string]string{"id": "12"})
	require.NoError(t, err)
	assert.Equal(t, "/order/12", url)

	_, err = r.URL("orders.show", nil)
	assert.Error(t, err)

	_, err = r.URL("missing", nil)
	assert.Error(t, err)
}

func TestRoutesSorted(t *testing.T) {
	r := New()
	noop := func(http.ResponseWriter, *http.Request) {}
	r.Post("/cart/add/{id}", "cart.add", noop)
	r.Get("/cart", "cart.show", noop)
	r.Get("/menu", "", noop)

	routes := r.Routes()
	require.Len(t, routes, 2)
	assert.Equal(t, "/cart", routes[0].Path)
	assert.Equal(t, http.MethodPost, routes[1].Method)
}
