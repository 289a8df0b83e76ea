package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shashiranjanraj/schoolbar/app/models"
	"github.com/shashiranjanraj/schoolbar/app/routes"
	"github.com/shashiranjanraj/schoolbar/app/services/accounts"
	"github.com/shashiranjanraj/schoolbar/internal/fixtures"
	"github.com/shashiranjanraj/schoolbar/pkg/app"
	"github.com/shashiranjanraj/schoolbar/pkg/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const password = "sup3rsecret"

type envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

// browser keeps cookies between requests and never follows redirects, so
// tests see the 303 itself.
type browser struct {
	t    *testing.T
	base string
	http *http.Client
}

func start(t *testing.T) (*gorm.DB, *browser) {
	t.Helper()
	db := fixtures.DB(t)
	srv := httptest.NewServer(app.New().Routes(routes.Register).Handler(db))
	t.Cleanup(srv.Close)
	return db, newBrowser(t, srv.URL)
}

func newBrowser(t *testing.T, base string) *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, base: base, http: &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}}
}

func (b *browser) do(req *http.Request) *http.Response {
	b.t.Helper()
	resp, err := b.http.Do(req)
	require.NoError(b.t, err)
	b.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// api sends body as JSON and decodes the envelope.
func (b *browser) api(method, path string, body any) (int, envelope) {
	b.t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(b.t, err)
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, b.base+path, rd)
	require.NoError(b.t, err)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp := b.do(req)
	var env envelope
	require.NoError(b.t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

// form posts url-encoded values the way an HTML form does.
func (b *browser) form(path string, values url.Values) *http.Response {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodPost, b.base+path, strings.NewReader(values.Encode()))
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) get(path string) *http.Response {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.base+path, nil)
	require.NoError(b.t, err)
	return b.do(req)
}

func register(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()
	in := accounts.RegisterInput{
		Username: username, Email: username + "@school.test",
		Password: password, PasswordConfirmation: password,
		Role: string(role),
	}
	if role == models.RoleStudent {
		in.StudentNumber = "S-" + username
	} else {
		in.EmployeeNumber = "E-" + username
	}
	u, err := accounts.NewService(db).Register(context.Background(), in)
	require.NoError(t, err)
	return u
}

func (b *browser) login(username string) {
	b.t.Helper()
	status, env := b.api(http.MethodPost, "/login", map[string]string{"username": username, "password": password})
	require.Equal(b.t, http.StatusOK, status, env.Message)
}

func TestScenarios(t *testing.T) {
	db := fixtures.DB(t)
	testkit.RunDir(t, app.New().Routes(routes.Register).Handler(db), "testdata")
}

func TestCheckoutAndCancelOverHTTP(t *testing.T) {
	db, b := start(t)
	u := register(t, db, "mario", models.RoleStudent)
	p := fixtures.Product(t, db, "Panino", "3.50", 5)
	b.login(u.Username)

	status, env := b.api(http.MethodPost, "/topup", map[string]string{"amount": "20.00"})
	require.Equal(t, http.StatusOK, status, env.Message)

	status, _ = b.api(http.MethodPost, fmt.Sprintf("/cart/add/%d", p.ID), nil)
	require.Equal(t, http.StatusOK, status)
	status, env = b.api(http.MethodPost, fmt.Sprintf("/cart/update/%d", p.ID), map[string]int{"quantity": 2})
	require.Equal(t, http.StatusOK, status, env.Message)

	status, env = b.api(http.MethodPost, "/checkout", map[string]string{
		"scheduled_date": "2026-03-02", "scheduled_time": "10:30", "payment_method": "balance",
	})
	require.Equal(t, http.StatusOK, status, env.Message)
	var order models.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, "7.00", order.TotalAmount.StringFixed(2))

	status, env = b.api(http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `0`, string(jsonField(t, env.Data, "count")), "checkout empties the cart")

	status, _ = b.api(http.MethodPost, fmt.Sprintf("/order/%d/cancel", order.ID), nil)
	require.Equal(t, http.StatusOK, status)

	status, env = b.api(http.MethodPost, fmt.Sprintf("/order/%d/cancel", order.ID), nil)
	assert.Equal(t, http.StatusConflict, status, env.Message)

	fixtures.Reload(t, db, u, u.ID)
	assert.Equal(t, "20.00", u.Balance.StringFixed(2))
	fixtures.Reload(t, db, &p, p.ID)
	assert.Equal(t, 5, p.Stock)
}

func TestCheckoutFailureKeepsCart(t *testing.T) {
	db, b := start(t)
	u := register(t, db, "giulia", models.RoleStudent)
	p := fixtures.Product(t, db, "Panino", "3.50", 5)
	b.login(u.Username)

	status, _ := b.api(http.MethodPost, fmt.Sprintf("/cart/add/%d", p.ID), nil)
	require.Equal(t, http.StatusOK, status)

	status, env := b.api(http.MethodPost, "/checkout", map[string]string{
		"scheduled_date": "2026-03-02", "scheduled_time": "10:30", "payment_method": "balance",
	})
	assert.Equal(t, http.StatusConflict, status, env.Message)

	status, env = b.api(http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `1`, string(jsonField(t, env.Data, "count")))
	assert.Zero(t, fixtures.Count(t, db, &models.Order{}))
}

func TestCheckoutValidation(t *testing.T) {
	db, b := start(t)
	u := register(t, db, "luca", models.RoleStudent)
	b.login(u.Username)

	status, env := b.api(http.MethodPost, "/checkout", map[string]string{
		"scheduled_date": "02/03/2026", "scheduled_time": "10:30", "payment_method": "cash",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, env.Errors, "scheduled_date")
	assert.Contains(t, env.Errors, "payment_method")
}

func TestBrowserFormsRedirectWithFlash(t *testing.T) {
	db, b := start(t)
	p := fixtures.Product(t, db, "Succo", "1.20", 3)

	resp := b.form(fmt.Sprintf("/cart/add/%d", p.ID), url.Values{})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/menu", resp.Header.Get("Location"))

	req, err := http.NewRequest(http.MethodGet, b.base+"/cart", nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "application/json")
	resp = b.do(req)
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Contains(t, string(env.Data), "Succo added to your cart.")

	resp = b.form("/checkout", url.Values{})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"), "anonymous checkout goes to login")
}

func TestAccessControl(t *testing.T) {
	db, b := start(t)
	register(t, db, "student1", models.RoleStudent)
	register(t, db, "barista", models.RoleStaff)

	status, _ := b.api(http.MethodGet, "/profile", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	b.login("student1")
	status, _ = b.api(http.MethodGet, "/dashboard", nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = b.api(http.MethodGet, "/login", nil)
	assert.Equal(t, http.StatusConflict, status, "guests only")

	staff := newBrowser(t, b.base)
	staff.login("barista")
	status, env := staff.api(http.MethodGet, "/dashboard", nil)
	assert.Equal(t, http.StatusOK, status, env.Message)
	status, _ = staff.api(http.MethodGet, "/dashboard/stock", nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = staff.api(http.MethodPost, "/logout", nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = staff.api(http.MethodGet, "/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestOrderVisibility(t *testing.T) {
	db, b := start(t)
	owner := register(t, db, "owner", models.RoleTeacher)
	register(t, db, "other", models.RoleStudent)
	p := fixtures.Product(t, db, "Caffè", "1.10", 10)

	b.login(owner.Username)
	b.api(http.MethodPost, fmt.Sprintf("/cart/add/%d", p.ID), nil)
	status, env := b.api(http.MethodPost, "/checkout", map[string]string{
		"scheduled_date": "2026-03-02", "scheduled_time": "09:45", "payment_method": "external",
	})
	require.Equal(t, http.StatusOK, status, env.Message)
	var order models.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.True(t, order.IsPriority)

	other := newBrowser(t, b.base)
	other.login("other")
	status, _ = other.api(http.MethodGet, fmt.Sprintf("/order/%d", order.ID), nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = other.api(http.MethodGet, "/order/abc", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestStaffWorkflow(t *testing.T) {
	db, b := start(t)
	register(t, db, "admin", models.RoleAdmin)
	b.login("admin")

	status, env := b.api(http.MethodPost, "/dashboard/categories", map[string]any{"name": "Bevande", "active": true})
	require.Equal(t, http.StatusOK, status, env.Message)
	var cat models.Category
	require.NoError(t, json.Unmarshal(env.Data, &cat))

	status, env = b.api(http.MethodPost, "/dashboard/products", map[string]any{
		"name": "Acqua", "price": "0.80", "category_id": cat.ID,
		"min_stock": 5, "available": true, "initial_stock": 12,
	})
	require.Equal(t, http.StatusOK, status, env.Message)
	var p models.Product
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, 12, p.Stock)

	status, env = b.api(http.MethodPost, fmt.Sprintf("/dashboard/stock/%d", p.ID), map[string]any{
		"type": "adjustment", "quantity": -2, "reason": "Broken bottles",
	})
	require.Equal(t, http.StatusOK, status, env.Message)
	fixtures.Reload(t, db, &p, p.ID)
	assert.Equal(t, 10, p.Stock)

	status, _ = b.api(http.MethodGet, "/dashboard/orders?status=bogus", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, env = b.api(http.MethodGet, "/menu?category="+fmt.Sprint(cat.ID), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), "Acqua")
}

func TestMetricsEndpoint(t *testing.T) {
	_, b := start(t)
	b.get("/")
	resp := b.get("/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "schoolbar_http_requests_total")
}

func jsonField(t *testing.T, raw json.RawMessage, key string) json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &m))
	return m[key]
}
