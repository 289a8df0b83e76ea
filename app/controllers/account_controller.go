package controllers

import (
	"fmt"

	"github.com/shashiranjanraj/schoolbar/app/models"
	"github.com/shashiranjanraj/schoolbar/app/services/accounts"
	"github.com/shashiranjanraj/schoolbar/pkg/ctx"
	"gorm.io/gorm"
)

type AccountController struct {
	accounts *accounts.Service
}

func NewAccountController(db *gorm.DB) *AccountController {
	return &AccountController{accounts: accounts.NewService(db)}
}

// RegisterForm → GET /register
func (h *AccountController) RegisterForm(c *ctx.Context) {
	c.Page(map[string]any{"roles": models.Roles})
}

// Register → POST /register
func (h *AccountController) Register(c *ctx.Context) {
	var in accounts.RegisterInput
	if !bindInput(c, &in, "/register") {
		return
	}
	u, err := h.accounts.Register(c.Context(), in)
	if err != nil {
		fail(c, err, "/register")
		return
	}
	h.signIn(c, u)
	c.Done("/", fmt.Sprintf("Welcome, %s!", u.FullName()), u)
}

// LoginForm → GET /login
func (h *AccountController) LoginForm(c *ctx.Context) {
	c.Page(map[string]any{})
}

// Login → POST /login
func (h *AccountController) Login(c *ctx.Context) {
	var in accounts.Credentials
	if !bindInput(c, &in, "/login") {
		return
	}
	login, err := h.accounts.Authenticate(c.Context(), in)
	if err != nil {
		fail(c, err, "/login")
		return
	}
	h.signIn(c, &login.User)
	c.Done("/", fmt.Sprintf("Welcome back, %s!", login.User.FullName()), login)
}

// Logout → POST /logout
func (h *AccountController) Logout(c *ctx.Context) {
	sess := c.Session()
	sess.Invalidate()
	sess.Regenerate()
	c.Done("/", "You have been logged out.", nil)
}

// Profile → GET /profile
func (h *AccountController) Profile(c *ctx.Context) {
	ov, err := h.accounts.Profile(c.Context(), c.UserID())
	if err != nil {
		fail(c, err, "/")
		return
	}
	c.Page(map[string]any{
		"user":                ov.User,
		"profile":             ov.User.Profile(),
		"recent_orders":       ov.Orders,
		"recent_transactions": ov.Transactions,
	})
}

// signIn binds the session to u under a fresh id.
func (h *AccountController) signIn(c *ctx.Context, u *models.User) {
	sess := c.Session()
	sess.Regenerate()
	sess.Set("user_id", u.ID)
	sess.Set("role", string(u.Role))
}
