// Package routes mounts every controller action on the router.
package routes

import (
	"github.com/shashiranjanraj/schoolbar/app/controllers"
	"github.com/shashiranjanraj/schoolbar/pkg/ctx"
	"github.com/shashiranjanraj/schoolbar/pkg/middleware"
	"github.com/shashiranjanraj/schoolbar/pkg/rbac"
	"github.com/shashiranjanraj/schoolbar/pkg/router"
	"gorm.io/gorm"
)

// Register mounts the public pages, the customer area and the staff
// dashboard. middleware.Authenticate must already be in the global stack.
func Register(r *router.Router, db *gorm.DB) {
	catalog := controllers.NewCatalogController(db)
	cart := controllers.NewCartController(db)
	accounts := controllers.NewAccountController(db)
	orders := controllers.NewOrderController(db)
	dash := controllers.NewDashboardController(db)

	r.Get("/", "home", ctx.Wrap(catalog.Home))
	r.Get("/menu", "menu", ctx.Wrap(catalog.Menu))
	r.Get("/product/{id}", "product.show", ctx.Wrap(catalog.Product))

	r.Get("/cart", "cart.show", ctx.Wrap(cart.Show))
	r.Post("/cart/add/{id}", "cart.add", ctx.Wrap(cart.Add))
	r.Post("/cart/remove/{id}", "cart.remove", ctx.Wrap(cart.Remove))
	r.Post("/cart/update/{id}", "cart.update", ctx.Wrap(cart.Update))

	guest := r.Group("", rbac.Guest)
	guest.Get("/register", "register.form", ctx.Wrap(accounts.RegisterForm))
	guest.Post("/register", "register", ctx.Wrap(accounts.Register))
	guest.Get("/login", "login.form", ctx.Wrap(accounts.LoginForm))
	guest.Post("/login", "login", ctx.Wrap(accounts.Login))

	user := r.Group("", middleware.RequireAuth)
	user.Post("/logout", "logout", ctx.Wrap(accounts.Logout))
	user.Get("/profile", "profile", ctx.Wrap(accounts.Profile))
	user.Post("/checkout", "checkout", ctx.Wrap(orders.Checkout))
	user.Get("/orders", "orders.index", ctx.Wrap(orders.Index))
	user.Get("/order/{id}", "orders.show", ctx.Wrap(orders.Show))
	user.Post("/order/{id}/cancel", "orders.cancel", ctx.Wrap(orders.Cancel))
	user.Post("/topup", "topup", ctx.Wrap(orders.TopUp))
	user.Get("/transactions", "transactions", ctx.Wrap(orders.Transactions))

	staff := r.Group("/dashboard", middleware.RequireAuth, rbac.Staff)
	staff.Get("", "dashboard", ctx.Wrap(dash.Index))
	staff.Get("/products", "dashboard.products", ctx.Wrap(dash.Products))
	staff.Post("/products", "dashboard.products.create", ctx.Wrap(dash.CreateProduct))
	staff.Post("/products/{id}", "dashboard.products.update", ctx.Wrap(dash.UpdateProduct))
	staff.Post("/categories", "dashboard.categories.create", ctx.Wrap(dash.CreateCategory))
	staff.Get("/orders", "dashboard.orders", ctx.Wrap(dash.Orders))
	staff.Post("/orders/{id}/update-status", "dashboard.orders.status", ctx.Wrap(dash.UpdateStatus))
	staff.Get("/stock", "dashboard.stock", ctx.Wrap(dash.Stock))
	staff.Post("/stock/{id}", "dashboard.stock.move", ctx.Wrap(dash.Move))
}
