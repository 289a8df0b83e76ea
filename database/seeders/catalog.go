package seeders

import (
	"context"

	"github.com/shashiranjanraj/schoolbar/app/models"
	"github.com/shashiranjanraj/schoolbar/app/repositories"
	"github.com/shashiranjanraj/schoolbar/app/services/catalog"
	"github.com/shashiranjanraj/schoolbar/app/services/dashboard"
	"gorm.io/gorm"
)

type seedProduct struct {
	name, description, price string
	stock, minStock           int
}

var menu = []struct {
	category string
	products []seedProduct
}{
	{"Panini", []seedProduct{
		{"Panino prosciutto", "Prosciutto cotto e formaggio", "3.50", 20, 5},
		{"Panino vegetariano", "Verdure grigliate", "3.20", 12, 4},
		{"Piadina", "Crudo, squacquerone e rucola", "4.00", 10, 3},
	}},
	{"Bevande", []seedProduct{
		{"Acqua naturale", "50 cl", "0.80", 48, 12},
		{"Succo di frutta", "Pesca o albicocca", "1.20", 30, 8},
		{"Caffè", "Espresso", "1.10", 100, 10},
	}},
	{"Snack", []seedProduct{
		{"Cornetto", "Vuoto, crema o cioccolato", "1.30", 25, 6},
		{"Barretta ai cereali", "", "1.00", 3, 5},
	}},
}

// SeedCatalog creates the demo menu. Initial stock is booked as an in
// movement by the admin account.
func SeedCatalog(db *gorm.DB) error {
	ctx := context.Background()

	admin, err := repositories.NewUserRepository(db).FindByUsername("admin")
	if err != nil {
		return err
	}
	cats := catalog.NewService(db)
	dash := dashboard.NewService(db)

	for _, section := range menu {
		var cat models.Category
		err := db.Where(models.Category{Name: section.category}).Attrs(models.Category{Active: true}).
			FirstOrCreate(&cat).Error
		if err != nil {
			return err
		}

		for _, sp := range section.products {
			var n int64
			if err := db.Model(&models.Product{}).Where("name = ?", sp.name).Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				continue
			}
			if _, err := dash.CreateProduct(ctx, admin.ID, dashboard.ProductInput{
				Name:         sp.name,
				Description:  sp.description,
				CategoryID:   &cat.ID,
				Price:        sp.price,
				MinStock:     sp.minStock,
				Available:    true,
				InitialStock: sp.stock,
			}); err != nil {
				return err
			}
		}
	}
	cats.Forget()
	return nil
}
