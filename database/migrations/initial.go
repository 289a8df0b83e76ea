package migrations

import (
	"github.com/shashiranjanraj/schoolbar/app/models"
	"github.com/shashiranjanraj/schoolbar/pkg/migration"
	"gorm.io/gorm"
)

func tables(ts ...interface{}) migration.Func {
	return migration.Func{
		UpFn: func(db *gorm.DB) error { return db.AutoMigrate(ts...) },
		DownFn: func(db *gorm.DB) error {
			for i := len(ts) - 1; i >= 0; i-- {
				if err := db.Migrator().DropTable(ts[i]); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func createUsers() migration.Entry {
	return migration.Entry{
		Name: "20260301000000_create_users_and_profiles",
		Migration: tables(
			&models.User{},
			&models.StudentProfile{},
			&models.TeacherProfile{},
			&models.StaffProfile{},
		),
	}
}

func createCatalog() migration.Entry {
	return migration.Entry{
		Name:      "20260301000001_create_categories_and_products",
		Migration: tables(&models.Category{}, &models.Product{}),
	}
}

func createOrders() migration.Entry {
	return migration.Entry{
		Name:      "20260301000002_create_orders_and_items",
		Migration: tables(&models.Order{}, &models.OrderItem{}),
	}
}

func createLedgers() migration.Entry {
	return migration.Entry{
		Name:      "20260301000003_create_transactions_and_stock_movements",
		Migration: tables(&models.Transaction{}, &models.StockMovement{}),
	}
}
