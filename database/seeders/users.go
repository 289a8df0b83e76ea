package seeders

import (
	"context"

	"github.com/shashiranjanraj/schoolbar/app/models"
	"github.com/shashiranjanraj/schoolbar/app/repositories"
	"github.com/shashiranjanraj/schoolbar/app/services/accounts"
	"github.com/shashiranjanraj/schoolbar/app/services/ledger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DevPassword is the password of every seeded account.
const DevPassword = "schoolbar123"

type seedUser struct {
	input   accounts.RegisterInput
	balance string
}

func seedUsers() []seedUser {
	return []seedUser{
		{input: accounts.RegisterInput{
			Username: "admin", Email: "admin@school.test", FirstName: "Anna", LastName: "Bianchi",
			Role: string(models.RoleAdmin), EmployeeNumber: "E-0001", Position: "Manager",
		}},
		{input: accounts.RegisterInput{
			Username: "barista", Email: "bar@school.test", FirstName: "Luca", LastName: "Verdi",
			Role: string(models.RoleStaff), EmployeeNumber: "E-0002", Position: "Bar",
		}},
		{input: accounts.RegisterInput{
			Username: "prof_rossi", Email: "rossi@school.test", FirstName: "Paola", LastName: "Rossi",
			Role: string(models.RoleTeacher), EmployeeNumber: "T-0101", Department: "Mathematics",
		}, balance: "40.00"},
		{input: accounts.RegisterInput{
			Username: "mario", Email: "mario@school.test", FirstName: "Mario", LastName: "Neri",
			Role: string(models.RoleStudent), StudentNumber: "S-2026-001", Grade: "3", ClassName: "3B",
			ParentPhone: "+39 333 000 0001",
		}, balance: "25.00"},
		{input: accounts.RegisterInput{
			Username: "giulia", Email: "giulia@school.test", FirstName: "Giulia", LastName: "Gallo",
			Role: string(models.RoleStudent), StudentNumber: "S-2026-002", Grade: "1", ClassName: "1A",
		}, balance: "10.00"},
	}
}

// SeedUsers registers one account per role and credits starting balances
// through the ledger.
func SeedUsers(db *gorm.DB) error {
	ctx := context.Background()
	users := repositories.NewUserRepository(db)
	svc := accounts.NewService(db)

	for _, su := range seedUsers() {
		exists, err := users.Exists("username", su.input.Username)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		in := su.input
		in.Password, in.PasswordConfirmation = DevPassword, DevPassword
		u, err := svc.Register(ctx, in)
		if err != nil {
			return err
		}
		if su.balance == "" {
			continue
		}
		if _, err := ledger.Apply(ctx, db, ledger.Entry{
			UserID:      u.ID,
			Type:        models.TxTopUp,
			Amount:      decimal.RequireFromString(su.balance),
			Description: "Opening balance",
		}); err != nil {
			return err
		}
	}
	return nil
}
