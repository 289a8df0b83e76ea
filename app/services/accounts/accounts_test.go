package accounts_test

import (
	"context"
	"testing"

	"github.com/shashiranjanraj/schoolbar/app/models"
	"github.com/shashiranjanraj/schoolbar/app/services"
	"github.com/shashiranjanraj/schoolbar/app/services/accounts"
	"github.com/shashiranjanraj/schoolbar/internal/fixtures"
	"github.com/shashiranjanraj/schoolbar/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func student(username string) accounts.RegisterInput {
	return accounts.RegisterInput{
		Username:             username,
		Email:                username + "@school.test",
		FirstName:            "Giulia",
		LastName:             "Rossi",
		Password:             "secret-pass",
		PasswordConfirmation: "secret-pass",
		Role:                 "student",
		StudentNumber:        "S-" + username,
		Grade:                "3",
		ClassName:            "3B",
	}
}

func TestRegisterCreatesUserAndProfile(t *testing.T) {
	db := fixtures.DB(t)
	svc := accounts.NewService(db)
	ctx := context.Background()

	u, err := svc.Register(ctx, student("giulia"))
	require.NoError(t, err)
	assert.True(t, u.Active)
	assert.False(t, u.IsStaff)
	assert.True(t, u.Balance.IsZero())

	ov, err := svc.Profile(ctx, u.ID)
	require.NoError(t, err)
	p, ok := ov.User.Profile().(*models.StudentProfile)
	require.True(t, ok)
	assert.Equal(t, "S-giulia", p.StudentNumber)
	assert.Equal(t, "3B", p.ClassName)
	assert.Nil(t, ov.User.Teacher)
}

func TestRegisterStaffGetsStaffFlag(t *testing.T) {
	db := fixtures.DB(t)
	in := accounts.RegisterInput{
		Username: "mario", Email: "mario@school.test",
		Password: "secret-pass", PasswordConfirmation: "secret-pass",
		Role: "admin", EmployeeNumber: "E-1", Position: "Barista",
	}

	u, err := accounts.NewService(db).Register(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, u.IsStaff)
	assert.Equal(t, int64(1), fixtures.Count(t, db, &models.StaffProfile{}))
}

func TestRegisterValidation(t *testing.T) {
	db := fixtures.DB(t)
	svc := accounts.NewService(db)
	ctx := context.Background()
	_, err := svc.Register(ctx, student("taken"))
	require.NoError(t, err)

	cases := map[string]func(*accounts.RegisterInput){
		"username":        func(in *accounts.RegisterInput) { in.Username = "taken" },
		"email":           func(in *accounts.RegisterInput) { in.Email = "TAKEN@school.test" },
		"password":        func(in *accounts.RegisterInput) { in.PasswordConfirmation = "different" },
		"role":            func(in *accounts.RegisterInput) { in.Role = "janitor" },
		"student_number":  func(in *accounts.RegisterInput) { in.StudentNumber = "" },
		"employee_number": func(in *accounts.RegisterInput) { in.Role = "teacher"; in.StudentNumber = "" },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			in := student("fresh")
			mutate(&in)
			_, err := svc.Register(ctx, in)
			require.Error(t, err)
			assert.ErrorIs(t, err, services.ErrValidation)
			assert.Contains(t, services.As(err).Fields, field)
		})
	}
	assert.Equal(t, int64(1), fixtures.Count(t, db, &models.User{}))
}

func TestRegisterDuplicateProfileRollsBackUser(t *testing.T) {
	db := fixtures.DB(t)
	svc := accounts.NewService(db)
	ctx := context.Background()
	_, err := svc.Register(ctx, student("first"))
	require.NoError(t, err)

	in := student("second")
	in.StudentNumber = "S-first"
	_, err = svc.Register(ctx, in)
	assert.ErrorIs(t, err, services.ErrValidation)
	assert.Equal(t, int64(1), fixtures.Count(t, db, &models.User{}))
}

func TestAuthenticate(t *testing.T) {
	db := fixtures.DB(t)
	svc := accounts.NewService(db)
	ctx := context.Background()
	u, err := svc.Register(ctx, student("luca"))
	require.NoError(t, err)

	login, err := svc.Authenticate(ctx, accounts.Credentials{Username: "luca", Password: "secret-pass"})
	require.NoError(t, err)
	claims, err := auth.ValidateToken(login.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "student", claims.Role)

	_, err = svc.Authenticate(ctx, accounts.Credentials{Username: "luca", Password: "wrong-pass"})
	assert.ErrorIs(t, err, services.ErrValidation)
	_, err = svc.Authenticate(ctx, accounts.Credentials{Username: "nobody", Password: "secret-pass"})
	assert.ErrorIs(t, err, services.ErrValidation)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", u.ID).Update("active", false).Error)
	_, err = svc.Authenticate(ctx, accounts.Credentials{Username: "luca", Password: "secret-pass"})
	assert.ErrorIs(t, err, services.ErrPermissionDenied)
}
