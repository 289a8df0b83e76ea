package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/schoolbar/pkg/validate"
	"github.com/stretchr/testify/assert"
)

type registerInput struct {
	Username             string `json:"username"              validate:"required,alpha_dash,min=3,max=30"`
	Email                string `json:"email"                 validate:"required,email"`
	Password             string `json:"password"              validate:"required,min=8,confirmed"`
	PasswordConfirmation string `json:"password_confirmation"`
	Role                 string `json:"role"                  validate:"required,in=student|teacher|staff|admin"`
	Phone                string `json:"phone"                 validate:"nullable,max=20"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(registerInput{
		Username:             "mario_rossi",
		Email:                "mario@school.test",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
		Role:                 "student",
	})
	assert.False(t, validate.HasErrors(errs), "%v", errs)
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(registerInput{})
	assert.Contains(t, errs, "username")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "role")
	assert.NotContains(t, errs, "phone")
}

func TestConfirmedMismatch(t *testing.T) {
	errs := validate.Struct(registerInput{
		Username: "anna", Email: "anna@school.test", Role: "teacher",
		Password: "secret123", PasswordConfirmation: "secret124",
	})
	assert.Equal(t, "The password confirmation does not match.", errs["password"])
}

func TestInRule(t *testing.T) {
	type in struct {
		Method string `json:"payment_method" validate:"required,in=balance|external"`
	}
	assert.Empty(t, validate.Struct(in{Method: "external"}))
	assert.Contains(t, validate.Struct(in{Method: "card"}), "payment_method")
}

func TestSchedulingRules(t *testing.T) {
	type in struct {
		Date string `json:"scheduled_date" validate:"required,date"`
		Time string `json:"scheduled_time" validate:"required,clock"`
	}
	cases := []struct {
		date, clock string
		bad         []string
	}{
		{"2026-03-02", "10:30", nil},
		{"02/03/2026", "10:30", []string{"scheduled_date"}},
		{"2026-02-30", "10:30", []string{"scheduled_date"}},
		{"2026-03-02", "9:30", []string{"scheduled_time"}},
		{"2026-03-02", "25:00", []string{"scheduled_time"}},
	}
	for _, tc := range cases {
		errs := validate.Struct(in{Date: tc.date, Time: tc.clock})
		assert.Len(t, errs, len(tc.bad), "%s %s", tc.date, tc.clock)
		for _, f := range tc.bad {
			assert.Contains(t, errs, f)
		}
	}
}

func TestMoneyRule(t *testing.T) {
	type in struct {
		Amount string `json:"amount" validate:"required,money"`
	}
	for _, ok := range []string{"10", "10.5", "10.50", "0.01"} {
		assert.Empty(t, validate.Struct(in{Amount: ok}), ok)
	}
	for _, bad := range []string{"0", "-5", "10.555", "ten"} {
		assert.Contains(t, validate.Struct(in{Amount: bad}), "amount", bad)
	}
}

func TestNumericBounds(t *testing.T) {
	type in struct {
		Quantity int `json:"quantity" validate:"gte=1,max=99"`
	}
	assert.Contains(t, validate.Struct(in{Quantity: 0}), "quantity")
	assert.Contains(t, validate.Struct(in{Quantity: 100}), "quantity")
	assert.Empty(t, validate.Struct(in{Quantity: 3}))
}
