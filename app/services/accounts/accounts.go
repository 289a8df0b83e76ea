// Package accounts registers users with their role profile and checks
// credentials.
package accounts

import (
	"context"
	"strings"

	"github.com/shashiranjanraj/schoolbar/app/models"
	"github.com/shashiranjanraj/schoolbar/app/repositories"
	"github.com/shashiranjanraj/schoolbar/app/services"
	"github.com/shashiranjanraj/schoolbar/pkg/auth"
	"github.com/shashiranjanraj/schoolbar/pkg/database"
	"github.com/shashiranjanraj/schoolbar/pkg/logger"
	"github.com/shashiranjanraj/schoolbar/pkg/validate"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RegisterInput is the registration form. Which profile fields apply
// depends on Role.
type RegisterInput struct {
	Username             string `json:"username"              validate:"required,alpha_dash,max=150"`
	Email                string `json:"email"                 validate:"required,email,max=254"`
	FirstName            string `json:"first_name"            validate:"nullable,max=150"`
	LastName             string `json:"last_name"             validate:"nullable,max=150"`
	Phone                string `json:"phone"                 validate:"nullable,max=20"`
	Password             string `json:"password"              validate:"required,min=8,confirmed"`
	PasswordConfirmation string `json:"password_confirmation"`
	Role                 string `json:"role"                  validate:"required,in=student|teacher|staff|admin"`

	StudentNumber  string `json:"student_number"  validate:"nullable,max=20"`
	Grade          string `json:"grade"           validate:"nullable,max=10"`
	ClassName      string `json:"class_name"      validate:"nullable,max=10"`
	ParentPhone    string `json:"parent_phone"    validate:"nullable,max=20"`
	EmployeeNumber string `json:"employee_number" validate:"nullable,max=20"`
	Department     string `json:"department"      validate:"nullable,max=100"`
	Position       string `json:"position"        validate:"nullable,max=100"`
}

func (in *RegisterInput) normalize() {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	in.StudentNumber = strings.TrimSpace(in.StudentNumber)
	in.EmployeeNumber = strings.TrimSpace(in.EmployeeNumber)
}

func (in *RegisterInput) check() map[string]string {
	errs := validate.Struct(in)
	switch models.Role(in.Role) {
	case models.RoleStudent:
		if in.StudentNumber == "" {
			errs["student_number"] = "The student_number field is required."
		}
	case models.RoleTeacher, models.RoleStaff, models.RoleAdmin:
		if in.EmployeeNumber == "" {
			errs["employee_number"] = "The employee_number field is required."
		}
	}
	return errs
}

func (in *RegisterInput) profile(role models.Role) models.Profile {
	switch role {
	case models.RoleStudent:
		return &models.StudentProfile{
			StudentNumber: in.StudentNumber, Grade: in.Grade, ClassName: in.ClassName, ParentPhone: in.ParentPhone,
		}
	case models.RoleTeacher:
		return &models.TeacherProfile{EmployeeNumber: in.EmployeeNumber, Department: in.Department}
	default:
		return &models.StaffProfile{EmployeeNumber: in.EmployeeNumber, Position: in.Position}
	}
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func invalid(field, msg string) error {
	return services.Validation(msg, map[string]string{field: msg})
}

// Register creates the user and its role profile in one atomic unit.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.normalize()
	if errs := in.check(); validate.HasErrors(errs) {
		return nil, services.Validation("Please correct the highlighted fields.", errs)
	}

	users := repositories.NewUserRepository(s.db.WithContext(ctx))
	if taken, err := users.Exists("username", in.Username); err != nil {
		return nil, err
	} else if taken {
		return nil, invalid("username", "This username is already taken.")
	}
	if taken, err := users.Exists("email", in.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, invalid("email", "This email is already registered.")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	role := models.Role(in.Role)
	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: hash,
		Role:         role,
		IsStaff:      role.IsStaff(),
		Active:       true,
		Balance:      decimal.Zero,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repositories.NewUserRepository(tx).Create(user); err != nil {
			return err
		}
		return repositories.NewUserRepository(tx).CreateProfile(user.ID, in.profile(role))
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			if role == models.RoleStudent {
				return nil, invalid("student_number", "This student number is already registered.")
			}
			return nil, invalid("employee_number", "This employee number is already registered.")
		}
		return nil, err
	}

	logger.WithCtx(ctx).Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Credentials is the login form.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login is a successful sign-in.
type Login struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// Authenticate checks the credentials and issues a bearer token.
func (s *Service) Authenticate(ctx context.Context, c Credentials) (Login, error) {
	user, err := repositories.NewUserRepository(s.db.WithContext(ctx)).FindByUsername(strings.TrimSpace(c.Username))
	if err != nil && !database.IsNotFound(err) {
		return Login{}, err
	}
	if err != nil || !auth.CheckPassword(user.PasswordHash, c.Password) {
		return Login{}, services.Validation("Invalid username or password.", nil)
	}
	if !user.Active {
		return Login{}, services.PermissionDenied("This account is disabled.")
	}

	token, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return Login{}, err
	}
	logger.WithCtx(ctx).Info("user logged in", "user_id", user.ID)
	return Login{User: user, Token: token}, nil
}

// Overview is the profile page.
type Overview struct {
	User         models.User          `json:"user"`
	Orders       []models.Order       `json:"recent_orders"`
	Transactions []models.Transaction `json:"recent_transactions"`
}

func (s *Service) Profile(ctx context.Context, userID uint) (Overview, error) {
	db := s.db.WithContext(ctx)
	user, err := repositories.NewUserRepository(db).FindWithProfile(userID)
	if err != nil {
		if database.IsNotFound(err) {
			return Overview{}, services.NotFound("User not found.")
		}
		return Overview{}, err
	}
	orders, err := repositories.NewOrderRepository(db).ForUser(userID, 5)
	if err != nil {
		return Overview{}, err
	}
	txs, err := repositories.NewLedgerRepository(db).Transactions(userID, 10)
	if err != nil {
		return Overview{}, err
	}
	return Overview{User: user, Orders: orders, Transactions: txs}, nil
}
