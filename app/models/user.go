package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

// Roles lists every role in display order.
var Roles = []Role{RoleStudent, RoleTeacher, RoleStaff, RoleAdmin}

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// IsStaff reports roles allowed into the dashboard.
func (r Role) IsStaff() bool { return r == RoleStaff || r == RoleAdmin }

// User is the aggregate root for balance. Its role selects which one of
// the profile records is meaningful.
type User struct {
	Base
	Username     string          `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string          `gorm:"size:254;uniqueIndex;not null" json:"email"`
	FirstName    string          `gorm:"size:150" json:"first_name"`
	LastName     string          `gorm:"size:150" json:"last_name"`
	PasswordHash string          `gorm:"size:255;not null" json:"-"`
	Role         Role            `gorm:"size:10;not null;index" json:"role"`
	IsStaff      bool            `gorm:"not null" json:"is_staff"`
	Active       bool            `gorm:"not null" json:"active"`
	Phone        string          `gorm:"size:20" json:"phone"`
	Balance      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"balance"`

	Student *StudentProfile `gorm:"constraint:OnDelete:CASCADE" json:"student,omitempty"`
	Teacher *TeacherProfile `gorm:"constraint:OnDelete:CASCADE" json:"teacher,omitempty"`
	Staff   *StaffProfile   `gorm:"constraint:OnDelete:CASCADE" json:"staff,omitempty"`
}

func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// IsPriority is true for teachers, staff and admins; their orders are
// flagged for the counter.
func (u *User) IsPriority() bool {
	return u.Role == RoleTeacher || u.Role.IsStaff()
}

// CanPlaceOrder requires an active account that is not overdrawn.
func (u *User) CanPlaceOrder() bool {
	return u.Active && !u.Balance.IsNegative()
}

// Profile returns the variant record for the user's role, or nil when it
// has not been loaded or does not exist.
func (u *User) Profile() Profile {
	switch u.Role {
	case RoleStudent:
		if u.Student != nil {
			return u.Student
		}
	case RoleTeacher:
		if u.Teacher != nil {
			return u.Teacher
		}
	case RoleStaff, RoleAdmin:
		if u.Staff != nil {
			return u.Staff
		}
	}
	return nil
}
