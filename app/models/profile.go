package models

// Profile is the role-specific half of a user. Exactly one variant exists
// per user, chosen by User.Role.
type Profile interface {
	ProfileRole() Role
}

type StudentProfile struct {
	ID            uint   `gorm:"primaryKey" json:"-"`
	UserID        uint   `gorm:"uniqueIndex;not null" json:"-"`
	StudentNumber string `gorm:"size:20;uniqueIndex;not null" json:"student_number"`
	Grade         string `gorm:"size:10" json:"grade"`
	ClassName     string `gorm:"size:10" json:"class_name"`
	ParentPhone   string `gorm:"size:20" json:"parent_phone"`
}

func (*StudentProfile) ProfileRole() Role { return RoleStudent }

type TeacherProfile struct {
	ID             uint   `gorm:"primaryKey" json:"-"`
	UserID         uint   `gorm:"uniqueIndex;not null" json:"-"`
	EmployeeNumber string `gorm:"size:20;uniqueIndex;not null" json:"employee_number"`
	Department     string `gorm:"size:100" json:"department"`
}

func (*TeacherProfile) ProfileRole() Role { return RoleTeacher }

// StaffProfile serves both staff and admin users.
type StaffProfile struct {
	ID             uint   `gorm:"primaryKey" json:"-"`
	UserID         uint   `gorm:"uniqueIndex;not null" json:"-"`
	EmployeeNumber string `gorm:"size:20;uniqueIndex;not null" json:"employee_number"`
	Position       string `gorm:"size:100" json:"position"`
}

func (*StaffProfile) ProfileRole() Role { return RoleStaff }
