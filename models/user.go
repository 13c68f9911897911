package models

import (
	"time"
)

// WorkRole identifies a workflow actor. Engineer roles are held per department;
// estate officer, principal and complainant are campus-wide.
type WorkRole string

const (
	RoleJE            WorkRole = "junior_engineer"
	RoleAE            WorkRole = "assistant_engineer"
	RoleEE            WorkRole = "executive_engineer"
	RoleEstateOfficer WorkRole = "estate_officer"
	RolePrincipal     WorkRole = "principal"
	RoleComplainant   WorkRole = "complainant"
)

// ComplainantSideRoles are the roles that confirm resolution or reject work
// on behalf of the complaint raiser.
var ComplainantSideRoles = []WorkRole{RoleComplainant, RoleEstateOfficer, RolePrincipal}

// IsComplainantSide reports whether r belongs to the complaint-raiser side.
func (r WorkRole) IsComplainantSide() bool {
	for _, cr := range ComplainantSideRoles {
		if r == cr {
			return true
		}
	}
	return false
}

type User struct {
	UserID     int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	UserFname  string     `gorm:"column:user_fname" json:"user_fname"`
	UserLname  string     `gorm:"column:user_lname" json:"user_lname"`
	Email      string     `gorm:"column:email;unique" json:"email"`
	Password   string     `gorm:"column:password" json:"-"`
	Role       WorkRole   `gorm:"column:role" json:"role"`
	Department Department `gorm:"column:department" json:"department,omitempty"`
	Phone      *string    `gorm:"column:phone" json:"phone,omitempty"`
	CreateAt   *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt   *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt   *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// DisplayName returns the user's full name for notifications and audit rows.
func (u User) DisplayName() string {
	if u.UserLname == "" {
		return u.UserFname
	}
	return u.UserFname + " " + u.UserLname
}

// TableName overrides
func (User) TableName() string {
	return "users"
}
