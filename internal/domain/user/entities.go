package user

import (
	"time"

	"expense-workflow/internal/domain/apperr"
)

var (
	ErrNotFound     = apperr.NotFound("user not found")
	ErrEmailTaken   = apperr.Conflict("email already registered")
	ErrInvalidRole  = apperr.Validation("role must be admin, manager or employee")
	ErrBadManager   = apperr.Validation("manager must be a manager or admin of the same company")
	ErrInvalidInput = apperr.Validation("name and email are required")
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Table: users
type User struct {
	ID        uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	UserID    string `gorm:"column:user_id;type:char(32);not null;uniqueIndex:ux_users_user_id" json:"user_id"`
	CompanyID string `gorm:"column:company_id;type:char(32);not null;index" json:"company_id"`
	Name      string `gorm:"column:name;size:100;not null" json:"name"`
	Email     string `gorm:"column:email;size:255;not null;uniqueIndex:ux_users_email" json:"email"`
	Role      Role   `gorm:"column:role;size:16;not null" json:"role"`
	// ManagerID is the public user_id of the direct manager, if any
	ManagerID *string `gorm:"column:manager_id;type:char(32)" json:"manager_id,omitempty"`
	// IsManagerApprover puts the manager first in every approver sequence of this user's expenses
	IsManagerApprover bool      `gorm:"column:is_manager_approver;not null" json:"is_manager_approver"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (r Role) IsValid() bool { return r == RoleAdmin || r == RoleManager || r == RoleEmployee }

func (u *User) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
