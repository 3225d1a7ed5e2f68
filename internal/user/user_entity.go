package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleStaff      = "staff"
	RoleApprover   = "approver"
	RoleAdmin      = "admin"
	RoleTechnician = "technician"
)

var Roles = []string{RoleStaff, RoleApprover, RoleAdmin, RoleTechnician}

func IsValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name       string    `gorm:"column:name;type:varchar(255);not null"`
	Email      string    `gorm:"column:email;type:varchar(255);not null;uniqueIndex:uq_users_email"`
	Password   string    `gorm:"column:password;type:text;not null"`
	Role       string    `gorm:"column:role;type:varchar(20);not null;default:staff;index"`
	Department string    `gorm:"column:department;type:varchar(120)"`

	ResetPasswordToken     *string    `gorm:"column:reset_password_token;type:varchar(128);index"`
	ResetPasswordExpiresAt *time.Time `gorm:"column:reset_password_expires_at"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

// Principal is the identity handed to the approval engine.
type Principal struct {
	ID         string
	Name       string
	Role       string
	Department string
	Email      string
}

func (u User) Principal() Principal {
	return Principal{
		ID:         u.ID.String(),
		Name:       u.Name,
		Role:       u.Role,
		Department: u.Department,
		Email:      u.Email,
	}
}
