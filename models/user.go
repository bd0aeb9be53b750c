package models

import "time"

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

// User is an administrator account. Manager accounts live in the separate
// pg_manage table (PGManage); login checks both.
type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Username string `gorm:"uniqueIndex;size:150" json:"username"`
	Password string `gorm:"size:255" json:"-"`
	Role     string `gorm:"size:20;default:admin" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
