package models

import "time"

// PGManage is a manager account scoped to a single PG by name. A nil PGName
// means the account has no scope yet and cannot log in.
type PGManage struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name     string  `gorm:"uniqueIndex;size:150" json:"name"`
	Password string  `gorm:"size:255" json:"-"`
	PGName   *string `gorm:"column:pg_name;size:255" json:"pg_name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PGManage) TableName() string {
	return "pg_manage"
}
