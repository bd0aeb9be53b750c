package models

import "time"

type RoomType struct {
	ID uint `gorm:"primaryKey" json:"id"`

	TypeName    string `gorm:"size:100;uniqueIndex" json:"type_name"`
	Description string `gorm:"type:text" json:"description"`
	MaxGuests   uint   `json:"max_guests"`

	CreatedAt time.Time `json:"created_at"`
}
