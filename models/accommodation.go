package models

import (
	"time"

	"gorm.io/datatypes"
)

// Accommodation is a single PG property. The name doubles as the manager
// scope key, so it carries a unique index (duplicate names would collapse
// two managers into one scope).
type Accommodation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string `gorm:"size:255;uniqueIndex" json:"name"`
	Code        string `gorm:"size:50;uniqueIndex" json:"code"`
	Description string `gorm:"type:text" json:"description"`
	Address     string `gorm:"type:text" json:"address"`
	Contact     string `gorm:"size:50" json:"contact"`
	Email       string `gorm:"size:150" json:"email"`

	Features  datatypes.JSON `gorm:"column:features" json:"features,omitempty"`
	MainImage string         `gorm:"column:main_image;size:512" json:"main_image,omitempty"`
	Category  string         `gorm:"size:100" json:"category,omitempty"`
	MapLink   string         `gorm:"column:map_link;size:512" json:"map_link,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Images []AccommodationImage `gorm:"foreignKey:AccommodationID" json:"images,omitempty"`
}
