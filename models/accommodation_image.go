package models

import "time"

type AccommodationImage struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AccommodationID *uint  `gorm:"index;column:accommodation_id" json:"accommodation_id"`
	ImageURL        string `gorm:"column:image_url;type:text;not null" json:"image_url"`
	AltText         string `gorm:"column:alt_text;size:255;not null" json:"alt_text"`
	SortOrder       int    `gorm:"column:sort_order;not null;default:0;index" json:"sort_order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AccommodationImage) TableName() string {
	return "accommodation_images"
}
