package models

import "time"

type Resident struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name   string `gorm:"size:255" json:"name"`
	RoomID *uint  `gorm:"index;column:room_id" json:"room_id"`
	Phone  string `gorm:"size:50" json:"phone"`
	Email  *string `gorm:"size:150" json:"email"`

	JoinDate time.Time `gorm:"column:join_date" json:"join_date"`
	Status   string    `gorm:"size:50" json:"status"`

	DateOfBirth     *time.Time `gorm:"column:date_of_birth" json:"date_of_birth,omitempty"`
	Gender          *string    `gorm:"size:20" json:"gender,omitempty"`
	SecurityDeposit *float64   `gorm:"column:security_deposit" json:"security_deposit,omitempty"`
	MonthlyRent     *float64   `gorm:"column:monthly_rent" json:"monthly_rent,omitempty"`
	PGLocation      *string    `gorm:"column:pg_location;size:255" json:"pg_location,omitempty"`

	Version   uint      `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Room Room `gorm:"foreignKey:RoomID" json:"-"`
}
