package models

import "time"

// ElectricityReading stores derived units and amount alongside the raw meter
// values. Both are recomputed server-side on every write; submitted values
// are ignored.
type ElectricityReading struct {
	ID uint `gorm:"primaryKey" json:"id"`

	RoomID *uint `gorm:"index;column:room_id" json:"room_id"`

	PreviousReading float64 `gorm:"column:previous_reading" json:"previous_reading"`
	CurrentReading  float64 `gorm:"column:current_reading" json:"current_reading"`
	Units           float64 `json:"units"`
	Rate            float64 `json:"rate"`
	Amount          float64 `json:"amount"`

	ReadingDate time.Time `gorm:"column:reading_date" json:"reading_date"`
	Status      string    `gorm:"size:50" json:"status"`

	Version   uint      `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Room Room `gorm:"foreignKey:RoomID" json:"-"`
}

func (ElectricityReading) TableName() string {
	return "electricity_readings"
}
