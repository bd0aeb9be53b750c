package models

import "time"

// Room keeps both links to its accommodation: AccommodationID is the
// authoritative foreign key, PGName is the legacy scope column the manager
// filter matches on. When the FK is set the name column is synced from it.
type Room struct {
	ID uint `gorm:"primaryKey" json:"id"`

	RoomNo string `gorm:"column:room_no;size:50;uniqueIndex:idx_rooms_no_pg" json:"room_no"`
	Type   string `gorm:"size:100" json:"type"`
	Floor  string `gorm:"size:10" json:"floor"`

	Capacity  int     `json:"capacity"`
	Occupancy int     `json:"occupancy"`
	Rent      float64 `json:"rent"`
	Status    string  `gorm:"size:50" json:"status"`

	AccommodationID *uint  `gorm:"index;column:accommodation_id" json:"accommodation_id,omitempty"`
	PGName          string `gorm:"column:pg_names;size:255;index;uniqueIndex:idx_rooms_no_pg" json:"pg_names"`

	Version   uint      `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Accommodation Accommodation `gorm:"foreignKey:AccommodationID" json:"-"`
}
