package models

import "time"

// Bill statuses. Transitions are manual; nothing flips Pending to Overdue
// automatically.
const (
	BillStatusPending = "Pending"
	BillStatusPaid    = "Paid"
	BillStatusOverdue = "Overdue"
)

type Bill struct {
	ID uint `gorm:"primaryKey" json:"id"`

	InvoiceID  string  `gorm:"column:invoice_id;uniqueIndex;size:50" json:"invoice_id"`
	ResidentID uint    `gorm:"index;column:resident_id" json:"resident_id"`
	RoomID     *uint   `gorm:"index;column:room_id" json:"room_id,omitempty"`
	Amount     float64 `json:"amount"`
	Details    *string `gorm:"type:text" json:"details"`

	BillDate time.Time `gorm:"column:bill_date" json:"bill_date"`
	DueDate  time.Time `gorm:"column:due_date" json:"due_date"`
	Status   string    `gorm:"size:20" json:"status"`

	Version   uint      `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Resident Resident `gorm:"foreignKey:ResidentID" json:"-"`
}
