package models

import "time"

// EquipmentStatus is the availability lifecycle of an equipment item. It is
// mutated only by reservation transitions, never set directly by users.
type EquipmentStatus string

const (
	EquipmentAvailable EquipmentStatus = "available"
	EquipmentReserved  EquipmentStatus = "reserved"
	EquipmentBorrowed  EquipmentStatus = "borrowed"
)

// Equipment is a bookable item tracked with an availability status.
type Equipment struct {
	ID           string          `db:"id" json:"id"`
	CategoryID   *string         `db:"category_id" json:"category_id,omitempty"`
	Name         string          `db:"name" json:"name"`
	Description  string          `db:"description" json:"description"`
	Status       EquipmentStatus `db:"status" json:"status"`
	CategoryName *string         `db:"category_name" json:"category_name,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}
