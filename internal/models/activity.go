package models

import "time"

// Activity action types recorded by the audit sink.
const (
	ActivityRoomReservation      = "ROOM_RESERVATION"
	ActivityEquipmentReservation = "EQUIPMENT_RESERVATION"
	ActivityRemoveSchedule       = "REMOVE_SCHEDULE"
	ActivityLogin                = "LOGIN"
	ActivityLogout               = "LOGOUT"
)

// ActivityLog is one append-only audit entry. Writes are fire-and-forget:
// a failed activity insert never fails the operation that produced it.
type ActivityLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"user_id"`
	ActionType string    `db:"action_type" json:"action_type"`
	Action     string    `db:"action" json:"action"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`

	UserName *string   `db:"user_name" json:"user_name,omitempty"`
	UserRole *UserRole `db:"user_role" json:"user_role,omitempty"`
}
