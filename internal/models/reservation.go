package models

import (
	"fmt"
	"time"
)

// ReservationStatus is the lifecycle state of an ad-hoc reservation.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationApproved  ReservationStatus = "approved"
	ReservationRejected  ReservationStatus = "rejected"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationBorrowed  ReservationStatus = "borrowed"
	ReservationReturned  ReservationStatus = "returned"
)

// ResourceKind distinguishes the two reservation state machines.
type ResourceKind string

const (
	ResourceRoom      ResourceKind = "room"
	ResourceEquipment ResourceKind = "equipment"
)

// roomTransitions and equipmentTransitions are the allowed state machines.
// Room reservations stop at approved/rejected/cancelled; equipment continues
// through borrowed and returned.
var roomTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationPending:  {ReservationApproved, ReservationRejected, ReservationCancelled},
	ReservationApproved: {ReservationCancelled},
}

var equipmentTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationPending:  {ReservationApproved, ReservationRejected, ReservationCancelled},
	ReservationApproved: {ReservationCancelled, ReservationBorrowed},
	ReservationBorrowed: {ReservationReturned},
}

// CanTransition reports whether moving from one status to another is legal
// for the given resource kind. Terminal states allow nothing.
func CanTransition(kind ResourceKind, from, to ReservationStatus) bool {
	table := roomTransitions
	if kind == ResourceEquipment {
		table = equipmentTransitions
	}
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}

// RoomReservation is a single-date ad-hoc booking of a room. Only approved
// reservations count toward conflict detection and the merged timetable.
type RoomReservation struct {
	ID        string            `db:"id" json:"id"`
	RoomID    string            `db:"room_id" json:"room_id"`
	UserID    string            `db:"user_id" json:"user_id"`
	Subject   string            `db:"subject" json:"subject"`
	Section   string            `db:"section" json:"section"`
	Date      time.Time         `db:"date" json:"date"`
	StartTime string            `db:"start_time" json:"start_time"`
	EndTime   string            `db:"end_time" json:"end_time"`
	Status    ReservationStatus `db:"status" json:"status"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`

	RoomName  *string `db:"room_name" json:"room_name,omitempty"`
	UserName  *string `db:"user_name" json:"user_name,omitempty"`
	UserEmail *string `db:"user_email" json:"user_email,omitempty"`
}

// EquipmentReservation is a timestamped borrow request for an equipment item.
type EquipmentReservation struct {
	ID          string            `db:"id" json:"id"`
	EquipmentID string            `db:"equipment_id" json:"equipment_id"`
	UserID      string            `db:"user_id" json:"user_id"`
	Purpose     string            `db:"purpose" json:"purpose"`
	StartTime   time.Time         `db:"start_time" json:"start_time"`
	EndTime     time.Time         `db:"end_time" json:"end_time"`
	Status      ReservationStatus `db:"status" json:"status"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`

	EquipmentName *string `db:"equipment_name" json:"equipment_name,omitempty"`
	UserName      *string `db:"user_name" json:"user_name,omitempty"`
}

// ReservationConflictError carries the interval of the first approved
// reservation that overlaps a candidate window.
type ReservationConflictError struct {
	ReservationID string `json:"reservation_id"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
}

// Error implements the error interface.
func (e *ReservationConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("conflict with another approved reservation (%s - %s)", e.StartTime, e.EndTime)
}
