package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionRoom(t *testing.T) {
	cases := []struct {
		name string
		from ReservationStatus
		to   ReservationStatus
		want bool
	}{
		{"pending to approved", ReservationPending, ReservationApproved, true},
		{"pending to rejected", ReservationPending, ReservationRejected, true},
		{"pending to cancelled", ReservationPending, ReservationCancelled, true},
		{"approved to cancelled", ReservationApproved, ReservationCancelled, true},
		{"approved to rejected", ReservationApproved, ReservationRejected, false},
		{"approved to pending", ReservationApproved, ReservationPending, false},
		{"rejected is terminal", ReservationRejected, ReservationApproved, false},
		{"cancelled is terminal", ReservationCancelled, ReservationPending, false},
		{"rooms never borrow", ReservationApproved, ReservationBorrowed, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransition(ResourceRoom, tc.from, tc.to))
		})
	}
}

func TestCanTransitionEquipment(t *testing.T) {
	cases := []struct {
		name string
		from ReservationStatus
		to   ReservationStatus
		want bool
	}{
		{"pending to approved", ReservationPending, ReservationApproved, true},
		{"approved to borrowed", ReservationApproved, ReservationBorrowed, true},
		{"approved to cancelled", ReservationApproved, ReservationCancelled, true},
		{"borrowed to returned", ReservationBorrowed, ReservationReturned, true},
		{"borrowed to cancelled", ReservationBorrowed, ReservationCancelled, false},
		{"pending to borrowed", ReservationPending, ReservationBorrowed, false},
		{"returned is terminal", ReservationReturned, ReservationBorrowed, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransition(ResourceEquipment, tc.from, tc.to))
		})
	}
}
