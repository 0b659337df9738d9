package models

// DashboardSummary aggregates headline counts for the admin landing page.
type DashboardSummary struct {
	Rooms                 int `json:"rooms"`
	Equipment             int `json:"equipment"`
	Schedules             int `json:"schedules"`
	PendingRoomRequests   int `json:"pending_room_requests"`
	PendingEquipmentLoans int `json:"pending_equipment_loans"`
	ActiveUsers           int `json:"active_users"`
}
