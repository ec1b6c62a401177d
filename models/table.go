package models

import "time"

// Table live status values.
const (
	TableStatusFree      = "free"
	TableStatusReserved  = "reserved"
	TableStatusSeated    = "seated"
	TableStatusCompleted = "completed"
)

// Table is a physical table in a restaurant's floor plan.
type Table struct {
	ID           string `bson:"id" json:"id"`
	RestaurantID string `bson:"restaurant_id" json:"restaurant_id"`
	Number       int    `bson:"number" json:"number"`
	Name         string `bson:"name" json:"name,omitempty"`
	Capacity     int    `bson:"capacity" json:"capacity"`
	Location     string `bson:"location" json:"location,omitempty"` // "window", "terrace", "main"
	TableType    string `bson:"table_type" json:"table_type,omitempty"`
	Active       bool   `bson:"active" json:"active"`

	// Live occupancy. A non-free status always carries the reservation
	// that claimed the table.
	CurrentStatus        string    `bson:"current_status" json:"current_status"`
	CurrentReservationID string    `bson:"current_reservation_id" json:"current_reservation_id,omitempty"`
	CurrentGuestName     string    `bson:"current_guest_name" json:"current_guest_name,omitempty"`
	CurrentGuestCount    int       `bson:"current_guest_count" json:"current_guest_count,omitempty"`
	StatusUpdatedAt      time.Time `bson:"status_updated_at" json:"status_updated_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Bookable reports whether the table's live status permits a new claim.
func (t *Table) Bookable() bool {
	return t.CurrentStatus == TableStatusFree || t.CurrentStatus == TableStatusCompleted
}

// TableSnapshot is the resolver's view of a chosen table at resolve time.
type TableSnapshot struct {
	TableID   string `json:"table_id"`
	Name      string `json:"name,omitempty"`
	Number    int    `json:"number"`
	Capacity  int    `json:"capacity"`
	TableType string `json:"table_type,omitempty"`
	Status    string `json:"status"`
}

// Structured unavailable reasons.
const (
	ReasonNoTables      = "no_tables"
	ReasonPartyTooLarge = "party_too_large"
	ReasonAllOccupied   = "all_occupied"
	ReasonNoSlot        = "no_slot"
)

// TableAvailabilityResult is what the availability resolver returns.
type TableAvailabilityResult struct {
	Available         bool           `json:"available"`
	Table             *TableSnapshot `json:"table,omitempty"`
	NextReservationAt string         `json:"next_reservation_at,omitempty"` // HH:MM on the requested day
	MinutesUntilNext  int            `json:"minutes_until_next,omitempty"`
	Reason            string         `json:"reason,omitempty"` // "no_tables", "party_too_large", "all_occupied"
	ResolvedAt        time.Time      `json:"resolved_at"`
}
