package models

import "time"

// Reservation status values.
const (
	ReservationPending   = "pending"
	ReservationConfirmed = "confirmed"
	ReservationCancelled = "cancelled"
	ReservationCompleted = "completed"
	ReservationNoShow    = "no_show"
	ReservationArrived   = "arrived"
	ReservationSeated    = "seated"
)

// Reservation is a committed (or staff-pending) booking.
type Reservation struct {
	ID              string    `bson:"id" json:"id"`
	RestaurantID    string    `bson:"restaurant_id" json:"restaurant_id"`
	TableID         string    `bson:"table_id" json:"table_id,omitempty"` // empty for staff-handled large parties
	CustomerName    string    `bson:"customer_name" json:"customer_name"`
	CustomerPhone   string    `bson:"customer_phone" json:"customer_phone,omitempty"`
	CustomerEmail   string    `bson:"customer_email" json:"customer_email,omitempty"`
	PartySize       int       `bson:"party_size" json:"party_size"`
	Date            string    `bson:"date" json:"date"` // YYYY-MM-DD in restaurant local time
	Time            string    `bson:"time" json:"time"` // HH:MM, 24h
	DurationMinutes int       `bson:"duration_minutes" json:"duration_minutes"`
	Status          string    `bson:"status" json:"status"`
	SpecialRequests string    `bson:"special_requests" json:"special_requests,omitempty"`
	Source          string    `bson:"source" json:"source,omitempty"` // "widget", "chatwoot", "voice", "staff"
	StaffNote       string    `bson:"staff_note" json:"staff_note,omitempty"`
	IsTrialBooking  bool      `bson:"is_trial_booking" json:"is_trial_booking,omitempty"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
}

// StartsAt resolves the reservation's start instant in the given location.
func (r *Reservation) StartsAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", r.Date+" "+r.Time, loc)
}

// EndsAt is StartsAt plus the reservation duration.
func (r *Reservation) EndsAt(loc *time.Location) (time.Time, error) {
	start, err := r.StartsAt(loc)
	if err != nil {
		return time.Time{}, err
	}
	return start.Add(time.Duration(r.DurationMinutes) * time.Minute), nil
}

// Occupying reports whether the reservation blocks its table's timeline.
func (r *Reservation) Occupying() bool {
	switch r.Status {
	case ReservationCancelled, ReservationNoShow, ReservationCompleted:
		return false
	}
	return true
}
