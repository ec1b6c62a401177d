package reservationRepo

import (
	"context"

	"appointmint/models"
)

// ReservationRepository defines methods for reservation data access.
type ReservationRepository interface {
	// GetByID retrieves a reservation by its unique ID.
	GetByID(id string) (*models.Reservation, error)
	// ListByRestaurantDate retrieves all reservations for a restaurant on a
	// given date (YYYY-MM-DD).
	ListByRestaurantDate(restaurantID, date string) ([]models.Reservation, error)
	// ListByStatus retrieves a restaurant-day's reservations filtered by status.
	ListByStatus(restaurantID, date, status string) ([]models.Reservation, error)
	// Create inserts a new reservation record.
	Create(res *models.Reservation) error
	// UpdateStatus transitions a reservation's status.
	UpdateStatus(id, status string) error
	// Cancel marks a reservation cancelled.
	Cancel(id string) error
	// CommitWithTable inserts the reservation and claims its table inside a
	// single multi-document transaction. The table claim only succeeds while
	// the table's live status still permits booking; a lost race returns
	// ErrTableTaken.
	CommitWithTable(ctx context.Context, res *models.Reservation, tableID string, incrementTrial bool, tenantID string) error
}
