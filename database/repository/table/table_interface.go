package tableRepo

import "appointmint/models"

// TableRepository defines methods for table data access.
type TableRepository interface {
	// GetByID retrieves a table by its unique ID.
	GetByID(id string) (*models.Table, error)
	// ListByRestaurant retrieves all active tables for a restaurant, ordered
	// by ascending capacity then id.
	ListByRestaurant(restaurantID string) ([]models.Table, error)
	// Create inserts a new table record.
	Create(table *models.Table) error
	// Update modifies an existing table record.
	Update(table *models.Table) error
	// SetStatus updates a table's live status and occupant fields.
	SetStatus(id, status, reservationID, guestName string, guestCount int) error
	// ClearStatus frees a table, clearing occupant fields.
	ClearStatus(id, status string) error
}
