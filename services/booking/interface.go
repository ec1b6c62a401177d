// File: services/booking/interface.go
package booking

import (
	"context"

	"appointmint/models"
)

// Service is the table allocation surface the conversation engine drives.
type Service interface {
	// FindTable resolves the best candidate table for a request, or a
	// structured unavailable reason.
	FindTable(ctx context.Context, restaurantID, date, timeStr string, partySize int) (*models.TableAvailabilityResult, error)
	// Commit finalizes the reservation and claims its table in one logical
	// transaction, re-resolving first when the availability snapshot is
	// stale or absent.
	Commit(ctx context.Context, restaurantID string, rec *models.BookingRecord, avail *models.TableAvailabilityResult, source string) (*models.Reservation, error)
	// RecordLargeParty persists a pending staff-follow-up reservation for a
	// party above the self-service threshold.
	RecordLargeParty(ctx context.Context, restaurantID string, rec *models.BookingRecord, source string) (*models.Reservation, error)
}
