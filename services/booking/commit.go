// File: services/booking/commit.go
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	reservationRepo "appointmint/database/repository/reservation"
	"appointmint/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// availabilityStaleAfter bounds how old a resolver snapshot may be before
// commit re-resolves it.
const availabilityStaleAfter = 5 * time.Second

// Commit finalizes a reservation. The whole resolve-then-claim span runs
// under the restaurant-day lock, and the table claim itself is a conditional
// transactional write, so two concurrent confirmations cannot double-book.
func (s *DefaultBookingService) Commit(ctx context.Context, restaurantID string, rec *models.BookingRecord, avail *models.TableAvailabilityResult, source string) (*models.Reservation, error) {
	if !rec.Complete() {
		return nil, NewCommitError("booking record is missing date, time, or party size")
	}

	mu := s.lockDay(restaurantID, rec.Date)
	mu.Lock()
	defer mu.Unlock()

	if avail == nil || !avail.Available || avail.Table == nil ||
		time.Since(avail.ResolvedAt) > availabilityStaleAfter {
		var err error
		avail, err = s.FindTable(ctx, restaurantID, rec.Date, rec.Time, rec.PartySize)
		if err != nil {
			return nil, fmt.Errorf("resolve at commit: %w", err)
		}
	}
	if !avail.Available {
		return nil, s.unavailableError(avail, rec)
	}

	if err := s.checkTrialLimit(restaurantID); err != nil {
		return nil, err
	}

	res, err := s.writeReservation(ctx, restaurantID, rec, avail, source)
	if errors.Is(err, reservationRepo.ErrTableTaken) {
		// Lost a race with a staff-side update. Resolve once more and retry.
		avail, rerr := s.FindTable(ctx, restaurantID, rec.Date, rec.Time, rec.PartySize)
		if rerr != nil {
			return nil, fmt.Errorf("re-resolve after conflict: %w", rerr)
		}
		if !avail.Available {
			return nil, s.unavailableError(avail, rec)
		}
		res, err = s.writeReservation(ctx, restaurantID, rec, avail, source)
	}
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, restaurantID, res)
	return res, nil
}

func (s *DefaultBookingService) writeReservation(ctx context.Context, restaurantID string, rec *models.BookingRecord, avail *models.TableAvailabilityResult, source string) (*models.Reservation, error) {
	trial, tenantID := s.trialInfo(restaurantID)
	res := &models.Reservation{
		ID:              uuid.New().String(),
		RestaurantID:    restaurantID,
		TableID:         avail.Table.TableID,
		CustomerName:    rec.CustomerName,
		CustomerPhone:   rec.CustomerPhone,
		CustomerEmail:   rec.CustomerEmail,
		PartySize:       rec.PartySize,
		Date:            rec.Date,
		Time:            rec.Time,
		DurationMinutes: s.durationMins(),
		Status:          models.ReservationConfirmed,
		SpecialRequests: rec.SpecialRequests,
		Source:          source,
		IsTrialBooking:  trial,
	}
	if err := s.Reservations.CommitWithTable(ctx, res, avail.Table.TableID, trial, tenantID); err != nil {
		if errors.Is(err, reservationRepo.ErrTableTaken) {
			return nil, err
		}
		return nil, NewCommitError(err.Error())
	}
	return res, nil
}

// afterCommit runs the best-effort side effects: staff push and reminder
// task. Neither failure unwinds the committed reservation.
func (s *DefaultBookingService) afterCommit(ctx context.Context, restaurantID string, res *models.Reservation) {
	if s.Notifier != nil {
		if err := s.Notifier.NotifyReservation(ctx, restaurantID, res); err != nil {
			s.Logger.Warn("reservation staff push failed",
				zap.String("reservation_id", res.ID), zap.Error(err))
		}
	}
	if s.Reminders != nil {
		if err := s.Reminders.ScheduleReservationReminder(res, s.restaurantLocation(restaurantID)); err != nil {
			s.Logger.Warn("reminder scheduling failed",
				zap.String("reservation_id", res.ID), zap.Error(err))
		}
	}
}

func (s *DefaultBookingService) unavailableError(avail *models.TableAvailabilityResult, rec *models.BookingRecord) error {
	switch avail.Reason {
	case models.ReasonNoTables:
		return NewUnavailableError(avail.Reason, "No floor plan is configured for online booking yet. Please contact the restaurant directly.")
	case models.ReasonPartyTooLarge:
		return NewUnavailableError(avail.Reason, fmt.Sprintf("Our largest table can't seat %d guests. Please contact the restaurant for large group arrangements.", rec.PartySize))
	case models.ReasonAllOccupied:
		return NewUnavailableError(avail.Reason, "All suitable tables are currently occupied or reserved. Would you like to try a different time?")
	default:
		return NewUnavailableError(avail.Reason, "That time slot was just taken. Would you like to try a different time?")
	}
}

// checkTrialLimit gates commits against the tenant's trial plan.
func (s *DefaultBookingService) checkTrialLimit(restaurantID string) error {
	restaurant, err := s.Restaurants.GetByID(restaurantID)
	if err != nil || restaurant == nil {
		return nil
	}
	tenant, err := s.Restaurants.GetTenant(restaurant.TenantID)
	if err != nil || tenant == nil {
		return nil
	}
	if !tenant.CanMakeBooking(time.Now()) {
		return NewCommitError("This restaurant's online booking is temporarily unavailable. Please contact the restaurant directly.")
	}
	return nil
}

func (s *DefaultBookingService) trialInfo(restaurantID string) (bool, string) {
	restaurant, err := s.Restaurants.GetByID(restaurantID)
	if err != nil || restaurant == nil {
		return false, ""
	}
	tenant, err := s.Restaurants.GetTenant(restaurant.TenantID)
	if err != nil || tenant == nil {
		return false, restaurant.TenantID
	}
	return tenant.OnTrial(), tenant.ID
}

// RecordLargeParty persists a pending staff-follow-up reservation with no
// table assignment.
func (s *DefaultBookingService) RecordLargeParty(ctx context.Context, restaurantID string, rec *models.BookingRecord, source string) (*models.Reservation, error) {
	res := &models.Reservation{
		ID:              uuid.New().String(),
		RestaurantID:    restaurantID,
		CustomerName:    rec.CustomerName,
		CustomerPhone:   rec.CustomerPhone,
		PartySize:       rec.PartySize,
		Date:            rec.Date,
		Time:            rec.Time,
		DurationMinutes: s.durationMins(),
		Status:          models.ReservationPending,
		Source:          source,
		StaffNote:       fmt.Sprintf("Large party booking request for %d guests. Staff follow-up required.", rec.PartySize),
	}
	if err := s.Reservations.Create(res); err != nil {
		return nil, NewCommitError(err.Error())
	}
	return res, nil
}
