// File: services/staff/service.go
package staff

import (
	"fmt"
	"time"

	reservationRepo "appointmint/database/repository/reservation"
	restaurantRepo "appointmint/database/repository/restaurant"
	tableRepo "appointmint/database/repository/table"
	"appointmint/models"

	"go.uber.org/zap"
)

// DayStats summarizes a restaurant's reservation day for the staff view.
type DayStats struct {
	Date         string `json:"date"`
	Total        int    `json:"total"`
	Pending      int    `json:"pending"`
	Confirmed    int    `json:"confirmed"`
	Completed    int    `json:"completed"`
	Cancelled    int    `json:"cancelled"`
	NoShow       int    `json:"no_show"`
	TotalGuests  int    `json:"total_guests"`
	LargeParties int    `json:"large_parties"`
}

// StaffService exposes the quick commands the staff dashboard uses.
type StaffService interface {
	TodaysReservations(restaurantID string) ([]models.Reservation, error)
	UpcomingReservations(restaurantID string, within time.Duration) ([]models.Reservation, error)
	TodaysStats(restaurantID string) (*DayStats, error)
	PendingBookings(restaurantID string) ([]models.Reservation, error)
	UpdateReservationStatus(reservationID, newStatus string) error
}

// DefaultStaffService is the production implementation.
type DefaultStaffService struct {
	Reservations reservationRepo.ReservationRepository
	Restaurants  restaurantRepo.RestaurantRepository
	Tables       tableRepo.TableRepository
	Logger       *zap.Logger
}

var validStatuses = map[string]bool{
	models.ReservationPending:   true,
	models.ReservationConfirmed: true,
	models.ReservationCompleted: true,
	models.ReservationCancelled: true,
	models.ReservationNoShow:    true,
	models.ReservationArrived:   true,
	models.ReservationSeated:    true,
}

// today resolves the restaurant's local date.
func (s *DefaultStaffService) today(restaurantID string) (string, *time.Location) {
	loc := time.UTC
	if restaurant, err := s.Restaurants.GetByID(restaurantID); err == nil && restaurant != nil && restaurant.Timezone != "" {
		if l, lerr := time.LoadLocation(restaurant.Timezone); lerr == nil {
			loc = l
		}
	}
	return time.Now().In(loc).Format("2006-01-02"), loc
}

// TodaysReservations lists today's reservations ordered by time.
func (s *DefaultStaffService) TodaysReservations(restaurantID string) ([]models.Reservation, error) {
	date, _ := s.today(restaurantID)
	return s.Reservations.ListByRestaurantDate(restaurantID, date)
}

// UpcomingReservations lists active reservations starting within the window.
func (s *DefaultStaffService) UpcomingReservations(restaurantID string, within time.Duration) ([]models.Reservation, error) {
	date, loc := s.today(restaurantID)
	all, err := s.Reservations.ListByRestaurantDate(restaurantID, date)
	if err != nil {
		return nil, err
	}
	now := time.Now().In(loc)
	cutoff := now.Add(within)

	var upcoming []models.Reservation
	for _, r := range all {
		if r.Status != models.ReservationPending && r.Status != models.ReservationConfirmed {
			continue
		}
		start, perr := r.StartsAt(loc)
		if perr != nil {
			continue
		}
		if start.After(now) && start.Before(cutoff) {
			upcoming = append(upcoming, r)
		}
	}
	return upcoming, nil
}

// TodaysStats aggregates counts for the day.
func (s *DefaultStaffService) TodaysStats(restaurantID string) (*DayStats, error) {
	date, _ := s.today(restaurantID)
	all, err := s.Reservations.ListByRestaurantDate(restaurantID, date)
	if err != nil {
		return nil, err
	}

	stats := &DayStats{Date: date, Total: len(all)}
	for _, r := range all {
		switch r.Status {
		case models.ReservationPending:
			stats.Pending++
		case models.ReservationConfirmed:
			stats.Confirmed++
		case models.ReservationCompleted:
			stats.Completed++
		case models.ReservationCancelled:
			stats.Cancelled++
		case models.ReservationNoShow:
			stats.NoShow++
		}
		switch r.Status {
		case models.ReservationPending, models.ReservationConfirmed, models.ReservationCompleted:
			stats.TotalGuests += r.PartySize
		}
		if r.PartySize >= 9 {
			stats.LargeParties++
		}
	}
	return stats, nil
}

// PendingBookings lists today's staff-follow-up reservations.
func (s *DefaultStaffService) PendingBookings(restaurantID string) ([]models.Reservation, error) {
	date, _ := s.today(restaurantID)
	return s.Reservations.ListByStatus(restaurantID, date, models.ReservationPending)
}

// UpdateReservationStatus transitions a reservation and keeps the linked
// table's live status consistent: seating occupies the table, completion or
// cancellation releases it.
func (s *DefaultStaffService) UpdateReservationStatus(reservationID, newStatus string) error {
	if !validStatuses[newStatus] {
		return fmt.Errorf("invalid status %q", newStatus)
	}
	res, err := s.Reservations.GetByID(reservationID)
	if err != nil {
		return err
	}
	if res == nil {
		return fmt.Errorf("reservation %s not found", reservationID)
	}

	if err := s.Reservations.UpdateStatus(reservationID, newStatus); err != nil {
		return err
	}

	if res.TableID == "" {
		return nil
	}
	switch newStatus {
	case models.ReservationSeated, models.ReservationArrived:
		if err := s.Tables.SetStatus(res.TableID, models.TableStatusSeated, res.ID, res.CustomerName, res.PartySize); err != nil {
			s.Logger.Warn("table status update failed",
				zap.String("table_id", res.TableID), zap.Error(err))
		}
	case models.ReservationCompleted:
		if err := s.Tables.ClearStatus(res.TableID, models.TableStatusCompleted); err != nil {
			s.Logger.Warn("table status update failed",
				zap.String("table_id", res.TableID), zap.Error(err))
		}
	case models.ReservationCancelled, models.ReservationNoShow:
		if err := s.Tables.ClearStatus(res.TableID, models.TableStatusFree); err != nil {
			s.Logger.Warn("table status update failed",
				zap.String("table_id", res.TableID), zap.Error(err))
		}
	}
	return nil
}
