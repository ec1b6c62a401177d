// File: services/booking/service.go
package booking

import (
	"sync"
	"time"

	reservationRepo "appointmint/database/repository/reservation"
	restaurantRepo "appointmint/database/repository/restaurant"
	tableRepo "appointmint/database/repository/table"
	"appointmint/services/notification"
	"appointmint/services/tasks"

	"go.uber.org/zap"
)

// DefaultBookingService implements Service over the Mongo repositories.
type DefaultBookingService struct {
	Tables       tableRepo.TableRepository
	Reservations reservationRepo.ReservationRepository
	Restaurants  restaurantRepo.RestaurantRepository
	Reminders    tasks.ReminderScheduler
	Notifier     notification.NotificationService
	Logger       *zap.Logger

	// TurnoverBufferMins is the mandatory idle time before the next
	// reservation on the same table. A fixed policy value, not per table.
	TurnoverBufferMins  int
	DefaultDurationMins int

	// dayLocks holds one mutex per (restaurant, date) so resolve and commit
	// form a critical section against concurrent confirmations.
	dayLocks sync.Map
}

func (s *DefaultBookingService) lockDay(restaurantID, date string) *sync.Mutex {
	mu, _ := s.dayLocks.LoadOrStore(restaurantID+":"+date, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (s *DefaultBookingService) buffer() time.Duration {
	mins := s.TurnoverBufferMins
	if mins <= 0 {
		mins = 90
	}
	return time.Duration(mins) * time.Minute
}

func (s *DefaultBookingService) duration() time.Duration {
	mins := s.DefaultDurationMins
	if mins <= 0 {
		mins = 90
	}
	return time.Duration(mins) * time.Minute
}

func (s *DefaultBookingService) durationMins() int {
	if s.DefaultDurationMins > 0 {
		return s.DefaultDurationMins
	}
	return 90
}
