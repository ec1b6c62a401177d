package notification

import (
	"context"
	"fmt"

	"appointmint/models"
	"appointmint/utils"

	restaurantRepo "appointmint/database/repository/restaurant"

	"firebase.google.com/go/v4/messaging"
)

// NotificationService defines methods for sending FCM pushes to restaurant
// staff devices.
type NotificationService interface {
	NotifyReservation(ctx context.Context, restaurantID string, res *models.Reservation) error
	NotifyHandover(ctx context.Context, restaurantID string, res *models.Reservation) error
	NotifyReminder(ctx context.Context, restaurantID string, res *models.Reservation) error
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	restaurants restaurantRepo.RestaurantRepository
}

func NewDefaultNotificationService(restaurants restaurantRepo.RestaurantRepository) (*DefaultNotificationService, error) {
	if restaurants == nil {
		return nil, fmt.Errorf("notification service initialization error: restaurant repository is nil")
	}
	return &DefaultNotificationService{restaurants: restaurants}, nil
}

// sendStaffPush looks up the restaurant's staff FCM token and sends a push.
func (s *DefaultNotificationService) sendStaffPush(ctx context.Context, restaurantID, title, body string, data map[string]string) error {
	restaurant, err := s.restaurants.GetByID(restaurantID)
	if err != nil {
		return fmt.Errorf("sendStaffPush: could not find restaurant %s: %w", restaurantID, err)
	}
	if restaurant == nil || restaurant.StaffFCMToken == "" {
		// No push target configured.
		return nil
	}

	msg := &messaging.Message{
		Token: restaurant.StaffFCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		},
	}

	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		return fmt.Errorf("sendStaffPush: failed to send FCM message: %w", err)
	}
	return nil
}

// NotifyReservation alerts staff about a freshly committed reservation.
func (s *DefaultNotificationService) NotifyReservation(ctx context.Context, restaurantID string, res *models.Reservation) error {
	title := "New reservation 🎉"
	body := fmt.Sprintf("%s, party of %d on %s at %s",
		res.CustomerName, res.PartySize, res.Date, res.Time)
	return s.sendStaffPush(ctx, restaurantID, title, body, map[string]string{
		"type":           "reservation_created",
		"reservation_id": res.ID,
	})
}

// NotifyHandover alerts staff that a large party needs personal follow-up.
func (s *DefaultNotificationService) NotifyHandover(ctx context.Context, restaurantID string, res *models.Reservation) error {
	title := "Large party request 📞"
	body := fmt.Sprintf("%s requested a table for %d. Call %s within 24 hours.",
		res.CustomerName, res.PartySize, res.CustomerPhone)
	return s.sendStaffPush(ctx, restaurantID, title, body, map[string]string{
		"type":           "large_party_request",
		"reservation_id": res.ID,
	})
}

// NotifyReminder nudges staff ahead of an upcoming reservation.
func (s *DefaultNotificationService) NotifyReminder(ctx context.Context, restaurantID string, res *models.Reservation) error {
	title := "Upcoming reservation ⏰"
	body := fmt.Sprintf("%s, party of %d arrives at %s today",
		res.CustomerName, res.PartySize, res.Time)
	return s.sendStaffPush(ctx, restaurantID, title, body, map[string]string{
		"type":           "reservation_reminder",
		"reservation_id": res.ID,
	})
}
