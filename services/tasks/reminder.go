package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"appointmint/config"
	"appointmint/models"

	"github.com/hibiken/asynq"
)

const TypeSendReminder = "reminder:send"

// ReminderPayload is the task body for a reservation reminder.
type ReminderPayload struct {
	ReservationID string `json:"reservation_id"`
	RestaurantID  string `json:"restaurant_id"`
	FireDate      string `json:"fire_date"`
}

// ReminderScheduler enqueues reservation reminders for later delivery.
type ReminderScheduler interface {
	ScheduleReservationReminder(res *models.Reservation, loc *time.Location) error
}

// AsynqReminderScheduler implements ReminderScheduler on an asynq queue.
type AsynqReminderScheduler struct {
	client *asynq.Client
}

func NewAsynqReminderScheduler() *AsynqReminderScheduler {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTasksDB,
	})
	return &AsynqReminderScheduler{client: client}
}

// ScheduleReservationReminder queues a staff reminder two hours before the
// reservation starts. Reservations starting sooner than that skip the
// reminder.
func (s *AsynqReminderScheduler) ScheduleReservationReminder(res *models.Reservation, loc *time.Location) error {
	start, err := res.StartsAt(loc)
	if err != nil {
		return fmt.Errorf("parse reservation start: %w", err)
	}
	fireAt := start.Add(-2 * time.Hour)
	if fireAt.Before(time.Now()) {
		return nil
	}

	payload := ReminderPayload{
		ReservationID: res.ID,
		RestaurantID:  res.RestaurantID,
		FireDate:      fireAt.Format(time.RFC3339),
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TypeSendReminder, b)
	if _, err := s.client.Enqueue(task, asynq.ProcessAt(fireAt)); err != nil {
		return fmt.Errorf("enqueue reminder: %w", err)
	}
	return nil
}
