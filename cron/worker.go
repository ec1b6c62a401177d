package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"appointmint/config"
	reservationRepo "appointmint/database/repository/reservation"
	"appointmint/models"
	"appointmint/services/notification"
	"appointmint/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// InitReminderWorker runs the async worker in background.
func InitReminderWorker(notifSvc notification.NotificationService, reservations reservationRepo.ReservationRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTasksDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(notifSvc, reservations))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[ReminderWorker] 🚀 Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] ❌ Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] ❗ Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleReminderTask(notifSvc notification.NotificationService, reservations reservationRepo.ReservationRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] 🔴 Invalid payload: %v", err)
			return err
		}

		res, err := reservations.GetByID(p.ReservationID)
		if err != nil {
			log.Printf("[ReminderHandler] ❌ Failed to load reservation %s: %v", p.ReservationID, err)
			return err
		}
		if res == nil {
			log.Printf("[ReminderHandler] ⚠️ Reservation %s no longer exists, skipping", p.ReservationID)
			return nil
		}
		// Cancelled or finished reservations need no reminder.
		if res.Status != models.ReservationConfirmed && res.Status != models.ReservationPending {
			log.Printf("[ReminderHandler] ⚠️ Reservation %s is %s, skipping", res.ID, res.Status)
			return nil
		}

		log.Printf("[ReminderHandler] ⏰ Triggering reminder for reservation %s at %s %s", res.ID, res.Date, res.Time)

		if err := notifSvc.NotifyReminder(ctx, p.RestaurantID, res); err != nil {
			log.Printf("[ReminderHandler] ❌ Failed to send notification: %v", err)
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTasksDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[ReminderWorker] ⚠️ Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
