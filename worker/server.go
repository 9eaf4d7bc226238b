package worker

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/rajkumarpatel02/car-rental-backend/config"
	"github.com/rajkumarpatel02/car-rental-backend/models"
	"github.com/rajkumarpatel02/car-rental-backend/services/tasks"

	"github.com/hibiken/asynq"
)

// InitEmailWorker runs the async job server in background.
func InitEmailWorker() {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
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
	mux.HandleFunc(tasks.TypeWelcomeEmail, handleWelcomeEmail)
	mux.HandleFunc(tasks.TypeBookingEmail, handleBookingEmail)
	mux.HandleFunc(tasks.TypeReminderEmail, handleReminderEmail)
	mux.HandleFunc(tasks.TypeNotificationEmail, handleNotificationEmail)

	// Start async worker with retry logic
	go func() {
		log.Println("[EmailWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[EmailWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[EmailWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleWelcomeEmail(ctx context.Context, task *asynq.Task) error {
	var p models.WelcomeEmailPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		log.Printf("[EmailWorker] Invalid welcome payload: %v", err)
		return err
	}

	// No mail provider is wired up yet; log-delivery stands in for SMTP.
	log.Printf("[EmailWorker] Sending welcome email to %s (%s)", p.Email, p.Name)
	return nil
}

func handleBookingEmail(ctx context.Context, task *asynq.Task) error {
	var p models.BookingEmailPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		log.Printf("[EmailWorker] Invalid booking email payload: %v", err)
		return err
	}

	switch p.EmailType {
	case "confirmation":
		log.Printf("[EmailWorker] Sending confirmation email for booking %s (total %.2f)", p.BookingID, p.TotalPrice)
	case "cancellation":
		log.Printf("[EmailWorker] Sending cancellation email for booking %s", p.BookingID)
	case "failure":
		log.Printf("[EmailWorker] Sending failure email for booking %s: %s", p.BookingID, p.FailureReason)
	default:
		log.Printf("[EmailWorker] Unknown email type %q for booking %s", p.EmailType, p.BookingID)
	}
	return nil
}

func handleReminderEmail(ctx context.Context, task *asynq.Task) error {
	var p models.ReminderEmailPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		log.Printf("[EmailWorker] Invalid reminder payload: %v", err)
		return err
	}

	log.Printf("[EmailWorker] Sending %s reminder for booking %s to user %s", p.ReminderType, p.BookingID, p.UserID)
	return nil
}

func handleNotificationEmail(ctx context.Context, task *asynq.Task) error {
	var p models.NotificationEmailPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		log.Printf("[EmailWorker] Invalid notification payload: %v", err)
		return err
	}

	log.Printf("[EmailWorker] Sending notification email %q to user %s", p.Subject, p.UserID)
	return nil
}
