package tasks

import (
	"encoding/json"
	"time"

	"github.com/rajkumarpatel02/car-rental-backend/models"

	"github.com/hibiken/asynq"
)

// Task kinds handled by the email worker.
const (
	TypeWelcomeEmail      = "email:welcome"
	TypeBookingEmail      = "email:booking"
	TypeReminderEmail     = "email:reminder"
	TypeNotificationEmail = "email:notification"
)

// Reminder kinds. Each maps to a fixed dispatch delay.
const (
	Reminder24hBefore    = "24h_before"
	Reminder1hBefore     = "1h_before"
	ReminderCancellation = "cancellation"
	ReminderCompletion   = "completion"
)

// reminderDelay is the per-kind dispatch delay. Unknown kinds dispatch
// immediately.
var reminderDelay = map[string]time.Duration{
	Reminder24hBefore:    24 * time.Hour,
	Reminder1hBefore:     time.Hour,
	ReminderCancellation: 0,
	ReminderCompletion:   time.Hour,
}

// defaultOpts is the uniform retry policy for side-effect jobs. The job
// runner owns backoff; reactors never retry on their own.
func defaultOpts() []asynq.Option {
	return []asynq.Option{
		asynq.MaxRetry(3),
		asynq.Timeout(30 * time.Second),
	}
}

// NewWelcomeEmailTask builds the job sent after user registration.
func NewWelcomeEmailTask(payload models.WelcomeEmailPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	return asynq.NewTask(TypeWelcomeEmail, b), defaultOpts(), nil
}

// NewBookingEmailTask builds a booking lifecycle email job.
func NewBookingEmailTask(payload models.BookingEmailPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	return asynq.NewTask(TypeBookingEmail, b), defaultOpts(), nil
}

// NewReminderEmailTask builds a delayed booking reminder job. The delay is
// fixed per reminder kind and carried on the task options rather than
// computed by the handler.
func NewReminderEmailTask(payload models.ReminderEmailPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	opts := append(defaultOpts(), asynq.ProcessIn(reminderDelay[payload.ReminderType]))
	return asynq.NewTask(TypeReminderEmail, b), opts, nil
}

// NewNotificationEmailTask builds an ad-hoc email job requested over the
// notification exchange.
func NewNotificationEmailTask(payload models.NotificationEmailPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	return asynq.NewTask(TypeNotificationEmail, b), defaultOpts(), nil
}
