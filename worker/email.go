package worker

import (
	"context"

	"github.com/rajkumarpatel02/car-rental-backend/events"
	"github.com/rajkumarpatel02/car-rental-backend/models"
	"github.com/rajkumarpatel02/car-rental-backend/services/tasks"
	"github.com/rajkumarpatel02/car-rental-backend/utils"

	"go.uber.org/zap"
)

// EmailProcessor turns saga events into email jobs. Sending itself happens
// in the job queue, which owns retry and backoff; this reactor only
// enqueues.
type EmailProcessor struct {
	Jobs Enqueuer
}

// HandleNotificationEvent handles ad-hoc send requests published on the
// notification exchange.
func (p *EmailProcessor) HandleNotificationEvent(ctx context.Context, env events.Envelope) error {
	if env.Type != events.TypeNotificationSend {
		return nil
	}

	var data events.NotificationSendData
	if err := env.Decode(&data); err != nil {
		utils.GetLogger().Warn("email: undecodable notification.send", zap.Error(err))
		return nil
	}

	task, opts, err := tasks.NewNotificationEmailTask(models.NotificationEmailPayload{
		UserID:  data.UserID,
		Subject: data.Subject,
		Body:    data.Body,
	})
	if err != nil {
		return err
	}
	return p.Jobs.Enqueue(task, opts...)
}

// HandleUserEvent schedules the welcome email for new accounts.
func (p *EmailProcessor) HandleUserEvent(ctx context.Context, env events.Envelope) error {
	if env.Type != events.TypeUserCreated {
		return nil
	}

	var data events.UserCreatedData
	if err := env.Decode(&data); err != nil {
		utils.GetLogger().Warn("email: undecodable user.created", zap.Error(err))
		return nil
	}

	task, opts, err := tasks.NewWelcomeEmailTask(models.WelcomeEmailPayload{
		UserID: data.UserID,
		Email:  data.Email,
		Name:   data.Name,
	})
	if err != nil {
		return err
	}
	// An enqueue failure is returned so the bus redelivers the event; the
	// dedup marker is only written after success.
	return p.Jobs.Enqueue(task, opts...)
}

// HandleBookingEvent schedules booking lifecycle emails for terminal events.
func (p *EmailProcessor) HandleBookingEvent(ctx context.Context, env events.Envelope) error {
	var emailType string
	switch env.Type {
	case events.TypeBookingConfirmed:
		emailType = "confirmation"
	case events.TypeBookingCancelled:
		emailType = "cancellation"
	case events.TypeBookingFailed:
		emailType = "failure"
	default:
		return nil
	}

	var data events.BookingStatusData
	if err := env.Decode(&data); err != nil {
		utils.GetLogger().Warn("email: undecodable booking status event", zap.Error(err))
		return nil
	}

	task, opts, err := tasks.NewBookingEmailTask(models.BookingEmailPayload{
		BookingID:     data.BookingID,
		UserID:        data.UserID,
		EmailType:     emailType,
		TotalPrice:    data.TotalPrice,
		FailureReason: data.FailureReason,
	})
	if err != nil {
		return err
	}
	if err := p.Jobs.Enqueue(task, opts...); err != nil {
		return err
	}

	if env.Type == events.TypeBookingConfirmed {
		return p.scheduleReminders(data)
	}
	return nil
}

// scheduleReminders enqueues the delayed pickup reminders for a confirmed
// booking. Each reminder kind carries its own dispatch delay.
func (p *EmailProcessor) scheduleReminders(data events.BookingStatusData) error {
	for _, kind := range []string{tasks.Reminder24hBefore, tasks.Reminder1hBefore} {
		task, opts, err := tasks.NewReminderEmailTask(models.ReminderEmailPayload{
			BookingID:    data.BookingID,
			UserID:       data.UserID,
			ReminderType: kind,
		})
		if err != nil {
			return err
		}
		if err := p.Jobs.Enqueue(task, opts...); err != nil {
			return err
		}
	}
	return nil
}
