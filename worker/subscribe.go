package worker

import (
	"github.com/rajkumarpatel02/car-rental-backend/events"
	"github.com/rajkumarpatel02/car-rental-backend/messaging"
)

// SetupEventHandlers binds each reactor's queues to the exchanges it reacts
// to. Every handler is independently wrapped for idempotence; the reactors
// on the same exchange each get their own copy of every message.
func SetupEventHandlers(bus messaging.Bus, dedup *messaging.Dedup, notif *NotificationProcessor, email *EmailProcessor) error {
	subscriptions := []struct {
		exchange string
		queue    string
		handler  messaging.Handler
	}{
		{events.ExchangeBooking, "notification_processor", notif.HandleBookingEvent},
		{events.ExchangeCar, "notification_processor_car", notif.HandleCarEvent},
		{events.ExchangeNotification, "email_processor", email.HandleNotificationEvent},
		{events.ExchangeUser, "email_processor_user", email.HandleUserEvent},
		{events.ExchangeBooking, "email_processor_booking", email.HandleBookingEvent},
	}

	for _, sub := range subscriptions {
		if err := bus.Subscribe(sub.exchange, sub.queue, dedup.Wrap(sub.queue, sub.handler)); err != nil {
			return err
		}
	}
	return nil
}
