package car

import (
	"github.com/rajkumarpatel02/car-rental-backend/events"
	"github.com/rajkumarpatel02/car-rental-backend/messaging"
)

// SetupEventHandlers binds the car service's queue to the booking exchange
// so it can answer availability requests.
func SetupEventHandlers(bus messaging.Bus, dedup *messaging.Dedup, svc CarService) error {
	const queue = "car_service_bookings"
	return bus.Subscribe(
		events.ExchangeBooking,
		queue,
		dedup.Wrap(queue, svc.HandleAvailabilityRequest),
	)
}
