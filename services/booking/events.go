package booking

import (
	"github.com/rajkumarpatel02/car-rental-backend/events"
	"github.com/rajkumarpatel02/car-rental-backend/messaging"
)

// SetupEventHandlers binds the booking service's queue to the car exchange
// so availability results flow back into the saga. The handler is wrapped
// for idempotence: results are delivered at least once.
func SetupEventHandlers(bus messaging.Bus, dedup *messaging.Dedup, svc BookingService) error {
	const queue = "booking_service_results"
	return bus.Subscribe(
		events.ExchangeCar,
		queue,
		dedup.Wrap(queue, svc.HandleAvailabilityResult),
	)
}
