package cache

import (
	"fmt"
	"time"
)

// Cache entry lifetimes. Shadows are read-through copies of store state;
// the dedup window bounds how long duplicate deliveries are absorbed.
const (
	BookingTTL      = time.Hour
	UserBookingsTTL = 5 * time.Minute
	AvailabilityTTL = 30 * time.Minute
	ProcessedTTL    = time.Hour
)

// BookingKey is the read-through shadow of a single booking.
func BookingKey(bookingID string) string {
	return fmt.Sprintf("booking:%s", bookingID)
}

// UserBookingsKey is the cached bookings list of one user.
func UserBookingsKey(userID string) string {
	return fmt.Sprintf("user_bookings:%s", userID)
}

// CarKey is the read-through shadow of a single car.
func CarKey(carID string) string {
	return fmt.Sprintf("car:%s", carID)
}

// AvailabilityKey caches a computed availability result per car and date
// range. The entry may legitimately be stale under concurrent bookings.
func AvailabilityKey(carID, dateRange string) string {
	return fmt.Sprintf("car_availability:%s:%s", carID, dateRange)
}

// ProcessedKey marks a logical event as handled by one consumer queue.
// Scoped per queue: fanout delivers a copy of every event to every bound
// queue, so each consumer must see its own first delivery.
func ProcessedKey(queue, logicalKey string) string {
	return fmt.Sprintf("processed:%s:%s", queue, logicalKey)
}

// BookingStatusKey caches the latest terminal status payload per booking
// for the notification reactor. Distinct from BookingKey: that one holds
// the full booking shadow the read path decodes, and the reactor's slimmer
// status payload must not clobber it.
func BookingStatusKey(bookingID string) string {
	return fmt.Sprintf("booking_status:%s", bookingID)
}

// AvailabilityResultKey caches the latest availability outcome per booking
// for the notification reactor.
func AvailabilityResultKey(bookingID string) string {
	return fmt.Sprintf("availability_result:%s", bookingID)
}
