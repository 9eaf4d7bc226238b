// Package events defines the envelope and topic taxonomy shared by every
// service on the bus. The payload shape of a message is determined solely by
// its Type; consumers treat unknown types as a no-op so new topics can be
// added without breaking old consumers.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rajkumarpatel02/car-rental-backend/models"
)

// Fanout exchanges. Every queue bound to an exchange receives a copy of
// every message published to it.
const (
	ExchangeBooking      = "booking_events"
	ExchangeCar          = "car_events"
	ExchangeUser         = "user_events"
	ExchangeNotification = "notification_events"
)

// Event types. The taxonomy is closed: publishers must use one of these.
const (
	TypeBookingCreated        = "booking.created"
	TypeBookingConfirmed      = "booking.confirmed"
	TypeBookingCancelled      = "booking.cancelled"
	TypeBookingFailed         = "booking.failed"
	TypeCarAvailabilityResult = "car.availability_result"
	TypeCarUpdated            = "car.updated"
	TypeUserCreated           = "user.created"
	TypeNotificationSend      = "notification.send"
)

// Envelope is the wire shape of every bus message.
type Envelope struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewEnvelope wraps a payload in an envelope stamped with the current time.
func NewEnvelope(eventType string, payload any) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Envelope{Type: eventType, Data: data, Timestamp: time.Now()}, nil
}

// Decode unmarshals the envelope payload into v.
func (e Envelope) Decode(v any) error {
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return nil
}

// BookingCreatedData is the payload of booking.created, the availability
// request of the booking saga.
type BookingCreatedData struct {
	BookingID string    `json:"bookingId"`
	CarID     string    `json:"carId"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	UserID    string    `json:"userId"`
}

// AvailabilityResultData is the payload of car.availability_result. Exactly
// one result is published per availability request, success or not.
type AvailabilityResultData struct {
	BookingID     string             `json:"bookingId"`
	IsAvailable   bool               `json:"isAvailable"`
	TotalPrice    float64            `json:"totalPrice,omitempty"`
	CarData       *models.CarSummary `json:"carData,omitempty"`
	FailureReason string             `json:"failureReason,omitempty"`
}

// BookingStatusData is the payload of the terminal booking events
// (booking.confirmed, booking.cancelled, booking.failed).
type BookingStatusData struct {
	BookingID     string  `json:"bookingId"`
	UserID        string  `json:"userId,omitempty"`
	Status        string  `json:"status"`
	TotalPrice    float64 `json:"totalPrice,omitempty"`
	FailureReason string  `json:"failureReason,omitempty"`
}

// CarUpdatedData is the payload of car.updated.
type CarUpdatedData struct {
	CarID string `json:"carId"`
}

// UserCreatedData is the payload of user.created.
type UserCreatedData struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// NotificationSendData is the payload of notification.send.
type NotificationSendData struct {
	UserID  string `json:"userId"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// naturalKey is the minimal projection used to derive a message's logical
// identity. Broker-assigned delivery ids are useless for deduplication:
// redelivery after a crash produces a new delivery id for the same event.
type naturalKey struct {
	BookingID string `json:"bookingId"`
	CarID     string `json:"carId"`
	UserID    string `json:"userId"`
}

// LogicalKey returns the deduplication identity of the envelope, derived
// from (type, natural key within data). Falls back to the timestamp when the
// payload carries no recognizable key.
func (e Envelope) LogicalKey() string {
	var k naturalKey
	_ = json.Unmarshal(e.Data, &k)

	switch {
	case k.BookingID != "":
		return fmt.Sprintf("%s-%s", e.Type, k.BookingID)
	case k.CarID != "":
		return fmt.Sprintf("%s-%s", e.Type, k.CarID)
	case k.UserID != "":
		return fmt.Sprintf("%s-%s", e.Type, k.UserID)
	}
	return fmt.Sprintf("%s-%d", e.Type, e.Timestamp.UnixNano())
}
