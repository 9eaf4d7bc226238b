package models

import "time"

// Booking statuses. A booking starts out pending and advances through the
// availability saga; confirmed, cancelled and failed are terminal.
const (
	BookingStatusPending   = "pending"
	BookingStatusAvailable = "available"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusFailed    = "failed"
)

// Booking represents a car rental booking record.
type Booking struct {
	ID            string    `bson:"id" json:"id"`
	UserID        string    `bson:"user_id" json:"userId"`
	CarID         string    `bson:"car_id" json:"carId"`
	StartDate     time.Time `bson:"start_date" json:"startDate"`
	EndDate       time.Time `bson:"end_date" json:"endDate"`
	TotalPrice    float64   `bson:"total_price" json:"totalPrice"`
	Status        string    `bson:"status" json:"status"`
	FailureReason string    `bson:"failure_reason,omitempty" json:"failureReason,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updatedAt"`
}

// IsTerminal reports whether the booking has reached a final saga state.
// Terminal bookings must never be overwritten by late or duplicate events.
func (b *Booking) IsTerminal() bool {
	switch b.Status {
	case BookingStatusConfirmed, BookingStatusCancelled, BookingStatusFailed:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from the booking's current status
// to next is a legal saga transition.
func (b *Booking) CanTransitionTo(next string) bool {
	if b.IsTerminal() {
		return false
	}
	switch b.Status {
	case BookingStatusPending:
		switch next {
		case BookingStatusAvailable, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusFailed:
			return true
		}
	case BookingStatusAvailable:
		switch next {
		case BookingStatusConfirmed, BookingStatusCancelled, BookingStatusFailed:
			return true
		}
	}
	return false
}
