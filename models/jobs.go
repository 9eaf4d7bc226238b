package models

// WelcomeEmailPayload is the job payload for welcome emails sent after
// user registration.
type WelcomeEmailPayload struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// BookingEmailPayload is the job payload for booking lifecycle emails.
// EmailType is one of "confirmation", "cancellation" or "failure".
type BookingEmailPayload struct {
	BookingID     string  `json:"bookingId"`
	UserID        string  `json:"userId"`
	EmailType     string  `json:"emailType"`
	TotalPrice    float64 `json:"totalPrice,omitempty"`
	FailureReason string  `json:"failureReason,omitempty"`
}

// ReminderEmailPayload is the job payload for delayed booking reminders.
// ReminderType selects the dispatch delay when the job is enqueued.
type ReminderEmailPayload struct {
	BookingID    string `json:"bookingId"`
	UserID       string `json:"userId"`
	ReminderType string `json:"reminderType"`
}

// NotificationEmailPayload is the job payload for ad-hoc email sends
// requested over the notification exchange.
type NotificationEmailPayload struct {
	UserID  string `json:"userId"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
