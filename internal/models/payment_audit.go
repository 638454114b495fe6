package models

import (
	"time"
)

// PaymentEventType represents the type of payment event
type PaymentEventType string

const (
	PaymentEventCheckoutInitiated PaymentEventType = "checkout_initiated"
	PaymentEventStatusChecked     PaymentEventType = "status_checked"
	PaymentEventWebhookReceived   PaymentEventType = "webhook_received"
	PaymentEventSuccess           PaymentEventType = "payment_success"
	PaymentEventFailed            PaymentEventType = "payment_failed"
	PaymentEventBookingConfirmed  PaymentEventType = "booking_confirmed"
)

// PaymentEventSource identifies where the event originated
type PaymentEventSource string

const (
	PaymentSourceBackend  PaymentEventSource = "backend"
	PaymentSourceWebhook  PaymentEventSource = "provider_webhook"
	PaymentSourceProvider PaymentEventSource = "provider_api"
)

// PaymentAudit is an immutable audit log entry for payment events.
// Rows are append-only; nothing in the system updates or deletes them.
type PaymentAudit struct {
	ID          string             `json:"id" db:"id"`
	BookingID   *string            `json:"booking_id,omitempty" db:"booking_id"`
	SessionID   *string            `json:"session_id,omitempty" db:"session_id"`
	EventType   PaymentEventType   `json:"event_type" db:"event_type"`
	EventSource PaymentEventSource `json:"event_source" db:"event_source"`
	Amount      *float64           `json:"amount,omitempty" db:"amount"`
	Currency    *string            `json:"currency,omitempty" db:"currency"`
	Detail      *string            `json:"detail,omitempty" db:"detail"`
	CreatedAt   time.Time          `json:"created_at" db:"created_at"`
}
