// Package checkout wraps the hosted payment provider API. The backend
// creates hosted checkout sessions, polls their status, and verifies
// signed webhook notifications; card data never touches this service.
package checkout

import (
	"errors"
)

// Session statuses reported by the provider
const (
	SessionStatusOpen     = "open"
	SessionStatusComplete = "complete"
	SessionStatusExpired  = "expired"
)

// Payment statuses reported by the provider
const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

// Webhook event types the backend acts on. Any other event type is
// acknowledged and ignored.
const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
	EventPaymentIntentSucceeded   = "payment_intent.succeeded"
)

// ErrInvalidSignature is returned when webhook signature verification fails
var ErrInvalidSignature = errors.New("checkout: invalid webhook signature")

// SessionRequest describes a hosted checkout session to create
type SessionRequest struct {
	AmountCents int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Description string            `json:"description"`
	SuccessURL  string            `json:"success_url"`
	CancelURL   string            `json:"cancel_url"`
	Metadata    map[string]string `json:"metadata"`
}

// Session is a created hosted checkout session
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// SessionStatus is the provider's view of a session
type SessionStatus struct {
	ID            string            `json:"id"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	Metadata      map[string]string `json:"metadata"`
}

// WebhookEvent is a verified webhook notification
type WebhookEvent struct {
	ID      string        `json:"id"`
	Type    string        `json:"type"`
	Session SessionStatus `json:"data"`
}

// Gateway is the payment provider client surface. Implementations must be
// safe for concurrent use.
type Gateway interface {
	// CreateSession creates a hosted checkout session
	CreateSession(req SessionRequest) (*Session, error)

	// GetSessionStatus fetches the current status of a session
	GetSessionStatus(sessionID string) (*SessionStatus, error)

	// VerifyWebhook checks the signature header against the raw payload
	// and returns the decoded event. Returns ErrInvalidSignature when the
	// signature does not match.
	VerifyWebhook(payload []byte, signatureHeader string) (*WebhookEvent, error)
}
