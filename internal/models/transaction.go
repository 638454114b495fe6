package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// TransactionStatus represents the payment status of a checkout session.
// Matches PostgreSQL ENUM: transaction_status
type TransactionStatus string

const (
	TransactionPending TransactionStatus = "pending"
	TransactionPaid    TransactionStatus = "paid"
	TransactionFailed  TransactionStatus = "failed"
	TransactionExpired TransactionStatus = "expired"
)

// IsTerminal reports whether the status is final. Terminal transactions
// are immutable; status checks short-circuit on them without contacting
// the payment provider again.
func (s TransactionStatus) IsTerminal() bool {
	switch s {
	case TransactionPaid, TransactionFailed, TransactionExpired:
		return true
	}
	return false
}

// TransactionMetadata is a free-form string map stored as JSONB. It must
// always carry the booking id: metadata is the only mechanism that resolves
// a checkout session back to a booking during webhook handling.
type TransactionMetadata map[string]string

// MetadataKeyBookingID is the metadata key carrying the booking reference
const (
	MetadataKeyBookingID  = "booking_id"
	MetadataKeyUserID     = "user_id"
	MetadataKeyPropertyID = "property_id"
)

// Value implements driver.Valuer for JSONB storage
func (m TransactionMetadata) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB storage
func (m *TransactionMetadata) Scan(src interface{}) error {
	if src == nil {
		*m = TransactionMetadata{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return errors.New("transaction metadata: expected []byte from database")
	}
	return json.Unmarshal(b, m)
}

// PaymentTransaction records one checkout session. Created exactly once in
// pending state when the session is created, mutated exactly once when an
// external status check first reports a terminal state, immutable after.
type PaymentTransaction struct {
	ID        string              `json:"id" db:"id"`
	BookingID string              `json:"booking_id" db:"booking_id"`
	UserID    string              `json:"user_id" db:"user_id"`
	SessionID string              `json:"session_id" db:"session_id"`
	Amount    float64             `json:"amount" db:"amount"`
	Currency  string              `json:"currency" db:"currency"`
	Status    TransactionStatus   `json:"payment_status" db:"payment_status"`
	Metadata  TransactionMetadata `json:"metadata" db:"metadata"`
	CreatedAt time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt time.Time           `json:"updated_at" db:"updated_at"`
}

// CreateCheckoutRequest is the payload for POST /payment/checkout/session
type CreateCheckoutRequest struct {
	BookingID string `json:"booking_id" binding:"required"`
	OriginURL string `json:"origin_url" binding:"required,url"`
}

// CheckoutSessionResponse is returned after a checkout session is created
type CheckoutSessionResponse struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}

// CheckoutStatusResponse is returned by GET /payment/checkout/status/:session_id
type CheckoutStatusResponse struct {
	Status        string              `json:"status"`
	PaymentStatus TransactionStatus   `json:"payment_status"`
	AmountTotal   int64               `json:"amount_total"`
	Currency      string              `json:"currency"`
	Metadata      TransactionMetadata `json:"metadata"`
}
