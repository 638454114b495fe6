package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stayhub/booking-backend/internal/models"
)

// PaymentAuditRepository handles the append-only payment audit trail.
// There are deliberately no update or delete methods.
type PaymentAuditRepository struct {
	db DB
}

// NewPaymentAuditRepository creates a new payment audit repository
func NewPaymentAuditRepository(db DB) *PaymentAuditRepository {
	return &PaymentAuditRepository{db: db}
}

// Insert appends a payment audit record
func (r *PaymentAuditRepository) Insert(audit *models.PaymentAudit) error {
	if audit.ID == "" {
		audit.ID = uuid.New().String()
	}
	if audit.CreatedAt.IsZero() {
		audit.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO payment_audit (id, booking_id, session_id, event_type,
			event_source, amount, currency, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(query,
		audit.ID, audit.BookingID, audit.SessionID, audit.EventType,
		audit.EventSource, audit.Amount, audit.Currency, audit.Detail,
		audit.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert payment audit: %w", err)
	}

	return nil
}

// ListByBooking retrieves the audit trail for a booking, oldest first
func (r *PaymentAuditRepository) ListByBooking(bookingID string) ([]models.PaymentAudit, error) {
	audits := []models.PaymentAudit{}
	query := `
		SELECT id, booking_id, session_id, event_type, event_source,
			amount, currency, detail, created_at
		FROM payment_audit
		WHERE booking_id = $1
		ORDER BY created_at ASC`

	if err := r.db.Select(&audits, query, bookingID); err != nil {
		return nil, fmt.Errorf("failed to list payment audit: %w", err)
	}

	return audits, nil
}
