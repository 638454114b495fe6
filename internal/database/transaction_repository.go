package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stayhub/booking-backend/internal/models"
)

// TransactionRepository handles payment transaction data operations
type TransactionRepository struct {
	db DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, booking_id, user_id, session_id, amount, currency,
		payment_status, metadata, created_at, updated_at`

// Create inserts a new transaction record in pending state
func (r *TransactionRepository) Create(tx *models.PaymentTransaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = now
	}
	if tx.UpdatedAt.IsZero() {
		tx.UpdatedAt = now
	}

	query := `
		INSERT INTO payment_transactions (id, booking_id, user_id, session_id,
			amount, currency, payment_status, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(query,
		tx.ID, tx.BookingID, tx.UserID, tx.SessionID,
		tx.Amount, tx.Currency, tx.Status, tx.Metadata,
		tx.CreatedAt, tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// GetBySessionID retrieves a transaction by checkout session id.
// Returns (nil, nil) when no row matches.
func (r *TransactionRepository) GetBySessionID(sessionID string) (*models.PaymentTransaction, error) {
	var tx models.PaymentTransaction
	query := fmt.Sprintf(`SELECT %s FROM payment_transactions WHERE session_id = $1`, transactionColumns)

	err := r.db.Get(&tx, query, sessionID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction by session id: %w", err)
	}

	return &tx, nil
}

// GetByBookingID retrieves the most recent transaction for a booking.
// Returns (nil, nil) when no row matches.
func (r *TransactionRepository) GetByBookingID(bookingID string) (*models.PaymentTransaction, error) {
	var tx models.PaymentTransaction
	query := fmt.Sprintf(`
		SELECT %s FROM payment_transactions
		WHERE booking_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, transactionColumns)

	err := r.db.Get(&tx, query, bookingID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction by booking id: %w", err)
	}

	return &tx, nil
}

// MarkTerminalIfPending atomically moves a pending transaction to a terminal
// status and reports whether this call performed the transition. The status
// guard in the WHERE clause makes the write idempotent under concurrent
// poll-versus-webhook races: a transaction that already reached a terminal
// state is never overwritten, and exactly one caller observes true.
func (r *TransactionRepository) MarkTerminalIfPending(sessionID string, status models.TransactionStatus) (bool, error) {
	if !status.IsTerminal() {
		return false, fmt.Errorf("status %q is not terminal", status)
	}

	query := `
		UPDATE payment_transactions
		SET payment_status = $1, updated_at = $2
		WHERE session_id = $3 AND payment_status = 'pending'`

	result, err := r.db.Exec(query, status, time.Now().UTC(), sessionID)
	if err != nil {
		return false, fmt.Errorf("failed to mark transaction terminal: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}
