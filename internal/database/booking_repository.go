package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stayhub/booking-backend/internal/models"
)

// BookingRepository handles booking data operations
type BookingRepository struct {
	db DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, user_id, property_id, property_name, check_in, check_out,
		total_price, status, payment_status, payment_session_id, created_at`

// Create inserts a new booking record
func (r *BookingRepository) Create(booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO bookings (id, user_id, property_id, property_name, check_in,
			check_out, total_price, status, payment_status, payment_session_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(query,
		booking.ID, booking.UserID, booking.PropertyID, booking.PropertyName,
		booking.CheckIn, booking.CheckOut, booking.TotalPrice,
		booking.Status, booking.PaymentStatus, booking.PaymentSessionID,
		booking.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

// GetByID retrieves a booking by id. Returns (nil, nil) when no row matches.
func (r *BookingRepository) GetByID(id string) (*models.Booking, error) {
	var booking models.Booking
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE id = $1`, bookingColumns)

	err := r.db.Get(&booking, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking by id: %w", err)
	}

	return &booking, nil
}

// GetByUserID retrieves all bookings belonging to a user, newest first
func (r *BookingRepository) GetByUserID(userID string) ([]models.Booking, error) {
	bookings := []models.Booking{}
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`, bookingColumns)

	if err := r.db.Select(&bookings, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get bookings by user: %w", err)
	}

	return bookings, nil
}

// GetAll retrieves every booking, newest first
func (r *BookingRepository) GetAll() ([]models.Booking, error) {
	bookings := []models.Booking{}
	query := fmt.Sprintf(`SELECT %s FROM bookings ORDER BY created_at DESC`, bookingColumns)

	if err := r.db.Select(&bookings, query); err != nil {
		return nil, fmt.Errorf("failed to get all bookings: %w", err)
	}

	return bookings, nil
}

// CountConfirmedOverlapping counts confirmed bookings for a property whose
// half-open interval [check_in, check_out) overlaps the requested one.
// Two intervals overlap iff existing.check_in < requested.check_out AND
// existing.check_out > requested.check_in. Back-to-back stays where one
// checkout equals the next check-in do not overlap. Only confirmed bookings
// block availability; pending and cancelled bookings are ignored.
func (r *BookingRepository) CountConfirmedOverlapping(propertyID string, checkIn, checkOut time.Time) (int, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM bookings
		WHERE property_id = $1
		  AND status = 'confirmed'
		  AND check_in < $3
		  AND check_out > $2`

	if err := r.db.Get(&count, query, propertyID, checkIn, checkOut); err != nil {
		return 0, fmt.Errorf("failed to count overlapping bookings: %w", err)
	}

	return count, nil
}

// SetPaymentSession attaches a checkout session id to a booking
func (r *BookingRepository) SetPaymentSession(bookingID, sessionID string) error {
	query := `UPDATE bookings SET payment_session_id = $1 WHERE id = $2`

	result, err := r.db.Exec(query, sessionID, bookingID)
	if err != nil {
		return fmt.Errorf("failed to set payment session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("booking not found: %s", bookingID)
	}

	return nil
}

// UpdateStatus sets the lifecycle status of a booking. Cancellation flips
// only this column; payment_status and payment_session_id are untouched,
// so a cancelled booking that was paid still shows payment_status=paid.
func (r *BookingRepository) UpdateStatus(bookingID string, status models.BookingStatus) error {
	query := `UPDATE bookings SET status = $1 WHERE id = $2`

	result, err := r.db.Exec(query, status, bookingID)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("booking not found: %s", bookingID)
	}

	return nil
}

// UpdatePaymentStatus sets the payment axis of a booking
func (r *BookingRepository) UpdatePaymentStatus(bookingID string, status models.BookingPaymentStatus) error {
	query := `UPDATE bookings SET payment_status = $1 WHERE id = $2`

	result, err := r.db.Exec(query, status, bookingID)
	if err != nil {
		return fmt.Errorf("failed to update booking payment status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("booking not found: %s", bookingID)
	}

	return nil
}

// ConfirmIfNotConfirmed atomically promotes a booking to confirmed/paid and
// reports whether this call performed the transition. A single UPDATE guarded
// on the current status makes concurrent confirmations race-safe: exactly one
// caller observes true, every other caller observes false.
func (r *BookingRepository) ConfirmIfNotConfirmed(bookingID string) (bool, error) {
	query := `
		UPDATE bookings
		SET status = 'confirmed', payment_status = 'paid'
		WHERE id = $1 AND status != 'confirmed'`

	result, err := r.db.Exec(query, bookingID)
	if err != nil {
		return false, fmt.Errorf("failed to confirm booking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}

// HasConfirmedBooking reports whether a user holds at least one confirmed
// booking for a property. Used to gate review creation.
func (r *BookingRepository) HasConfirmedBooking(userID, propertyID string) (bool, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM bookings
		WHERE user_id = $1 AND property_id = $2 AND status = 'confirmed'`

	if err := r.db.Get(&count, query, userID, propertyID); err != nil {
		return false, fmt.Errorf("failed to check confirmed booking: %w", err)
	}

	return count > 0, nil
}
