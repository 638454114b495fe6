package models

import (
	"time"
)

// BookingStatus represents the lifecycle status of a booking.
// Matches PostgreSQL ENUM: booking_status
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// BookingPaymentStatus represents the payment axis of a booking,
// tracked independently of BookingStatus.
// Matches PostgreSQL ENUM: booking_payment_status
type BookingPaymentStatus string

const (
	BookingPaymentPending BookingPaymentStatus = "pending"
	BookingPaymentPaid    BookingPaymentStatus = "paid"
	BookingPaymentFailed  BookingPaymentStatus = "failed"
)

// Booking represents a reservation of a property for a half-open
// date interval [check_in, check_out). TotalPrice is fixed at creation
// and never recomputed, even if the property price changes later.
type Booking struct {
	ID               string               `json:"id" db:"id"`
	UserID           string               `json:"user_id" db:"user_id"`
	PropertyID       string               `json:"property_id" db:"property_id"`
	PropertyName     string               `json:"property_name" db:"property_name"`
	CheckIn          time.Time            `json:"check_in" db:"check_in"`
	CheckOut         time.Time            `json:"check_out" db:"check_out"`
	TotalPrice       float64              `json:"total_price" db:"total_price"`
	Status           BookingStatus        `json:"status" db:"status"`
	PaymentStatus    BookingPaymentStatus `json:"payment_status" db:"payment_status"`
	PaymentSessionID *string              `json:"payment_session_id,omitempty" db:"payment_session_id"`
	CreatedAt        time.Time            `json:"created_at" db:"created_at"`
}

// Nights returns the number of nights covered by the booking
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

// CreateBookingRequest is the payload for POST /bookings.
// Dates accept "2006-01-02" or RFC 3339.
type CreateBookingRequest struct {
	PropertyID string `json:"property_id" binding:"required"`
	CheckIn    string `json:"check_in" binding:"required"`
	CheckOut   string `json:"check_out" binding:"required"`
}

// AvailabilityResponse is returned by the availability check endpoint
type AvailabilityResponse struct {
	Available bool `json:"available"`
}
