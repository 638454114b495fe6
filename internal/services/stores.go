package services

import (
	"time"

	"github.com/stayhub/booking-backend/internal/models"
)

// The service layer depends on narrow store interfaces rather than the
// concrete repositories so that business rules can be tested against
// in-memory fakes. The database package satisfies all of these.

// UserStore persists user accounts
type UserStore interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	EmailExists(email string) (bool, error)
}

// PropertyStore persists property listings
type PropertyStore interface {
	Create(property *models.Property) error
	GetByID(id string) (*models.Property, error)
	List(filter models.PropertyFilter) ([]models.Property, error)
	Update(id string, req *models.UpdatePropertyRequest) error
	UpdateRating(id string, rating float64, reviewCount int) error
	Delete(id string) error
}

// BookingStore persists bookings
type BookingStore interface {
	Create(booking *models.Booking) error
	GetByID(id string) (*models.Booking, error)
	GetByUserID(userID string) ([]models.Booking, error)
	GetAll() ([]models.Booking, error)
	CountConfirmedOverlapping(propertyID string, checkIn, checkOut time.Time) (int, error)
	SetPaymentSession(bookingID, sessionID string) error
	UpdateStatus(bookingID string, status models.BookingStatus) error
	UpdatePaymentStatus(bookingID string, status models.BookingPaymentStatus) error
	ConfirmIfNotConfirmed(bookingID string) (bool, error)
	HasConfirmedBooking(userID, propertyID string) (bool, error)
}

// TransactionStore persists payment transactions
type TransactionStore interface {
	Create(tx *models.PaymentTransaction) error
	GetBySessionID(sessionID string) (*models.PaymentTransaction, error)
	GetByBookingID(bookingID string) (*models.PaymentTransaction, error)
	MarkTerminalIfPending(sessionID string, status models.TransactionStatus) (bool, error)
}

// ReviewStore persists reviews
type ReviewStore interface {
	Create(review *models.Review) error
	ListByProperty(propertyID string) ([]models.Review, error)
	ExistsForUser(userID, propertyID string) (bool, error)
	Aggregate(propertyID string) (float64, int, error)
}

// AuditStore appends payment audit records
type AuditStore interface {
	Insert(audit *models.PaymentAudit) error
	ListByBooking(bookingID string) ([]models.PaymentAudit, error)
}
