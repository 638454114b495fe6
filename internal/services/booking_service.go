package services

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stayhub/booking-backend/internal/models"
	"github.com/stayhub/booking-backend/pkg/mailer"
)

// BookingService owns the booking lifecycle. Bookings are created pending
// and only the payment flow promotes them to confirmed.
type BookingService struct {
	bookings     BookingStore
	properties   PropertyStore
	users        UserStore
	availability *AvailabilityService
	notifier     mailer.Notifier
	logger       *logrus.Logger
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookings BookingStore,
	properties PropertyStore,
	users UserStore,
	availability *AvailabilityService,
	notifier mailer.Notifier,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		bookings:     bookings,
		properties:   properties,
		users:        users,
		availability: availability,
		notifier:     notifier,
		logger:       logger,
	}
}

// ParseDate parses a booking date in "2006-01-02" or RFC 3339 form
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unparseable date: %q", value)
}

// Create validates and persists a new pending booking. The total price is
// nights x the property's current nightly price, frozen at creation; later
// price changes never touch existing bookings.
func (s *BookingService) Create(userID string, req *models.CreateBookingRequest) (*models.Booking, error) {
	property, err := s.properties.GetByID(req.PropertyID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, fmt.Errorf("property %s: %w", req.PropertyID, ErrNotFound)
	}

	checkIn, err := ParseDate(req.CheckIn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	checkOut, err := ParseDate(req.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}

	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	if nights <= 0 {
		return nil, ErrInvalidRange
	}

	available, err := s.availability.IsAvailable(property.ID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, ErrUnavailable
	}

	booking := &models.Booking{
		UserID:        userID,
		PropertyID:    property.ID,
		PropertyName:  property.Name,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		TotalPrice:    float64(nights) * property.PricePerNight,
		Status:        models.BookingPending,
		PaymentStatus: models.BookingPaymentPending,
	}

	if err := s.bookings.Create(booking); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":  booking.ID,
		"property_id": property.ID,
		"user_id":     userID,
		"nights":      nights,
		"total_price": booking.TotalPrice,
	}).Info("Booking created")

	return booking, nil
}

// GetByID retrieves a booking. Only the owner or an admin may read it.
func (s *BookingService) GetByID(bookingID, userID string, isAdmin bool) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
	}
	if booking.UserID != userID && !isAdmin {
		return nil, ErrForbidden
	}

	return booking, nil
}

// ListForUser retrieves the caller's bookings
func (s *BookingService) ListForUser(userID string) ([]models.Booking, error) {
	return s.bookings.GetByUserID(userID)
}

// ListAll retrieves every booking. Callers must enforce admin access.
func (s *BookingService) ListAll() ([]models.Booking, error) {
	return s.bookings.GetAll()
}

// Cancel marks a booking cancelled. Cancellation flips the lifecycle status
// only: the payment axis and any attached checkout session are preserved so
// a paid-then-cancelled booking still shows its payment history. Refunds
// are handled out of band.
func (s *BookingService) Cancel(bookingID, userID string, isAdmin bool) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
	}
	if booking.UserID != userID && !isAdmin {
		return nil, ErrForbidden
	}

	if err := s.bookings.UpdateStatus(bookingID, models.BookingCancelled); err != nil {
		return nil, err
	}
	booking.Status = models.BookingCancelled

	s.logger.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"user_id":    userID,
	}).Info("Booking cancelled")

	s.sendCancellationEmail(booking)

	return booking, nil
}

// CheckAvailability answers the public availability query for a property
func (s *BookingService) CheckAvailability(propertyID, checkInStr, checkOutStr string) (bool, error) {
	property, err := s.properties.GetByID(propertyID)
	if err != nil {
		return false, err
	}
	if property == nil {
		return false, fmt.Errorf("property %s: %w", propertyID, ErrNotFound)
	}

	checkIn, err := ParseDate(checkInStr)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	checkOut, err := ParseDate(checkOutStr)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}

	return s.availability.IsAvailable(propertyID, checkIn, checkOut)
}

func (s *BookingService) sendCancellationEmail(booking *models.Booking) {
	user, err := s.users.GetByID(booking.UserID)
	if err != nil || user == nil {
		s.logger.WithField("booking_id", booking.ID).Warn("Skipping cancellation email, user lookup failed")
		return
	}

	subject := fmt.Sprintf("Booking cancelled: %s", booking.PropertyName)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour booking of %s (%s to %s) has been cancelled.\n\nStayHub",
		user.Name, booking.PropertyName,
		booking.CheckIn.Format("2006-01-02"), booking.CheckOut.Format("2006-01-02"))

	if err := s.notifier.Send(user.Email, subject, body); err != nil {
		s.logger.WithError(err).WithField("booking_id", booking.ID).Warn("Failed to send cancellation email")
	}
}
