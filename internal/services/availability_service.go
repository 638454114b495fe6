package services

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Overlaps reports whether two half-open date intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Because intervals are half-open, a stay ending
// on the day another begins does not overlap: a checkout morning and a
// check-in afternoon share the calendar date but not a night.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// AvailabilityService answers whether a property can be booked for a range
type AvailabilityService struct {
	bookings BookingStore
	logger   *logrus.Logger
}

// NewAvailabilityService creates a new availability service
func NewAvailabilityService(bookings BookingStore, logger *logrus.Logger) *AvailabilityService {
	return &AvailabilityService{bookings: bookings, logger: logger}
}

// IsAvailable reports whether the property has no confirmed booking
// overlapping [checkIn, checkOut). Pending bookings never block: holding an
// unpaid reservation must not take dates off the market, so two users can
// both reach checkout for the same range and the slower payment loses at
// confirmation time.
func (s *AvailabilityService) IsAvailable(propertyID string, checkIn, checkOut time.Time) (bool, error) {
	if !checkIn.Before(checkOut) {
		return false, ErrInvalidRange
	}

	count, err := s.bookings.CountConfirmedOverlapping(propertyID, checkIn, checkOut)
	if err != nil {
		return false, err
	}

	return count == 0, nil
}
