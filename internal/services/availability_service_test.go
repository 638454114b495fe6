package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayhub/booking-backend/internal/models"
)

func day(d int) time.Time {
	return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		aStart   time.Time
		aEnd     time.Time
		bStart   time.Time
		bEnd     time.Time
		expected bool
	}{
		{"identical ranges", day(1), day(5), day(1), day(5), true},
		{"partial overlap at end", day(1), day(5), day(4), day(8), true},
		{"partial overlap at start", day(4), day(8), day(1), day(5), true},
		{"contained range", day(1), day(10), day(3), day(5), true},
		{"containing range", day(3), day(5), day(1), day(10), true},
		{"back to back, a then b", day(1), day(5), day(5), day(8), false},
		{"back to back, b then a", day(5), day(8), day(1), day(5), false},
		{"disjoint", day(1), day(3), day(7), day(9), false},
		{"single night shared", day(1), day(3), day(2), day(4), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd)
			assert.Equal(t, tt.expected, got)

			// Overlap is symmetric
			assert.Equal(t, tt.expected, Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestAvailabilityService_IsAvailable(t *testing.T) {
	newService := func(t *testing.T) (*AvailabilityService, *memBookingStore) {
		t.Helper()
		store := newMemBookingStore()
		return NewAvailabilityService(store, testLogger()), store
	}

	seedBooking := func(store *memBookingStore, status models.BookingStatus, checkIn, checkOut time.Time) {
		store.Create(&models.Booking{
			UserID:        "other-user",
			PropertyID:    "prop-1",
			CheckIn:       checkIn,
			CheckOut:      checkOut,
			Status:        status,
			PaymentStatus: models.BookingPaymentPending,
		})
	}

	t.Run("empty calendar is available", func(t *testing.T) {
		svc, _ := newService(t)

		available, err := svc.IsAvailable("prop-1", day(1), day(5))
		require.NoError(t, err)
		assert.True(t, available)
	})

	t.Run("confirmed overlapping booking blocks", func(t *testing.T) {
		svc, store := newService(t)
		seedBooking(store, models.BookingConfirmed, day(3), day(7))

		available, err := svc.IsAvailable("prop-1", day(1), day(5))
		require.NoError(t, err)
		assert.False(t, available)
	})

	t.Run("pending overlapping booking does not block", func(t *testing.T) {
		svc, store := newService(t)
		seedBooking(store, models.BookingPending, day(3), day(7))

		available, err := svc.IsAvailable("prop-1", day(1), day(5))
		require.NoError(t, err)
		assert.True(t, available)
	})

	t.Run("cancelled overlapping booking does not block", func(t *testing.T) {
		svc, store := newService(t)
		seedBooking(store, models.BookingCancelled, day(3), day(7))

		available, err := svc.IsAvailable("prop-1", day(1), day(5))
		require.NoError(t, err)
		assert.True(t, available)
	})

	t.Run("back to back with confirmed booking is available", func(t *testing.T) {
		svc, store := newService(t)
		seedBooking(store, models.BookingConfirmed, day(1), day(5))

		available, err := svc.IsAvailable("prop-1", day(5), day(8))
		require.NoError(t, err)
		assert.True(t, available)
	})

	t.Run("other property's confirmed booking does not block", func(t *testing.T) {
		svc, store := newService(t)
		store.Create(&models.Booking{
			PropertyID: "prop-other",
			CheckIn:    day(1),
			CheckOut:   day(10),
			Status:     models.BookingConfirmed,
		})

		available, err := svc.IsAvailable("prop-1", day(1), day(5))
		require.NoError(t, err)
		assert.True(t, available)
	})

	t.Run("inverted range is rejected", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.IsAvailable("prop-1", day(5), day(1))
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("zero-length range is rejected", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.IsAvailable("prop-1", day(5), day(5))
		assert.ErrorIs(t, err, ErrInvalidRange)
	})
}
