package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayhub/booking-backend/internal/models"
)

type bookingFixture struct {
	svc        *BookingService
	bookings   *memBookingStore
	properties *memPropertyStore
	users      *memUserStore
	notifier   *countingNotifier
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	bookings := newMemBookingStore()
	properties := newMemPropertyStore()
	users := newMemUserStore()
	notifier := &countingNotifier{}
	logger := testLogger()

	properties.Create(&models.Property{
		ID:            "prop-1",
		Name:          "Seaside Villa",
		PricePerNight: 100,
		OwnerID:       "owner-1",
	})
	users.Create(&models.User{
		ID:    "user-1",
		Name:  "Ann",
		Email: "ann@example.com",
		Role:  models.RoleUser,
	})

	availability := NewAvailabilityService(bookings, logger)
	svc := NewBookingService(bookings, properties, users, availability, notifier, logger)

	return &bookingFixture{
		svc:        svc,
		bookings:   bookings,
		properties: properties,
		users:      users,
		notifier:   notifier,
	}
}

func TestBookingService_Create(t *testing.T) {
	t.Run("three nights at 100 per night costs 300", func(t *testing.T) {
		f := newBookingFixture(t)

		booking, err := f.svc.Create("user-1", &models.CreateBookingRequest{
			PropertyID: "prop-1",
			CheckIn:    "2026-09-01",
			CheckOut:   "2026-09-04",
		})
		require.NoError(t, err)
		assert.Equal(t, 300.0, booking.TotalPrice)
		assert.Equal(t, 3, booking.Nights())
		assert.Equal(t, models.BookingPending, booking.Status)
		assert.Equal(t, models.BookingPaymentPending, booking.PaymentStatus)
		assert.Equal(t, "Seaside Villa", booking.PropertyName)
	})

	t.Run("total price is frozen against later price changes", func(t *testing.T) {
		f := newBookingFixture(t)

		booking, err := f.svc.Create("user-1", &models.CreateBookingRequest{
			PropertyID: "prop-1",
			CheckIn:    "2026-09-01",
			CheckOut:   "2026-09-04",
		})
		require.NoError(t, err)

		newPrice := 999.0
		f.properties.Update("prop-1", &models.UpdatePropertyRequest{PricePerNight: &newPrice})

		stored, err := f.bookings.GetByID(booking.ID)
		require.NoError(t, err)
		assert.Equal(t, 300.0, stored.TotalPrice)
	})

	t.Run("unknown property", func(t *testing.T) {
		f := newBookingFixture(t)

		_, err := f.svc.Create("user-1", &models.CreateBookingRequest{
			PropertyID: "missing",
			CheckIn:    "2026-09-01",
			CheckOut:   "2026-09-04",
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("checkout before checkin", func(t *testing.T) {
		f := newBookingFixture(t)

		_, err := f.svc.Create("user-1", &models.CreateBookingRequest{
			PropertyID: "prop-1",
			CheckIn:    "2026-09-04",
			CheckOut:   "2026-09-01",
		})
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("zero nights", func(t *testing.T) {
		f := newBookingFixture(t)

		_, err := f.svc.Create("user-1", &models.CreateBookingRequest{
			PropertyID: "prop-1",
			CheckIn:    "2026-09-01",
			CheckOut:   "2026-09-01",
		})
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("unparseable date", func(t *testing.T) {
		f := newBookingFixture(t)

		_, err := f.svc.Create("user-1", &models.CreateBookingRequest{
			PropertyID: "prop-1",
			CheckIn:    "next tuesday",
			CheckOut:   "2026-09-04",
		})
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("rfc3339 dates are accepted", func(t *testing.T) {
		f := newBookingFixture(t)

		booking, err := f.svc.Create("user-1", &models.CreateBookingRequest{
			PropertyID: "prop-1",
			CheckIn:    "2026-09-01T00:00:00Z",
			CheckOut:   "2026-09-04T00:00:00Z",
		})
		require.NoError(t, err)
		assert.Equal(t, 300.0, booking.TotalPrice)
	})

	t.Run("confirmed overlap blocks creation", func(t *testing.T) {
		f := newBookingFixture(t)
		f.bookings.Create(&models.Booking{
			PropertyID: "prop-1",
			CheckIn:    day(2),
			CheckOut:   day(6),
			Status:     models.BookingConfirmed,
		})

		_, err := f.svc.Create("user-1", &models.CreateBookingRequest{
			PropertyID: "prop-1",
			CheckIn:    "2026-09-01",
			CheckOut:   "2026-09-04",
		})
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("pending overlap does not block creation", func(t *testing.T) {
		f := newBookingFixture(t)
		f.bookings.Create(&models.Booking{
			PropertyID: "prop-1",
			CheckIn:    day(2),
			CheckOut:   day(6),
			Status:     models.BookingPending,
		})

		_, err := f.svc.Create("user-1", &models.CreateBookingRequest{
			PropertyID: "prop-1",
			CheckIn:    "2026-09-01",
			CheckOut:   "2026-09-04",
		})
		assert.NoError(t, err)
	})
}

func TestBookingService_Cancel(t *testing.T) {
	createBooking := func(t *testing.T, f *bookingFixture) *models.Booking {
		t.Helper()
		booking, err := f.svc.Create("user-1", &models.CreateBookingRequest{
			PropertyID: "prop-1",
			CheckIn:    "2026-09-01",
			CheckOut:   "2026-09-04",
		})
		require.NoError(t, err)
		return booking
	}

	t.Run("owner can cancel", func(t *testing.T) {
		f := newBookingFixture(t)
		booking := createBooking(t, f)

		cancelled, err := f.svc.Cancel(booking.ID, "user-1", false)
		require.NoError(t, err)
		assert.Equal(t, models.BookingCancelled, cancelled.Status)
		assert.Equal(t, 1, f.notifier.sentCount())
	})

	t.Run("admin can cancel someone else's booking", func(t *testing.T) {
		f := newBookingFixture(t)
		booking := createBooking(t, f)

		_, err := f.svc.Cancel(booking.ID, "admin-1", true)
		assert.NoError(t, err)
	})

	t.Run("stranger cannot cancel", func(t *testing.T) {
		f := newBookingFixture(t)
		booking := createBooking(t, f)

		_, err := f.svc.Cancel(booking.ID, "user-2", false)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newBookingFixture(t)

		_, err := f.svc.Cancel("missing", "user-1", false)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("cancelling a paid booking keeps its payment record", func(t *testing.T) {
		f := newBookingFixture(t)
		booking := createBooking(t, f)

		sessionID := "cs_test_123"
		f.bookings.SetPaymentSession(booking.ID, sessionID)
		f.bookings.ConfirmIfNotConfirmed(booking.ID)

		cancelled, err := f.svc.Cancel(booking.ID, "user-1", false)
		require.NoError(t, err)
		assert.Equal(t, models.BookingCancelled, cancelled.Status)
		assert.Equal(t, models.BookingPaymentPaid, cancelled.PaymentStatus,
			"cancellation flips lifecycle status only")
		require.NotNil(t, cancelled.PaymentSessionID)
		assert.Equal(t, sessionID, *cancelled.PaymentSessionID)
	})
}
