package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/stayhub/booking-backend/internal/models"
	"github.com/stayhub/booking-backend/pkg/checkout"
	"github.com/stayhub/booking-backend/pkg/mailer"
)

// PaymentService reconciles checkout sessions against bookings. Terminal
// outcomes can arrive twice, once from the frontend status poll and once
// from the provider webhook, in either order or concurrently. The service
// funnels both paths through applyPaymentResult, whose conditional writes
// guarantee the paid side effects happen at most once per session.
type PaymentService struct {
	bookings     BookingStore
	transactions TransactionStore
	audits       AuditStore
	users        UserStore
	gateway      checkout.Gateway
	notifier     mailer.Notifier
	currency     string
	logger       *logrus.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	bookings BookingStore,
	transactions TransactionStore,
	audits AuditStore,
	users UserStore,
	gateway checkout.Gateway,
	notifier mailer.Notifier,
	currency string,
	logger *logrus.Logger,
) *PaymentService {
	return &PaymentService{
		bookings:     bookings,
		transactions: transactions,
		audits:       audits,
		users:        users,
		gateway:      gateway,
		notifier:     notifier,
		currency:     currency,
		logger:       logger,
	}
}

// InitiateCheckout creates a hosted checkout session for a booking. The
// session carries the booking id in its metadata; that metadata is the only
// way a webhook can later be resolved back to the booking.
func (s *PaymentService) InitiateCheckout(userID string, req *models.CreateCheckoutRequest) (*models.CheckoutSessionResponse, error) {
	booking, err := s.bookings.GetByID(req.BookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", req.BookingID, ErrNotFound)
	}
	if booking.UserID != userID {
		return nil, ErrForbidden
	}
	if booking.Status == models.BookingConfirmed || booking.PaymentStatus == models.BookingPaymentPaid {
		return nil, ErrAlreadyPaid
	}

	origin := strings.TrimRight(req.OriginURL, "/")
	session, err := s.gateway.CreateSession(checkout.SessionRequest{
		AmountCents: int64(math.Round(booking.TotalPrice * 100)),
		Currency:    s.currency,
		Description: fmt.Sprintf("Booking for %s", booking.PropertyName),
		SuccessURL:  origin + "/payment/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   origin + "/payment/cancel",
		Metadata: map[string]string{
			models.MetadataKeyBookingID:  booking.ID,
			models.MetadataKeyUserID:     booking.UserID,
			models.MetadataKeyPropertyID: booking.PropertyID,
		},
	})
	if err != nil {
		return nil, &UpstreamError{Op: "create checkout session", Err: err}
	}

	tx := &models.PaymentTransaction{
		BookingID: booking.ID,
		UserID:    booking.UserID,
		SessionID: session.ID,
		Amount:    booking.TotalPrice,
		Currency:  s.currency,
		Status:    models.TransactionPending,
		Metadata: models.TransactionMetadata{
			models.MetadataKeyBookingID:  booking.ID,
			models.MetadataKeyUserID:     booking.UserID,
			models.MetadataKeyPropertyID: booking.PropertyID,
		},
	}
	if err := s.transactions.Create(tx); err != nil {
		return nil, err
	}

	if err := s.bookings.SetPaymentSession(booking.ID, session.ID); err != nil {
		return nil, err
	}

	s.audit(&models.PaymentAudit{
		BookingID:   &booking.ID,
		SessionID:   &session.ID,
		EventType:   models.PaymentEventCheckoutInitiated,
		EventSource: models.PaymentSourceBackend,
		Amount:      &booking.TotalPrice,
		Currency:    &s.currency,
	})

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"session_id": session.ID,
	}).Info("Checkout initiated")

	return &models.CheckoutSessionResponse{
		URL:       session.URL,
		SessionID: session.ID,
	}, nil
}

// PollStatus reports the current status of a checkout session to its owner.
// Only the user who initiated the checkout may poll it; session ids are not
// capabilities. Once the local transaction is terminal the cached state is
// returned directly and the provider is not contacted again, so a frontend
// can poll indefinitely without generating provider traffic. A non-terminal
// transaction triggers a live provider check, and any terminal outcome it
// reveals is applied through the same idempotent path the webhook uses.
func (s *PaymentService) PollStatus(userID, sessionID string) (*models.CheckoutStatusResponse, error) {
	tx, err := s.transactions.GetBySessionID(sessionID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	if tx.UserID != userID {
		return nil, ErrForbidden
	}

	if tx.Status.IsTerminal() {
		return cachedStatusResponse(tx), nil
	}

	status, err := s.gateway.GetSessionStatus(sessionID)
	if err != nil {
		return nil, &UpstreamError{Op: "check session status", Err: err}
	}

	s.audit(&models.PaymentAudit{
		BookingID:   &tx.BookingID,
		SessionID:   &sessionID,
		EventType:   models.PaymentEventStatusChecked,
		EventSource: models.PaymentSourceProvider,
		Detail:      strPtr(fmt.Sprintf("status=%s payment_status=%s", status.Status, status.PaymentStatus)),
	})

	if outcome, ok := terminalOutcome(status.Status, status.PaymentStatus); ok {
		if err := s.applyPaymentResult(sessionID, outcome, models.PaymentSourceProvider); err != nil {
			return nil, err
		}
	}

	return &models.CheckoutStatusResponse{
		Status:        status.Status,
		PaymentStatus: providerPaymentStatus(status.PaymentStatus),
		AmountTotal:   status.AmountTotal,
		Currency:      status.Currency,
		Metadata:      status.Metadata,
	}, nil
}

// HandleWebhook verifies and processes a provider webhook notification.
// Unknown event types are acknowledged and ignored. A valid payment event
// is applied through the same idempotent path the status poll uses, so a
// webhook that loses the race with a poll is a harmless no-op.
func (s *PaymentService) HandleWebhook(payload []byte, signatureHeader string) error {
	event, err := s.gateway.VerifyWebhook(payload, signatureHeader)
	if err != nil {
		return err
	}

	session := event.Session
	bookingID := session.Metadata[models.MetadataKeyBookingID]

	auditEntry := &models.PaymentAudit{
		SessionID:   &session.ID,
		EventType:   models.PaymentEventWebhookReceived,
		EventSource: models.PaymentSourceWebhook,
		Detail:      strPtr(fmt.Sprintf("type=%s", event.Type)),
	}
	if bookingID != "" {
		auditEntry.BookingID = &bookingID
	}
	s.audit(auditEntry)

	switch event.Type {
	case checkout.EventCheckoutSessionCompleted, checkout.EventPaymentIntentSucceeded:
	default:
		s.logger.WithField("event_type", event.Type).Debug("Ignoring webhook event type")
		return nil
	}

	if bookingID == "" {
		s.logger.WithField("session_id", session.ID).Warn("Webhook session missing booking metadata")
		return nil
	}

	outcome, ok := terminalOutcome(session.Status, session.PaymentStatus)
	if !ok {
		// A completed event always carries a terminal payment status;
		// treat anything else as paid per the event contract.
		outcome = models.TransactionPaid
	}

	return s.applyPaymentResult(session.ID, outcome, models.PaymentSourceWebhook)
}

// applyPaymentResult records a terminal payment outcome exactly once.
// Two conditional writes do all the heavy lifting:
//
//  1. MarkTerminalIfPending transitions the transaction; only the caller
//     that wins this write proceeds to side effects, so a concurrent poll
//     and webhook cannot both act.
//  2. ConfirmIfNotConfirmed promotes the booking; only the caller that
//     performs the promotion sends the confirmation email.
//
// Everything else is a no-op for the loser, which makes redelivered
// webhooks and repeated polls safe.
func (s *PaymentService) applyPaymentResult(sessionID string, outcome models.TransactionStatus, source models.PaymentEventSource) error {
	tx, err := s.transactions.GetBySessionID(sessionID)
	if err != nil {
		return err
	}
	if tx == nil {
		return fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}

	if tx.Status.IsTerminal() {
		return nil
	}

	updated, err := s.transactions.MarkTerminalIfPending(sessionID, outcome)
	if err != nil {
		return err
	}
	if !updated {
		// Lost the race against a concurrent poll or webhook
		return nil
	}

	eventType := models.PaymentEventFailed
	if outcome == models.TransactionPaid {
		eventType = models.PaymentEventSuccess
	}
	s.audit(&models.PaymentAudit{
		BookingID:   &tx.BookingID,
		SessionID:   &sessionID,
		EventType:   eventType,
		EventSource: source,
		Amount:      &tx.Amount,
		Currency:    &tx.Currency,
	})

	if outcome != models.TransactionPaid {
		if err := s.bookings.UpdatePaymentStatus(tx.BookingID, models.BookingPaymentFailed); err != nil {
			s.logger.WithError(err).WithField("booking_id", tx.BookingID).Error("Failed to mark booking payment failed")
		}
		return nil
	}

	confirmedNow, err := s.bookings.ConfirmIfNotConfirmed(tx.BookingID)
	if err != nil {
		return err
	}
	if !confirmedNow {
		return nil
	}

	s.audit(&models.PaymentAudit{
		BookingID:   &tx.BookingID,
		SessionID:   &sessionID,
		EventType:   models.PaymentEventBookingConfirmed,
		EventSource: source,
	})

	s.logger.WithFields(logrus.Fields{
		"booking_id": tx.BookingID,
		"session_id": sessionID,
		"source":     source,
	}).Info("Booking confirmed")

	s.sendConfirmationEmail(tx)

	return nil
}

// terminalOutcome maps provider session state to a local terminal status.
// The second return is false while the session is still open.
func terminalOutcome(sessionStatus, paymentStatus string) (models.TransactionStatus, bool) {
	if paymentStatus == checkout.PaymentStatusPaid {
		return models.TransactionPaid, true
	}
	if sessionStatus == checkout.SessionStatusExpired {
		return models.TransactionExpired, true
	}
	return "", false
}

func providerPaymentStatus(paymentStatus string) models.TransactionStatus {
	if paymentStatus == checkout.PaymentStatusPaid {
		return models.TransactionPaid
	}
	return models.TransactionPending
}

func cachedStatusResponse(tx *models.PaymentTransaction) *models.CheckoutStatusResponse {
	var status string
	switch tx.Status {
	case models.TransactionPaid, models.TransactionFailed:
		// The session itself ran to completion; the payment axis tells
		// the caller how it ended
		status = checkout.SessionStatusComplete
	default:
		status = checkout.SessionStatusExpired
	}

	return &models.CheckoutStatusResponse{
		Status:        status,
		PaymentStatus: tx.Status,
		AmountTotal:   int64(math.Round(tx.Amount * 100)),
		Currency:      tx.Currency,
		Metadata:      tx.Metadata,
	}
}

// audit appends a payment audit record. Audit failures are logged and
// swallowed; the trail must never block the payment path.
func (s *PaymentService) audit(entry *models.PaymentAudit) {
	if err := s.audits.Insert(entry); err != nil {
		s.logger.WithError(err).Warn("Failed to append payment audit record")
	}
}

func (s *PaymentService) sendConfirmationEmail(tx *models.PaymentTransaction) {
	user, err := s.users.GetByID(tx.UserID)
	if err != nil || user == nil {
		s.logger.WithField("booking_id", tx.BookingID).Warn("Skipping confirmation email, user lookup failed")
		return
	}

	booking, err := s.bookings.GetByID(tx.BookingID)
	if err != nil || booking == nil {
		s.logger.WithField("booking_id", tx.BookingID).Warn("Skipping confirmation email, booking lookup failed")
		return
	}

	subject := fmt.Sprintf("Booking confirmed: %s", booking.PropertyName)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour payment of %.2f %s was received and your booking of %s (%s to %s) is confirmed.\n\nStayHub",
		user.Name, tx.Amount, strings.ToUpper(tx.Currency), booking.PropertyName,
		booking.CheckIn.Format("2006-01-02"), booking.CheckOut.Format("2006-01-02"))

	if err := s.notifier.Send(user.Email, subject, body); err != nil {
		s.logger.WithError(err).WithField("booking_id", tx.BookingID).Warn("Failed to send confirmation email")
	}
}

func strPtr(s string) *string {
	return &s
}
