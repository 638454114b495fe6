package services

import (
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stayhub/booking-backend/internal/models"
	"github.com/stayhub/booking-backend/pkg/checkout"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// memBookingStore is an in-memory BookingStore. The mutex around every
// method mirrors the atomicity of the single-row conditional updates the
// real repository relies on.
type memBookingStore struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
}

func newMemBookingStore() *memBookingStore {
	return &memBookingStore{bookings: make(map[string]*models.Booking)}
}

func (s *memBookingStore) Create(b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	clone := *b
	s.bookings[b.ID] = &clone
	return nil
}

func (s *memBookingStore) GetByID(id string) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, nil
	}
	clone := *b
	return &clone, nil
}

func (s *memBookingStore) GetByUserID(userID string) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Booking
	for _, b := range s.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *memBookingStore) GetAll() ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Booking
	for _, b := range s.bookings {
		out = append(out, *b)
	}
	return out, nil
}

func (s *memBookingStore) CountConfirmedOverlapping(propertyID string, checkIn, checkOut time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, b := range s.bookings {
		if b.PropertyID == propertyID && b.Status == models.BookingConfirmed &&
			Overlaps(b.CheckIn, b.CheckOut, checkIn, checkOut) {
			count++
		}
	}
	return count, nil
}

func (s *memBookingStore) SetPaymentSession(bookingID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return nil
	}
	b.PaymentSessionID = &sessionID
	return nil
}

func (s *memBookingStore) UpdateStatus(bookingID string, status models.BookingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.bookings[bookingID]; ok {
		b.Status = status
	}
	return nil
}

func (s *memBookingStore) UpdatePaymentStatus(bookingID string, status models.BookingPaymentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.bookings[bookingID]; ok {
		b.PaymentStatus = status
	}
	return nil
}

func (s *memBookingStore) ConfirmIfNotConfirmed(bookingID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok || b.Status == models.BookingConfirmed {
		return false, nil
	}
	b.Status = models.BookingConfirmed
	b.PaymentStatus = models.BookingPaymentPaid
	return true, nil
}

func (s *memBookingStore) HasConfirmedBooking(userID, propertyID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.UserID == userID && b.PropertyID == propertyID && b.Status == models.BookingConfirmed {
			return true, nil
		}
	}
	return false, nil
}

// memTransactionStore is an in-memory TransactionStore keyed by session id
type memTransactionStore struct {
	mu  sync.Mutex
	txs map[string]*models.PaymentTransaction
}

func newMemTransactionStore() *memTransactionStore {
	return &memTransactionStore{txs: make(map[string]*models.PaymentTransaction)}
}

func (s *memTransactionStore) Create(tx *models.PaymentTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	clone := *tx
	s.txs[tx.SessionID] = &clone
	return nil
}

func (s *memTransactionStore) GetBySessionID(sessionID string) (*models.PaymentTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.txs[sessionID]
	if !ok {
		return nil, nil
	}
	clone := *tx
	return &clone, nil
}

func (s *memTransactionStore) GetByBookingID(bookingID string) (*models.PaymentTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range s.txs {
		if tx.BookingID == bookingID {
			clone := *tx
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *memTransactionStore) MarkTerminalIfPending(sessionID string, status models.TransactionStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.txs[sessionID]
	if !ok || tx.Status != models.TransactionPending {
		return false, nil
	}
	tx.Status = status
	tx.UpdatedAt = time.Now().UTC()
	return true, nil
}

// memUserStore is an in-memory UserStore
type memUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]*models.User)}
}

func (s *memUserStore) Create(u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	clone := *u
	s.users[u.ID] = &clone
	return nil
}

func (s *memUserStore) GetByID(id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (s *memUserStore) GetByEmail(email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *memUserStore) EmailExists(email string) (bool, error) {
	u, err := s.GetByEmail(email)
	return u != nil, err
}

// memPropertyStore is an in-memory PropertyStore
type memPropertyStore struct {
	mu         sync.Mutex
	properties map[string]*models.Property
}

func newMemPropertyStore() *memPropertyStore {
	return &memPropertyStore{properties: make(map[string]*models.Property)}
}

func (s *memPropertyStore) Create(p *models.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	clone := *p
	s.properties[p.ID] = &clone
	return nil
}

func (s *memPropertyStore) GetByID(id string) (*models.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.properties[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (s *memPropertyStore) List(filter models.PropertyFilter) ([]models.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Property
	for _, p := range s.properties {
		out = append(out, *p)
	}
	return out, nil
}

func (s *memPropertyStore) Update(id string, req *models.UpdatePropertyRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.properties[id]
	if !ok {
		return nil
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.PricePerNight != nil {
		p.PricePerNight = *req.PricePerNight
	}
	return nil
}

func (s *memPropertyStore) UpdateRating(id string, rating float64, reviewCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.properties[id]; ok {
		p.Rating = rating
		p.ReviewCount = reviewCount
	}
	return nil
}

func (s *memPropertyStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.properties, id)
	return nil
}

// memReviewStore is an in-memory ReviewStore
type memReviewStore struct {
	mu      sync.Mutex
	reviews []models.Review
}

func newMemReviewStore() *memReviewStore {
	return &memReviewStore{}
}

func (s *memReviewStore) Create(r *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	s.reviews = append(s.reviews, *r)
	return nil
}

func (s *memReviewStore) ListByProperty(propertyID string) ([]models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Review
	for _, r := range s.reviews {
		if r.PropertyID == propertyID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memReviewStore) ExistsForUser(userID, propertyID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reviews {
		if r.UserID == userID && r.PropertyID == propertyID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memReviewStore) Aggregate(propertyID string) (float64, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum, count := 0, 0
	for _, r := range s.reviews {
		if r.PropertyID == propertyID {
			sum += r.Rating
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

// memAuditStore collects audit records and counts them by event type
type memAuditStore struct {
	mu      sync.Mutex
	entries []models.PaymentAudit
}

func newMemAuditStore() *memAuditStore {
	return &memAuditStore{}
}

func (s *memAuditStore) Insert(a *models.PaymentAudit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, *a)
	return nil
}

func (s *memAuditStore) ListByBooking(bookingID string) ([]models.PaymentAudit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.PaymentAudit
	for _, a := range s.entries {
		if a.BookingID != nil && *a.BookingID == bookingID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *memAuditStore) countByType(eventType models.PaymentEventType) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, a := range s.entries {
		if a.EventType == eventType {
			count++
		}
	}
	return count
}

// fakeGateway is a scriptable checkout.Gateway that counts calls
type fakeGateway struct {
	mu              sync.Mutex
	statusCalls     int
	createCalls     int
	sessionStatus   checkout.SessionStatus
	createErr       error
	statusErr       error
	verifyErr       error
	verifiedEvent   *checkout.WebhookEvent
	nextSessionID   string
	nextSessionURL  string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		nextSessionID:  "cs_test_123",
		nextSessionURL: "https://pay.example.com/cs_test_123",
	}
}

func (g *fakeGateway) CreateSession(req checkout.SessionRequest) (*checkout.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.createCalls++
	if g.createErr != nil {
		return nil, g.createErr
	}
	return &checkout.Session{ID: g.nextSessionID, URL: g.nextSessionURL}, nil
}

func (g *fakeGateway) GetSessionStatus(sessionID string) (*checkout.SessionStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statusCalls++
	if g.statusErr != nil {
		return nil, g.statusErr
	}
	status := g.sessionStatus
	status.ID = sessionID
	return &status, nil
}

func (g *fakeGateway) VerifyWebhook(payload []byte, signatureHeader string) (*checkout.WebhookEvent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	return g.verifiedEvent, nil
}

func (g *fakeGateway) statusCallCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.statusCalls
}

// countingNotifier counts sent emails
type countingNotifier struct {
	mu    sync.Mutex
	sent  int
	calls []string
}

func (n *countingNotifier) Send(to, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent++
	n.calls = append(n.calls, subject)
	return nil
}

func (n *countingNotifier) sentCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sent
}
