package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/stayhub/booking-backend/internal/models"
)

// ReviewService handles guest reviews. Only guests with a confirmed
// booking may review a property, and only once.
type ReviewService struct {
	reviews    ReviewStore
	bookings   BookingStore
	properties PropertyStore
	logger     *logrus.Logger
}

// NewReviewService creates a new review service
func NewReviewService(reviews ReviewStore, bookings BookingStore, properties PropertyStore, logger *logrus.Logger) *ReviewService {
	return &ReviewService{
		reviews:    reviews,
		bookings:   bookings,
		properties: properties,
		logger:     logger,
	}
}

// Create persists a review and recomputes the property rating aggregate
func (s *ReviewService) Create(userID, userName string, req *models.CreateReviewRequest) (*models.Review, error) {
	property, err := s.properties.GetByID(req.PropertyID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, fmt.Errorf("property %s: %w", req.PropertyID, ErrNotFound)
	}

	hasStay, err := s.bookings.HasConfirmedBooking(userID, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if !hasStay {
		return nil, fmt.Errorf("no confirmed stay at this property: %w", ErrForbidden)
	}

	exists, err := s.reviews.ExistsForUser(userID, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	review := &models.Review{
		UserID:     userID,
		UserName:   userName,
		PropertyID: req.PropertyID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := s.reviews.Create(review); err != nil {
		return nil, err
	}

	average, count, err := s.reviews.Aggregate(req.PropertyID)
	if err != nil {
		return nil, err
	}
	if err := s.properties.UpdateRating(req.PropertyID, average, count); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"review_id":   review.ID,
		"property_id": req.PropertyID,
		"rating":      req.Rating,
	}).Info("Review created")

	return review, nil
}

// ListByProperty retrieves the reviews for a property
func (s *ReviewService) ListByProperty(propertyID string) ([]models.Review, error) {
	property, err := s.properties.GetByID(propertyID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, fmt.Errorf("property %s: %w", propertyID, ErrNotFound)
	}

	return s.reviews.ListByProperty(propertyID)
}
