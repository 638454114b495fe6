package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stayhub/booking-backend/internal/models"
)

// ReviewRepository handles review data operations
type ReviewRepository struct {
	db DB
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a new review record
func (r *ReviewRepository) Create(review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO reviews (id, user_id, user_name, property_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query,
		review.ID, review.UserID, review.UserName, review.PropertyID,
		review.Rating, review.Comment, review.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

// ListByProperty retrieves all reviews for a property, newest first
func (r *ReviewRepository) ListByProperty(propertyID string) ([]models.Review, error) {
	reviews := []models.Review{}
	query := `
		SELECT id, user_id, user_name, property_id, rating, comment, created_at
		FROM reviews
		WHERE property_id = $1
		ORDER BY created_at DESC`

	if err := r.db.Select(&reviews, query, propertyID); err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	return reviews, nil
}

// ExistsForUser reports whether a user already reviewed a property
func (r *ReviewRepository) ExistsForUser(userID, propertyID string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM reviews WHERE user_id = $1 AND property_id = $2`

	if err := r.db.Get(&count, query, userID, propertyID); err != nil {
		return false, fmt.Errorf("failed to check review existence: %w", err)
	}

	return count > 0, nil
}

// Aggregate returns the average rating and review count for a property
func (r *ReviewRepository) Aggregate(propertyID string) (float64, int, error) {
	var agg struct {
		Average float64 `db:"average"`
		Count   int     `db:"count"`
	}
	query := `
		SELECT COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count
		FROM reviews
		WHERE property_id = $1`

	if err := r.db.Get(&agg, query, propertyID); err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate reviews: %w", err)
	}

	return agg.Average, agg.Count, nil
}
