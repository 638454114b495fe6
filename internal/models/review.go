package models

import (
	"time"
)

// Review represents a guest review of a property. A user may review a
// property only after holding a confirmed booking for it, and only once.
type Review struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id"`
	UserName   string    `json:"user_name" db:"user_name"`
	PropertyID string    `json:"property_id" db:"property_id"`
	Rating     int       `json:"rating" db:"rating"`
	Comment    string    `json:"comment" db:"comment"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// CreateReviewRequest is the payload for POST /reviews
type CreateReviewRequest struct {
	PropertyID string `json:"property_id" binding:"required"`
	Rating     int    `json:"rating" binding:"required,min=1,max=5"`
	Comment    string `json:"comment" binding:"required"`
}
