package models

import (
	"time"

	"github.com/lib/pq"
)

// Property represents a bookable listing
type Property struct {
	ID            string         `json:"id" db:"id"`
	Name          string         `json:"name" db:"name"`
	Description   string         `json:"description" db:"description"`
	Location      string         `json:"location" db:"location"`
	PricePerNight float64        `json:"price_per_night" db:"price_per_night"`
	Amenities     pq.StringArray `json:"amenities" db:"amenities"`
	Images        pq.StringArray `json:"images" db:"images"`
	OwnerID       string         `json:"owner_id" db:"owner_id"`
	Rating        float64        `json:"rating" db:"rating"`
	ReviewCount   int            `json:"review_count" db:"review_count"`
	MaxGuests     int            `json:"max_guests" db:"max_guests"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
}

// CreatePropertyRequest is the payload for POST /properties
type CreatePropertyRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description" binding:"required"`
	Location      string   `json:"location" binding:"required"`
	PricePerNight float64  `json:"price_per_night" binding:"required,gt=0"`
	Amenities     []string `json:"amenities"`
	Images        []string `json:"images"`
	MaxGuests     int      `json:"max_guests"`
}

// UpdatePropertyRequest is the payload for PUT /properties/:id.
// Nil fields are left untouched.
type UpdatePropertyRequest struct {
	Name          *string   `json:"name"`
	Description   *string   `json:"description"`
	Location      *string   `json:"location"`
	PricePerNight *float64  `json:"price_per_night"`
	Amenities     *[]string `json:"amenities"`
	Images        *[]string `json:"images"`
	MaxGuests     *int      `json:"max_guests"`
}

// PropertySort enumerates the supported list orderings
type PropertySort string

const (
	SortNewest    PropertySort = "created_at"
	SortPriceAsc  PropertySort = "price_asc"
	SortPriceDesc PropertySort = "price_desc"
	SortRating    PropertySort = "rating"
)

// PropertyFilter carries the query parameters of GET /properties
type PropertyFilter struct {
	Location  string
	MinPrice  *float64
	MaxPrice  *float64
	Amenities []string
	MinRating *float64
	Guests    *int
	CheckIn   *time.Time
	CheckOut  *time.Time
	SortBy    PropertySort
}
