package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stayhub/booking-backend/internal/models"
)

// PropertyRepository handles property data operations
type PropertyRepository struct {
	db DB
}

// NewPropertyRepository creates a new property repository
func NewPropertyRepository(db DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

const propertyColumns = `id, name, description, location, price_per_night, amenities,
		images, owner_id, rating, review_count, max_guests, created_at`

// Create inserts a new property record
func (r *PropertyRepository) Create(property *models.Property) error {
	if property.ID == "" {
		property.ID = uuid.New().String()
	}
	if property.CreatedAt.IsZero() {
		property.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO properties (id, name, description, location, price_per_night,
			amenities, images, owner_id, rating, review_count, max_guests, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.Exec(query,
		property.ID, property.Name, property.Description, property.Location,
		property.PricePerNight, property.Amenities, property.Images,
		property.OwnerID, property.Rating, property.ReviewCount,
		property.MaxGuests, property.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}

	return nil
}

// GetByID retrieves a property by id. Returns (nil, nil) when no row matches.
func (r *PropertyRepository) GetByID(id string) (*models.Property, error) {
	var property models.Property
	query := fmt.Sprintf(`SELECT %s FROM properties WHERE id = $1`, propertyColumns)

	err := r.db.Get(&property, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get property by id: %w", err)
	}

	return &property, nil
}

// List retrieves properties matching the filter. Date-range filtering
// excludes properties with a confirmed booking overlapping the half-open
// interval [check_in, check_out); pending and cancelled bookings never block.
func (r *PropertyRepository) List(filter models.PropertyFilter) ([]models.Property, error) {
	var conditions []string
	var args []interface{}
	argIdx := 1

	addArg := func(v interface{}) string {
		args = append(args, v)
		placeholder := fmt.Sprintf("$%d", argIdx)
		argIdx++
		return placeholder
	}

	if filter.Location != "" {
		conditions = append(conditions, fmt.Sprintf("location ILIKE %s", addArg("%"+filter.Location+"%")))
	}
	if filter.MinPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price_per_night >= %s", addArg(*filter.MinPrice)))
	}
	if filter.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price_per_night <= %s", addArg(*filter.MaxPrice)))
	}
	if len(filter.Amenities) > 0 {
		conditions = append(conditions, fmt.Sprintf("amenities @> %s", addArg(pq.Array(filter.Amenities))))
	}
	if filter.MinRating != nil {
		conditions = append(conditions, fmt.Sprintf("rating >= %s", addArg(*filter.MinRating)))
	}
	if filter.Guests != nil {
		conditions = append(conditions, fmt.Sprintf("max_guests >= %s", addArg(*filter.Guests)))
	}
	if filter.CheckIn != nil && filter.CheckOut != nil {
		in := addArg(*filter.CheckIn)
		out := addArg(*filter.CheckOut)
		conditions = append(conditions, fmt.Sprintf(`NOT EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.property_id = properties.id
			  AND b.status = 'confirmed'
			  AND b.check_in < %s
			  AND b.check_out > %s
		)`, out, in))
	}

	query := fmt.Sprintf(`SELECT %s FROM properties`, propertyColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	switch filter.SortBy {
	case models.SortPriceAsc:
		query += " ORDER BY price_per_night ASC"
	case models.SortPriceDesc:
		query += " ORDER BY price_per_night DESC"
	case models.SortRating:
		query += " ORDER BY rating DESC"
	default:
		query += " ORDER BY created_at DESC"
	}

	properties := []models.Property{}
	if err := r.db.Select(&properties, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}

	return properties, nil
}

// Update applies the non-nil fields of the request to a property
func (r *PropertyRepository) Update(id string, req *models.UpdatePropertyRequest) error {
	var sets []string
	var args []interface{}
	argIdx := 1

	addSet := func(column string, v interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, v)
		argIdx++
	}

	if req.Name != nil {
		addSet("name", *req.Name)
	}
	if req.Description != nil {
		addSet("description", *req.Description)
	}
	if req.Location != nil {
		addSet("location", *req.Location)
	}
	if req.PricePerNight != nil {
		addSet("price_per_night", *req.PricePerNight)
	}
	if req.Amenities != nil {
		addSet("amenities", pq.Array(*req.Amenities))
	}
	if req.Images != nil {
		addSet("images", pq.Array(*req.Images))
	}
	if req.MaxGuests != nil {
		addSet("max_guests", *req.MaxGuests)
	}

	if len(sets) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE properties SET %s WHERE id = $%d", strings.Join(sets, ", "), argIdx)
	args = append(args, id)

	result, err := r.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update property: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("property not found: %s", id)
	}

	return nil
}

// UpdateRating stores the recomputed rating aggregate for a property
func (r *PropertyRepository) UpdateRating(id string, rating float64, reviewCount int) error {
	query := `UPDATE properties SET rating = $1, review_count = $2 WHERE id = $3`

	result, err := r.db.Exec(query, rating, reviewCount, id)
	if err != nil {
		return fmt.Errorf("failed to update property rating: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("property not found: %s", id)
	}

	return nil
}

// Delete removes a property record
func (r *PropertyRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("property not found: %s", id)
	}

	return nil
}
