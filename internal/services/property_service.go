package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/stayhub/booking-backend/internal/models"
)

// PropertyService handles property listing management
type PropertyService struct {
	properties PropertyStore
	logger     *logrus.Logger
}

// NewPropertyService creates a new property service
func NewPropertyService(properties PropertyStore, logger *logrus.Logger) *PropertyService {
	return &PropertyService{properties: properties, logger: logger}
}

// Create persists a new property owned by the caller
func (s *PropertyService) Create(ownerID string, req *models.CreatePropertyRequest) (*models.Property, error) {
	maxGuests := req.MaxGuests
	if maxGuests <= 0 {
		maxGuests = 2
	}

	property := &models.Property{
		Name:          req.Name,
		Description:   req.Description,
		Location:      req.Location,
		PricePerNight: req.PricePerNight,
		Amenities:     req.Amenities,
		Images:        req.Images,
		OwnerID:       ownerID,
		MaxGuests:     maxGuests,
	}
	if property.Amenities == nil {
		property.Amenities = []string{}
	}
	if property.Images == nil {
		property.Images = []string{}
	}

	if err := s.properties.Create(property); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"property_id": property.ID,
		"owner_id":    ownerID,
	}).Info("Property created")

	return property, nil
}

// GetByID retrieves a property
func (s *PropertyService) GetByID(id string) (*models.Property, error) {
	property, err := s.properties.GetByID(id)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, fmt.Errorf("property %s: %w", id, ErrNotFound)
	}

	return property, nil
}

// List retrieves properties matching the filter
func (s *PropertyService) List(filter models.PropertyFilter) ([]models.Property, error) {
	return s.properties.List(filter)
}

// Update applies changes to a property. Only the owner or an admin may edit.
func (s *PropertyService) Update(id, userID string, isAdmin bool, req *models.UpdatePropertyRequest) (*models.Property, error) {
	property, err := s.properties.GetByID(id)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, fmt.Errorf("property %s: %w", id, ErrNotFound)
	}
	if property.OwnerID != userID && !isAdmin {
		return nil, ErrForbidden
	}

	if err := s.properties.Update(id, req); err != nil {
		return nil, err
	}

	return s.GetByID(id)
}

// Delete removes a property. Only the owner or an admin may delete.
func (s *PropertyService) Delete(id, userID string, isAdmin bool) error {
	property, err := s.properties.GetByID(id)
	if err != nil {
		return err
	}
	if property == nil {
		return fmt.Errorf("property %s: %w", id, ErrNotFound)
	}
	if property.OwnerID != userID && !isAdmin {
		return ErrForbidden
	}

	if err := s.properties.Delete(id); err != nil {
		return err
	}

	s.logger.WithField("property_id", id).Info("Property deleted")
	return nil
}
