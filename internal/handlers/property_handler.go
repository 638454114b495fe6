package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stayhub/booking-backend/internal/middleware"
	"github.com/stayhub/booking-backend/internal/models"
	"github.com/stayhub/booking-backend/internal/services"
)

// PropertyHandler handles property endpoints
type PropertyHandler struct {
	propertyService *services.PropertyService
	logger          *logrus.Logger
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(propertyService *services.PropertyService, logger *logrus.Logger) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService, logger: logger}
}

// List handles GET /api/properties
func (h *PropertyHandler) List(c *gin.Context) {
	filter, err := parsePropertyFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	properties, err := h.propertyService.List(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, properties)
}

// Get handles GET /api/properties/:id
func (h *PropertyHandler) Get(c *gin.Context) {
	property, err := h.propertyService.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, property)
}

// Create handles POST /api/properties
func (h *PropertyHandler) Create(c *gin.Context) {
	user, ok := middleware.GetUserContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req models.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	property, err := h.propertyService.Create(user.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, property)
}

// Update handles PUT /api/properties/:id
func (h *PropertyHandler) Update(c *gin.Context) {
	user, ok := middleware.GetUserContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req models.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	property, err := h.propertyService.Update(c.Param("id"), user.UserID, user.IsAdmin(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, property)
}

// Delete handles DELETE /api/properties/:id
func (h *PropertyHandler) Delete(c *gin.Context) {
	user, ok := middleware.GetUserContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	if err := h.propertyService.Delete(c.Param("id"), user.UserID, user.IsAdmin()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Property deleted"})
}

func parsePropertyFilter(c *gin.Context) (models.PropertyFilter, error) {
	filter := models.PropertyFilter{
		Location: c.Query("location"),
		SortBy:   models.PropertySort(c.DefaultQuery("sort_by", string(models.SortNewest))),
	}

	if v := c.Query("min_price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter, errInvalidQueryParam("min_price")
		}
		filter.MinPrice = &price
	}
	if v := c.Query("max_price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter, errInvalidQueryParam("max_price")
		}
		filter.MaxPrice = &price
	}
	if v := c.Query("min_rating"); v != "" {
		rating, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter, errInvalidQueryParam("min_rating")
		}
		filter.MinRating = &rating
	}
	if v := c.Query("guests"); v != "" {
		guests, err := strconv.Atoi(v)
		if err != nil {
			return filter, errInvalidQueryParam("guests")
		}
		filter.Guests = &guests
	}
	if v := c.Query("amenities"); v != "" {
		filter.Amenities = strings.Split(v, ",")
	}
	if v := c.Query("check_in"); v != "" {
		checkIn, err := services.ParseDate(v)
		if err != nil {
			return filter, errInvalidQueryParam("check_in")
		}
		filter.CheckIn = &checkIn
	}
	if v := c.Query("check_out"); v != "" {
		checkOut, err := services.ParseDate(v)
		if err != nil {
			return filter, errInvalidQueryParam("check_out")
		}
		filter.CheckOut = &checkOut
	}

	return filter, nil
}

type queryParamError struct {
	param string
}

func (e queryParamError) Error() string {
	return "Invalid value for query parameter " + e.param
}

func errInvalidQueryParam(param string) error {
	return queryParamError{param: param}
}
