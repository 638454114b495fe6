package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stayhub/booking-backend/internal/middleware"
	"github.com/stayhub/booking-backend/internal/models"
	"github.com/stayhub/booking-backend/internal/services"
)

// ReviewHandler handles review endpoints
type ReviewHandler struct {
	reviewService *services.ReviewService
	authService   *services.AuthService
	logger        *logrus.Logger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService *services.ReviewService, authService *services.AuthService, logger *logrus.Logger) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, authService: authService, logger: logger}
}

// Create handles POST /api/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	user, ok := middleware.GetUserContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	profile, err := h.authService.GetProfile(user.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	review, err := h.reviewService.Create(user.UserID, profile.Name, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// ListByProperty handles GET /api/properties/:id/reviews
func (h *ReviewHandler) ListByProperty(c *gin.Context) {
	reviews, err := h.reviewService.ListByProperty(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}
