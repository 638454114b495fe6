package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stayhub/booking-backend/internal/middleware"
	"github.com/stayhub/booking-backend/internal/models"
	"github.com/stayhub/booking-backend/internal/services"
	"github.com/stayhub/booking-backend/pkg/checkout"
)

// PaymentHandler handles checkout and webhook endpoints
type PaymentHandler struct {
	paymentService *services.PaymentService
	logger         *logrus.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, logger: logger}
}

// CreateCheckoutSession handles POST /api/payment/checkout/session
func (h *PaymentHandler) CreateCheckoutSession(c *gin.Context) {
	user, ok := middleware.GetUserContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req models.CreateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	response, err := h.paymentService.InitiateCheckout(user.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetCheckoutStatus handles GET /api/payment/checkout/status/:session_id
func (h *PaymentHandler) GetCheckoutStatus(c *gin.Context) {
	user, ok := middleware.GetUserContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	response, err := h.paymentService.PollStatus(user.UserID, c.Param("session_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Webhook handles POST /api/webhook/checkout. The route is unauthenticated;
// the signature header is the authentication.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	signature := c.GetHeader("Checkout-Signature")
	if signature == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing signature header"})
		return
	}

	if err := h.paymentService.HandleWebhook(payload, signature); err != nil {
		if errors.Is(err, checkout.ErrInvalidSignature) {
			h.logger.WithField("ip", c.ClientIP()).Warn("Webhook with invalid signature rejected")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
			return
		}
		// Non-2xx makes the provider redeliver, which is safe because
		// processing is idempotent
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
