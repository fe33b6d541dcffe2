package billing

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/contentking-de/womosuche-sub000/billing"
	"github.com/contentking-de/womosuche-sub000/utils"
)

type checkoutRequest struct {
	PriceID string `json:"priceId" binding:"required"`
}

// CreateCheckoutSession starts a Stripe Checkout for the desired plan and returns the redirect URL.
// @Summary Start a subscription checkout
// @Description Creates a hosted Stripe Checkout session for a new subscription or a plan change and returns the redirect URL.
// @Tags billing
// @Accept json
// @Produce json
// @Param request body checkoutRequest true "Desired plan price id"
// @Security BearerAuth
// @Success 200 {object} map[string]string "url: Stripe Checkout URL"
// @Failure 400 {object} map[string]string "error: unknown price or invalid user id"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 409 {object} map[string]string "error: Already on this plan"
// @Failure 503 {object} map[string]string "error: Billing provider unavailable"
// @Router /billing/checkout [post]
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.LogError(nil, "User not authenticated in CreateCheckoutSession")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	userIDStr, ok := userID.(string)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	if _, err := uuid.Parse(userIDStr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	url, err := h.svc.BuildCheckout(c.Request.Context(), userIDStr, req.PriceID)
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrAlreadyOnPlan):
			c.JSON(http.StatusConflict, gin.H{"error": "Already on this plan"})
		case errors.Is(err, billing.ErrUnknownPrice):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown price id"})
		case errors.Is(err, billing.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, billing.ErrProviderUnavailable):
			utils.LogErrorWithUser(userIDStr, err, "Billing provider unavailable in CreateCheckoutSession")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Billing provider unavailable, try again later"})
		default:
			utils.LogErrorWithUser(userIDStr, err, "Error building checkout in CreateCheckoutSession")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating checkout session"})
		}
		return
	}

	utils.LogSuccessWithUser(userIDStr, "Checkout session created in CreateCheckoutSession")
	c.JSON(http.StatusOK, gin.H{"url": url})
}
