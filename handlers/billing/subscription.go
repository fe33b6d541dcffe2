package billing

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/contentking-de/womosuche-sub000/utils"
)

// GetMySubscription returns the local entitlement record of the connected user.
// @Summary Current subscription
// @Description Returns the locally persisted subscription record, or null when no plan was ever selected.
// @Tags billing
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "subscription: models.Subscription or null"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /billing/subscription [get]
func (h *Handler) GetMySubscription(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	userIDStr, ok := userID.(string)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	sub, err := h.svc.SubscriptionFor(userIDStr)
	if err != nil {
		utils.LogErrorWithUser(userIDStr, err, "Error fetching subscription in GetMySubscription")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching subscription"})
		return
	}

	// sub is nil when the user never picked a plan; the frontend relies
	// on the distinction between null and an inactive record.
	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}

// GetEntitlement returns the vehicle limit derived from the local record.
// @Summary Current vehicle entitlement
// @Description Derives the max-vehicles limit from the local subscription record. Never calls the billing provider.
// @Tags billing
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "entitlement: limit, subscription: current record"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /billing/entitlement [get]
func (h *Handler) GetEntitlement(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	userIDStr, ok := userID.(string)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	entitlement, sub, err := h.svc.EntitlementFor(userIDStr)
	if err != nil {
		utils.LogErrorWithUser(userIDStr, err, "Error computing entitlement in GetEntitlement")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error computing entitlement"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entitlement":  entitlement,
		"subscription": sub,
	})
}
