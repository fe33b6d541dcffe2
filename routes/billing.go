package routes

import (
	"github.com/gin-gonic/gin"

	billingHandlers "github.com/contentking-de/womosuche-sub000/handlers/billing"
	"github.com/contentking-de/womosuche-sub000/middleware"
)

func BillingRoutes(r *gin.Engine, h *billingHandlers.Handler) {
	billingRoutes := r.Group("/billing")
	billingRoutes.Use(middleware.JWTAuth())
	{
		billingRoutes.POST("/checkout", h.CreateCheckoutSession)
		billingRoutes.GET("/subscription", h.GetMySubscription)
		billingRoutes.GET("/entitlement", h.GetEntitlement)
	}

	// Authenticated by Stripe's signature header, not by JWT.
	r.POST("/billing/webhook", h.StripeWebhookHandler)
}
