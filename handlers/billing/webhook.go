package billing

import (
	"encoding/json"
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/contentking-de/womosuche-sub000/billing"
	"github.com/contentking-de/womosuche-sub000/models"
	"github.com/contentking-de/womosuche-sub000/utils"
)

// StripeWebhookHandler is the inbound boundary for Stripe's event feed.
// Delivery is at-least-once and may be out of order, so every branch must
// stay idempotent. Unknown event types are acknowledged so Stripe does
// not retry them forever.
func (h *Handler) StripeWebhookHandler(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Could not read request body"})
		return
	}

	secret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	if secret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook secret not configured"})
		return
	}

	sig := c.GetHeader("Stripe-Signature")
	event, err := webhook.ConstructEvent(payload, sig, secret)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stripe signature verification failed"})
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		h.handleCheckoutSessionCompleted(c, event)
	case "customer.subscription.updated":
		h.handleSubscriptionUpdated(c, event)
	case "customer.subscription.deleted":
		h.handleSubscriptionDeleted(c, event)
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Event ignored"})
	}
}

func (h *Handler) handleCheckoutSessionCompleted(c *gin.Context, event stripe.Event) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		// A retry would never parse either, so acknowledge instead of
		// erroring. Only signature failures answer 400.
		utils.LogWarn("Malformed checkout.session.completed payload, skipped")
		c.JSON(http.StatusOK, gin.H{"message": "Event skipped: malformed payload"})
		return
	}

	userID := sess.Metadata[billing.MetaUserID]
	action := sess.Metadata[billing.MetaAction]
	if userID == "" || action == "" {
		utils.LogWarn("checkout.session.completed without user_id/action metadata, skipped")
		c.JSON(http.StatusOK, gin.H{"message": "Event skipped: missing metadata"})
		return
	}

	if sess.Subscription == nil || sess.Subscription.ID == "" {
		utils.LogErrorWithUser(userID, nil, "checkout.session.completed without subscription, skipped")
		c.JSON(http.StatusOK, gin.H{"message": "Event skipped: no subscription"})
		return
	}

	cc := billing.CompletedCheckout{
		UserID:            userID,
		Action:            billing.CheckoutAction(action),
		SubscriptionID:    sess.Subscription.ID,
		OldSubscriptionID: sess.Metadata[billing.MetaExistingSubscriptionID],
		OldPriceID:        sess.Metadata[billing.MetaOldPriceID],
	}

	if err := h.svc.ApplyCompletedCheckout(c.Request.Context(), cc); err != nil {
		utils.LogErrorWithUser(userID, err, "Error applying completed checkout")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error applying completed checkout"})
		return
	}

	utils.LogSuccessWithUser(userID, "Completed checkout applied ("+action+")")
	c.JSON(http.StatusOK, gin.H{"message": "Checkout applied"})
}

func (h *Handler) handleSubscriptionUpdated(c *gin.Context, event stripe.Event) {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		utils.LogWarn("Malformed customer.subscription.updated payload, skipped")
		c.JSON(http.StatusOK, gin.H{"message": "Event skipped: malformed payload"})
		return
	}

	if sub.Customer == nil || sub.Customer.ID == "" {
		utils.LogWarn("customer.subscription.updated without customer, skipped")
		c.JSON(http.StatusOK, gin.H{"message": "Event skipped: no customer"})
		return
	}

	snap := billing.SnapshotFromStripe(&sub)
	cancelAtPeriodEnd := sub.CancelAtPeriodEnd

	err := h.svc.ApplyStatusEvent(c.Request.Context(), billing.StatusEvent{
		CustomerID:        sub.Customer.ID,
		Status:            snap.Status,
		PriceID:           snap.PriceID,
		CurrentPeriodEnd:  snap.CurrentPeriodEnd,
		CancelAtPeriodEnd: &cancelAtPeriodEnd,
	})
	if err != nil {
		utils.LogError(err, "Error applying subscription update")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error applying subscription update"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription update applied"})
}

func (h *Handler) handleSubscriptionDeleted(c *gin.Context, event stripe.Event) {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		utils.LogWarn("Malformed customer.subscription.deleted payload, skipped")
		c.JSON(http.StatusOK, gin.H{"message": "Event skipped: malformed payload"})
		return
	}

	if sub.Customer == nil || sub.Customer.ID == "" {
		utils.LogWarn("customer.subscription.deleted without customer, skipped")
		c.JSON(http.StatusOK, gin.H{"message": "Event skipped: no customer"})
		return
	}

	snap := billing.SnapshotFromStripe(&sub)
	status := snap.Status
	if status == "" {
		status = models.SubscriptionCanceled
	}

	// The final period end from the event is preserved so the row keeps
	// recording until when the plan was paid.
	err := h.svc.ApplyStatusEvent(c.Request.Context(), billing.StatusEvent{
		CustomerID:       sub.Customer.ID,
		Status:           status,
		CurrentPeriodEnd: snap.CurrentPeriodEnd,
	})
	if err != nil {
		utils.LogError(err, "Error applying subscription deletion")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error applying subscription deletion"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription deletion applied"})
}
