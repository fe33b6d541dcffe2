package billing

import (
	"context"
	"time"

	"github.com/contentking-de/womosuche-sub000/models"
	"github.com/contentking-de/womosuche-sub000/utils"
)

// CompletedCheckout is the reconstructed intent of a finished checkout,
// assembled by the webhook handler from the session metadata.
type CompletedCheckout struct {
	UserID            string
	Action            CheckoutAction
	SubscriptionID    string
	OldSubscriptionID string
	OldPriceID        string
}

// StatusEvent is a self-describing subscription update pushed by the
// provider, correlated by customer id.
type StatusEvent struct {
	CustomerID        string
	Status            models.SubscriptionStatus
	PriceID           string
	CurrentPeriodEnd  *time.Time
	CancelAtPeriodEnd *bool
}

// ApplyCompletedCheckout merges a completed checkout into the local
// record. The webhook payload is not trusted to be complete, so the
// authoritative subscription state is fetched from the provider first.
//
// For a plan change the superseded subscription is canceled at the
// provider. A subscription that is already gone counts as canceled (the
// same event may be redelivered, or it lapsed on its own). Any other
// cancel failure is logged and deliberately ignored: a stale subscription
// left running at Stripe is a billing cleanup concern, failing to record
// the newly paid plan would be an entitlement bug.
//
// The whole operation is an upsert keyed by user_id, so re-delivery of
// the same event re-applies the same final state and changes nothing.
func (s *Service) ApplyCompletedCheckout(ctx context.Context, cc CompletedCheckout) error {
	snap, err := s.provider.GetSubscription(ctx, cc.SubscriptionID)
	if err != nil {
		return err
	}

	if cc.Action == ActionChangePlan && cc.OldSubscriptionID != "" && cc.OldSubscriptionID != cc.SubscriptionID {
		outcome := s.provider.CancelSubscription(ctx, cc.OldSubscriptionID)
		switch {
		case outcome.Canceled:
			utils.LogSuccessWithUser(cc.UserID, "Superseded subscription "+cc.OldSubscriptionID+" canceled")
		case outcome.AlreadyGone:
			utils.LogInfoWithUser(cc.UserID, "Superseded subscription "+cc.OldSubscriptionID+" was already gone")
		default:
			utils.LogErrorWithUser(cc.UserID, outcome.Err,
				"Could not cancel superseded subscription "+cc.OldSubscriptionID+", adopting new plan anyway")
		}
	}

	return s.repo.UpsertSubscription(&models.Subscription{
		UserID:               cc.UserID,
		StripeCustomerID:     snap.CustomerID,
		StripeSubscriptionID: snap.ID,
		StripePriceID:        snap.PriceID,
		Status:               snap.Status,
		CurrentPeriodEnd:     snap.CurrentPeriodEnd,
		CancelAtPeriodEnd:    snap.CancelAtPeriodEnd,
	})
}

// ApplyStatusEvent applies a subscription_updated/deleted notification to
// the row found by customer id. Events for unknown customers are dropped;
// they reference state this system never adopted. The subscription id is
// never changed here, identity changes only flow through
// ApplyCompletedCheckout.
func (s *Service) ApplyStatusEvent(ctx context.Context, ev StatusEvent) error {
	if ev.CustomerID == "" || ev.Status == "" {
		utils.LogWarn("Status event without customer id or status, dropped")
		return nil
	}

	sub, err := s.repo.SubscriptionByCustomerID(ev.CustomerID)
	if err != nil {
		return err
	}
	if sub == nil {
		utils.LogInfo("Status event for unknown customer " + ev.CustomerID + ", dropped")
		return nil
	}

	fields := map[string]interface{}{
		"status": ev.Status,
	}
	if ev.PriceID != "" {
		fields["stripe_price_id"] = ev.PriceID
	}
	if ev.CurrentPeriodEnd != nil {
		fields["current_period_end"] = *ev.CurrentPeriodEnd
	}
	if ev.CancelAtPeriodEnd != nil {
		fields["cancel_at_period_end"] = *ev.CancelAtPeriodEnd
	}

	return s.repo.UpdateSubscriptionFields(sub.ID, fields)
}
