package billing

import (
	"context"

	"github.com/contentking-de/womosuche-sub000/models"
	"github.com/contentking-de/womosuche-sub000/utils"
)

// BuildCheckout creates a hosted checkout session for the desired price
// and returns its redirect URL.
//
// Decision table over the local record:
//   - no row, no subscription id, or an unusable status: start fresh with
//     a new_subscription checkout. An incomplete or canceled subscription
//     never blocks starting over.
//   - usable subscription on the same price: ErrAlreadyOnPlan, and no
//     provider call is made.
//   - usable subscription on a different price: change_plan checkout
//     carrying the old subscription and price ids in the session metadata
//     so the webhook handler can run the supersession protocol later.
func (s *Service) BuildCheckout(ctx context.Context, userID, priceID string) (string, error) {
	if _, ok := models.PlanByPriceID(priceID); !ok {
		return "", ErrUnknownPrice
	}

	user, err := s.repo.UserByID(userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	sub, err := s.repo.SubscriptionByUserID(userID)
	if err != nil {
		return "", err
	}

	usable := sub != nil && sub.StripeSubscriptionID != "" && sub.IsUsable()
	if usable && sub.StripePriceID == priceID {
		return "", ErrAlreadyOnPlan
	}

	intent := CheckoutIntent{
		PriceID: priceID,
		UserID:  userID,
		Action:  ActionNewSubscription,
	}
	if usable {
		intent.Action = ActionChangePlan
		intent.ExistingSubscriptionID = sub.StripeSubscriptionID
		intent.OldPriceID = sub.StripePriceID
	}

	customerID, err := s.ResolveCustomer(ctx, user)
	if err != nil {
		return "", err
	}
	intent.CustomerID = customerID

	sess, err := s.provider.CreateCheckoutSession(ctx, intent)
	if err != nil {
		return "", err
	}

	utils.LogSuccessWithUser(userID, "Checkout session created ("+string(intent.Action)+")")
	return sess.URL, nil
}
