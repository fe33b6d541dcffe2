package billing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
	session "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/customer"
	stripeSubscription "github.com/stripe/stripe-go/v82/subscription"

	"github.com/contentking-de/womosuche-sub000/models"
)

// stripeGateway implements Provider on top of the Stripe SDK. Every call
// runs under a bounded timeout; the rest of the billing code never touches
// Stripe types directly.
type stripeGateway struct {
	successURL string
	cancelURL  string
	timeout    time.Duration
}

// NewStripeGateway configures the global Stripe key and returns the
// provider adapter. successURL/cancelURL are where the hosted checkout
// redirects the browser afterwards.
func NewStripeGateway(apiKey, successURL, cancelURL string) Provider {
	stripe.Key = apiKey
	return &stripeGateway{
		successURL: successURL,
		cancelURL:  cancelURL,
		timeout:    15 * time.Second,
	}
}

func (g *stripeGateway) CreateCustomer(ctx context.Context, profile CustomerProfile) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := &stripe.CustomerParams{
		Email: stripe.String(profile.Email),
		Name:  stripe.String(profile.DisplayName),
	}
	params.Context = ctx
	params.AddMetadata(MetaUserID, profile.UserID)

	cust, err := customer.New(params)
	if err != nil {
		return "", wrapProviderErr(err)
	}
	return cust.ID, nil
}

func (g *stripeGateway) CustomerExists(ctx context.Context, customerID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := &stripe.CustomerParams{}
	params.Context = ctx

	cust, err := customer.Get(customerID, params)
	if err != nil {
		if isResourceMissing(err) {
			return false, nil
		}
		return false, wrapProviderErr(err)
	}
	return cust != nil && !cust.Deleted, nil
}

func (g *stripeGateway) CreateCheckoutSession(ctx context.Context, intent CheckoutIntent) (CheckoutSession, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := &stripe.CheckoutSessionParams{
		Customer: stripe.String(intent.CustomerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(intent.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(g.successURL),
		CancelURL:         stripe.String(g.cancelURL),
		ClientReferenceID: stripe.String(intent.UserID),
	}
	params.Context = ctx
	params.AddMetadata(MetaUserID, intent.UserID)
	params.AddMetadata(MetaAction, string(intent.Action))
	if intent.Action == ActionChangePlan {
		params.AddMetadata(MetaExistingSubscriptionID, intent.ExistingSubscriptionID)
		params.AddMetadata(MetaOldPriceID, intent.OldPriceID)
	}

	s, err := session.New(params)
	if err != nil {
		return CheckoutSession{}, wrapProviderErr(err)
	}
	return CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

func (g *stripeGateway) GetSubscription(ctx context.Context, subscriptionID string) (SubscriptionSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	sub, err := stripeSubscription.Get(subscriptionID, params)
	if err != nil {
		return SubscriptionSnapshot{}, wrapProviderErr(err)
	}
	return SnapshotFromStripe(sub), nil
}

func (g *stripeGateway) CancelSubscription(ctx context.Context, subscriptionID string) CancelOutcome {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := &stripe.SubscriptionCancelParams{}
	params.Context = ctx

	_, err := stripeSubscription.Cancel(subscriptionID, params)
	if err == nil {
		return CancelOutcome{Canceled: true}
	}
	if isResourceMissing(err) {
		return CancelOutcome{AlreadyGone: true}
	}
	return CancelOutcome{Err: err}
}

// SnapshotFromStripe maps a Stripe subscription object to the domain
// snapshot. Since the 2025 API versions the period end lives on the
// subscription items, not on the subscription itself.
func SnapshotFromStripe(sub *stripe.Subscription) SubscriptionSnapshot {
	snap := SubscriptionSnapshot{
		ID:                sub.ID,
		Status:            models.SubscriptionStatus(sub.Status),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}
	if sub.Customer != nil {
		snap.CustomerID = sub.Customer.ID
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 {
		item := sub.Items.Data[0]
		if item.Price != nil {
			snap.PriceID = item.Price.ID
		}
		if item.CurrentPeriodEnd > 0 {
			t := time.Unix(item.CurrentPeriodEnd, 0).UTC()
			snap.CurrentPeriodEnd = &t
		}
	}
	return snap
}

func isResourceMissing(err error) bool {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return stripeErr.Code == stripe.ErrorCodeResourceMissing ||
			stripeErr.HTTPStatusCode == http.StatusNotFound
	}
	return false
}

func wrapProviderErr(err error) error {
	return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
}
