package billing

import (
	"context"
	"time"

	"github.com/contentking-de/womosuche-sub000/models"
)

// CheckoutAction tells the webhook handler what a completed checkout
// session was for. It travels in the session metadata because that is
// the only link between the synchronous intent and the asynchronous
// confirmation.
type CheckoutAction string

const (
	ActionNewSubscription CheckoutAction = "new_subscription"
	ActionChangePlan      CheckoutAction = "change_plan"
)

// Metadata keys attached to every checkout session.
const (
	MetaUserID                 = "user_id"
	MetaAction                 = "action"
	MetaExistingSubscriptionID = "existing_subscription_id"
	MetaOldPriceID             = "old_price_id"
)

// CustomerProfile carries the local identity fields attached to a newly
// created provider customer.
type CustomerProfile struct {
	UserID      string
	Email       string
	DisplayName string
}

// CheckoutIntent is everything needed to build a hosted checkout session.
type CheckoutIntent struct {
	CustomerID             string
	PriceID                string
	UserID                 string
	Action                 CheckoutAction
	ExistingSubscriptionID string
	OldPriceID             string
}

// CheckoutSession is the provider's answer to a checkout intent.
type CheckoutSession struct {
	ID  string
	URL string
}

// SubscriptionSnapshot is the provider-independent view of a subscription
// object. The reconciler only ever sees this type, never SDK shapes.
type SubscriptionSnapshot struct {
	ID                string
	CustomerID        string
	PriceID           string
	Status            models.SubscriptionStatus
	CurrentPeriodEnd  *time.Time
	CancelAtPeriodEnd bool
}

// CancelOutcome is the explicit result of a cancellation attempt. The
// reconciler decides what each state means instead of a catch block.
type CancelOutcome struct {
	Canceled    bool  // provider confirmed the cancel
	AlreadyGone bool  // subscription did not exist anymore, counts as done
	Err         error // any other failure
}

// Settled reports whether the old subscription is known to be inactive.
func (o CancelOutcome) Settled() bool {
	return o.Canceled || o.AlreadyGone
}

// Provider is the boundary to the external subscription-billing system.
type Provider interface {
	// CreateCustomer registers a new billing identity and returns its id.
	CreateCustomer(ctx context.Context, profile CustomerProfile) (string, error)

	// CustomerExists reports whether a stored customer id still resolves
	// on the provider side. A vanished customer is not an error.
	CustomerExists(ctx context.Context, customerID string) (bool, error)

	// CreateCheckoutSession builds a hosted checkout for the intent.
	CreateCheckoutSession(ctx context.Context, intent CheckoutIntent) (CheckoutSession, error)

	// GetSubscription fetches the authoritative state of a subscription.
	GetSubscription(ctx context.Context, subscriptionID string) (SubscriptionSnapshot, error)

	// CancelSubscription cancels a subscription immediately.
	CancelSubscription(ctx context.Context, subscriptionID string) CancelOutcome
}
