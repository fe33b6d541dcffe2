package billing

import "errors"

var (
	// ErrAlreadyOnPlan is returned when a checkout is requested for the
	// price the user's active subscription already carries.
	ErrAlreadyOnPlan = errors.New("already subscribed to this plan")

	// ErrUnknownPrice is returned when the requested price id does not
	// exist in the plan catalog.
	ErrUnknownPrice = errors.New("unknown price id")

	// ErrUserNotFound is returned when the checkout caller has no local
	// account.
	ErrUserNotFound = errors.New("user not found")

	// ErrProviderUnavailable wraps any Stripe failure on a synchronous
	// path the user is waiting on. Callers may retry.
	ErrProviderUnavailable = errors.New("billing provider unavailable")
)
