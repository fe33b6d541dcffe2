package models

import (
	"time"
)

// SubscriptionStatus mirrors the billing provider's subscription status
// verbatim. The backend never invents a status of its own.
type SubscriptionStatus string

const (
	SubscriptionIncomplete SubscriptionStatus = "incomplete"
	SubscriptionTrialing   SubscriptionStatus = "trialing"
	SubscriptionActive     SubscriptionStatus = "active"
	SubscriptionPastDue    SubscriptionStatus = "past_due"
	SubscriptionCanceled   SubscriptionStatus = "canceled"
	SubscriptionUnpaid     SubscriptionStatus = "unpaid"
)

// Subscription is the locally persisted entitlement record, one row per
// landlord (unique on user_id). Only the billing reconciler writes it;
// the listing guard and the frontend just read it. Rows are never hard
// deleted, a canceled subscription stays around as denial record.
type Subscription struct {
	ID                   string             `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID               string             `json:"userId" gorm:"type:uuid;uniqueIndex;not null"`
	StripeCustomerID     string             `json:"stripeCustomerId" gorm:"uniqueIndex"`
	StripeSubscriptionID string             `json:"stripeSubscriptionId"`
	StripePriceID        string             `json:"stripePriceId"`
	Status               SubscriptionStatus `json:"status" gorm:"type:varchar(20)"`
	CurrentPeriodEnd     *time.Time         `json:"currentPeriodEnd"`
	CancelAtPeriodEnd    bool               `json:"cancelAtPeriodEnd"`
	CreatedAt            time.Time          `json:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt"`
}

// IsUsable reports whether the subscription currently grants its plan's
// entitlement. cancel_at_period_end does not revoke anything early, the
// subscription stays usable until the period actually ends.
func (s *Subscription) IsUsable() bool {
	return s.Status == SubscriptionActive || s.Status == SubscriptionTrialing
}
