package billing

import (
	"github.com/contentking-de/womosuche-sub000/models"
)

// Service bundles identity resolution, checkout building and webhook
// reconciliation over an injected repository and provider gateway.
type Service struct {
	repo     Repository
	provider Provider
}

func NewService(repo Repository, provider Provider) *Service {
	return &Service{repo: repo, provider: provider}
}

// SubscriptionFor returns the local entitlement record, or nil when the
// user never selected a plan. This read never calls the provider.
func (s *Service) SubscriptionFor(userID string) (*models.Subscription, error) {
	return s.repo.SubscriptionByUserID(userID)
}

// EntitlementFor derives the vehicle limit from the local record only, so
// the listing guard stays fast and available even when Stripe is down.
// Without a usable subscription the limit is zero.
func (s *Service) EntitlementFor(userID string) (Entitlement, *models.Subscription, error) {
	sub, err := s.repo.SubscriptionByUserID(userID)
	if err != nil {
		return Entitlement{}, nil, err
	}
	if sub == nil || !sub.IsUsable() {
		return Entitlement{}, sub, nil
	}
	plan, _ := models.PlanByPriceID(sub.StripePriceID)
	return VehicleLimit(plan.Name, plan.Amount), sub, nil
}
