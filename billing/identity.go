package billing

import (
	"context"

	"github.com/contentking-de/womosuche-sub000/models"
	"github.com/contentking-de/womosuche-sub000/utils"
)

// ResolveCustomer maps the user to exactly one Stripe customer. A stored
// id is re-validated against the provider because customer records can be
// deleted there independently of our state; a vanished customer is simply
// recreated and the stored id overwritten. After a successful return the
// local record matches the provider.
func (s *Service) ResolveCustomer(ctx context.Context, user *models.User) (string, error) {
	sub, err := s.repo.SubscriptionByUserID(user.ID)
	if err != nil {
		return "", err
	}

	if sub != nil && sub.StripeCustomerID != "" {
		exists, err := s.provider.CustomerExists(ctx, sub.StripeCustomerID)
		if err != nil {
			return "", err
		}
		if exists {
			return sub.StripeCustomerID, nil
		}
		utils.LogInfoWithUser(user.ID, "Stored Stripe customer no longer resolves, recreating")
	}

	customerID, err := s.provider.CreateCustomer(ctx, CustomerProfile{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	})
	if err != nil {
		return "", err
	}

	if err := s.repo.SaveCustomerID(user.ID, customerID); err != nil {
		return "", err
	}
	return customerID, nil
}
