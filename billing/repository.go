package billing

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/contentking-de/womosuche-sub000/models"
)

// Repository is the persistence boundary of the billing subsystem. All
// subscription writes go through upserts keyed by user_id so that two
// concurrent webhook deliveries for the same user can never produce a
// second row, only a last-writer-wins overwrite.
type Repository interface {
	UserByID(id string) (*models.User, error)

	// Subscription lookups return (nil, nil) when no row exists; absence
	// is a normal state, not an error.
	SubscriptionByUserID(userID string) (*models.Subscription, error)
	SubscriptionByCustomerID(customerID string) (*models.Subscription, error)

	// UpsertSubscription writes the full canonical record for a user.
	UpsertSubscription(sub *models.Subscription) error

	// UpdateSubscriptionFields applies a field-level update to one row.
	UpdateSubscriptionFields(rowID string, fields map[string]interface{}) error

	// SaveCustomerID records the provider customer id for a user without
	// touching any other subscription field.
	SaveCustomerID(userID, customerID string) error
}

type gormRepository struct {
	conn *gorm.DB
}

func NewGormRepository(conn *gorm.DB) Repository {
	return &gormRepository{conn: conn}
}

func (r *gormRepository) UserByID(id string) (*models.User, error) {
	var user models.User
	err := r.conn.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormRepository) SubscriptionByUserID(userID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.conn.First(&sub, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *gormRepository) SubscriptionByCustomerID(customerID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.conn.First(&sub, "stripe_customer_id = ?", customerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *gormRepository) UpsertSubscription(sub *models.Subscription) error {
	return r.conn.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"stripe_customer_id",
			"stripe_subscription_id",
			"stripe_price_id",
			"status",
			"current_period_end",
			"cancel_at_period_end",
			"updated_at",
		}),
	}).Create(sub).Error
}

func (r *gormRepository) UpdateSubscriptionFields(rowID string, fields map[string]interface{}) error {
	return r.conn.Model(&models.Subscription{}).Where("id = ?", rowID).Updates(fields).Error
}

func (r *gormRepository) SaveCustomerID(userID, customerID string) error {
	sub := &models.Subscription{
		UserID:           userID,
		StripeCustomerID: customerID,
		Status:           models.SubscriptionIncomplete,
	}
	return r.conn.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"stripe_customer_id",
			"updated_at",
		}),
	}).Create(sub).Error
}
