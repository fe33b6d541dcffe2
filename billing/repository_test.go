package billing

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/contentking-de/womosuche-sub000/models"
	"github.com/contentking-de/womosuche-sub000/testutils"
)

func TestSubscriptionByUserID_Found(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()
	repo := NewGormRepository(gormDB)

	now := time.Now()
	rows := mock.NewRows([]string{
		"id", "user_id", "stripe_customer_id", "stripe_subscription_id",
		"stripe_price_id", "status", "current_period_end", "cancel_at_period_end",
		"created_at", "updated_at",
	}).AddRow("row-1", testUserID, "cus_1", "sub_1", "price_1", "active", now, false, now, now)

	mock.ExpectQuery(`SELECT \* FROM "subscriptions" WHERE user_id = \$1`).
		WithArgs(testUserID, 1).
		WillReturnRows(rows)

	sub, err := repo.SubscriptionByUserID(testUserID)

	assert.NoError(t, err)
	assert.NotNil(t, sub)
	assert.Equal(t, "sub_1", sub.StripeSubscriptionID)
	assert.Equal(t, models.SubscriptionActive, sub.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionByUserID_AbsentIsNotAnError(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()
	repo := NewGormRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "subscriptions" WHERE user_id = \$1`).
		WithArgs(testUserID, 1).
		WillReturnRows(mock.NewRows([]string{"id"}))

	sub, err := repo.SubscriptionByUserID(testUserID)

	assert.NoError(t, err)
	assert.Nil(t, sub)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionByCustomerID_Found(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()
	repo := NewGormRepository(gormDB)

	now := time.Now()
	rows := mock.NewRows([]string{
		"id", "user_id", "stripe_customer_id", "stripe_subscription_id",
		"stripe_price_id", "status", "created_at", "updated_at",
	}).AddRow("row-1", testUserID, "cus_1", "sub_1", "price_1", "trialing", now, now)

	mock.ExpectQuery(`SELECT \* FROM "subscriptions" WHERE stripe_customer_id = \$1`).
		WithArgs("cus_1", 1).
		WillReturnRows(rows)

	sub, err := repo.SubscriptionByCustomerID("cus_1")

	assert.NoError(t, err)
	assert.NotNil(t, sub)
	assert.Equal(t, testUserID, sub.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertSubscription_ConflictsOnUserID(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()
	repo := NewGormRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "subscriptions" .* ON CONFLICT \("user_id"\) DO UPDATE SET`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("row-1"))
	mock.ExpectCommit()

	end := time.Now().AddDate(0, 1, 0)
	err := repo.UpsertSubscription(&models.Subscription{
		UserID:               testUserID,
		StripeCustomerID:     "cus_1",
		StripeSubscriptionID: "sub_1",
		StripePriceID:        "price_1",
		Status:               models.SubscriptionActive,
		CurrentPeriodEnd:     &end,
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSubscriptionFields(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()
	repo := NewGormRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "subscriptions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateSubscriptionFields("row-1", map[string]interface{}{
		"status": models.SubscriptionPastDue,
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveCustomerID_UpsertsCustomerOnly(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()
	repo := NewGormRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "subscriptions" .* ON CONFLICT \("user_id"\) DO UPDATE SET "stripe_customer_id"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("row-1"))
	mock.ExpectCommit()

	err := repo.SaveCustomerID(testUserID, "cus_1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
