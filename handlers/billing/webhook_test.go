package billing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	stripe "github.com/stripe/stripe-go/v82"

	"github.com/contentking-de/womosuche-sub000/billing"
	"github.com/contentking-de/womosuche-sub000/models"
	"github.com/contentking-de/womosuche-sub000/testutils"
)

const webhookSecret = "whsec_test_secret"

func signedWebhookRequest(t *testing.T, eventType string, object string) *http.Request {
	t.Helper()

	payload := fmt.Sprintf(`{"id":"evt_1","object":"event","api_version":%q,"type":%q,"data":{"object":%s}}`,
		stripe.APIVersion, eventType, object)

	sp := stripe.GenerateTestSignedPayload(&stripe.UnsignedPayload{
		Payload: []byte(payload),
		Secret:  webhookSecret,
	})

	req, _ := http.NewRequest(http.MethodPost, "/billing/webhook", bytes.NewReader(sp.Payload))
	req.Header.Set("Stripe-Signature", sp.Header)
	return req
}

func setupWebhook(t *testing.T) (*stubRepo, *stubProvider, func(*http.Request) *httptest.ResponseRecorder) {
	t.Helper()
	t.Setenv("STRIPE_WEBHOOK_SECRET", webhookSecret)

	repo := newStubRepo()
	provider := newStubProvider()
	h := newTestHandler(repo, provider)

	r := testutils.SetupTestRouter()
	r.POST("/billing/webhook", h.StripeWebhookHandler)

	serve := func(req *http.Request) *httptest.ResponseRecorder {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		return resp
	}
	return repo, provider, serve
}

func TestStripeWebhook_InvalidSignature(t *testing.T) {
	repo, _, serve := setupWebhook(t)

	req, _ := http.NewRequest(http.MethodPost, "/billing/webhook",
		bytes.NewReader([]byte(`{"id":"evt_1","type":"checkout.session.completed"}`)))
	req.Header.Set("Stripe-Signature", "t=1234567890,v1=deadbeef")

	resp := serve(req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Empty(t, repo.subs)
}

func TestStripeWebhook_UnknownEventTypeAcknowledged(t *testing.T) {
	repo, _, serve := setupWebhook(t)

	resp := serve(signedWebhookRequest(t, "invoice.payment_succeeded", `{"id":"in_1"}`))

	assert.Equal(t, http.StatusOK, resp.Code)
	var body map[string]string
	json.Unmarshal(resp.Body.Bytes(), &body)
	assert.Equal(t, "Event ignored", body["message"])
	assert.Empty(t, repo.subs)
}

// A correctly signed event whose payload is garbage will never parse on a
// retry either, so it must be acknowledged, not answered with 400.
func TestStripeWebhook_MalformedPayloadAcknowledged(t *testing.T) {
	repo, _, serve := setupWebhook(t)

	for _, eventType := range []string{
		"checkout.session.completed",
		"customer.subscription.updated",
		"customer.subscription.deleted",
	} {
		resp := serve(signedWebhookRequest(t, eventType, `["not","an","object"]`))

		assert.Equal(t, http.StatusOK, resp.Code, eventType)
		var body map[string]string
		json.Unmarshal(resp.Body.Bytes(), &body)
		assert.Equal(t, "Event skipped: malformed payload", body["message"], eventType)
	}
	assert.Empty(t, repo.subs)
}

func TestStripeWebhook_CheckoutCompleted_NewSubscription(t *testing.T) {
	repo, provider, serve := setupWebhook(t)

	end := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	provider.snapshots["sub_new"] = billing.SubscriptionSnapshot{
		ID: "sub_new", CustomerID: "cus_1", PriceID: models.PlanCatalog()[0].PriceID,
		Status: models.SubscriptionActive, CurrentPeriodEnd: &end,
	}

	object := fmt.Sprintf(`{"id":"cs_1","object":"checkout.session","customer":"cus_1","subscription":"sub_new","metadata":{"user_id":%q,"action":"new_subscription"}}`, testUserID)
	resp := serve(signedWebhookRequest(t, "checkout.session.completed", object))

	assert.Equal(t, http.StatusOK, resp.Code)
	row := repo.subs[testUserID]
	assert.NotNil(t, row)
	assert.Equal(t, "sub_new", row.StripeSubscriptionID)
	assert.Equal(t, models.PlanCatalog()[0].PriceID, row.StripePriceID)
	assert.Equal(t, models.SubscriptionActive, row.Status)
	assert.Equal(t, end, *row.CurrentPeriodEnd)
	assert.False(t, row.CancelAtPeriodEnd)
}

func TestStripeWebhook_CheckoutCompleted_ChangePlanSupersedes(t *testing.T) {
	repo, provider, serve := setupWebhook(t)

	repo.subs[testUserID] = &models.Subscription{
		ID: "row-1", UserID: testUserID, StripeCustomerID: "cus_1",
		StripeSubscriptionID: "sub_old", StripePriceID: models.PlanCatalog()[0].PriceID,
		Status: models.SubscriptionActive,
	}
	end := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	// the old subscription no longer exists at Stripe: cancel resolves AlreadyGone
	provider.snapshots["sub_new"] = billing.SubscriptionSnapshot{
		ID: "sub_new", CustomerID: "cus_1", PriceID: models.PlanCatalog()[1].PriceID,
		Status: models.SubscriptionActive, CurrentPeriodEnd: &end,
	}

	object := fmt.Sprintf(`{"id":"cs_1","object":"checkout.session","customer":"cus_1","subscription":"sub_new","metadata":{"user_id":%q,"action":"change_plan","existing_subscription_id":"sub_old","old_price_id":%q}}`,
		testUserID, models.PlanCatalog()[0].PriceID)
	resp := serve(signedWebhookRequest(t, "checkout.session.completed", object))

	assert.Equal(t, http.StatusOK, resp.Code)
	row := repo.subs[testUserID]
	assert.Equal(t, "sub_new", row.StripeSubscriptionID)
	assert.Equal(t, models.PlanCatalog()[1].PriceID, row.StripePriceID)
	assert.Equal(t, models.SubscriptionActive, row.Status)
	assert.Len(t, repo.subs, 1)
}

func TestStripeWebhook_CheckoutCompleted_DuplicateDelivery(t *testing.T) {
	repo, provider, serve := setupWebhook(t)

	end := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	provider.snapshots["sub_new"] = billing.SubscriptionSnapshot{
		ID: "sub_new", CustomerID: "cus_1", PriceID: models.PlanCatalog()[0].PriceID,
		Status: models.SubscriptionActive, CurrentPeriodEnd: &end,
	}
	object := fmt.Sprintf(`{"id":"cs_1","object":"checkout.session","customer":"cus_1","subscription":"sub_new","metadata":{"user_id":%q,"action":"new_subscription"}}`, testUserID)

	resp := serve(signedWebhookRequest(t, "checkout.session.completed", object))
	assert.Equal(t, http.StatusOK, resp.Code)
	first := *repo.subs[testUserID]

	resp = serve(signedWebhookRequest(t, "checkout.session.completed", object))
	assert.Equal(t, http.StatusOK, resp.Code)
	second := *repo.subs[testUserID]

	assert.Equal(t, first, second)
	assert.Len(t, repo.subs, 1)
}

func TestStripeWebhook_CheckoutCompleted_MissingMetadata(t *testing.T) {
	repo, _, serve := setupWebhook(t)

	object := `{"id":"cs_1","object":"checkout.session","customer":"cus_1","subscription":"sub_new","metadata":{}}`
	resp := serve(signedWebhookRequest(t, "checkout.session.completed", object))

	// acknowledged so Stripe stops retrying, but nothing is written
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, repo.subs)
}

func TestStripeWebhook_SubscriptionUpdated(t *testing.T) {
	repo, _, serve := setupWebhook(t)

	repo.subs[testUserID] = &models.Subscription{
		ID: "row-1", UserID: testUserID, StripeCustomerID: "cus_1",
		StripeSubscriptionID: "sub_1", StripePriceID: models.PlanCatalog()[0].PriceID,
		Status: models.SubscriptionActive,
	}

	object := `{"id":"sub_1","object":"subscription","customer":"cus_1","status":"past_due","cancel_at_period_end":true,"items":{"object":"list","data":[{"id":"si_1","object":"subscription_item","price":{"id":"price_1QWomoStarterM0nthly00"},"current_period_end":1790000000}]}}`
	resp := serve(signedWebhookRequest(t, "customer.subscription.updated", object))

	assert.Equal(t, http.StatusOK, resp.Code)
	row := repo.subs[testUserID]
	assert.Equal(t, models.SubscriptionPastDue, row.Status)
	assert.True(t, row.CancelAtPeriodEnd)
	// identity never changes through status events
	assert.Equal(t, "sub_1", row.StripeSubscriptionID)
}

func TestStripeWebhook_SubscriptionUpdated_UnknownCustomer(t *testing.T) {
	repo, _, serve := setupWebhook(t)

	object := `{"id":"sub_1","object":"subscription","customer":"cus_stranger","status":"active"}`
	resp := serve(signedWebhookRequest(t, "customer.subscription.updated", object))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, repo.subs)
}

func TestStripeWebhook_SubscriptionDeleted(t *testing.T) {
	repo, _, serve := setupWebhook(t)

	repo.subs[testUserID] = &models.Subscription{
		ID: "row-1", UserID: testUserID, StripeCustomerID: "cus_1",
		StripeSubscriptionID: "sub_1", StripePriceID: models.PlanCatalog()[0].PriceID,
		Status: models.SubscriptionActive,
	}

	object := `{"id":"sub_1","object":"subscription","customer":"cus_1","status":"canceled"}`
	resp := serve(signedWebhookRequest(t, "customer.subscription.deleted", object))

	assert.Equal(t, http.StatusOK, resp.Code)
	row := repo.subs[testUserID]
	assert.Equal(t, models.SubscriptionCanceled, row.Status)
	// the row survives as a historical denial record
	assert.Equal(t, "sub_1", row.StripeSubscriptionID)
}
