package models

// Plan describes one entry of the billing catalog. The catalog itself is
// maintained in Stripe; this list mirrors it so the frontend can render
// the pricing page and the entitlement calculator can resolve a price id
// back to a plan.
type Plan struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	PriceID  string `json:"priceId"`
	Amount   int64  `json:"amount"` // cents
	Currency string `json:"currency"`
	Interval string `json:"interval"`
}

var planCatalog = []Plan{
	{ID: "starter", Name: "Starter", PriceID: "price_1QWomoStarterM0nthly00", Amount: 990, Currency: "eur", Interval: "month"},
	{ID: "flotte", Name: "Flotte", PriceID: "price_1QWomoFlotteM0nthly000", Amount: 2990, Currency: "eur", Interval: "month"},
	{ID: "pro", Name: "Pro", PriceID: "price_1QWomoProM0nthly000000", Amount: 7990, Currency: "eur", Interval: "month"},
	{ID: "unlimited", Name: "Unlimited", PriceID: "price_1QWomoUnlimitedM0nth00", Amount: 14990, Currency: "eur", Interval: "month"},
}

// PlanCatalog returns the static plan list.
func PlanCatalog() []Plan {
	return planCatalog
}

// PlanByPriceID resolves a Stripe price id to its catalog entry.
func PlanByPriceID(priceID string) (Plan, bool) {
	for _, p := range planCatalog {
		if p.PriceID == priceID {
			return p, true
		}
	}
	return Plan{}, false
}
