package billing

// Entitlement is the resource limit a plan grants.
type Entitlement struct {
	MaxVehicles int  `json:"maxVehicles"`
	Unlimited   bool `json:"unlimited"`
}

// An unrecognized plan falls back to a single vehicle. Catalog drift must
// never silently grant unlimited publishing.
const defaultMaxVehicles = 1

var vehicleLimitsByPlan = map[string]Entitlement{
	"Starter":   {MaxVehicles: 2},
	"Flotte":    {MaxVehicles: 10},
	"Pro":       {MaxVehicles: 30},
	"Unlimited": {Unlimited: true},
}

// Amount fallback covers plans that were renamed in Stripe but kept their
// price point.
var vehicleLimitsByAmount = map[int64]Entitlement{
	990:   {MaxVehicles: 2},
	2990:  {MaxVehicles: 10},
	7990:  {MaxVehicles: 30},
	14990: {Unlimited: true},
}

// VehicleLimit is a pure lookup from plan name (amount in cents as
// fallback) to the number of vehicles a landlord may publish.
func VehicleLimit(planName string, amountCents int64) Entitlement {
	if e, ok := vehicleLimitsByPlan[planName]; ok {
		return e
	}
	if e, ok := vehicleLimitsByAmount[amountCents]; ok {
		return e
	}
	return Entitlement{MaxVehicles: defaultMaxVehicles}
}
