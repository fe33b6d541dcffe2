package billing

import (
	"github.com/contentking-de/womosuche-sub000/billing"
)

// Handler exposes the billing subsystem over HTTP. The service (and with
// it the repository and the Stripe gateway) is injected at construction.
type Handler struct {
	svc *billing.Service
}

func NewHandler(svc *billing.Service) *Handler {
	return &Handler{svc: svc}
}
