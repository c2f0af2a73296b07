package api

import (
	"net/http"

	"github.com/phrazzld/tatame-api/internal/api/shared"
	"github.com/phrazzld/tatame-api/internal/service"
)

// SubscriptionHandler serves the paid plan and the checkout hand-off.
type SubscriptionHandler struct {
	subscriptions *service.SubscriptionService
}

// NewSubscriptionHandler creates a SubscriptionHandler.
func NewSubscriptionHandler(subscriptions *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

// Info handles GET /api/subscription.
func (h *SubscriptionHandler) Info(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrError(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, h.subscriptions.Info(actor))
}

// Checkout handles GET /api/subscription/checkout by redirecting to the
// external checkout.
func (h *SubscriptionHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	if _, ok := actorOrError(w, r); !ok {
		return
	}
	http.Redirect(w, r, h.subscriptions.CheckoutURL(), http.StatusSeeOther)
}
