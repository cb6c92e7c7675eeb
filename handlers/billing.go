package handlers

import (
	"io"
	"net/http"

	"matchpredict-go/middleware"
	"matchpredict-go/services"

	"github.com/rs/zerolog/log"
)

// Stripe recommends capping webhook bodies to guard against oversized payloads
const maxWebhookBodyBytes = 65536

// BillingHandler handles checkout creation and billing provider webhooks
type BillingHandler struct {
	subscriptionService *services.SubscriptionService
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(subscriptionService *services.SubscriptionService) *BillingHandler {
	return &BillingHandler{subscriptionService: subscriptionService}
}

// CreateCheckoutSession handles POST /api/billing/checkout
func (h *BillingHandler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	url, err := h.subscriptionService.CreateCheckoutSession(r.Context(), user.ID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("checkout session failed")
		respondError(w, http.StatusBadGateway, "failed to create checkout session")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}

// GetSubscription handles GET /api/billing/subscription
func (h *BillingHandler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	sub, err := h.subscriptionService.GetSubscription(r.Context(), user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load subscription")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"subscription": sub,
		"active":       sub.IsActive(),
	})
}

// HandleWebhook handles POST /api/billing/webhook from the billing provider.
// The signature is verified before any state changes.
func (h *BillingHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodyBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read payload")
		return
	}

	event, err := h.subscriptionService.VerifyWebhookSignature(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		log.Warn().Err(err).Msg("webhook signature verification failed")
		respondError(w, http.StatusBadRequest, "invalid signature")
		return
	}

	if err := h.subscriptionService.ProcessWebhookEvent(r.Context(), event); err != nil {
		log.Error().Err(err).Str("type", string(event.Type)).Msg("webhook processing failed")
		respondError(w, http.StatusInternalServerError, "failed to process event")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"received": true})
}
