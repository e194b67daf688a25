package http

import (
	"net/http"

	"renthub-backend/internal/logger"
	"renthub-backend/internal/payment"
	"renthub-backend/internal/service"
)

// WebhookHandler receives asynchronous payment confirmations from the
// gateway. The gateway retries on any non-2xx response, so unknown and
// duplicate callbacks answer 200; only a genuine processing failure is
// allowed to trigger a retry.
type WebhookHandler struct {
	callbacks service.PaymentCallbackService
}

func NewWebhookHandler(callbacks service.PaymentCallbackService) *WebhookHandler {
	return &WebhookHandler{callbacks: callbacks}
}

func (h *WebhookHandler) HandlePayment(w http.ResponseWriter, r *http.Request) {
	var cb payment.Webhook
	if err := decodeBody(r, &cb); err != nil {
		respondError(w, r, err)
		return
	}
	logger.InfoContext(r.Context(), "payment webhook received", "order_code", cb.OrderCode, "code", cb.Code)

	if err := h.callbacks.ProcessCallback(r.Context(), cb); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
