package adaptor

import (
	"encoding/json"
	"io"
	"net/http"

	"marketplace-booking/internal/dto/request"
	"marketplace-booking/internal/usecase"
	"marketplace-booking/pkg/utils"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/webhook"
	"go.uber.org/zap"
)

const maxWebhookBody = 64 * 1024

type WebhookHandler struct {
	service       usecase.PaymentService
	webhookSecret string
	log           *zap.Logger
}

func NewWebhookHandler(service usecase.PaymentService, webhookSecret string, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		service:       service,
		webhookSecret: webhookSecret,
		log:           log.With(zap.String("handler", "webhook")),
	}
}

// HandleStripeEvent handles POST /api/webhooks/stripe (public, signature-verified).
// Unrecognized events return 200 so the gateway stops redelivering them;
// handler failures return 500 to request redelivery.
func (h *WebhookHandler) HandleStripeEvent(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		utils.ResponseBadRequest(w, "Unable to read request body", nil)
		return
	}

	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), h.webhookSecret)
	if err != nil {
		h.log.Warn("Webhook signature verification failed", zap.Error(err))
		utils.ResponseBadRequest(w, "Invalid signature", nil)
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		err = h.handleCheckoutCompleted(r, event)
	case "transfer.created":
		err = h.handleTransferCreated(r, event)
	case "charge.refunded":
		err = h.handleChargeRefunded(r, event)
	default:
		h.log.Debug("Ignoring webhook event", zap.String("type", string(event.Type)))
	}

	if err != nil {
		h.log.Error("Webhook handler failed",
			zap.Error(err),
			zap.String("type", string(event.Type)),
			zap.String("event_id", event.ID),
		)
		utils.ResponseInternalError(w, "Event processing failed")
		return
	}

	utils.ResponseSuccess(w, "received", nil)
}

func (h *WebhookHandler) handleCheckoutCompleted(r *http.Request, event stripe.Event) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		h.log.Warn("Malformed checkout session payload", zap.Error(err))
		return nil
	}

	evt := &request.CheckoutCompletedEvent{
		SessionID:     session.ID,
		TransactionID: session.ID,
		ReferenceID:   session.Metadata["referenceId"],
		AmountTotal:   session.AmountTotal,
	}
	if evt.ReferenceID == "" {
		evt.ReferenceID = session.Metadata["bookingId"]
	}
	if session.CustomerDetails != nil {
		if session.CustomerDetails.Email != "" {
			email := session.CustomerDetails.Email
			evt.Email = &email
		}
		if session.CustomerDetails.Name != "" {
			name := session.CustomerDetails.Name
			evt.CustomerName = &name
		}
	}

	return h.service.HandleCheckoutCompleted(r.Context(), evt)
}

func (h *WebhookHandler) handleTransferCreated(r *http.Request, event stripe.Event) error {
	var transfer stripe.Transfer
	if err := json.Unmarshal(event.Data.Raw, &transfer); err != nil {
		h.log.Warn("Malformed transfer payload", zap.Error(err))
		return nil
	}

	referenceID := transfer.Metadata["referenceId"]
	if referenceID == "" {
		referenceID = transfer.TransferGroup
	}

	return h.service.HandleTransferCreated(r.Context(), &request.TransferCreatedEvent{
		ReferenceID: referenceID,
		TransferID:  transfer.ID,
	})
}

func (h *WebhookHandler) handleChargeRefunded(r *http.Request, event stripe.Event) error {
	var charge stripe.Charge
	if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
		h.log.Warn("Malformed charge payload", zap.Error(err))
		return nil
	}

	referenceID := charge.Metadata["referenceId"]
	if referenceID == "" {
		referenceID = charge.TransferGroup
	}

	return h.service.HandleChargeRefunded(r.Context(), &request.ChargeRefundedEvent{
		ReferenceID: referenceID,
		ChargeID:    charge.ID,
	})
}
