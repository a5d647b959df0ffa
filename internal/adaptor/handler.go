package adaptor

import (
	"marketplace-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Booking      *BookingHandler
	Catalog      *CatalogHandler
	Payment      *PaymentHandler
	Webhook      *WebhookHandler
	Review       *ReviewHandler
	Notification *NotificationHandler
	Provider     *ProviderHandler
}

func NewHandler(service *usecase.Service, webhookSecret string, log *zap.Logger) *Handler {
	return &Handler{
		Booking:      NewBookingHandler(service.Booking, log),
		Catalog:      NewCatalogHandler(service.Catalog, log),
		Payment:      NewPaymentHandler(service.Payment, log),
		Webhook:      NewWebhookHandler(service.Payment, webhookSecret, log),
		Review:       NewReviewHandler(service.Review, log),
		Notification: NewNotificationHandler(service.Notification, log),
		Provider:     NewProviderHandler(service.Provider, log),
	}
}
