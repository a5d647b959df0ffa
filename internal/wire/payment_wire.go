package wire

import (
	"marketplace-booking/internal/adaptor"
	"marketplace-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePayment(
	r chi.Router,
	paymentHandler *adaptor.PaymentHandler,
	webhookHandler *adaptor.WebhookHandler,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// POST /api/webhooks/stripe - Gateway events, signature-verified
	r.Post("/api/webhooks/stripe", webhookHandler.HandleStripeEvent)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(log))

		// POST /api/payments/checkout-session - Hosted checkout for a booking
		r.Post("/api/payments/checkout-session", paymentHandler.CreateCheckoutSession)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/payments", func(r chi.Router) {
		r.Use(middleware.Auth(log))
		r.Use(middleware.Admin())

		// GET /api/admin/payments - All payment records
		r.Get("/", paymentHandler.GetPayments)
	})
}
