package wire

import (
	"marketplace-booking/internal/adaptor"
	"marketplace-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireNotification(
	r chi.Router,
	notificationHandler *adaptor.NotificationHandler,
	log *zap.Logger,
) {
	r.Route("/api/notifications", func(r chi.Router) {
		r.Use(middleware.Auth(log))

		// GET /api/notifications - Own inbox
		r.Get("/", notificationHandler.GetNotifications)

		// PATCH /api/notifications/read-all - Mark everything read
		r.Patch("/read-all", notificationHandler.MarkAllRead)

		// PATCH /api/notifications/{id}/read - Mark one read
		r.Patch("/{id}/read", notificationHandler.MarkRead)
	})
}
