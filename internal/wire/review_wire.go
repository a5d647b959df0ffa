package wire

import (
	"marketplace-booking/internal/adaptor"
	"marketplace-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReview(
	r chi.Router,
	reviewHandler *adaptor.ReviewHandler,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(log))

		// POST /api/reviews - Leave a review
		r.Post("/api/reviews", reviewHandler.CreateReview)

		// DELETE /api/reviews/{id} - Remove own review (admin may remove any)
		r.Delete("/api/reviews/{id}", reviewHandler.DeleteReview)
	})
}
