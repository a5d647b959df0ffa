package wire

import (
	"marketplace-booking/internal/adaptor"
	"marketplace-booking/internal/data/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCatalog(
	r chi.Router,
	catalogHandler *adaptor.CatalogHandler,
	reviewHandler *adaptor.ReviewHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/services - Browse active services
	r.Get("/api/services", catalogHandler.GetServices)

	// GET /api/services/{id} - Service details
	r.Get("/api/services/{id}", catalogHandler.GetServiceByID)

	// GET /api/services/{id}/slots?date= - Availability for a day
	r.Get("/api/services/{id}/slots", catalogHandler.GetAvailableSlots)

	// GET /api/services/{id}/reviews - Reviews for a service
	r.Get("/api/services/{id}/reviews", reviewHandler.GetServiceReviews)
}
