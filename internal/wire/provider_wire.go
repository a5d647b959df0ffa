package wire

import (
	"marketplace-booking/internal/adaptor"
	"marketplace-booking/internal/data/repository"
	"marketplace-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Paths a business user may hit before finishing payout onboarding.
var onboardingAllowPaths = []string{
	"/api/business/hours",
	"/api/notifications",
	"/api/notifications/read-all",
	"/api/notifications/:id/read",
}

func wireProvider(
	r chi.Router,
	providerHandler *adaptor.ProviderHandler,
	catalogHandler *adaptor.CatalogHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== BUSINESS ROUTES ====================
	r.Route("/api/business", func(r chi.Router) {
		r.Use(middleware.Auth(log))
		r.Use(middleware.RequireRole("business"))
		r.Use(middleware.BusinessGate(repo.Provider, onboardingAllowPaths, log))

		// GET /api/business/hours - Own opening hours
		r.Get("/hours", providerHandler.GetBusinessHours)

		// PUT /api/business/hours - Replace opening hours
		r.Put("/hours", providerHandler.UpdateBusinessHours)

		// POST /api/business/services - Publish a service
		r.Post("/services", catalogHandler.CreateService)

		// GET /api/business/services - Own services
		r.Get("/services", catalogHandler.GetOwnServices)

		// PUT /api/business/services/{id} - Update a service
		r.Put("/services/{id}", catalogHandler.UpdateService)

		// DELETE /api/business/services/{id} - Retire a service
		r.Delete("/services/{id}", catalogHandler.DeleteService)
	})
}
