package wire

import (
	"net/http"

	"marketplace-booking/internal/adaptor"
	"marketplace-booking/internal/data/repository"
	"marketplace-booking/internal/usecase"
	"marketplace-booking/pkg/middleware"
	"marketplace-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired HTTP surface.
type App struct {
	Router *chi.Mux
}

// Wiring initializes services, handlers, and routes.
func Wiring(repo *repository.Repository, gateway usecase.PaymentGateway, txm usecase.TxManager, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, gateway, txm, logger)
	handler := adaptor.NewHandler(service, config.Stripe.WebhookSecret, logger)

	router := setupRouter(handler, repo, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	wireCatalog(r, handler.Catalog, handler.Review, repo, logger)
	wireBooking(r, handler.Booking, logger)
	wirePayment(r, handler.Payment, handler.Webhook, logger)
	wireReview(r, handler.Review, logger)
	wireNotification(r, handler.Notification, logger)
	wireProvider(r, handler.Provider, handler.Catalog, repo, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
