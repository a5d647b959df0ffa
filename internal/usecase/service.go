package usecase

import (
	"marketplace-booking/internal/data/repository"

	"go.uber.org/zap"
)

type Service struct {
	Booking      BookingService
	Catalog      CatalogService
	Payment      PaymentService
	Review       ReviewService
	Notification NotificationService
	Provider     ProviderService
}

func NewService(repo *repository.Repository, gateway PaymentGateway, txm TxManager, log *zap.Logger) *Service {
	notification := NewNotificationService(repo, log)

	return &Service{
		Booking:      NewBookingService(repo, gateway, txm, notification, log),
		Catalog:      NewCatalogService(repo, log),
		Payment:      NewPaymentService(repo, gateway, notification, log),
		Review:       NewReviewService(repo, txm, log),
		Notification: notification,
		Provider:     NewProviderService(repo, log),
	}
}
