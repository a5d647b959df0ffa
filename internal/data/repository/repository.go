package repository

import (
	"marketplace-booking/pkg/database"

	"go.uber.org/zap"
)

// Repository aggregates every data access interface so the wiring layer
// can pass a single dependency into the services.
type Repository struct {
	Booking      BookingRepository
	Service      ServiceRepository
	Provider     ProviderRepository
	Payment      PaymentRepository
	Notification NotificationRepository
	Review       ReviewRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Booking:      NewBookingRepository(db, log),
		Service:      NewServiceRepository(db, log),
		Provider:     NewProviderRepository(db, log),
		Payment:      NewPaymentRepository(db, log),
		Notification: NewNotificationRepository(db, log),
		Review:       NewReviewRepository(db, log),
	}
}
