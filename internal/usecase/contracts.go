package usecase

import (
	"context"

	"marketplace-booking/internal/data/entity"

	"github.com/google/uuid"
)

// CheckoutParams carries everything the gateway needs to open a hosted
// checkout page for a booking.
type CheckoutParams struct {
	ReferenceID uuid.UUID
	ServiceName string
	AmountMinor int64
}

// PaymentGateway abstracts the payment provider so services and tests do
// not depend on Stripe types directly.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (url string, err error)
	// RetrieveChargeFee resolves the processor fee (in minor units) taken
	// on the charge behind a checkout session.
	RetrieveChargeFee(ctx context.Context, sessionID string) (int64, error)
	TransferFunds(ctx context.Context, destinationAccount string, amountMinor int64, referenceID uuid.UUID) (string, error)
	Refund(ctx context.Context, transactionID string) error
}

// TxManager runs a function inside a serializable database transaction,
// retrying on serialization conflicts.
type TxManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier delivers in-app notifications. Implementations must not fail
// the calling operation; delivery errors are logged and swallowed.
type Notifier interface {
	Notify(ctx context.Context, receiverID uuid.UUID, notificationType entity.NotificationType, title, message string, referenceID *uuid.UUID)
}
