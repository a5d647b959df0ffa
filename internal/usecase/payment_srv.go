package usecase

import (
	"context"
	"fmt"
	"time"

	"marketplace-booking/internal/data/entity"
	"marketplace-booking/internal/data/repository"
	"marketplace-booking/internal/dto/request"
	"marketplace-booking/internal/dto/response"
	"marketplace-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentService interface {
	CreateCheckoutSession(ctx context.Context, userID uuid.UUID, req *request.CreateCheckoutSessionRequest) (*response.CheckoutSessionResponse, error)
	GetPayments(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PaymentResponse], error)

	// Webhook reconcilers. Each must tolerate redelivery of the same event.
	HandleCheckoutCompleted(ctx context.Context, event *request.CheckoutCompletedEvent) error
	HandleTransferCreated(ctx context.Context, event *request.TransferCreatedEvent) error
	HandleChargeRefunded(ctx context.Context, event *request.ChargeRefundedEvent) error
}

type paymentService struct {
	repo     *repository.Repository
	gateway  PaymentGateway
	notifier Notifier
	log      *zap.Logger
}

func NewPaymentService(repo *repository.Repository, gateway PaymentGateway, notifier Notifier, log *zap.Logger) PaymentService {
	return &paymentService{
		repo:     repo,
		gateway:  gateway,
		notifier: notifier,
		log:      log.With(zap.String("service", "payment")),
	}
}

func (s *paymentService) CreateCheckoutSession(ctx context.Context, userID uuid.UUID, req *request.CreateCheckoutSessionRequest) (*response.CheckoutSessionResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking ID %s", ErrInvalidInput, req.BookingID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: booking %s", ErrNotFound, req.BookingID)
	}
	if booking.UserID != userID {
		return nil, fmt.Errorf("%w: booking belongs to another client", ErrForbidden)
	}
	if booking.PaymentMethod != entity.PaymentMethodOnline {
		return nil, fmt.Errorf("%w: booking is not payable online", ErrInvalidInput)
	}
	if booking.PaymentStatus == entity.PaymentStatusPaid {
		return nil, fmt.Errorf("%w: booking already paid", ErrInvalidInput)
	}

	service, err := s.repo.Service.FindByID(ctx, booking.ServiceID)
	if err != nil {
		return nil, err
	}
	serviceName := "Booking"
	if service != nil {
		serviceName = service.Name
	}

	url, err := s.gateway.CreateCheckoutSession(ctx, CheckoutParams{
		ReferenceID: booking.ID,
		ServiceName: serviceName,
		AmountMinor: utils.ToMinorUnits(booking.TotalAmount),
	})
	if err != nil {
		s.log.Error("Failed to create checkout session",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return nil, fmt.Errorf("%w: checkout session", ErrUpstream)
	}

	return &response.CheckoutSessionResponse{URL: url}, nil
}

func (s *paymentService) GetPayments(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PaymentResponse], error) {
	payments, err := s.repo.Payment.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Payment.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(response.PaymentsToResponse(payments), req.Page, req.Limit(), total), nil
}

// HandleCheckoutCompleted records the payment and moves the booking into
// the paid pending state. The payment row keyed by transaction ID is the
// idempotency anchor for redelivered events.
func (s *paymentService) HandleCheckoutCompleted(ctx context.Context, event *request.CheckoutCompletedEvent) error {
	bookingID, err := uuid.Parse(event.ReferenceID)
	if err != nil {
		s.log.Warn("Checkout completed event without usable reference", zap.String("reference_id", event.ReferenceID))
		return nil
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		s.log.Warn("Checkout completed for unknown booking", zap.String("booking_id", event.ReferenceID))
		return nil
	}

	existing, err := s.repo.Payment.FindByTransactionID(ctx, event.TransactionID)
	if err != nil {
		return err
	}
	if existing != nil {
		s.log.Info("Checkout event already applied", zap.String("transaction_id", event.TransactionID))
		return nil
	}

	fee, err := s.gateway.RetrieveChargeFee(ctx, event.SessionID)
	if err != nil {
		s.log.Error("Failed to retrieve charge fee",
			zap.Error(err),
			zap.String("session_id", event.SessionID),
		)
		return fmt.Errorf("%w: charge fee for session %s", ErrUpstream, event.SessionID)
	}

	payment := &entity.Payment{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		Email:         event.Email,
		CustomerName:  event.CustomerName,
		Amount:        float64(event.AmountTotal) / 100,
		TransactionID: event.TransactionID,
		ReferenceID:   bookingID,
	}
	if err := s.repo.Payment.Create(ctx, payment); err != nil {
		return err
	}

	if err := s.repo.Booking.SetPaymentDetails(ctx, bookingID,
		entity.BookingStatusPending, entity.PaymentStatusPaid, event.TransactionID, fee); err != nil {
		return err
	}

	s.log.Info("Payment recorded",
		zap.String("booking_id", bookingID.String()),
		zap.String("transaction_id", event.TransactionID),
		zap.Int64("fee_minor", fee),
	)

	refID := bookingID
	s.notifier.Notify(ctx, booking.ProviderID, entity.NotificationTypeBusiness,
		"Booking paid",
		fmt.Sprintf("Booking for %s %s-%s has been paid", booking.Date, booking.StartTime, booking.EndTime),
		&refID,
	)

	return nil
}

func (s *paymentService) HandleTransferCreated(ctx context.Context, event *request.TransferCreatedEvent) error {
	bookingID, err := uuid.Parse(event.ReferenceID)
	if err != nil {
		s.log.Warn("Transfer created event without usable reference", zap.String("reference_id", event.ReferenceID))
		return nil
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		s.log.Warn("Transfer created for unknown booking", zap.String("booking_id", event.ReferenceID))
		return nil
	}

	// Setting the flag is idempotent; a second delivery is a no-op.
	if _, err := s.repo.Booking.MarkTransferred(ctx, bookingID); err != nil {
		return err
	}

	s.log.Info("Transfer confirmed",
		zap.String("booking_id", bookingID.String()),
		zap.String("transfer_id", event.TransferID),
	)
	return nil
}

func (s *paymentService) HandleChargeRefunded(ctx context.Context, event *request.ChargeRefundedEvent) error {
	bookingID, err := uuid.Parse(event.ReferenceID)
	if err != nil {
		s.log.Warn("Charge refunded event without usable reference", zap.String("reference_id", event.ReferenceID))
		return nil
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		s.log.Warn("Charge refunded for unknown booking", zap.String("booking_id", event.ReferenceID))
		return nil
	}

	if booking.PaymentStatus == entity.PaymentStatusRefunded {
		return nil
	}

	if err := s.repo.Booking.SetPaymentStatus(ctx, bookingID, entity.PaymentStatusRefunded); err != nil {
		return err
	}

	s.log.Info("Refund confirmed",
		zap.String("booking_id", bookingID.String()),
		zap.String("charge_id", event.ChargeID),
	)

	refID := bookingID
	s.notifier.Notify(ctx, booking.UserID, entity.NotificationTypeClient,
		"Refund issued",
		fmt.Sprintf("Your payment for booking on %s has been refunded", booking.Date),
		&refID,
	)

	return nil
}
