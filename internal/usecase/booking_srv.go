package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"marketplace-booking/internal/data/entity"
	"marketplace-booking/internal/data/repository"
	"marketplace-booking/internal/dto/request"
	"marketplace-booking/internal/dto/response"
	"marketplace-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetBookings(ctx context.Context, actorID uuid.UUID, role string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetBookingByID(ctx context.Context, actorID uuid.UUID, role string, bookingID uuid.UUID) (*response.BookingResponse, error)
	UpdateBookingStatus(ctx context.Context, actorID uuid.UUID, role string, bookingID uuid.UUID, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error)
	DeleteBooking(ctx context.Context, bookingID uuid.UUID) error
}

type bookingService struct {
	repo     *repository.Repository
	gateway  PaymentGateway
	txm      TxManager
	notifier Notifier
	log      *zap.Logger
}

func NewBookingService(repo *repository.Repository, gateway PaymentGateway, txm TxManager, notifier Notifier, log *zap.Logger) BookingService {
	return &bookingService{
		repo:     repo,
		gateway:  gateway,
		txm:      txm,
		notifier: notifier,
		log:      log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid service ID %s", ErrInvalidInput, req.ServiceID)
	}

	service, err := s.repo.Service.FindByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if service == nil || !service.IsActive {
		return nil, fmt.Errorf("%w: service %s", ErrNotFound, req.ServiceID)
	}

	booked, err := s.repo.Booking.CountByServiceAndDate(ctx, serviceID, req.Date)
	if err != nil {
		return nil, err
	}
	if booked >= int64(service.MaxBookingsPerDay) {
		return nil, fmt.Errorf("%w: service %s on %s", ErrCapacityExceeded, req.ServiceID, req.Date)
	}

	startMin, err := utils.ParseClock(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: start time %q", ErrInvalidInput, req.StartTime)
	}
	endMin, err := utils.ParseClock(req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: end time %q", ErrInvalidInput, req.EndTime)
	}
	if startMin >= endMin {
		return nil, fmt.Errorf("%w: start time must precede end time", ErrInvalidInput)
	}

	durationMin, err := utils.ParseDuration(service.Duration)
	if err != nil {
		// Misconfigured service, not a client error.
		s.log.Error("Service has unparseable duration",
			zap.String("service_id", serviceID.String()),
			zap.String("duration", service.Duration),
		)
		return nil, fmt.Errorf("%w: service duration %q", ErrUpstream, service.Duration)
	}
	if endMin-startMin != durationMin {
		return nil, fmt.Errorf("%w: slot length must equal service duration of %d minutes", ErrInvalidInput, durationMin)
	}

	if err := s.checkBusinessHours(ctx, service.ProviderID, req.Date, startMin, endMin); err != nil {
		return nil, err
	}

	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:        userID,
		ProviderID:    service.ProviderID,
		ServiceID:     serviceID,
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Status:        entity.BookingStatusRegistered,
		PaymentStatus: entity.PaymentStatusPending,
		PaymentMethod: entity.PaymentMethod(req.PaymentMethod),
		TotalAmount:   service.Price,
		Notes:         req.Notes,
	}
	if booking.PaymentMethod == entity.PaymentMethodHandCash {
		// Cash bookings skip checkout and wait for provider acceptance.
		booking.Status = entity.BookingStatusPending
		booking.PaymentStatus = entity.PaymentStatusAwaitingCash
	}

	// Overlap check and insert race against concurrent requests for the
	// same slot, so both run inside one serializable transaction along
	// with the capacity re-check and the counter increment.
	err = s.txm.DoSerializable(ctx, func(txCtx context.Context) error {
		booked, err := s.repo.Booking.CountByServiceAndDate(txCtx, serviceID, req.Date)
		if err != nil {
			return err
		}
		if booked >= int64(service.MaxBookingsPerDay) {
			return fmt.Errorf("%w: service %s on %s", ErrCapacityExceeded, req.ServiceID, req.Date)
		}

		existing, err := s.repo.Booking.FindActiveByProviderAndDate(txCtx, service.ProviderID, req.Date)
		if err != nil {
			return err
		}
		for _, other := range existing {
			otherStart, err := utils.ParseClock(other.StartTime)
			if err != nil {
				continue
			}
			otherEnd, err := utils.ParseClock(other.EndTime)
			if err != nil {
				continue
			}
			if startMin < otherEnd && endMin > otherStart {
				return fmt.Errorf("%w: %s-%s on %s", ErrOverlap, other.StartTime, other.EndTime, req.Date)
			}
		}

		if err := s.repo.Booking.Create(txCtx, booking); err != nil {
			return err
		}
		return s.repo.Service.IncrementBookingCount(txCtx, serviceID)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("service_id", serviceID.String()),
		zap.String("date", req.Date),
		zap.String("payment_method", req.PaymentMethod),
	)

	refID := booking.ID
	s.notifier.Notify(ctx, service.ProviderID, entity.NotificationTypeBusiness,
		"New booking",
		fmt.Sprintf("%s was booked for %s %s-%s", service.Name, req.Date, req.StartTime, req.EndTime),
		&refID,
	)

	resp := response.BookingToResponse(booking)
	resp.ServiceName = service.Name
	return &resp, nil
}

func (s *bookingService) checkBusinessHours(ctx context.Context, providerID uuid.UUID, date string, startMin, endMin int) error {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return fmt.Errorf("%w: date %q", ErrInvalidInput, date)
	}
	weekday := strings.ToLower(day.Weekday().String())

	profile, err := s.repo.Provider.FindByUserID(ctx, providerID)
	if err != nil {
		return err
	}
	if profile == nil || profile.BusinessHours == nil {
		return fmt.Errorf("%w: provider has no business hours configured", ErrOutsideBusinessHours)
	}

	hours, open := profile.BusinessHours.Open(weekday)
	if !open {
		return fmt.Errorf("%w: closed on %s", ErrOutsideBusinessHours, weekday)
	}

	openMin, err := utils.ParseClock(hours.From)
	if err != nil {
		return fmt.Errorf("%w: business hours %q", ErrUpstream, hours.From)
	}
	closeMin, err := utils.ParseClock(hours.To)
	if err != nil {
		return fmt.Errorf("%w: business hours %q", ErrUpstream, hours.To)
	}

	if startMin < openMin || endMin > closeMin {
		return fmt.Errorf("%w: open %s-%s on %s", ErrOutsideBusinessHours, hours.From, hours.To, weekday)
	}

	return nil
}

func (s *bookingService) GetBookings(ctx context.Context, actorID uuid.UUID, role string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	limit, offset := req.Limit(), req.Offset()

	var (
		bookings []*entity.Booking
		total    int64
		err      error
	)

	switch role {
	case entity.RoleAdmin:
		bookings, err = s.repo.Booking.FindAll(ctx, limit, offset)
		if err == nil {
			total, err = s.repo.Booking.CountAll(ctx)
		}
	case entity.RoleBusiness:
		bookings, err = s.repo.Booking.FindByProviderID(ctx, actorID, limit, offset)
		if err == nil {
			total, err = s.repo.Booking.CountByProviderID(ctx, actorID)
		}
	default:
		bookings, err = s.repo.Booking.FindByUserID(ctx, actorID, limit, offset)
		if err == nil {
			total, err = s.repo.Booking.CountByUserID(ctx, actorID)
		}
	}
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(response.BookingsToResponse(bookings), req.Page, limit, total), nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, actorID uuid.UUID, role string, bookingID uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: booking %s", ErrNotFound, bookingID.String())
	}

	if err := checkOwnership(booking, actorID, role); err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) UpdateBookingStatus(ctx context.Context, actorID uuid.UUID, role string, bookingID uuid.UUID, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: booking %s", ErrNotFound, bookingID.String())
	}

	// Ownership first: a client poking someone else's booking is Forbidden,
	// not an illegal transition.
	if err := checkOwnership(booking, actorID, role); err != nil {
		return nil, err
	}

	target := entity.BookingStatus(req.Status)
	if !transitionAllowed(role, booking.Status, target) {
		return nil, fmt.Errorf("%w: %s cannot move booking from %s to %s", ErrIllegalTransition, role, booking.Status, target)
	}

	if err := s.repo.Booking.UpdateStatus(ctx, bookingID, target, req.Reason); err != nil {
		return nil, err
	}

	s.log.Info("Booking status updated",
		zap.String("booking_id", bookingID.String()),
		zap.String("from", string(booking.Status)),
		zap.String("to", string(target)),
		zap.String("role", role),
	)

	// Side effects after the committed status change. Failures here are
	// logged and never revert the transition.
	switch target {
	case entity.BookingStatusCompleted:
		s.settlePayout(ctx, booking)
	case entity.BookingStatusCancelled:
		s.refundIfPaid(ctx, booking)
	}
	s.notifyTransition(ctx, booking, target, role)

	booking.Status = target
	if req.Reason != nil {
		booking.Reason = req.Reason
	}
	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func checkOwnership(booking *entity.Booking, actorID uuid.UUID, role string) error {
	switch role {
	case entity.RoleAdmin:
		return nil
	case entity.RoleBusiness:
		if booking.ProviderID != actorID {
			return fmt.Errorf("%w: booking belongs to another provider", ErrForbidden)
		}
	default:
		if booking.UserID != actorID {
			return fmt.Errorf("%w: booking belongs to another client", ErrForbidden)
		}
	}
	return nil
}

func transitionAllowed(role string, current, target entity.BookingStatus) bool {
	switch role {
	case entity.RoleClient:
		switch target {
		case entity.BookingStatusCancelled:
			return current == entity.BookingStatusPending || current == entity.BookingStatusRegistered
		case entity.BookingStatusCompleted:
			return current == entity.BookingStatusConfirmed || current == entity.BookingStatusPending
		}
	case entity.RoleBusiness:
		switch target {
		case entity.BookingStatusConfirmed, entity.BookingStatusCancelled:
			return current == entity.BookingStatusPending
		}
	case entity.RoleAdmin:
		if target == entity.BookingStatusCancelled {
			return current != entity.BookingStatusCompleted
		}
	}
	return false
}

// settlePayout transfers the booking proceeds to the provider's connected
// account. The is_transferred flag is claimed with a conditional update
// before the gateway call, so concurrent completion attempts issue at most
// one transfer.
func (s *bookingService) settlePayout(ctx context.Context, booking *entity.Booking) {
	if booking.PaymentMethod != entity.PaymentMethodOnline ||
		booking.PaymentStatus != entity.PaymentStatusPaid ||
		booking.IsTransferred ||
		booking.TransactionID == nil {
		return
	}

	profile, err := s.repo.Provider.FindByUserID(ctx, booking.ProviderID)
	if err != nil || profile == nil || profile.StripeAccountID == nil {
		s.log.Error("Payout skipped, provider has no payout account",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("provider_id", booking.ProviderID.String()),
		)
		return
	}

	fee := booking.StripeFeeAmount
	if fee == 0 {
		fee, err = s.gateway.RetrieveChargeFee(ctx, *booking.TransactionID)
		if err != nil {
			s.log.Error("Failed to retrieve gateway fee",
				zap.Error(err),
				zap.String("booking_id", booking.ID.String()),
			)
			return
		}
		if err := s.repo.Booking.SetStripeFee(ctx, booking.ID, fee); err != nil {
			s.log.Error("Failed to cache gateway fee", zap.Error(err), zap.String("booking_id", booking.ID.String()))
		}
	}

	claimed, err := s.repo.Booking.MarkTransferred(ctx, booking.ID)
	if err != nil {
		s.log.Error("Failed to claim payout guard", zap.Error(err), zap.String("booking_id", booking.ID.String()))
		return
	}
	if !claimed {
		s.log.Info("Payout already issued", zap.String("booking_id", booking.ID.String()))
		return
	}

	payout := utils.ToMinorUnits(booking.TotalAmount) - fee
	transferID, err := s.gateway.TransferFunds(ctx, *profile.StripeAccountID, payout, booking.ID)
	if err != nil {
		// The guard stays set: a payout whose outcome is unknown must not
		// be retried blindly. Reconciliation is manual.
		s.log.Error("Funds transfer failed",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.Int64("payout_minor", payout),
		)
		return
	}

	s.log.Info("Payout issued",
		zap.String("booking_id", booking.ID.String()),
		zap.String("transfer_id", transferID),
		zap.Int64("payout_minor", payout),
		zap.Int64("fee_minor", fee),
	)
}

func (s *bookingService) refundIfPaid(ctx context.Context, booking *entity.Booking) {
	if booking.PaymentMethod != entity.PaymentMethodOnline ||
		booking.PaymentStatus != entity.PaymentStatusPaid ||
		booking.TransactionID == nil {
		return
	}

	if err := s.gateway.Refund(ctx, *booking.TransactionID); err != nil {
		s.log.Error("Refund request failed",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("transaction_id", *booking.TransactionID),
		)
		return
	}

	s.log.Info("Refund requested",
		zap.String("booking_id", booking.ID.String()),
		zap.String("transaction_id", *booking.TransactionID),
	)
}

func (s *bookingService) notifyTransition(ctx context.Context, booking *entity.Booking, target entity.BookingStatus, actorRole string) {
	refID := booking.ID
	message := fmt.Sprintf("Booking for %s %s-%s is now %s", booking.Date, booking.StartTime, booking.EndTime, target)

	// The counterparty of whoever acted gets the notification.
	if actorRole == entity.RoleBusiness || actorRole == entity.RoleAdmin {
		s.notifier.Notify(ctx, booking.UserID, entity.NotificationTypeClient, "Booking update", message, &refID)
	}
	if actorRole == entity.RoleClient || actorRole == entity.RoleAdmin {
		s.notifier.Notify(ctx, booking.ProviderID, entity.NotificationTypeBusiness, "Booking update", message, &refID)
	}
}

func (s *bookingService) DeleteBooking(ctx context.Context, bookingID uuid.UUID) error {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		return fmt.Errorf("%w: booking %s", ErrNotFound, bookingID.String())
	}

	return s.repo.Booking.Delete(ctx, bookingID)
}
