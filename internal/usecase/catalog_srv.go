package usecase

import (
	"context"
	"fmt"
	"iter"
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

type CatalogService interface {
	CreateService(ctx context.Context, providerID uuid.UUID, req *request.CreateServiceRequest) (*response.ServiceResponse, error)
	GetServices(ctx context.Context, search string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ServiceResponse], error)
	GetServiceByID(ctx context.Context, serviceID uuid.UUID) (*response.ServiceResponse, error)
	GetProviderServices(ctx context.Context, providerID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ServiceResponse], error)
	UpdateService(ctx context.Context, providerID, serviceID uuid.UUID, req *request.UpdateServiceRequest) (*response.ServiceResponse, error)
	DeleteService(ctx context.Context, providerID uuid.UUID, serviceID uuid.UUID) error
	AvailableSlots(ctx context.Context, serviceID uuid.UUID, date string) ([]response.SlotResponse, error)
}

type catalogService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCatalogService(repo *repository.Repository, log *zap.Logger) CatalogService {
	return &catalogService{
		repo: repo,
		log:  log.With(zap.String("service", "catalog")),
	}
}

func (s *catalogService) CreateService(ctx context.Context, providerID uuid.UUID, req *request.CreateServiceRequest) (*response.ServiceResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	if _, err := utils.ParseDuration(req.Duration); err != nil {
		return nil, fmt.Errorf("%w: duration %q", ErrInvalidInput, req.Duration)
	}

	now := time.Now()
	service := &entity.Service{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		ProviderID:        providerID,
		Name:              req.Name,
		Description:       req.Description,
		Price:             req.Price,
		Duration:          req.Duration,
		MaxBookingsPerDay: req.MaxBookingsPerDay,
		IsActive:          true,
	}

	if err := s.repo.Service.Create(ctx, service); err != nil {
		return nil, err
	}

	s.log.Info("Service created",
		zap.String("service_id", service.ID.String()),
		zap.String("provider_id", providerID.String()),
		zap.String("name", req.Name),
	)

	resp := response.ServiceToResponse(service)
	return &resp, nil
}

func (s *catalogService) GetServices(ctx context.Context, search string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ServiceResponse], error) {
	services, err := s.repo.Service.FindAll(ctx, search, req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Service.CountAll(ctx, search)
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(response.ServicesToResponse(services), req.Page, req.Limit(), total), nil
}

func (s *catalogService) GetServiceByID(ctx context.Context, serviceID uuid.UUID) (*response.ServiceResponse, error) {
	service, err := s.repo.Service.FindByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, fmt.Errorf("%w: service %s", ErrNotFound, serviceID.String())
	}

	resp := response.ServiceToResponse(service)
	return &resp, nil
}

func (s *catalogService) GetProviderServices(ctx context.Context, providerID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ServiceResponse], error) {
	services, err := s.repo.Service.FindByProviderID(ctx, providerID, req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Service.CountByProviderID(ctx, providerID)
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(response.ServicesToResponse(services), req.Page, req.Limit(), total), nil
}

func (s *catalogService) UpdateService(ctx context.Context, providerID, serviceID uuid.UUID, req *request.UpdateServiceRequest) (*response.ServiceResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	service, err := s.repo.Service.FindByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, fmt.Errorf("%w: service %s", ErrNotFound, serviceID.String())
	}
	if service.ProviderID != providerID {
		return nil, fmt.Errorf("%w: service belongs to another provider", ErrForbidden)
	}

	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.Price != nil {
		service.Price = *req.Price
	}
	if req.Duration != nil {
		if _, err := utils.ParseDuration(*req.Duration); err != nil {
			return nil, fmt.Errorf("%w: duration %q", ErrInvalidInput, *req.Duration)
		}
		service.Duration = *req.Duration
	}
	if req.MaxBookingsPerDay != nil {
		service.MaxBookingsPerDay = *req.MaxBookingsPerDay
	}
	if req.IsActive != nil {
		service.IsActive = *req.IsActive
	}

	if err := s.repo.Service.Update(ctx, service); err != nil {
		return nil, err
	}

	resp := response.ServiceToResponse(service)
	return &resp, nil
}

func (s *catalogService) DeleteService(ctx context.Context, providerID uuid.UUID, serviceID uuid.UUID) error {
	service, err := s.repo.Service.FindByID(ctx, serviceID)
	if err != nil {
		return err
	}
	if service == nil {
		return fmt.Errorf("%w: service %s", ErrNotFound, serviceID.String())
	}
	if service.ProviderID != providerID {
		return fmt.Errorf("%w: service belongs to another provider", ErrForbidden)
	}

	return s.repo.Service.Delete(ctx, serviceID)
}

// AvailableSlots lists fixed-width slots for a service on a date, each
// tagged available or booked. A closed day yields an empty list.
func (s *catalogService) AvailableSlots(ctx context.Context, serviceID uuid.UUID, date string) ([]response.SlotResponse, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("%w: date %q", ErrInvalidInput, date)
	}

	service, err := s.repo.Service.FindByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, fmt.Errorf("%w: service %s", ErrNotFound, serviceID.String())
	}

	profile, err := s.repo.Provider.FindByUserID(ctx, service.ProviderID)
	if err != nil {
		return nil, err
	}
	if profile == nil || profile.BusinessHours == nil {
		return []response.SlotResponse{}, nil
	}

	weekday := strings.ToLower(day.Weekday().String())
	hours, open := profile.BusinessHours.Open(weekday)
	if !open {
		return []response.SlotResponse{}, nil
	}

	openMin, err := utils.ParseClock(hours.From)
	if err != nil {
		return nil, fmt.Errorf("%w: business hours %q", ErrUpstream, hours.From)
	}
	closeMin, err := utils.ParseClock(hours.To)
	if err != nil {
		return nil, fmt.Errorf("%w: business hours %q", ErrUpstream, hours.To)
	}

	durationMin, err := utils.ParseDuration(service.Duration)
	if err != nil {
		// A service with a broken duration is a configuration fault, not
		// an empty schedule.
		s.log.Error("Service has unparseable duration",
			zap.String("service_id", serviceID.String()),
			zap.String("duration", service.Duration),
		)
		return nil, fmt.Errorf("%w: service duration %q", ErrUpstream, service.Duration)
	}

	bookings, err := s.repo.Booking.FindActiveByServiceAndDate(ctx, serviceID, date)
	if err != nil {
		return nil, err
	}

	bookedStarts := make(map[string]struct{}, len(bookings))
	for _, booking := range bookings {
		bookedStarts[booking.StartTime] = struct{}{}
	}

	var slots []response.SlotResponse
	for start := range slotStarts(openMin, closeMin, durationMin) {
		slot := response.SlotResponse{
			StartTime: utils.FormatClock(start),
			EndTime:   utils.FormatClock(start + durationMin),
			Status:    response.SlotAvailable,
		}
		if _, taken := bookedStarts[slot.StartTime]; taken {
			slot.Status = response.SlotBooked
		}
		slots = append(slots, slot)
	}

	return slots, nil
}

// slotStarts yields slot start offsets (minutes since midnight) packed
// back to back from open, while a full slot still fits before close.
func slotStarts(openMin, closeMin, durationMin int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if durationMin <= 0 {
			return
		}
		for start := openMin; start+durationMin <= closeMin; start += durationMin {
			if !yield(start) {
				return
			}
		}
	}
}
