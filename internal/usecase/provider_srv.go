package usecase

import (
	"context"
	"fmt"

	"marketplace-booking/internal/data/entity"
	"marketplace-booking/internal/data/repository"
	"marketplace-booking/internal/dto/request"
	"marketplace-booking/internal/dto/response"
	"marketplace-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProviderService interface {
	GetBusinessHours(ctx context.Context, providerID uuid.UUID) (*response.BusinessHoursResponse, error)
	UpdateBusinessHours(ctx context.Context, providerID uuid.UUID, req *request.UpdateBusinessHoursRequest) (*response.BusinessHoursResponse, error)
}

type providerService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewProviderService(repo *repository.Repository, log *zap.Logger) ProviderService {
	return &providerService{
		repo: repo,
		log:  log.With(zap.String("service", "provider")),
	}
}

func (s *providerService) GetBusinessHours(ctx context.Context, providerID uuid.UUID) (*response.BusinessHoursResponse, error) {
	profile, err := s.repo.Provider.FindByUserID(ctx, providerID)
	if err != nil {
		return nil, err
	}

	hours := entity.BusinessHours{}
	if profile != nil && profile.BusinessHours != nil {
		hours = profile.BusinessHours
	}

	return &response.BusinessHoursResponse{BusinessHours: hours}, nil
}

var weekdays = map[string]struct{}{
	"monday": {}, "tuesday": {}, "wednesday": {}, "thursday": {},
	"friday": {}, "saturday": {}, "sunday": {},
}

func (s *providerService) UpdateBusinessHours(ctx context.Context, providerID uuid.UUID, req *request.UpdateBusinessHoursRequest) (*response.BusinessHoursResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	hours := make(entity.BusinessHours, len(req.BusinessHours))
	for day, window := range req.BusinessHours {
		if _, ok := weekdays[day]; !ok {
			return nil, fmt.Errorf("%w: unknown weekday %q", ErrInvalidInput, day)
		}

		from, err := utils.ParseClock(window.From)
		if err != nil {
			return nil, fmt.Errorf("%w: opening time %q for %s", ErrInvalidInput, window.From, day)
		}
		to, err := utils.ParseClock(window.To)
		if err != nil {
			return nil, fmt.Errorf("%w: closing time %q for %s", ErrInvalidInput, window.To, day)
		}
		// from == to == 00:00 is the closed marker, anything else must
		// be a forward window.
		if from > to || (from == to && from != 0) {
			return nil, fmt.Errorf("%w: opening must precede closing for %s", ErrInvalidInput, day)
		}

		hours[day] = entity.DayHours{From: window.From, To: window.To}
	}

	if err := s.repo.Provider.UpsertBusinessHours(ctx, providerID, hours); err != nil {
		return nil, err
	}

	s.log.Info("Business hours updated",
		zap.String("provider_id", providerID.String()),
		zap.Int("days", len(hours)),
	)

	return &response.BusinessHoursResponse{BusinessHours: hours}, nil
}
