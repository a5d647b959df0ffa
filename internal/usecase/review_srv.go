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

type ReviewService interface {
	CreateReview(ctx context.Context, clientID uuid.UUID, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	GetServiceReviews(ctx context.Context, serviceID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	DeleteReview(ctx context.Context, actorID uuid.UUID, role string, reviewID uuid.UUID) error
}

type reviewService struct {
	repo *repository.Repository
	txm  TxManager
	log  *zap.Logger
}

func NewReviewService(repo *repository.Repository, txm TxManager, log *zap.Logger) ReviewService {
	return &reviewService{
		repo: repo,
		txm:  txm,
		log:  log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) CreateReview(ctx context.Context, clientID uuid.UUID, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
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
	if service == nil {
		return nil, fmt.Errorf("%w: service %s", ErrNotFound, req.ServiceID)
	}

	review := &entity.Review{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		ServiceID:  serviceID,
		ClientID:   clientID,
		BusinessID: service.ProviderID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}

	// Insert and aggregate recompute are one unit so the stored average
	// never drifts from the review rows.
	err = s.txm.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.repo.Review.Create(txCtx, review); err != nil {
			return err
		}
		total, average, err := s.repo.Review.AggregateByServiceID(txCtx, serviceID)
		if err != nil {
			return err
		}
		return s.repo.Service.UpdateRating(txCtx, serviceID, total, average)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("service_id", serviceID.String()),
		zap.Int("rating", req.Rating),
	)

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) GetServiceReviews(ctx context.Context, serviceID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	reviews, err := s.repo.Review.FindByServiceID(ctx, serviceID, req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Review.CountByServiceID(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(response.ReviewsToResponse(reviews), req.Page, req.Limit(), total), nil
}

func (s *reviewService) DeleteReview(ctx context.Context, actorID uuid.UUID, role string, reviewID uuid.UUID) error {
	review, err := s.repo.Review.FindByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review == nil {
		return fmt.Errorf("%w: review %s", ErrNotFound, reviewID.String())
	}
	if role != entity.RoleAdmin && review.ClientID != actorID {
		return fmt.Errorf("%w: review belongs to another client", ErrForbidden)
	}

	serviceID := review.ServiceID
	return s.txm.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.repo.Review.Delete(txCtx, reviewID); err != nil {
			return err
		}
		total, average, err := s.repo.Review.AggregateByServiceID(txCtx, serviceID)
		if err != nil {
			return err
		}
		return s.repo.Service.UpdateRating(txCtx, serviceID, total, average)
	})
}
