package usecase

import (
	"context"
	"fmt"
	"time"

	"marketplace-booking/internal/data/entity"
	"marketplace-booking/internal/data/repository"
	"marketplace-booking/internal/dto/request"
	"marketplace-booking/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type NotificationService interface {
	Notifier
	GetNotifications(ctx context.Context, receiverID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.NotificationResponse], error)
	MarkRead(ctx context.Context, receiverID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, receiverID uuid.UUID) error
}

type notificationService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewNotificationService(repo *repository.Repository, log *zap.Logger) NotificationService {
	return &notificationService{
		repo: repo,
		log:  log.With(zap.String("service", "notification")),
	}
}

// Notify is fire-and-forget: a delivery failure is logged, never returned.
func (s *notificationService) Notify(ctx context.Context, receiverID uuid.UUID, notificationType entity.NotificationType, title, message string, referenceID *uuid.UUID) {
	notification := &entity.Notification{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		ReceiverID:  receiverID,
		Title:       title,
		Message:     message,
		Type:        notificationType,
		ReferenceID: referenceID,
	}

	if err := s.repo.Notification.Create(ctx, notification); err != nil {
		s.log.Error("Failed to deliver notification",
			zap.Error(err),
			zap.String("receiver_id", receiverID.String()),
			zap.String("title", title),
		)
	}
}

func (s *notificationService) GetNotifications(ctx context.Context, receiverID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.NotificationResponse], error) {
	notifications, err := s.repo.Notification.FindByReceiverID(ctx, receiverID, req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Notification.CountByReceiverID(ctx, receiverID)
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(response.NotificationsToResponse(notifications), req.Page, req.Limit(), total), nil
}

func (s *notificationService) MarkRead(ctx context.Context, receiverID, notificationID uuid.UUID) error {
	if err := s.repo.Notification.MarkRead(ctx, notificationID, receiverID); err != nil {
		return fmt.Errorf("%w: notification %s", ErrNotFound, notificationID.String())
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, receiverID uuid.UUID) error {
	return s.repo.Notification.MarkAllRead(ctx, receiverID)
}
