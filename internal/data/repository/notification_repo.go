package repository

import (
	"context"
	"fmt"

	"marketplace-booking/internal/data/entity"
	"marketplace-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	FindByReceiverID(ctx context.Context, receiverID uuid.UUID, limit, offset int) ([]*entity.Notification, error)
	CountByReceiverID(ctx context.Context, receiverID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id, receiverID uuid.UUID) error
	MarkAllRead(ctx context.Context, receiverID uuid.UUID) error
}

type notificationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewNotificationRepository(db database.PgxIface, log *zap.Logger) NotificationRepository {
	return &notificationRepository{
		db:  db,
		log: log.With(zap.String("repository", "notification")),
	}
}

func (r *notificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	query := `
		INSERT INTO notifications (id, receiver_id, title, message, type, reference_id, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		notification.ID,
		notification.ReceiverID,
		notification.Title,
		notification.Message,
		notification.Type,
		notification.ReferenceID,
		notification.Read,
		notification.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create notification",
			zap.Error(err),
			zap.String("receiver_id", notification.ReceiverID.String()),
		)
		return fmt.Errorf("create notification for %s: %w", notification.ReceiverID.String(), err)
	}

	return nil
}

func (r *notificationRepository) FindByReceiverID(ctx context.Context, receiverID uuid.UUID, limit, offset int) ([]*entity.Notification, error) {
	query := `
		SELECT id, receiver_id, title, message, type, reference_id, read, created_at
		FROM notifications
		WHERE receiver_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, receiverID, limit, offset)
	if err != nil {
		r.log.Error("Failed to query notifications", zap.Error(err))
		return nil, fmt.Errorf("query notifications for %s: %w", receiverID.String(), err)
	}
	defer rows.Close()

	var notifications []*entity.Notification
	for rows.Next() {
		var notification entity.Notification
		err := rows.Scan(
			&notification.ID,
			&notification.ReceiverID,
			&notification.Title,
			&notification.Message,
			&notification.Type,
			&notification.ReferenceID,
			&notification.Read,
			&notification.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan notification row", zap.Error(err))
			return nil, fmt.Errorf("scan notification row: %w", err)
		}
		notifications = append(notifications, &notification)
	}

	return notifications, nil
}

func (r *notificationRepository) CountByReceiverID(ctx context.Context, receiverID uuid.UUID) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM notifications WHERE receiver_id = $1`
	if err := r.db.QueryRow(ctx, query, receiverID).Scan(&count); err != nil {
		r.log.Error("Failed to count notifications", zap.Error(err))
		return 0, fmt.Errorf("count notifications for %s: %w", receiverID.String(), err)
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, receiverID uuid.UUID) error {
	query := `UPDATE notifications SET read = TRUE WHERE id = $1 AND receiver_id = $2`

	result, err := r.db.Exec(ctx, query, id, receiverID)
	if err != nil {
		r.log.Error("Failed to mark notification read",
			zap.Error(err),
			zap.String("notification_id", id.String()),
		)
		return fmt.Errorf("mark notification %s read: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("notification %s not found", id.String())
	}

	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, receiverID uuid.UUID) error {
	query := `UPDATE notifications SET read = TRUE WHERE receiver_id = $1 AND read = FALSE`

	_, err := r.db.Exec(ctx, query, receiverID)
	if err != nil {
		r.log.Error("Failed to mark all notifications read",
			zap.Error(err),
			zap.String("receiver_id", receiverID.String()),
		)
		return fmt.Errorf("mark all notifications read for %s: %w", receiverID.String(), err)
	}

	return nil
}
