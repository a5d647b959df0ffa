package repository

import (
	"context"
	"fmt"

	"marketplace-booking/internal/data/entity"
	"marketplace-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	FindByServiceID(ctx context.Context, serviceID uuid.UUID, limit, offset int) ([]*entity.Review, error)
	CountByServiceID(ctx context.Context, serviceID uuid.UUID) (int64, error)
	AggregateByServiceID(ctx context.Context, serviceID uuid.UUID) (int, float64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (id, service_id, client_id, business_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		review.ID,
		review.ServiceID,
		review.ClientID,
		review.BusinessID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("service_id", review.ServiceID.String()),
			zap.String("client_id", review.ClientID.String()),
		)
		return fmt.Errorf("create review for service %s: %w", review.ServiceID.String(), err)
	}

	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	query := `
		SELECT id, service_id, client_id, business_id, rating, comment, created_at
		FROM reviews
		WHERE id = $1
	`

	var review entity.Review
	err := r.db.QueryRow(ctx, query, id).Scan(
		&review.ID,
		&review.ServiceID,
		&review.ClientID,
		&review.BusinessID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by ID",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return nil, fmt.Errorf("find review by ID %s: %w", id.String(), err)
	}

	return &review, nil
}

func (r *reviewRepository) FindByServiceID(ctx context.Context, serviceID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	query := `
		SELECT id, service_id, client_id, business_id, rating, comment, created_at
		FROM reviews
		WHERE service_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, serviceID, limit, offset)
	if err != nil {
		r.log.Error("Failed to query reviews", zap.Error(err))
		return nil, fmt.Errorf("query reviews for service %s: %w", serviceID.String(), err)
	}
	defer rows.Close()

	var reviews []*entity.Review
	for rows.Next() {
		var review entity.Review
		err := rows.Scan(
			&review.ID,
			&review.ServiceID,
			&review.ClientID,
			&review.BusinessID,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, &review)
	}

	return reviews, nil
}

func (r *reviewRepository) CountByServiceID(ctx context.Context, serviceID uuid.UUID) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM reviews WHERE service_id = $1`
	if err := r.db.QueryRow(ctx, query, serviceID).Scan(&count); err != nil {
		r.log.Error("Failed to count reviews", zap.Error(err))
		return 0, fmt.Errorf("count reviews for service %s: %w", serviceID.String(), err)
	}
	return count, nil
}

func (r *reviewRepository) AggregateByServiceID(ctx context.Context, serviceID uuid.UUID) (int, float64, error) {
	query := `SELECT COUNT(*), COALESCE(AVG(rating), 0) FROM reviews WHERE service_id = $1`

	var total int
	var average float64
	if err := r.db.QueryRow(ctx, query, serviceID).Scan(&total, &average); err != nil {
		r.log.Error("Failed to aggregate reviews",
			zap.Error(err),
			zap.String("service_id", serviceID.String()),
		)
		return 0, 0, fmt.Errorf("aggregate reviews for service %s: %w", serviceID.String(), err)
	}

	return total, average, nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM reviews WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete review",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return fmt.Errorf("delete review %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s not found", id.String())
	}

	return nil
}
